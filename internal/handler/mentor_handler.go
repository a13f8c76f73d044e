package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service"
	"github.com/ashwinyue/next-mentor/internal/service/chat"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

// MentorHandler 导师风格、提醒、在线状态与审核队列处理器
type MentorHandler struct {
	svc *service.Services
}

// NewMentorHandler 创建导师处理器
func NewMentorHandler(svc *service.Services) *MentorHandler {
	return &MentorHandler{svc: svc}
}

// AnalyzeStyleRequest 风格分析请求
type AnalyzeStyleRequest struct {
	Samples []string `json:"samples" binding:"required"`
}

// AnalyzePersonaRequest 人设风格分析请求
type AnalyzePersonaRequest struct {
	Persona string `json:"persona" binding:"required"`
}

// NudgeRequest 主动提醒请求
type NudgeRequest struct {
	Event string `json:"event" binding:"required"`
}

// ExamRequest 模拟考试请求
// SessionID 不为空时提醒写入该会话
type ExamRequest struct {
	ExamType  string `json:"exam_type" binding:"required"`
	StudentID string `json:"student_id"`
	SessionID string `json:"session_id"`
}

// PresenceRequest 在线状态请求
type PresenceRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// AnalyzeStyle 分析样例消息并保存风格档案
// POST /api/v1/mentors/:id/style
func (h *MentorHandler) AnalyzeStyle(c *gin.Context) {
	var req AnalyzeStyleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	analysis, err := h.svc.Style.AnalyzeStyle(c.Request.Context(), c.Param("id"), req.Samples)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, analysis)
}

// AnalyzePersona 使用内置人设的样例分析风格
// POST /api/v1/mentors/:id/style/persona
func (h *MentorHandler) AnalyzePersona(c *gin.Context) {
	var req AnalyzePersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	analysis, err := h.svc.Style.AnalyzePersona(c.Request.Context(), c.Param("id"), req.Persona)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, analysis)
}

// GetStyle 获取最新风格档案
func (h *MentorHandler) GetStyle(c *gin.Context) {
	profile, err := h.svc.Style.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, profile)
}

// GetStyleHistory 获取全部历史风格档案
func (h *MentorHandler) GetStyleHistory(c *gin.Context) {
	styles, err := h.svc.Style.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"items": styles})
}

// ListPersonas 列出内置人设
func (h *MentorHandler) ListPersonas(c *gin.Context) {
	Success(c, gin.H{"items": persona.Names()})
}

// GenerateNudge 生成主动提醒
// POST /api/v1/mentors/:id/nudges
func (h *MentorHandler) GenerateNudge(c *gin.Context) {
	var req NudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	result, err := h.svc.Generation.GenerateNudge(c.Request.Context(), c.Param("id"), req.Event)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// SimulateExam 模拟学生考试并生成提醒
// POST /api/v1/mentors/:id/exams
func (h *MentorHandler) SimulateExam(c *gin.Context) {
	var req ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	nudge, err := h.svc.Generation.SimulateExam(c.Request.Context(), c.Param("id"), req.ExamType, req.StudentID, req.SessionID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, nudge)
}

// SetPresence 设置导师在线状态
// PUT /api/v1/mentors/:id/presence
func (h *MentorHandler) SetPresence(c *gin.Context) {
	var req PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	status, err := h.svc.Presence.SetStatus(c.Request.Context(), c.Param("id"), *req.Online)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, status)
}

// GetPresence 获取导师在线状态
func (h *MentorHandler) GetPresence(c *gin.Context) {
	status, err := h.svc.Presence.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, status)
}

// LoadDemo 加载演示对话
// POST /api/v1/mentors/:id/demo
func (h *MentorHandler) LoadDemo(c *gin.Context) {
	var req chat.LoadDemoRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	demo, err := h.svc.Chat.LoadDemo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, demo)
}

// ListQueue 列出导师待审核的 AI 回复
// GET /api/v1/mentors/:id/queue
func (h *MentorHandler) ListQueue(c *gin.Context) {
	pending, err := h.svc.Approval.Pending(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"items": pending, "total": len(pending)})
}
