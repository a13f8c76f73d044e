package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service"
)

// ReplyHandler AI 回复处理器
type ReplyHandler struct {
	svc *service.Services
}

// NewReplyHandler 创建回复处理器
func NewReplyHandler(svc *service.Services) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

// StudentMessageRequest 学生消息请求
type StudentMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReplyRequest 生成回复请求
// 认证的导师身份优先于 MentorID，两者都为空时使用会话所属导师
type ReplyRequest struct {
	MentorID string `json:"mentor_id"`
	Message  string `json:"message" binding:"required"`
}

// SessionNudgeRequest 会话内主动提醒请求
type SessionNudgeRequest struct {
	MentorID string `json:"mentor_id"`
	Event    string `json:"event" binding:"required"`
}

// HandleStudentMessage 学生发送消息，按导师在线状态直接回复或进入审核队列
// POST /api/v1/sessions/:id/student-messages
func (h *ReplyHandler) HandleStudentMessage(c *gin.Context) {
	var req StudentMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	outcome, err := h.svc.Generation.HandleStudentMessage(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, outcome)
}

// GenerateReply 生成回复，不保存任何内容
// POST /api/v1/sessions/:id/replies
func (h *ReplyHandler) GenerateReply(c *gin.Context) {
	sessionID := c.Param("id")
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	mentorID, err := h.mentorID(c, sessionID, req.MentorID)
	if err != nil {
		Error(c, err)
		return
	}

	result, err := h.svc.Generation.GenerateReply(c.Request.Context(), mentorID, req.Message, sessionID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, result)
}

// GenerateReplyWithApproval 生成回复并放入审核队列
// POST /api/v1/sessions/:id/replies/queue
func (h *ReplyHandler) GenerateReplyWithApproval(c *gin.Context) {
	sessionID := c.Param("id")
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	mentorID, err := h.mentorID(c, sessionID, req.MentorID)
	if err != nil {
		Error(c, err)
		return
	}

	outcome, err := h.svc.Generation.GenerateReplyWithApproval(c.Request.Context(), mentorID, req.Message, sessionID)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, gin.H{
		"queue_id": outcome.QueueID(),
		"outcome":  outcome,
	})
}

// DeliverNudge 生成提醒并写入会话
// POST /api/v1/sessions/:id/nudges
func (h *ReplyHandler) DeliverNudge(c *gin.Context) {
	sessionID := c.Param("id")
	var req SessionNudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	mentorID, err := h.mentorID(c, sessionID, req.MentorID)
	if err != nil {
		Error(c, err)
		return
	}

	nudge, err := h.svc.Generation.DeliverNudge(c.Request.Context(), mentorID, sessionID, req.Event)
	if err != nil {
		Error(c, err)
		return
	}

	if nudge.Message == nil {
		Success(c, nudge)
		return
	}
	Created(c, nudge)
}

func (h *ReplyHandler) mentorID(c *gin.Context, sessionID, requested string) (string, error) {
	if id := resolveMentor(c, requested); id != "" {
		return id, nil
	}
	session, err := h.svc.Chat.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		return "", err
	}
	return session.MentorID, nil
}
