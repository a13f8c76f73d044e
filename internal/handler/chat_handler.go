package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service"
	"github.com/ashwinyue/next-mentor/internal/service/chat"
)

// ChatHandler 会话与消息处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建会话处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// CreateSession 创建会话
// POST /api/v1/sessions
func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req chat.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	session, err := h.svc.Chat.CreateSession(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, session)
}

// GetSession 获取会话
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.svc.Chat.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, session)
}

// ListSessions 列出会话
// @Summary      列出会话
// @Description  按导师、学生或状态筛选，按最近活动时间倒序
// @Tags         会话管理
// @Produce      json
// @Param        mentor_id   query     string  false  "导师ID"
// @Param        student_id  query     string  false  "学生ID"
// @Param        status      query     string  false  "会话状态"
// @Param        page        query     int     false  "页码"  default(1)
// @Param        size        query     int     false  "每页数量"  default(20)
// @Router       /sessions [get]
func (h *ChatHandler) ListSessions(c *gin.Context) {
	var req chat.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	sessions, total, err := h.svc.Chat.ListSessions(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	SuccessWithPagination(c, sessions, total, req.Page, req.Size)
}

// UpdateStatus 修改会话状态
// PUT /api/v1/sessions/:id/status
func (h *ChatHandler) UpdateStatus(c *gin.Context) {
	var req chat.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	session, err := h.svc.Chat.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, session)
}

// SendMessage 发送人工消息
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req chat.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	message, err := h.svc.Chat.SendMessage(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, message)
}

// GetMessages 获取会话消息
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.svc.Chat.GetMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"messages": messages})
}

// GetContext 获取已审核消息组成的上下文文本
func (h *ChatHandler) GetContext(c *gin.Context) {
	text, err := h.svc.Chat.GetContext(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, gin.H{"context": text})
}
