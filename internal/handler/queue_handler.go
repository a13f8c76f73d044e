package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service"
)

// QueueHandler 审核队列处理器
type QueueHandler struct {
	svc *service.Services
}

// NewQueueHandler 创建审核队列处理器
func NewQueueHandler(svc *service.Services) *QueueHandler {
	return &QueueHandler{svc: svc}
}

// ApproveRequest 审核通过请求
// 以导师身份认证时忽略 MentorID
type ApproveRequest struct {
	MentorID string `json:"mentor_id"`
}

// GetEntry 获取队列记录
func (h *QueueHandler) GetEntry(c *gin.Context) {
	entry, err := h.svc.Approval.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, entry)
}

// Approve 审核通过并发送
// @Summary      审核通过
// @Description  pending 状态的回复写入会话并标记为 sent；已处理的回复返回 409
// @Tags         审核队列
// @Accept       json
// @Produce      json
// @Param        id       path      string          true   "队列ID"
// @Param        request  body      ApproveRequest  false  "审核导师"
// @Router       /queue/{id}/approve [post]
func (h *QueueHandler) Approve(c *gin.Context) {
	var req ApproveRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	decision, err := h.svc.Approval.Approve(c.Request.Context(), c.Param("id"), resolveMentor(c, req.MentorID))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, decision)
}

// Reject 拒绝回复
// POST /api/v1/queue/:id/reject
func (h *QueueHandler) Reject(c *gin.Context) {
	entry, err := h.svc.Approval.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, entry)
}
