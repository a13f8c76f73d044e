package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/middleware"
	"github.com/ashwinyue/next-mentor/internal/service"
	"github.com/ashwinyue/next-mentor/internal/service/auth"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.Services
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *service.Services) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// IssueToken 签发访问令牌
// POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req auth.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid parameters: "+err.Error())
		return
	}

	resp, err := h.svc.Auth.IssueToken(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	Created(c, resp)
}

// Me 返回当前调用方身份
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		Unauthorized(c, "Missing credentials")
		return
	}
	Success(c, identity)
}
