package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/middleware"
	"github.com/ashwinyue/next-mentor/internal/service"
	"github.com/ashwinyue/next-mentor/internal/service/auth"
)

// Handlers 处理器集合
type Handlers struct {
	Auth   *AuthHandler
	Chat   *ChatHandler
	Reply  *ReplyHandler
	Mentor *MentorHandler
	Queue  *QueueHandler
	System *SystemHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:   NewAuthHandler(svc),
		Chat:   NewChatHandler(svc),
		Reply:  NewReplyHandler(svc),
		Mentor: NewMentorHandler(svc),
		Queue:  NewQueueHandler(svc),
		System: NewSystemHandler(svc),
	}
}

// bindOptionalJSON 请求体可以为空
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// mentorFromIdentity 以导师身份认证时返回其 ID
func mentorFromIdentity(c *gin.Context) string {
	identity, ok := middleware.GetIdentity(c)
	if !ok || identity.Role != auth.RoleMentor {
		return ""
	}
	return identity.UserID
}

// resolveMentor 认证的导师身份优先，没有时才使用请求中的 mentor_id
func resolveMentor(c *gin.Context, requested string) string {
	if id := mentorFromIdentity(c); id != "" {
		return id
	}
	return requested
}
