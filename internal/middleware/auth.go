package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service/auth"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// TokenParser 解析访问令牌
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*auth.Identity, error)
}

// AuthMiddleware 认证中间件
// 优先使用有效的 Bearer Token，否则使用 X-User-ID 请求头；两者都没有时为匿名请求
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && parser != nil {
			identity, err := parser.ParseToken(c.Request.Context(), strings.TrimSpace(token))
			if err == nil {
				setIdentity(c, identity)
				c.Next()
				return
			}
			// Token 无效，继续尝试其他方式
		}

		if userID := strings.TrimSpace(c.GetHeader("X-User-ID")); userID != "" {
			setIdentity(c, &auth.Identity{UserID: userID})
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity *auth.Identity) {
	c.Set(identityKey, identity)
	c.Set(userIDKey, identity.UserID)
}

// GetIdentity 从上下文获取调用方身份
func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
