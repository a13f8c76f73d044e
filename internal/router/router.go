package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/handler"
	"github.com/ashwinyue/next-mentor/internal/middleware"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, parser middleware.TokenParser, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.AuthMiddleware(parser))

	// 健康检查
	r.GET("/health", h.System.Health)

	// API v1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.System.Health)

		// Auth 认证
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", h.Auth.IssueToken)
			authGroup.GET("/me", h.Auth.Me)
		}

		// Session 会话
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", h.Chat.CreateSession)
			sessions.GET("", h.Chat.ListSessions)
			sessions.GET("/:id", h.Chat.GetSession)
			sessions.PUT("/:id/status", h.Chat.UpdateStatus)
			sessions.POST("/:id/messages", h.Chat.SendMessage)
			sessions.GET("/:id/messages", h.Chat.GetMessages)
			sessions.GET("/:id/context", h.Chat.GetContext)
			sessions.POST("/:id/student-messages", h.Reply.HandleStudentMessage)
			sessions.POST("/:id/replies", h.Reply.GenerateReply)
			sessions.POST("/:id/replies/queue", h.Reply.GenerateReplyWithApproval)
			sessions.POST("/:id/nudges", h.Reply.DeliverNudge)
		}

		// Mentor 导师
		mentors := v1.Group("/mentors")
		{
			mentors.POST("/:id/style", h.Mentor.AnalyzeStyle)
			mentors.GET("/:id/style", h.Mentor.GetStyle)
			mentors.GET("/:id/style/history", h.Mentor.GetStyleHistory)
			mentors.POST("/:id/style/persona", h.Mentor.AnalyzePersona)
			mentors.POST("/:id/nudges", h.Mentor.GenerateNudge)
			mentors.POST("/:id/exams", h.Mentor.SimulateExam)
			mentors.PUT("/:id/presence", h.Mentor.SetPresence)
			mentors.GET("/:id/presence", h.Mentor.GetPresence)
			mentors.POST("/:id/demo", h.Mentor.LoadDemo)
			mentors.GET("/:id/queue", h.Mentor.ListQueue)
		}

		v1.GET("/personas", h.Mentor.ListPersonas)

		// Queue 审核队列
		queue := v1.Group("/queue")
		{
			queue.GET("/:id", h.Queue.GetEntry)
			queue.POST("/:id/approve", h.Queue.Approve)
			queue.POST("/:id/reject", h.Queue.Reject)
		}
	}

	return r
}
