// Package repository 定义数据访问接口
// 接口抽象使依赖注入和单元测试成为可能
package repository

import (
	"context"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// ChatStore 会话与消息数据访问接口
type ChatStore interface {
	CreateSession(ctx context.Context, studentID, mentorID string) (*model.ChatSession, error)
	GetSession(ctx context.Context, id string) (*model.ChatSession, error)
	ListSessions(ctx context.Context, filter SessionFilter, offset, limit int) ([]*model.ChatSession, int64, error)
	UpdateSessionStatus(ctx context.Context, id string, status model.SessionStatus) (*model.ChatSession, error)

	AddMessage(ctx context.Context, in NewMessage) (*model.Message, error)
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	GetSessionMessages(ctx context.Context, sessionID string) ([]*model.Message, error)
	GetSessionContext(ctx context.Context, sessionID string) (string, error)
}

// StyleStore 风格档案数据访问接口
type StyleStore interface {
	SaveMentorStyle(ctx context.Context, mentorID string, profile model.StyleProfile, samples []string, confidence float64) (*model.MentorStyle, error)
	GetMentorStyle(ctx context.Context, mentorID string) (*model.MentorStyle, error)
	ListMentorStyles(ctx context.Context, mentorID string) ([]*model.MentorStyle, error)
}

// QueueStore 审核队列数据访问接口
type QueueStore interface {
	AddAIResponseToQueue(ctx context.Context, sessionID, studentMessageID, response string) (*model.AIResponseQueueEntry, error)
	GetQueueEntry(ctx context.Context, id string) (*model.AIResponseQueueEntry, error)
	GetPendingAIResponses(ctx context.Context, mentorID string) ([]*model.PendingResponse, error)
	ApproveAIResponse(ctx context.Context, queueID, mentorID string) (*model.AIResponseQueueEntry, *model.Message, error)
	RejectAIResponse(ctx context.Context, queueID string) (*model.AIResponseQueueEntry, error)
}

var (
	_ ChatStore  = (*ChatRepository)(nil)
	_ StyleStore = (*StyleRepository)(nil)
	_ QueueStore = (*QueueRepository)(nil)
)
