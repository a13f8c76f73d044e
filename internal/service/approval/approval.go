// Package approval AI 回复审核队列
//
// 状态机：pending -> sent | rejected，sent 与 rejected 为终态。
// 审核通过时，在同一事务内将回复写入会话。
package approval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/model"
	"github.com/ashwinyue/next-mentor/internal/repository"
)

// Decision 审核通过的结果
type Decision struct {
	Entry   *model.AIResponseQueueEntry `json:"entry"`
	Message *model.Message              `json:"message"`
}

// Engine 审核队列引擎
type Engine struct {
	store  repository.QueueStore
	logger *zap.Logger
}

// NewEngine 创建审核队列引擎
func NewEngine(store repository.QueueStore, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

// Enqueue 将生成的回复加入待审核队列
func (e *Engine) Enqueue(ctx context.Context, sessionID, studentMessageID, response string) (*model.AIResponseQueueEntry, error) {
	if strings.TrimSpace(response) == "" {
		return nil, fmt.Errorf("%w: response is empty", repository.ErrInvalidArgument)
	}
	entry, err := e.store.AddAIResponseToQueue(ctx, sessionID, studentMessageID, response)
	if err != nil {
		return nil, err
	}
	e.logger.Info("AI response queued",
		zap.String("queue_id", entry.ID),
		zap.String("session_id", sessionID),
		zap.String("student_message_id", studentMessageID))
	return entry, nil
}

// Pending 列出导师待审核的回复
func (e *Engine) Pending(ctx context.Context, mentorID string) ([]*model.PendingResponse, error) {
	return e.store.GetPendingAIResponses(ctx, mentorID)
}

// Get 获取队列记录
func (e *Engine) Get(ctx context.Context, queueID string) (*model.AIResponseQueueEntry, error) {
	return e.store.GetQueueEntry(ctx, queueID)
}

// Approve 审核通过并发送
func (e *Engine) Approve(ctx context.Context, queueID, mentorID string) (*Decision, error) {
	if mentorID == "" {
		return nil, fmt.Errorf("%w: mentor id is required", repository.ErrInvalidArgument)
	}

	entry, msg, err := e.store.ApproveAIResponse(ctx, queueID, mentorID)
	if err != nil {
		e.logger.Warn("Approve AI response failed",
			zap.String("queue_id", queueID),
			zap.String("mentor_id", mentorID),
			zap.Error(err))
		return nil, err
	}

	e.logger.Info("AI response approved",
		zap.String("queue_id", queueID),
		zap.String("mentor_id", mentorID),
		zap.String("message_id", msg.ID))
	return &Decision{Entry: entry, Message: msg}, nil
}

// Reject 拒绝回复
func (e *Engine) Reject(ctx context.Context, queueID string) (*model.AIResponseQueueEntry, error) {
	entry, err := e.store.RejectAIResponse(ctx, queueID)
	if err != nil {
		e.logger.Warn("Reject AI response failed", zap.String("queue_id", queueID), zap.Error(err))
		return nil, err
	}
	e.logger.Info("AI response rejected", zap.String("queue_id", queueID))
	return entry, nil
}
