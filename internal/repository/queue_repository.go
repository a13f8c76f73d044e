package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// QueueRepository AI 回复审核队列数据访问
type QueueRepository struct {
	db *gorm.DB
}

// NewQueueRepository 创建队列仓库
func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// AddAIResponseToQueue 将待审核的 AI 回复入队
// 学生消息必须属于该会话
func (r *QueueRepository) AddAIResponseToQueue(ctx context.Context, sessionID, studentMessageID, response string) (*model.AIResponseQueueEntry, error) {
	entry := &model.AIResponseQueueEntry{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		StudentMessageID:  studentMessageID,
		GeneratedResponse: response,
		Status:            model.QueueStatusPending,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&model.Message{}).
			Where("id = ? AND session_id = ?", studentMessageID, sessionID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: message %s not in session %s", ErrForeignKeyViolation, studentMessageID, sessionID)
		}

		entry.CreatedAt = timeNow()
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, translate("enqueue ai response", err)
	}
	return entry, nil
}

// GetQueueEntry 获取队列记录
func (r *QueueRepository) GetQueueEntry(ctx context.Context, id string) (*model.AIResponseQueueEntry, error) {
	var entry model.AIResponseQueueEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&entry).Error; err != nil {
		return nil, translate("get queue entry "+id, err)
	}
	return &entry, nil
}

// GetPendingAIResponses 获取导师名下所有待审核回复，最早入队的在前
func (r *QueueRepository) GetPendingAIResponses(ctx context.Context, mentorID string) ([]*model.PendingResponse, error) {
	pending := make([]*model.PendingResponse, 0)
	err := r.db.WithContext(ctx).
		Table("ai_response_queue AS q").
		Select("q.id, q.session_id, q.student_message_id, q.generated_response, q.status, q.created_at, "+
			"m.content AS student_message, s.student_id, s.mentor_id").
		Joins("JOIN messages m ON m.id = q.student_message_id").
		Joins("JOIN chat_sessions s ON s.id = q.session_id").
		Where("s.mentor_id = ? AND q.status = ?", mentorID, model.QueueStatusPending).
		Order("q.created_at ASC").
		Order("q.id ASC").
		Scan(&pending).Error
	if err != nil {
		return nil, translate("get pending ai responses", err)
	}
	return pending, nil
}

// ApproveAIResponse 审核通过
// 同一事务内将记录置为 sent 并写入会话消息；记录不属于该导师时视为不存在
func (r *QueueRepository) ApproveAIResponse(ctx context.Context, queueID, mentorID string) (*model.AIResponseQueueEntry, *model.Message, error) {
	var (
		entry model.AIResponseQueueEntry
		msg   *model.Message
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := timeNow()
		res := tx.Model(&model.AIResponseQueueEntry{}).
			Where("id = ? AND status = ?", queueID, model.QueueStatusPending).
			Updates(map[string]interface{}{
				"status":      model.QueueStatusSent,
				"approved_at": now,
				"sent_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyUnchanged(tx, queueID, mentorID)
		}

		if err := tx.Where("id = ?", queueID).Take(&entry).Error; err != nil {
			return err
		}

		var session model.ChatSession
		if err := tx.Where("id = ?", entry.SessionID).Take(&session).Error; err != nil {
			return err
		}
		if session.MentorID != mentorID {
			return fmt.Errorf("%w: queue entry %s for mentor %s", ErrNotFound, queueID, mentorID)
		}

		approvedBy := mentorID
		var err error
		msg, err = insertMessage(tx, NewMessage{
			SessionID:      entry.SessionID,
			SenderType:     model.SenderAI,
			Content:        entry.GeneratedResponse,
			IsAIGenerated:  true,
			ApprovalStatus: model.ApprovalApproved,
			ApprovedBy:     &approvedBy,
		}, now)
		return err
	})
	if err != nil {
		return nil, nil, translate("approve ai response "+queueID, err)
	}
	return &entry, msg, nil
}

// RejectAIResponse 拒绝回复，不写入会话消息
func (r *QueueRepository) RejectAIResponse(ctx context.Context, queueID string) (*model.AIResponseQueueEntry, error) {
	var entry model.AIResponseQueueEntry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AIResponseQueueEntry{}).
			Where("id = ? AND status = ?", queueID, model.QueueStatusPending).
			Update("status", model.QueueStatusRejected)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyUnchanged(tx, queueID, "")
		}
		return tx.Where("id = ?", queueID).Take(&entry).Error
	})
	if err != nil {
		return nil, translate("reject ai response "+queueID, err)
	}
	return &entry, nil
}

// classifyUnchanged 条件更新未命中时区分记录不存在与已处于终态
// mentorID 不为空时，不属于该导师的记录一律视为不存在
func classifyUnchanged(tx *gorm.DB, queueID, mentorID string) error {
	var entry model.AIResponseQueueEntry
	err := tx.Select("id", "session_id", "status").Where("id = ?", queueID).Take(&entry).Error
	if err != nil {
		return err
	}
	if mentorID != "" {
		var session model.ChatSession
		if err := tx.Select("id", "mentor_id").Where("id = ?", entry.SessionID).Take(&session).Error; err != nil {
			return err
		}
		if session.MentorID != mentorID {
			return fmt.Errorf("%w: queue entry %s for mentor %s", ErrNotFound, queueID, mentorID)
		}
	}
	return fmt.Errorf("%w: queue entry %s is %s", ErrInvalidStateTransition, queueID, entry.Status)
}
