package model

import "time"

// QueueStatus AI 回复审核队列状态
// pending 为初始状态，sent 和 rejected 为终态
type QueueStatus string

const (
	QueueStatusPending  QueueStatus = "pending"
	QueueStatusApproved QueueStatus = "approved"
	QueueStatusRejected QueueStatus = "rejected"
	QueueStatusSent     QueueStatus = "sent"
)

// Terminal 是否为终态
func (s QueueStatus) Terminal() bool {
	return s == QueueStatusSent || s == QueueStatusRejected
}

// AIResponseQueueEntry 等待导师审核的 AI 回复
type AIResponseQueueEntry struct {
	ID                string      `gorm:"primaryKey;size:36" json:"id"`
	SessionID         string      `gorm:"size:36;not null;index" json:"session_id"`
	StudentMessageID  string      `gorm:"size:36;not null;index" json:"student_message_id"`
	GeneratedResponse string      `gorm:"type:text;not null" json:"generated_response"`
	Status            QueueStatus `gorm:"size:20;not null;index" json:"status"`
	CreatedAt         time.Time   `gorm:"not null;index" json:"created_at"`
	ApprovedAt        *time.Time  `json:"approved_at,omitempty"`
	SentAt            *time.Time  `json:"sent_at,omitempty"`

	Session        *ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:RESTRICT" json:"-"`
	StudentMessage *Message     `gorm:"foreignKey:StudentMessageID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (AIResponseQueueEntry) TableName() string {
	return "ai_response_queue"
}

// PendingResponse 待审核回复及其触发消息和所属会话
type PendingResponse struct {
	ID                string      `json:"id"`
	SessionID         string      `json:"session_id"`
	StudentMessageID  string      `json:"student_message_id"`
	GeneratedResponse string      `json:"generated_response"`
	Status            QueueStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	StudentMessage    string      `json:"student_message"`
	StudentID         string      `json:"student_id"`
	MentorID          string      `json:"mentor_id"`
}
