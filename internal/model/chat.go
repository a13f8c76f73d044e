package model

import "time"

// SessionStatus 会话状态
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"    // 进行中
	SessionStatusPaused    SessionStatus = "paused"    // 暂停
	SessionStatusCompleted SessionStatus = "completed" // 已结束
)

// Valid 是否为已知状态
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusActive, SessionStatusPaused, SessionStatusCompleted:
		return true
	}
	return false
}

// SenderType 消息发送方
type SenderType string

const (
	SenderStudent SenderType = "student"
	SenderMentor  SenderType = "mentor"
	SenderAI      SenderType = "ai"
)

// Valid 是否为已知发送方
func (s SenderType) Valid() bool {
	switch s {
	case SenderStudent, SenderMentor, SenderAI:
		return true
	}
	return false
}

// ApprovalStatus 消息审核状态
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid 是否为已知审核状态
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// ChatSession 导师与学生之间的聊天会话
type ChatSession struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	StudentID string        `gorm:"index;size:64;not null" json:"student_id"`
	MentorID  string        `gorm:"index;size:64;not null" json:"mentor_id"`
	Status    SessionStatus `gorm:"index;size:20;not null;default:active" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;index" json:"updated_at"`
}

// Message 会话消息，创建后不可修改
// Seq 是会话内单调递增的排序键
type Message struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	SessionID      string         `gorm:"size:36;not null;uniqueIndex:idx_messages_session_seq,priority:1" json:"session_id"`
	Seq            int64          `gorm:"not null;uniqueIndex:idx_messages_session_seq,priority:2" json:"seq"`
	SenderType     SenderType     `gorm:"column:sender_type;size:20;not null" json:"sender_type"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	IsAIGenerated  bool           `gorm:"column:is_ai_generated;not null" json:"is_ai_generated"`
	ApprovalStatus ApprovalStatus `gorm:"size:20;not null;index" json:"approval_status"`
	ApprovedBy     *string        `gorm:"size:64" json:"approved_by,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`

	Session *ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (Message) TableName() string {
	return "messages"
}
