package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// timeNow 统一的时间源，存储使用 UTC
var timeNow = func() time.Time {
	return time.Now().UTC()
}

// ChatRepository 会话与消息数据访问
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// NewMessage 新消息参数
// ApprovalStatus 为空时视为 approved
type NewMessage struct {
	SessionID      string
	SenderType     model.SenderType
	Content        string
	IsAIGenerated  bool
	ApprovalStatus model.ApprovalStatus
	ApprovedBy     *string
}

// SessionFilter 会话列表过滤条件
type SessionFilter struct {
	MentorID  string
	StudentID string
	Status    model.SessionStatus
}

// CreateSession 创建会话
func (r *ChatRepository) CreateSession(ctx context.Context, studentID, mentorID string) (*model.ChatSession, error) {
	if studentID == "" || mentorID == "" {
		return nil, translate("create session", fmt.Errorf("%w: student and mentor ids are required", ErrInvalidArgument))
	}

	now := timeNow()
	session := &model.ChatSession{
		ID:        uuid.New().String(),
		StudentID: studentID,
		MentorID:  mentorID,
		Status:    model.SessionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, translate("create session", err)
	}
	return session, nil
}

// GetSession 获取会话
func (r *ChatRepository) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&session).Error; err != nil {
		return nil, translate("get session "+id, err)
	}
	return &session, nil
}

// ListSessions 列出会话，最近更新的在前
func (r *ChatRepository) ListSessions(ctx context.Context, filter SessionFilter, offset, limit int) ([]*model.ChatSession, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ChatSession{})
	if filter.MentorID != "" {
		query = query.Where("mentor_id = ?", filter.MentorID)
	}
	if filter.StudentID != "" {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate("count sessions", err)
	}

	sessions := make([]*model.ChatSession, 0)
	err := query.Order("updated_at DESC").Order("id ASC").Offset(offset).Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, 0, translate("list sessions", err)
	}
	return sessions, total, nil
}

// UpdateSessionStatus 修改会话生命周期状态
func (r *ChatRepository) UpdateSessionStatus(ctx context.Context, id string, status model.SessionStatus) (*model.ChatSession, error) {
	if !status.Valid() {
		return nil, translate("update session status", fmt.Errorf("%w: %q", ErrInvalidStatus, status))
	}

	var session model.ChatSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ChatSession{}).Where("id = ?", id).
			Updates(map[string]interface{}{"status": status, "updated_at": timeNow()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).Take(&session).Error
	})
	if err != nil {
		return nil, translate("update session status "+id, err)
	}
	return &session, nil
}

// AddMessage 添加消息并在同一事务内刷新会话 updated_at
func (r *ChatRepository) AddMessage(ctx context.Context, in NewMessage) (*model.Message, error) {
	var msg *model.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		msg, err = insertMessage(tx, in, timeNow())
		return err
	})
	if err != nil {
		return nil, translate("add message", err)
	}
	return msg, nil
}

// GetMessage 获取单条消息
func (r *ChatRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&msg).Error; err != nil {
		return nil, translate("get message "+id, err)
	}
	return &msg, nil
}

// GetSessionMessages 按创建顺序获取会话全部消息，没有消息时返回空切片
func (r *ChatRepository) GetSessionMessages(ctx context.Context, sessionID string) ([]*model.Message, error) {
	messages := make([]*model.Message, 0)
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, translate("get session messages", err)
	}
	return messages, nil
}

// GetSessionContext 拼接已审核消息作为模型上下文
// 每行格式为 "{sender}: {content}"，未审核或被拒绝的消息不会出现
func (r *ChatRepository) GetSessionContext(ctx context.Context, sessionID string) (string, error) {
	var messages []*model.Message
	err := r.db.WithContext(ctx).
		Select("sender_type", "content").
		Where("session_id = ? AND approval_status = ?", sessionID, model.ApprovalApproved).
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return "", translate("get session context", err)
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.SenderType, m.Content))
	}
	return strings.Join(lines, "\n"), nil
}

// lastMessage 会话中最后一条消息的排序信息
type lastMessage struct {
	Seq       int64
	CreatedAt time.Time
}

// insertMessage 在事务 tx 内插入消息
// 先更新会话行以串行化同一会话的并发写入，再分配 seq
func insertMessage(tx *gorm.DB, in NewMessage, now time.Time) (*model.Message, error) {
	if in.ApprovalStatus == "" {
		in.ApprovalStatus = model.ApprovalApproved
	}
	if !in.SenderType.Valid() {
		return nil, fmt.Errorf("%w: sender type %q", ErrInvalidArgument, in.SenderType)
	}
	if !in.ApprovalStatus.Valid() {
		return nil, fmt.Errorf("%w: approval status %q", ErrInvalidStatus, in.ApprovalStatus)
	}

	res := tx.Model(&model.ChatSession{}).Where("id = ?", in.SessionID).UpdateColumn("updated_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: session %s does not exist", ErrForeignKeyViolation, in.SessionID)
	}

	var last lastMessage
	err := tx.Model(&model.Message{}).
		Select("seq", "created_at").
		Where("session_id = ?", in.SessionID).
		Order("seq DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return nil, err
	}

	createdAt := now
	if createdAt.Before(last.CreatedAt) {
		createdAt = last.CreatedAt
	}

	msg := &model.Message{
		ID:             uuid.New().String(),
		SessionID:      in.SessionID,
		Seq:            last.Seq + 1,
		SenderType:     in.SenderType,
		Content:        in.Content,
		IsAIGenerated:  in.IsAIGenerated,
		ApprovalStatus: in.ApprovalStatus,
		ApprovedBy:     in.ApprovedBy,
		CreatedAt:      createdAt,
	}
	if err := tx.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}
