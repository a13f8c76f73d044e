package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/model"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

// DemoStudentID 演示对话使用的学生 ID
const DemoStudentID = "demo_student"

// Service 聊天服务
type Service struct {
	store  repository.ChatStore
	logger *zap.Logger
}

// NewService 创建聊天服务
func NewService(store repository.ChatStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	MentorID  string `json:"mentor_id" binding:"required"`
}

// CreateSession 创建会话
func (s *Service) CreateSession(ctx context.Context, req *CreateSessionRequest) (*model.ChatSession, error) {
	session, err := s.store.CreateSession(ctx, strings.TrimSpace(req.StudentID), strings.TrimSpace(req.MentorID))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("student_id", session.StudentID),
		zap.String("mentor_id", session.MentorID))
	return session, nil
}

// GetSession 获取会话
func (s *Service) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	return s.store.GetSession(ctx, id)
}

// ListSessionsRequest 列出会话请求
type ListSessionsRequest struct {
	MentorID  string `form:"mentor_id"`
	StudentID string `form:"student_id"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

// ListSessions 列出会话
func (s *Service) ListSessions(ctx context.Context, req *ListSessionsRequest) ([]*model.ChatSession, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}

	status := model.SessionStatus(req.Status)
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", repository.ErrInvalidStatus, req.Status)
	}

	offset := (req.Page - 1) * req.Size
	filter := repository.SessionFilter{MentorID: req.MentorID, StudentID: req.StudentID, Status: status}

	sessions, total, err := s.store.ListSessions(ctx, filter, offset, req.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

// UpdateStatusRequest 修改会话状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 修改会话状态
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*model.ChatSession, error) {
	session, err := s.store.UpdateSessionStatus(ctx, id, model.SessionStatus(req.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	s.logger.Info("Session status updated", zap.String("session_id", id), zap.String("status", req.Status))
	return session, nil
}

// SendMessageRequest 发送消息请求
// 人工消息只能由学生或导师发送，AI 消息通过生成流程写入
type SendMessageRequest struct {
	SenderType string `json:"sender_type" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// SendMessage 发送消息
func (s *Service) SendMessage(ctx context.Context, sessionID string, req *SendMessageRequest) (*model.Message, error) {
	sender := model.SenderType(req.SenderType)
	if sender != model.SenderStudent && sender != model.SenderMentor {
		return nil, fmt.Errorf("%w: sender type %q", repository.ErrInvalidArgument, req.SenderType)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is empty", repository.ErrInvalidArgument)
	}

	msg, err := s.store.AddMessage(ctx, repository.NewMessage{
		SessionID:  sessionID,
		SenderType: sender,
		Content:    req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return msg, nil
}

// GetMessages 获取会话消息
func (s *Service) GetMessages(ctx context.Context, sessionID string) ([]*model.Message, error) {
	return s.store.GetSessionMessages(ctx, sessionID)
}

// GetContext 获取会话的模型上下文文本
func (s *Service) GetContext(ctx context.Context, sessionID string) (string, error) {
	return s.store.GetSessionContext(ctx, sessionID)
}

// LoadDemoRequest 加载演示对话请求
type LoadDemoRequest struct {
	Persona   string `json:"persona"`
	StudentID string `json:"student_id"`
}

// Demo 演示对话加载结果
type Demo struct {
	Session  *model.ChatSession `json:"session"`
	Messages []*model.Message   `json:"messages"`
}

// LoadDemo 为导师创建一段内置人设的演示对话
// 演示中的导师消息标记为 AI 生成
func (s *Service) LoadDemo(ctx context.Context, mentorID string, req *LoadDemoRequest) (*Demo, error) {
	name := req.Persona
	if name == "" {
		name = persona.Encouraging
	}
	p, err := persona.Lookup(name)
	if err != nil {
		return nil, err
	}
	studentID := req.StudentID
	if studentID == "" {
		studentID = DemoStudentID
	}

	session, err := s.store.CreateSession(ctx, studentID, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create demo session: %w", err)
	}

	messages := make([]*model.Message, 0, len(p.Demo))
	for _, dm := range p.Demo {
		msg, err := s.store.AddMessage(ctx, repository.NewMessage{
			SessionID:     session.ID,
			SenderType:    dm.Sender,
			Content:       dm.Content,
			IsAIGenerated: dm.Sender == model.SenderMentor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load demo message: %w", err)
		}
		messages = append(messages, msg)
	}

	s.logger.Info("Demo conversation loaded",
		zap.String("mentor_id", mentorID),
		zap.String("persona", p.Name),
		zap.String("session_id", session.ID),
		zap.Int("messages", len(messages)))
	return &Demo{Session: session, Messages: messages}, nil
}
