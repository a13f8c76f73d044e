// Package generation 组装上下文并调用文本生成服务
//
// 生成失败不会以 error 返回，而是以带兜底文本的 Result 返回；
// 存储层错误照常返回给调用方。
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/model"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/generator"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

// StyleSource 提供写入提示词的导师风格
type StyleSource interface {
	GetStyleForPrompt(ctx context.Context, mentorID string) (string, error)
}

// Queue 待审核队列
type Queue interface {
	Enqueue(ctx context.Context, sessionID, studentMessageID, response string) (*model.AIResponseQueueEntry, error)
}

// Presence 导师在线状态
type Presence interface {
	IsOnline(ctx context.Context, mentorID string) (bool, error)
}

// Delivery 学生消息的处理结果
type Delivery string

const (
	DeliveryDelivered Delivery = "delivered" // 导师在线，回复直接写入会话
	DeliveryQueued    Delivery = "queued"    // 导师离线，回复等待审核
	DeliveryFailed    Delivery = "failed"    // 生成失败，没有回复
)

// Outcome 处理学生消息的结果
type Outcome struct {
	Delivery       Delivery                    `json:"delivery"`
	StudentMessage *model.Message              `json:"student_message"`
	Reply          *model.Message              `json:"reply,omitempty"`
	QueueEntry     *model.AIResponseQueueEntry `json:"queue_entry,omitempty"`
	Result         Result                      `json:"result"`
}

// QueueID 入队时返回队列记录 ID
func (o *Outcome) QueueID() string {
	if o.QueueEntry == nil {
		return ""
	}
	return o.QueueEntry.ID
}

// Nudge 主动提醒
// 指定会话且生成成功时 Message 为写入会话的 AI 消息
type Nudge struct {
	Event   string         `json:"event"`
	Result  Result         `json:"result"`
	Message *model.Message `json:"message,omitempty"`
}

// Service 生成服务
type Service struct {
	generator generator.Generator
	styles    StyleSource
	chats     repository.ChatStore
	queue     Queue
	presence  Presence
	logger    *zap.Logger
	now       func() time.Time
}

// NewService 创建生成服务
func NewService(gen generator.Generator, styles StyleSource, chats repository.ChatStore, queue Queue, presence Presence, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: gen,
		styles:    styles,
		chats:     chats,
		queue:     queue,
		presence:  presence,
		logger:    logger,
		now:       time.Now,
	}
}

// GenerateReply 以导师风格回复学生消息
func (s *Service) GenerateReply(ctx context.Context, mentorID, studentMessage, sessionID string) (Result, error) {
	start := time.Now()

	style, err := s.styles.GetStyleForPrompt(ctx, mentorID)
	if err != nil {
		return Result{}, err
	}
	history, err := s.chats.GetSessionContext(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}

	summary := NoHistory
	if history != "" {
		summary = s.summarize(ctx, history)
	}

	text, err := s.generate(ctx, replyPrompt(style, summary, history, studentMessage))
	if err != nil {
		s.logger.Error("Reply generation failed",
			zap.String("mentor_id", mentorID),
			zap.String("session_id", sessionID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return Result{Text: ReplyFallback, Err: err}, nil
	}

	s.logger.Info("Reply generated",
		zap.String("mentor_id", mentorID),
		zap.String("session_id", sessionID),
		zap.Int("response_length", len(text)),
		zap.Duration("duration", time.Since(start)))
	return Result{Text: text}, nil
}

// GenerateNudge 根据触发事件生成主动提醒
func (s *Service) GenerateNudge(ctx context.Context, mentorID, eventDescription string) (Result, error) {
	style, err := s.styles.GetStyleForPrompt(ctx, mentorID)
	if err != nil {
		return Result{}, err
	}

	text, err := s.generate(ctx, nudgePrompt(style, eventDescription))
	if err != nil {
		s.logger.Error("Nudge generation failed", zap.String("mentor_id", mentorID), zap.Error(err))
		return Result{Text: NudgeFallback, Err: err}, nil
	}

	s.logger.Info("Nudge generated", zap.String("mentor_id", mentorID), zap.Int("response_length", len(text)))
	return Result{Text: text}, nil
}

// SimulateExam 模拟学生参加考试并生成提醒
// sessionID 不为空时提醒写入该会话
func (s *Service) SimulateExam(ctx context.Context, mentorID, examType, studentID, sessionID string) (*Nudge, error) {
	if strings.TrimSpace(examType) == "" {
		return nil, fmt.Errorf("%w: exam type is required", repository.ErrInvalidArgument)
	}
	if studentID == "" {
		studentID = "student_001"
	}

	event := persona.ExamEvent(examType, studentID, s.now())
	if sessionID == "" {
		res, err := s.GenerateNudge(ctx, mentorID, event)
		if err != nil {
			return nil, err
		}
		return &Nudge{Event: event, Result: res}, nil
	}
	return s.DeliverNudge(ctx, mentorID, sessionID, event)
}

// DeliverNudge 生成提醒并以已审核的 AI 消息写入导师自己的会话
// 生成失败时不写入任何消息
func (s *Service) DeliverNudge(ctx context.Context, mentorID, sessionID, eventDescription string) (*Nudge, error) {
	if strings.TrimSpace(eventDescription) == "" {
		return nil, fmt.Errorf("%w: event is required", repository.ErrInvalidArgument)
	}
	if _, err := s.ownedSession(ctx, sessionID, mentorID); err != nil {
		return nil, err
	}

	res, err := s.GenerateNudge(ctx, mentorID, eventDescription)
	if err != nil {
		return nil, err
	}
	nudge := &Nudge{Event: eventDescription, Result: res}
	if !res.OK() {
		return nudge, nil
	}

	approvedBy := mentorID
	msg, err := s.chats.AddMessage(ctx, repository.NewMessage{
		SessionID:      sessionID,
		SenderType:     model.SenderAI,
		Content:        res.Text,
		IsAIGenerated:  true,
		ApprovalStatus: model.ApprovalApproved,
		ApprovedBy:     &approvedBy,
	})
	if err != nil {
		return nil, err
	}
	nudge.Message = msg

	s.logger.Info("Nudge delivered",
		zap.String("mentor_id", mentorID),
		zap.String("session_id", sessionID),
		zap.String("message_id", msg.ID))
	return nudge, nil
}

// GenerateReplyWithApproval 生成回复，保存学生消息，并将回复放入待审核队列
// 生成失败时只保存学生消息，不入队
func (s *Service) GenerateReplyWithApproval(ctx context.Context, mentorID, studentMessage, sessionID string) (*Outcome, error) {
	if _, err := s.ownedSession(ctx, sessionID, mentorID); err != nil {
		return nil, err
	}

	res, err := s.GenerateReply(ctx, mentorID, studentMessage, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.saveStudentMessage(ctx, sessionID, studentMessage, res)
	if err != nil || !res.OK() {
		return outcome, err
	}

	if err := s.enqueue(ctx, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// HandleStudentMessage 处理学生发来的消息
// 导师在线时回复直接写入会话，离线时进入审核队列；生成失败时不产生回复
func (s *Service) HandleStudentMessage(ctx context.Context, sessionID, content string) (*Outcome, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", repository.ErrInvalidArgument)
	}

	session, err := s.chats.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res, err := s.GenerateReply(ctx, session.MentorID, content, sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.saveStudentMessage(ctx, sessionID, content, res)
	if err != nil || !res.OK() {
		return outcome, err
	}

	online, err := s.presence.IsOnline(ctx, session.MentorID)
	if err != nil {
		s.logger.Warn("Presence lookup failed, routing reply to approval queue",
			zap.String("mentor_id", session.MentorID), zap.Error(err))
		online = false
	}

	if !online {
		if err := s.enqueue(ctx, outcome); err != nil {
			return nil, err
		}
		return outcome, nil
	}

	reply, err := s.chats.AddMessage(ctx, repository.NewMessage{
		SessionID:      sessionID,
		SenderType:     model.SenderAI,
		Content:        res.Text,
		IsAIGenerated:  true,
		ApprovalStatus: model.ApprovalApproved,
	})
	if err != nil {
		return nil, err
	}
	outcome.Delivery = DeliveryDelivered
	outcome.Reply = reply

	s.logger.Info("Reply delivered",
		zap.String("session_id", sessionID),
		zap.String("message_id", reply.ID))
	return outcome, nil
}

// summarize 总结学生的学习历程，失败时使用固定描述
func (s *Service) summarize(ctx context.Context, history string) string {
	text, err := s.generate(ctx, summaryPrompt(history))
	if err != nil {
		s.logger.Warn("Journey summary failed", zap.Error(err))
		return SummaryFallback
	}
	return strings.TrimSpace(text)
}

// generate 调用生成器，统一包装为 ErrGeneration
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		if !errors.Is(err, generator.ErrGeneration) {
			err = fmt.Errorf("%w: %v", generator.ErrGeneration, err)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", generator.ErrGeneration)
	}
	return text, nil
}

func (s *Service) ownedSession(ctx context.Context, sessionID, mentorID string) (*model.ChatSession, error) {
	session, err := s.chats.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.MentorID != mentorID {
		return nil, fmt.Errorf("%w: session %s for mentor %s", repository.ErrNotFound, sessionID, mentorID)
	}
	return session, nil
}

func (s *Service) saveStudentMessage(ctx context.Context, sessionID, content string, res Result) (*Outcome, error) {
	msg, err := s.chats.AddMessage(ctx, repository.NewMessage{
		SessionID:  sessionID,
		SenderType: model.SenderStudent,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}
	return &Outcome{Delivery: DeliveryFailed, StudentMessage: msg, Result: res}, nil
}

func (s *Service) enqueue(ctx context.Context, outcome *Outcome) error {
	entry, err := s.queue.Enqueue(ctx, outcome.StudentMessage.SessionID, outcome.StudentMessage.ID, outcome.Result.Text)
	if err != nil {
		return err
	}
	outcome.Delivery = DeliveryQueued
	outcome.QueueEntry = entry
	return nil
}
