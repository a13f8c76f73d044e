// Package style 导师风格档案管理
package style

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/model"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/generator"
	"github.com/ashwinyue/next-mentor/internal/service/persona"
)

// ErrNoSamples 没有可分析的样例消息
var ErrNoSamples = errors.New("sample messages are required")

// NoStylePlaceholder 导师没有风格档案时写入提示词的占位文本
const NoStylePlaceholder = "No style examples available. Please provide mentor style examples."

// 置信度
const (
	ParsedConfidence   = 0.8
	FallbackConfidence = 0.5
)

// Analysis 风格分析结果
type Analysis struct {
	Style         *model.MentorStyle `json:"style"`
	Fallback      bool               `json:"fallback"`
	MissingFields []string           `json:"missing_fields,omitempty"`
}

// Manager 风格档案管理
type Manager struct {
	store     repository.StyleStore
	generator generator.Generator
	logger    *zap.Logger
}

// NewManager 创建风格管理器
func NewManager(store repository.StyleStore, gen generator.Generator, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, generator: gen, logger: logger}
}

// AnalyzeStyle 分析样例消息并保存新的风格档案
// 回复无法解析时保存默认档案；生成服务失败时不保存任何内容
func (m *Manager) AnalyzeStyle(ctx context.Context, mentorID string, samples []string) (*Analysis, error) {
	samples = cleanSamples(samples)
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	raw, err := m.generator.Generate(ctx, analysisPrompt(samples))
	if err != nil {
		if !errors.Is(err, generator.ErrGeneration) {
			err = fmt.Errorf("%w: %v", generator.ErrGeneration, err)
		}
		m.logger.Error("Style analysis generation failed",
			zap.String("mentor_id", mentorID), zap.Error(err))
		return nil, fmt.Errorf("analyze style: %w", err)
	}

	analysis := &Analysis{}
	profile, missing, err := ParseProfile(raw)
	confidence := ParsedConfidence
	if err != nil {
		m.logger.Warn("Style analysis response unparseable, using default profile",
			zap.String("mentor_id", mentorID), zap.Error(err))
		profile = DefaultStyleProfile()
		confidence = FallbackConfidence
		analysis.Fallback = true
	} else if len(missing) > 0 {
		m.logger.Warn("Style analysis missing fields",
			zap.String("mentor_id", mentorID), zap.Strings("fields", missing))
		analysis.MissingFields = missing
	}

	saved, err := m.store.SaveMentorStyle(ctx, mentorID, profile, samples, confidence)
	if err != nil {
		return nil, err
	}
	analysis.Style = saved

	m.logger.Info("Style analysis completed",
		zap.String("mentor_id", mentorID),
		zap.Int("samples", len(samples)),
		zap.Float64("confidence", confidence))
	return analysis, nil
}

// AnalyzePersona 使用内置人设的样例进行分析
func (m *Manager) AnalyzePersona(ctx context.Context, mentorID, personaName string) (*Analysis, error) {
	p, err := persona.Lookup(personaName)
	if err != nil {
		return nil, err
	}
	return m.AnalyzeStyle(ctx, mentorID, p.Samples)
}

// GetStyleForPrompt 返回最新档案的样例消息，每行一条
func (m *Manager) GetStyleForPrompt(ctx context.Context, mentorID string) (string, error) {
	s, err := m.store.GetMentorStyle(ctx, mentorID)
	if errors.Is(err, repository.ErrNotFound) {
		return NoStylePlaceholder, nil
	}
	if err != nil {
		return "", err
	}
	if len(s.SampleMessages) == 0 {
		return NoStylePlaceholder, nil
	}
	return strings.Join(s.SampleMessages, "\n"), nil
}

// GetProfile 获取最新的风格档案
func (m *Manager) GetProfile(ctx context.Context, mentorID string) (*model.MentorStyle, error) {
	return m.store.GetMentorStyle(ctx, mentorID)
}

// History 获取全部历史档案
func (m *Manager) History(ctx context.Context, mentorID string) ([]*model.MentorStyle, error) {
	return m.store.ListMentorStyles(ctx, mentorID)
}

func cleanSamples(samples []string) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
