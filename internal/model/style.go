package model

import (
	"time"

	"gorm.io/datatypes"
)

// StyleProfile 导师写作风格的结构化描述
type StyleProfile struct {
	Tone               string   `json:"tone"`
	CommonPhrases      []string `json:"common_phrases"`
	EmojiUsage         string   `json:"emoji_usage"`
	MessageLength      string   `json:"message_length"`
	GreetingStyle      string   `json:"greeting_style"`
	SignOffStyle       string   `json:"sign_off_style"`
	PunctuationStyle   string   `json:"punctuation_style"`
	EncouragementLevel string   `json:"encouragement_level"`
	TeachingApproach   string   `json:"teaching_approach,omitempty"`
	ResponsePattern    string   `json:"response_pattern,omitempty"`
}

// MentorStyle 一次风格分析的结果，只插入不更新
// 同一导师以 AnalyzedAt 最新的一条为准，旧记录保留用于审计
type MentorStyle struct {
	ID              string                           `gorm:"primaryKey;size:36" json:"id"`
	MentorID        string                           `gorm:"size:64;not null;index:idx_mentor_styles_mentor_analyzed,priority:1" json:"mentor_id"`
	StyleData       datatypes.JSONType[StyleProfile] `gorm:"column:style_data;not null" json:"style_data"`
	SampleMessages  datatypes.JSONSlice[string]      `gorm:"column:sample_messages;not null" json:"sample_messages"`
	AnalyzedAt      time.Time                        `gorm:"not null;index:idx_mentor_styles_mentor_analyzed,priority:2" json:"analyzed_at"`
	ConfidenceScore float64                          `gorm:"not null" json:"confidence_score"`
}

// Profile 返回风格数据
func (s *MentorStyle) Profile() StyleProfile {
	return s.StyleData.Data()
}

func (MentorStyle) TableName() string {
	return "mentor_styles"
}
