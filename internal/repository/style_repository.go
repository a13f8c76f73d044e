package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// StyleRepository 导师风格档案数据访问
// 档案只追加不修改，最新一条为当前档案
type StyleRepository struct {
	db *gorm.DB
}

// NewStyleRepository 创建风格仓库
func NewStyleRepository(db *gorm.DB) *StyleRepository {
	return &StyleRepository{db: db}
}

// SaveMentorStyle 保存一条新的风格档案
func (r *StyleRepository) SaveMentorStyle(ctx context.Context, mentorID string, profile model.StyleProfile, samples []string, confidence float64) (*model.MentorStyle, error) {
	if mentorID == "" {
		return nil, translate("save mentor style", fmt.Errorf("%w: mentor id is required", ErrInvalidArgument))
	}
	if confidence < 0 || confidence > 1 {
		return nil, translate("save mentor style", fmt.Errorf("%w: confidence %v out of range", ErrInvalidArgument, confidence))
	}
	if samples == nil {
		samples = []string{}
	}

	style := &model.MentorStyle{
		ID:              uuid.New().String(),
		MentorID:        mentorID,
		StyleData:       datatypes.NewJSONType(profile),
		SampleMessages:  datatypes.JSONSlice[string](samples),
		AnalyzedAt:      timeNow(),
		ConfidenceScore: confidence,
	}
	if err := r.db.WithContext(ctx).Create(style).Error; err != nil {
		return nil, translate("save mentor style", err)
	}
	return style, nil
}

// GetMentorStyle 获取导师最新的风格档案
// 同一时刻保存的多条档案按 id 倒序取第一条
func (r *StyleRepository) GetMentorStyle(ctx context.Context, mentorID string) (*model.MentorStyle, error) {
	var style model.MentorStyle
	err := r.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("analyzed_at DESC").
		Order("id DESC").
		Take(&style).Error
	if err != nil {
		return nil, translate("get mentor style "+mentorID, err)
	}
	return &style, nil
}

// ListMentorStyles 列出导师的全部风格档案，最新的在前
func (r *StyleRepository) ListMentorStyles(ctx context.Context, mentorID string) ([]*model.MentorStyle, error) {
	styles := make([]*model.MentorStyle, 0)
	err := r.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("analyzed_at DESC").
		Order("id DESC").
		Find(&styles).Error
	if err != nil {
		return nil, translate("list mentor styles", err)
	}
	return styles, nil
}
