// Package presence 导师在线状态
// 在线时 AI 回复直接发送给学生，离线时进入审核队列
package presence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key 前缀
const keyPrefix = "presence:mentor:"

// Status 导师在线状态
type Status struct {
	MentorID  string    `json:"mentor_id"`
	Online    bool      `json:"online"`
	UpdatedAt time.Time `json:"updated_at"`
	Default   bool      `json:"default"` // 未设置过，使用默认值
}

// Tracker 在线状态跟踪
// 配置了 Redis 时状态保存在 Redis，多实例共享；否则保存在进程内存
type Tracker struct {
	mu            sync.RWMutex
	memory        map[string]Status
	redis         *redis.Client
	ttl           time.Duration
	defaultOnline bool
}

// NewTracker 创建在线状态跟踪器
// redisClient 可以为 nil；ttl 为 0 表示状态不过期
func NewTracker(redisClient *redis.Client, ttl time.Duration, defaultOnline bool) *Tracker {
	return &Tracker{
		memory:        make(map[string]Status),
		redis:         redisClient,
		ttl:           ttl,
		defaultOnline: defaultOnline,
	}
}

// SetStatus 设置导师在线状态
func (t *Tracker) SetStatus(ctx context.Context, mentorID string, online bool) (Status, error) {
	status := Status{MentorID: mentorID, Online: online, UpdatedAt: time.Now().UTC()}

	if t.redis != nil {
		data, err := json.Marshal(status)
		if err != nil {
			return Status{}, err
		}
		if err := t.redis.Set(ctx, keyPrefix+mentorID, data, t.ttl).Err(); err != nil {
			return Status{}, fmt.Errorf("failed to save presence: %w", err)
		}
		return status, nil
	}

	t.mu.Lock()
	t.memory[mentorID] = status
	t.mu.Unlock()
	return status, nil
}

// GetStatus 获取导师在线状态，未设置或已过期时返回默认值
func (t *Tracker) GetStatus(ctx context.Context, mentorID string) (Status, error) {
	if t.redis != nil {
		data, err := t.redis.Get(ctx, keyPrefix+mentorID).Bytes()
		if errors.Is(err, redis.Nil) {
			return t.defaultStatus(mentorID), nil
		}
		if err != nil {
			return Status{}, fmt.Errorf("failed to load presence: %w", err)
		}
		var status Status
		if err := json.Unmarshal(data, &status); err != nil {
			return Status{}, fmt.Errorf("failed to decode presence: %w", err)
		}
		return status, nil
	}

	t.mu.RLock()
	status, ok := t.memory[mentorID]
	t.mu.RUnlock()
	if !ok || t.expired(status) {
		return t.defaultStatus(mentorID), nil
	}
	return status, nil
}

// IsOnline 导师是否在线
func (t *Tracker) IsOnline(ctx context.Context, mentorID string) (bool, error) {
	status, err := t.GetStatus(ctx, mentorID)
	if err != nil {
		return false, err
	}
	return status.Online, nil
}

func (t *Tracker) defaultStatus(mentorID string) Status {
	return Status{MentorID: mentorID, Online: t.defaultOnline, Default: true}
}

func (t *Tracker) expired(status Status) bool {
	return t.ttl > 0 && time.Since(status.UpdatedAt) > t.ttl
}
