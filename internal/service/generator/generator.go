// Package generator 封装外部文本生成服务
// 上层只依赖 Generate(ctx, prompt) 这一个契约，具体由 eino ChatModel 或 Google GenAI 实现
package generator

import (
	"context"
	"errors"
	"time"
)

// ErrGeneration 外部生成服务失败或返回了不可用的内容
var ErrGeneration = errors.New("generation failed")

// Generator 文本生成接口
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func 函数适配器
type Func func(ctx context.Context, prompt string) (string, error)

// Generate 实现 Generator
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// withTimeout timeout 为 0 时不限制
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
