package testutil

import (
	"context"
	"sync"
)

// ScriptedGenerator 按顺序返回预设结果的生成器，并记录收到的提示词
type ScriptedGenerator struct {
	mu      sync.Mutex
	steps   []Step
	Prompts []string
}

// Step 一次生成调用的结果
type Step struct {
	Text string
	Err  error
}

// Reply 成功返回 text
func Reply(text string) Step {
	return Step{Text: text}
}

// Fail 返回错误
func Fail(err error) Step {
	return Step{Err: err}
}

// NewScriptedGenerator 创建脚本化生成器
// 脚本用完后重复最后一步
func NewScriptedGenerator(steps ...Step) *ScriptedGenerator {
	return &ScriptedGenerator{steps: steps}
}

// Generate 实现 generator.Generator
func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := len(g.Prompts)
	g.Prompts = append(g.Prompts, prompt)
	if len(g.steps) == 0 {
		return "ok", nil
	}
	if idx >= len(g.steps) {
		idx = len(g.steps) - 1
	}
	step := g.steps[idx]
	return step.Text, step.Err
}

// Calls 已发生的调用次数
func (g *ScriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}
