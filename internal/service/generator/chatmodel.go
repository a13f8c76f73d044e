package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelGenerator 基于 eino ChatModel 的生成器
type ChatModelGenerator struct {
	chatModel model.BaseChatModel
	timeout   time.Duration
}

// NewChatModelGenerator 创建生成器
func NewChatModelGenerator(chatModel model.BaseChatModel, timeout time.Duration) *ChatModelGenerator {
	return &ChatModelGenerator{chatModel: chatModel, timeout: timeout}
}

// Generate 以单条用户消息调用模型
func (g *ChatModelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	// 直接调用模型时需要手动挂载全局回调
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      "mentor-generator",
		Type:      "ChatModel",
		Component: components.ComponentOfChatModel,
	})

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return resp.Content, nil
}
