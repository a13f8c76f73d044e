package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/ashwinyue/next-mentor/internal/config"
)

// NewFromConfig 根据 ai.provider 创建生成器
func NewFromConfig(ctx context.Context, cfg *config.AIConfig) (Generator, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	if cfg.Provider == "gemini" || cfg.Provider == "google" {
		return NewGenAIGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, timeout)
	}

	chatCfg, err := openAICompatibleConfig(cfg)
	if err != nil {
		return nil, err
	}
	chatModel, err := openai.NewChatModel(ctx, chatCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewChatModelGenerator(chatModel, timeout), nil
}

// openAICompatibleConfig OpenAI 兼容接口的提供方配置
func openAICompatibleConfig(cfg *config.AIConfig) (*openai.ChatModelConfig, error) {
	var apiKey, baseURL, modelName string

	switch cfg.Provider {
	case "openai":
		apiKey = cfg.OpenAI.APIKey
		baseURL = cfg.OpenAI.BaseURL
		modelName = cfg.OpenAI.Model
	case "alibaba", "qwen", "dashscope":
		apiKey = cfg.Alibaba.AccessKeySecret
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
		modelName = cfg.Alibaba.Model
	case "deepseek":
		apiKey = cfg.DeepSeek.APIKey
		baseURL = cfg.DeepSeek.BaseURL
		modelName = cfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", cfg.Provider)
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	}, nil
}
