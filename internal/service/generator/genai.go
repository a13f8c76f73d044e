package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// contentGenerator *genai.Models 的最小子集
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIGenerator 基于 Google GenAI (Gemini) 的生成器
type GenAIGenerator struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGenAIGenerator 创建 Gemini 生成器
func NewGenAIGenerator(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: gemini")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIGenerator{models: client.Models, model: modelName, timeout: timeout}, nil
}

// Generate 调用 GenerateContent
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response", ErrGeneration)
	}
	return text, nil
}
