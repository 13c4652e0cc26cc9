package coach

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// Coach 基于 Gemini 的文本生成器，实现 service.TextGenerator
type Coach struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Coach, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &Coach{client: client, model: model}, nil
}

// GenerateText 单轮生成，取第一个候选的第一段文本
func (c *Coach) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		// 可能被安全策略拦截
		return "", errors.New("model returned no content")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
