package service

import (
	"context"
	"strings"
	"time"

	"github.com/focusflow/focusflow-be/internal/pkg/apperr"
)

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

const quotePrompt = `Generate a short, insightful, and motivational quote for someone trying to be productive. The quote should be one or two sentences long. Provide only the quote and the author's name in the format: "Quote text" - Author`

type QuoteService struct {
	gen     TextGenerator
	timeout time.Duration
}

func NewQuoteService(gen TextGenerator, timeout time.Duration) *QuoteService {
	return &QuoteService{gen: gen, timeout: timeout}
}

// Generate 向模型要一条激励语录
// 和洞察分析不同，这里没有数字兜底，生成失败就对外报依赖错误
func (s *QuoteService) Generate(ctx context.Context) (Quote, error) {
	if s.gen == nil {
		return Quote{}, apperr.Dependency("quote generation is not configured", nil)
	}
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.gen.GenerateText(genCtx, quotePrompt)
	if err != nil {
		return Quote{}, apperr.Dependency("failed to generate motivational quote", err)
	}
	q, ok := parseQuote(text)
	if !ok {
		return Quote{}, apperr.Dependency("failed to parse the generated quote", nil)
	}
	return q, nil
}

// parseQuote 约定格式："Quote text" - Author，缺作者时署名 AI
func parseQuote(text string) (Quote, bool) {
	parts := strings.SplitN(text, `" - `, 2)
	q := Quote{
		Text:   strings.TrimSpace(strings.ReplaceAll(parts[0], `"`, "")),
		Author: "AI",
	}
	if len(parts) == 2 {
		if a := strings.TrimSpace(parts[1]); a != "" {
			q.Author = a
		}
	}
	if q.Text == "" {
		return Quote{}, false
	}
	return q, true
}
