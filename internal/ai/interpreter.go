package ai

import (
	"context"
	"time"

	"github.com/liao/chatcal/internal/config"
	"github.com/liao/chatcal/internal/event"
)

// Interpreter 对单条消息给出事件判断
type Interpreter interface {
	Classify(ctx context.Context, body string, reference time.Time) (*event.Judgment, error)
}

// New 根据配置的 provider 创建 Interpreter
func New(ctx context.Context, cfg *config.Config) (Interpreter, error) {
	mc := cfg.Model()
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(mc.APIKey, mc.Model, mc.BaseURL, float64(mc.Temperature), int64(mc.MaxOutputTokens)), nil
	case config.ProviderGemini:
		g, err := NewGemini(ctx, mc.APIKey, mc.Model, mc.BaseURL, mc.Temperature, mc.MaxOutputTokens)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, config.ErrUnknownProvider
	}
}
