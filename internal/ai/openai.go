package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/liao/chatcal/internal/event"
)

// OpenAI 基于 OpenAI Responses API 的事件判断
type OpenAI struct {
	client    *openai.Client
	model     string
	temp      float64
	maxTokens int64
}

func NewOpenAI(apiKey, model, baseURL string, temp float64, maxTokens int64) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0), // 失败由调用方按消息隔离，不重试
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAI{
		client:    &client,
		model:     model,
		temp:      temp,
		maxTokens: maxTokens,
	}
}

// Classify 对一条消息发起一次请求，不重试
func (o *OpenAI) Classify(ctx context.Context, body string, reference time.Time) (*event.Judgment, error) {
	params := responses.ResponseNewParams{
		Model:        o.model,
		Instructions: openai.String(systemPrompt),
		Temperature:  openai.Float(o.temp),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(BuildEventPrompt(body, reference)),
		},
	}
	if o.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(o.maxTokens)
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses: %w", err)
	}

	text := resp.OutputText()
	slog.Debug("openai response", "model", o.model, "text", text)
	return DecodeJudgment(text)
}
