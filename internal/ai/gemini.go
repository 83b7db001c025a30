package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/liao/chatcal/internal/event"
)

// Gemini 基于 Gemini API 的事件判断
type Gemini struct {
	client    *genai.Client
	model     string
	temp      float32
	maxTokens int32
}

func NewGemini(ctx context.Context, apiKey, model, baseURL string, temp float32, maxTokens int32) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     model,
		temp:      temp,
		maxTokens: maxTokens,
	}, nil
}

// Classify 对一条消息发起一次请求，不重试
func (g *Gemini) Classify(ctx context.Context, body string, reference time.Time) (*event.Judgment, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.temp),
		MaxOutputTokens:   g.maxTokens,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(BuildEventPrompt(body, reference), genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	slog.Debug("gemini response", "model", g.model, "text", text)
	return DecodeJudgment(text)
}
