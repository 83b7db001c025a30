package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/liao/chatcal/internal/event"
)

// ErrMalformedResponse 模型返回的内容不是约定的 JSON
var ErrMalformedResponse = errors.New("malformed model response")

type rawJudgment struct {
	IsEvent    *bool    `json:"is_event"`
	Title      *string  `json:"title"`
	Start      *string  `json:"start_datetime"`
	End        *string  `json:"end_datetime"`
	Confidence *float64 `json:"confidence"`
}

// DecodeJudgment 解析模型返回的 JSON，兼容 markdown 代码块包裹
// is_event 和 confidence 必须存在，否则视为格式错误
func DecodeJudgment(text string) (*event.Judgment, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw rawJudgment
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if raw.IsEvent == nil {
		return nil, fmt.Errorf("%w: missing is_event", ErrMalformedResponse)
	}
	if raw.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", ErrMalformedResponse)
	}

	return &event.Judgment{
		IsEvent:    *raw.IsEvent,
		Title:      raw.Title,
		Start:      raw.Start,
		End:        raw.End,
		Confidence: *raw.Confidence,
	}, nil
}
