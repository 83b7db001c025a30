package event

import (
	"time"

	"github.com/liao/chatcal/internal/parser"
)

// Judgment 模型对单条消息的判断，字段与返回的 JSON 一一对应
type Judgment struct {
	IsEvent    bool    `json:"is_event" yaml:"is_event"`
	Title      *string `json:"title" yaml:"title"`
	Start      *string `json:"start_datetime" yaml:"start_datetime"`
	End        *string `json:"end_datetime" yaml:"end_datetime"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// TitleOr 返回标题，没有时返回 fallback
func (j *Judgment) TitleOr(fallback string) string {
	if j == nil || j.Title == nil || *j.Title == "" {
		return fallback
	}
	return *j.Title
}

// Candidate 通过过滤的事件，附带来源消息
type Candidate struct {
	Record   parser.Record `json:"message" yaml:"message"`
	Judgment Judgment      `json:"judgment" yaml:"judgment"`
	StartAt  time.Time     `json:"start" yaml:"start"`
	EndAt    time.Time     `json:"end,omitzero" yaml:"end,omitempty"` // 缺失或无法解析时为零值
}
