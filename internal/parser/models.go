package parser

import "fmt"

// Record 单条聊天消息，由一个 header 行开始，后续非 header 行追加到 Body
type Record struct {
	TimestampText string `json:"timestamp_text" yaml:"timestamp_text"` // 原始日期时间文本，不做解析
	Sender        string `json:"sender" yaml:"sender"`
	Body          string `json:"body" yaml:"body"`
	Line          int    `json:"line" yaml:"line"` // header 所在行号（从 1 开始）
}

// Format 格式化为单行文本，用于 parse 命令的 text 输出
func (r *Record) Format() string {
	return fmt.Sprintf("[%s] %s: %s", r.TimestampText, r.Sender, r.Body)
}
