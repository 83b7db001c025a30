package report

import (
	"encoding/json"
	"io"

	"github.com/liao/chatcal/internal/event"
)

// JSON 每个事件一行（NDJSON），方便管道处理
type JSON struct {
	enc *json.Encoder
}

func NewJSON(w io.Writer) *JSON {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSON{enc: enc}
}

func (j *JSON) Report(c event.Candidate) error {
	return j.enc.Encode(c)
}

func (j *JSON) Close() error { return nil }
