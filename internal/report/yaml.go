package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/liao/chatcal/internal/event"
)

// YAML 每个事件一个文档，文档之间用 --- 分隔
type YAML struct {
	enc *yaml.Encoder
}

func NewYAML(w io.Writer) *YAML {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAML{enc: enc}
}

func (y *YAML) Report(c event.Candidate) error {
	return y.enc.Encode(c)
}

func (y *YAML) Close() error {
	return y.enc.Close()
}
