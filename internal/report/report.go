package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/liao/chatcal/internal/event"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Reporter 输出通过过滤的事件，Close 之后不能再调用 Report
type Reporter interface {
	Report(c event.Candidate) error
	Close() error
}

// New 按格式创建 Reporter：text / json / yaml / ics
func New(format string, w io.Writer) (Reporter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewText(w), nil
	case "json":
		return NewJSON(w), nil
	case "yaml":
		return NewYAML(w), nil
	case "ics":
		return NewICS(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
