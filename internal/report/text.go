package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/liao/chatcal/internal/event"
)

const (
	ruleWidth  = 50
	timeLayout = "2006-01-02 15:04 MST"
)

// Text 终端可读的输出，非终端时自动去掉颜色
type Text struct {
	w      io.Writer
	header lipgloss.Style
	label  lipgloss.Style
	rule   lipgloss.Style
}

func NewText(w io.Writer) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w:      w,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		label:  r.NewStyle().Foreground(lipgloss.Color("240")),
		rule:   r.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

func (t *Text) Report(c event.Candidate) error {
	end := "-"
	if !c.EndAt.IsZero() {
		end = c.EndAt.Format(timeLayout)
	}

	var b strings.Builder
	b.WriteString(t.header.Render("EVENT DETECTED:"))
	b.WriteString("\n")
	t.field(&b, "Title", c.Judgment.TitleOr("(untitled)"))
	t.field(&b, "Start", c.StartAt.Format(timeLayout))
	t.field(&b, "End", end)
	t.field(&b, "Confidence", fmt.Sprintf("%.2f", c.Judgment.Confidence))
	t.field(&b, "Sender", c.Record.Sender)
	t.field(&b, "Sent", c.Record.TimestampText)
	t.field(&b, "Message", c.Record.Body)
	b.WriteString(t.rule.Render(strings.Repeat("-", ruleWidth)))
	b.WriteString("\n")

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Text) field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "  %s %s\n", t.label.Render(fmt.Sprintf("%-11s", name+":")), value)
}

func (t *Text) Close() error { return nil }
