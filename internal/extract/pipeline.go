package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sourcegraph/conc/iter"

	"github.com/liao/chatcal/internal/event"
	"github.com/liao/chatcal/internal/parser"
)

const (
	previewWidth          = 60
	defaultRequestTimeout = 60 * time.Second
)

// Interpreter 对单条消息给出事件判断；返回 nil 表示没有可用的判断
type Interpreter interface {
	Classify(ctx context.Context, body string, reference time.Time) (*event.Judgment, error)
}

// Reporter 输出通过过滤的事件
type Reporter interface {
	Report(c event.Candidate) error
}

// Summary 一次运行的统计
type Summary struct {
	Parsed     int
	Skipped    int // 占位符消息，未请求模型
	Classified int
	Failed     int // 请求失败、超时或返回格式错误
	Accepted   int
}

type Pipeline struct {
	interp   Interpreter
	filter   *event.Filter
	reporter Reporter

	workers          int
	timeout          time.Duration
	skipPlaceholders bool
	now              func() time.Time

	mu       sync.Mutex // 保护 progress，并发时逐行写入
	progress io.Writer
}

type Option func(*Pipeline)

// WithWorkers 并发请求数，<=1 时按顺序逐条处理
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// WithRequestTimeout 单条消息的请求超时
func WithRequestTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// WithSkipPlaceholders 跳过 <Media omitted> 之类的占位消息
func WithSkipPlaceholders(skip bool) Option {
	return func(p *Pipeline) { p.skipPlaceholders = skip }
}

// WithProgress 进度输出位置，默认 stderr
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) { p.progress = w }
}

// WithClock 替换参考时间来源（“今天”）
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(interp Interpreter, filter *event.Filter, reporter Reporter, opts ...Option) *Pipeline {
	p := &Pipeline{
		interp:   interp,
		filter:   filter,
		reporter: reporter,
		workers:  1,
		timeout:  defaultRequestTimeout,
		progress: os.Stderr,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// outcome 单条消息的处理结果
type outcome struct {
	judgment *event.Judgment
	skipped  bool
	failed   bool
}

// Run 按解析顺序处理所有消息，单条失败不影响其他消息
// 只有 ctx 取消或报告输出失败时提前返回
func (p *Pipeline) Run(ctx context.Context, records []parser.Record) (Summary, error) {
	sum := Summary{Parsed: len(records)}
	loc := time.Local
	if p.filter != nil && p.filter.Location != nil {
		loc = p.filter.Location
	}
	reference := p.now().In(loc)

	if p.workers <= 1 {
		for i := range records {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			out := p.judge(ctx, &records[i], reference)
			if err := p.emit(&sum, &records[i], out); err != nil {
				return sum, err
			}
		}
		return p.finish(sum), nil
	}

	// 并发请求，结果按下标对应原消息，输出仍按原顺序
	mapper := iter.Mapper[parser.Record, outcome]{MaxGoroutines: p.workers}
	outcomes := mapper.Map(records, func(r *parser.Record) outcome {
		if ctx.Err() != nil {
			return outcome{failed: true}
		}
		return p.judge(ctx, r, reference)
	})
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	for i := range records {
		if err := p.emit(&sum, &records[i], outcomes[i]); err != nil {
			return sum, err
		}
	}
	return p.finish(sum), nil
}

func (p *Pipeline) judge(ctx context.Context, r *parser.Record, reference time.Time) (out outcome) {
	if p.skipPlaceholders && parser.IsPlaceholder(r.Body) {
		slog.Debug("skipping placeholder message", "line", r.Line, "sender", r.Sender)
		return outcome{skipped: true}
	}

	p.mu.Lock()
	fmt.Fprintf(p.progress, "Processing: %s ...\n", runewidth.Truncate(r.Body, previewWidth, ""))
	p.mu.Unlock()

	// 模型调用里的 panic 也只影响这一条
	defer func() {
		if v := recover(); v != nil {
			slog.Error("interpreter panicked", "line", r.Line, "panic", v)
			out = outcome{failed: true}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	j, err := p.interp.Classify(ctx, r.Body, reference)
	if err != nil {
		slog.Warn("classify failed, skipping message", "line", r.Line, "sender", r.Sender, "error", err)
		return outcome{failed: true}
	}
	if j == nil {
		return outcome{failed: true}
	}
	return outcome{judgment: j}
}

func (p *Pipeline) emit(sum *Summary, r *parser.Record, out outcome) error {
	switch {
	case out.skipped:
		sum.Skipped++
		return nil
	case out.failed:
		sum.Failed++
		return nil
	}
	sum.Classified++

	v := p.filter.Evaluate(out.judgment)
	if !v.Accepted {
		slog.Debug("judgment rejected", "line", r.Line, "reason", v.Reason)
		return nil
	}

	sum.Accepted++
	c := event.Candidate{
		Record:   *r,
		Judgment: *out.judgment,
		StartAt:  v.Start,
		EndAt:    v.End,
	}
	if err := p.reporter.Report(c); err != nil {
		return fmt.Errorf("report event: %w", err)
	}
	return nil
}

func (p *Pipeline) finish(sum Summary) Summary {
	slog.Info("extraction finished",
		"parsed", sum.Parsed,
		"skipped", sum.Skipped,
		"classified", sum.Classified,
		"failed", sum.Failed,
		"accepted", sum.Accepted,
	)
	return sum
}
