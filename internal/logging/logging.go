package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init 设置默认 slog logger，日志统一写 stderr，stdout 留给报告输出
func Init(level slog.Level) {
	InitTo(os.Stderr, level)
}

// InitTo 同 Init，写到指定 writer
func InitTo(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// ParseLevel 将 "debug" / "info" / "warn" / "error" 转换为 slog.Level，未知值按 info 处理
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
