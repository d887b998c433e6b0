// Package logger 提供统一的结构化日志工具
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel 解析日志级别字符串
func ParseLevel(s string) slog.Level {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "INFO", "info":
		return slog.LevelInfo
	case "WARN", "warn", "WARNING", "warning":
		return slog.LevelWarn
	case "ERROR", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options 日志配置
type Options struct {
	// Level 日志级别，默认 INFO
	Level slog.Level

	// Console 是否输出到控制台
	Console bool

	// FilePath 日志文件路径，为空表示不写文件
	FilePath string
}

// Logger 结构化日志记录器
type Logger struct {
	*slog.Logger
	fileOut *os.File
}

// New 创建新的 Logger 实例
func New(opts Options) (*Logger, error) {
	l := &Logger{}

	var writers []io.Writer
	if opts.Console {
		writers = append(writers, os.Stderr)
	}
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("无法打开日志文件: %w", err)
		}
		l.fileOut = f
		writers = append(writers, f)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	handler := ContextHandler{slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: opts.Level,
	})}
	l.Logger = slog.New(handler)

	return l, nil
}

// Close 关闭 logger，释放资源
func (l *Logger) Close() error {
	if l.fileOut != nil {
		err := l.fileOut.Close()
		l.fileOut = nil
		return err
	}
	return nil
}

type ctxKey string

const slogFields ctxKey = "slog_fields"

// ContextHandler 在输出日志前附加 context 中携带的属性
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx 将 slog 属性附加到 context，后续使用该 context 的日志都会带上
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}
	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}
