package keypad

import (
	"time"

	"github.com/zoeyai/oskemu/pkg/pointer"
)

// Option 配置选项函数类型
type Option func(*Options)

// Options 模拟器配置
type Options struct {
	// ShiftReadyTimeout 等待 shift 键可交互的超时时间
	ShiftReadyTimeout time.Duration
	// PollInterval 可交互状态轮询间隔
	PollInterval time.Duration
	// PointerFactory 未显式传入指针时用于构造默认触摸指针
	PointerFactory func() (pointer.Pointer, error)
}

// DefaultOptions 默认配置
func DefaultOptions() *Options {
	return &Options{
		ShiftReadyTimeout: 3 * time.Second,
		PollInterval:      50 * time.Millisecond,
		PointerFactory:    pointer.Default,
	}
}

// ApplyOptions 应用配置选项
func ApplyOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithShiftReadyTimeout 设置 shift 键就绪等待超时
func WithShiftReadyTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ShiftReadyTimeout = d
	}
}

// WithPollInterval 设置轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) {
		o.PollInterval = d
	}
}

// WithPointerFactory 设置默认指针构造函数
func WithPointerFactory(fn func() (pointer.Pointer, error)) Option {
	return func(o *Options) {
		o.PointerFactory = fn
	}
}
