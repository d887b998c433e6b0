// Package pointer 提供模拟触摸/鼠标指针注入。
// 默认后端基于 robotgo，Linux 下可选 uinput 虚拟触摸板后端。
package pointer

import (
	"fmt"
	"time"

	"github.com/zoeyai/oskemu/pkg/widget"
)

// Pointer 模拟指针。一次 Tap 对应一次完整的按下加抬起。
type Pointer interface {
	// TapAt 在屏幕坐标 (x, y) 处点击
	TapAt(x, y int) error

	// TapRect 点击矩形区域中心
	TapRect(r widget.Rect) error

	// Close 释放指针占用的资源
	Close() error
}

// DefaultSettleDelay 移动后点击前的默认停顿，确保指针到位
const DefaultSettleDelay = 50 * time.Millisecond

// Option 指针配置选项
type Option func(*options)

type options struct {
	settle time.Duration
}

func applyOptions(opts ...Option) *options {
	o := &options{settle: DefaultSettleDelay}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSettleDelay 设置移动后点击前的停顿时间
func WithSettleDelay(d time.Duration) Option {
	return func(o *options) {
		o.settle = d
	}
}

// Default 构造默认触摸指针（robotgo 后端）
func Default() (Pointer, error) {
	return NewTouch(), nil
}

// tapRectCenter 校验矩形并点击其中心
func tapRectCenter(p Pointer, r widget.Rect) error {
	if r.Empty() {
		return fmt.Errorf("矩形区域无效: %s", r)
	}
	x, y := r.Center()
	return p.TapAt(x, y)
}
