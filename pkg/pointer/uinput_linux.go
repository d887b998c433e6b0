//go:build linux

package pointer

import (
	"fmt"
	"time"

	"github.com/bendahl/uinput"

	"github.com/zoeyai/oskemu/pkg/widget"
)

// uinputPointer 基于 uinput 虚拟触摸板的指针（需要 /dev/uinput 写权限）
type uinputPointer struct {
	pad    uinput.TouchPad
	settle time.Duration
}

// NewUinput 创建 uinput 触摸指针，坐标范围为整个屏幕
func NewUinput(screenWidth, screenHeight int, opts ...Option) (Pointer, error) {
	o := applyOptions(opts...)

	pad, err := uinput.CreateTouchPad("/dev/uinput", []byte("oskemu-touch"),
		0, int32(screenWidth), 0, int32(screenHeight))
	if err != nil {
		return nil, fmt.Errorf("创建 uinput 触摸板失败: %w", err)
	}

	return &uinputPointer{pad: pad, settle: o.settle}, nil
}

// TapAt 在指定位置点击
func (p *uinputPointer) TapAt(x, y int) error {
	if err := p.pad.MoveTo(int32(x), int32(y)); err != nil {
		return fmt.Errorf("移动触摸点失败: %w", err)
	}
	time.Sleep(p.settle)
	if err := p.pad.LeftClick(); err != nil {
		return fmt.Errorf("触摸点击失败: %w", err)
	}
	return nil
}

// TapRect 点击矩形区域中心
func (p *uinputPointer) TapRect(r widget.Rect) error {
	return tapRectCenter(p, r)
}

// Close 销毁虚拟触摸板设备
func (p *uinputPointer) Close() error {
	return p.pad.Close()
}
