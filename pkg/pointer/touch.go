package pointer

import (
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/oskemu/pkg/widget"
)

// touchPointer 基于 robotgo 的触摸指针
type touchPointer struct {
	settle time.Duration
}

// NewTouch 创建 robotgo 触摸指针
func NewTouch(opts ...Option) Pointer {
	o := applyOptions(opts...)
	return &touchPointer{settle: o.settle}
}

// TapAt 在指定位置点击
func (p *touchPointer) TapAt(x, y int) error {
	robotgo.Move(x, y)
	time.Sleep(p.settle) // 短暂延迟确保指针到位
	robotgo.Click("left", false)
	return nil
}

// TapRect 点击矩形区域中心
func (p *touchPointer) TapRect(r widget.Rect) error {
	return tapRectCenter(p, r)
}

// Close robotgo 指针无需释放资源
func (p *touchPointer) Close() error {
	return nil
}
