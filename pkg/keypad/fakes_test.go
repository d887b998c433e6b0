package keypad

import (
	"context"

	"github.com/zoeyai/oskemu/pkg/widget"
)

// fakeHandle 测试用控件句柄
type fakeHandle struct {
	kind    widget.Kind
	label   string
	shifted string
	action  string
	rect    widget.Rect
	visible bool
	enabled bool
}

func (h *fakeHandle) Kind() widget.Kind { return h.kind }
func (h *fakeHandle) Label() string     { return h.label }
func (h *fakeHandle) Shifted() string   { return h.shifted }
func (h *fakeHandle) Action() string    { return h.action }
func (h *fakeHandle) Rect() widget.Rect { return h.rect }
func (h *fakeHandle) Visible() bool     { return h.visible }
func (h *fakeHandle) Enabled() bool     { return h.enabled }

func (h *fakeHandle) Frozen(fn func(widget.Handle) error) error {
	return fn(h)
}

func charKey(label, shifted string, rect widget.Rect) *fakeHandle {
	return &fakeHandle{
		kind:    widget.KindCharKey,
		label:   label,
		shifted: shifted,
		rect:    rect,
		visible: true,
		enabled: true,
	}
}

func actionKey(action string, rect widget.Rect) *fakeHandle {
	return &fakeHandle{
		kind:    widget.KindActionKey,
		action:  action,
		rect:    rect,
		visible: true,
		enabled: true,
	}
}

// fakeQuery 测试用控件查询
type fakeQuery struct {
	handles map[widget.Kind][]widget.Handle
	findErr error
}

func (q *fakeQuery) FindByKind(ctx context.Context, kind widget.Kind) ([]widget.Handle, error) {
	if q.findErr != nil {
		return nil, q.findErr
	}
	return q.handles[kind], nil
}

// fakeSurface 测试用键区容器
type fakeSurface struct {
	name    string
	visible bool
}

func (s *fakeSurface) Name() string  { return s.name }
func (s *fakeSurface) Visible() bool { return s.visible }

// fakeStates 测试用状态源。WaitForState 记录等待目标并直接完成切换。
type fakeStates struct {
	state    State
	stateErr error
	waits    []State
	waitErr  error
}

func (s *fakeStates) State() (State, error) {
	return s.state, s.stateErr
}

func (s *fakeStates) WaitForState(ctx context.Context, target State) error {
	s.waits = append(s.waits, target)
	if s.waitErr != nil {
		return s.waitErr
	}
	s.state = target
	return nil
}

// fakePointer 记录点击的测试指针
type fakePointer struct {
	taps     []widget.Rect
	closed   int
	tapErr   error
}

func (p *fakePointer) TapAt(x, y int) error {
	p.taps = append(p.taps, widget.Rect{X: x, Y: y})
	return p.tapErr
}

func (p *fakePointer) TapRect(r widget.Rect) error {
	if p.tapErr != nil {
		return p.tapErr
	}
	p.taps = append(p.taps, r)
	return nil
}

func (p *fakePointer) Close() error {
	p.closed++
	return nil
}
