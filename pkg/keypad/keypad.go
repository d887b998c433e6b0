// Package keypad 实现屏幕键盘键区的测试模拟器。
// 它从活动控件树发现键区包含哪些按键、按键的屏幕位置以及键区当前
// 所处的状态（NORMAL/SHIFTED/CAPSLOCK），并通过指针注入后端按下
// 指定按键，必要时先点击 shift 切换状态。
package keypad

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zoeyai/oskemu/pkg/pointer"
	"github.com/zoeyai/oskemu/pkg/widget"
)

// 动作键标识
const (
	ActionShift     = "shift"
	ActionBackspace = "backspace"
	ActionSymbols   = "symbols"
	ActionSpace     = "space"
	ActionReturn    = "return"
)

// structuralKeys 结构键集合。按下结构键永远使用键区当前状态，不触发切换。
var structuralKeys = map[string]struct{}{
	ActionShift:     {},
	ActionBackspace: {},
	ActionSymbols:   {},
	ActionSpace:     {},
	ActionReturn:    {},
}

// Emulator 键区模拟器。
// 注册表在构造时扫描一次填充，UpdateKeyDetails 重建（替换式，可重复调用）。
// 调用序列为单线程同步阻塞，不做内部加锁。
type Emulator struct {
	query   widget.Query
	surface widget.Container
	states  StateSource
	log     *slog.Logger
	opts    *Options

	// 注册表：标准态与上档态标签各自映射到屏幕矩形
	normal  map[string]widget.Rect
	shifted map[string]widget.Rect
}

// New 创建键区模拟器并执行首次按键发现扫描
func New(ctx context.Context, query widget.Query, surface widget.Container, states StateSource, log *slog.Logger, opts ...Option) (*Emulator, error) {
	if log == nil {
		log = slog.Default()
	}

	e := &Emulator{
		query:   query,
		surface: surface,
		states:  states,
		log:     log,
		opts:    ApplyOptions(opts...),
	}

	if err := e.UpdateKeyDetails(ctx); err != nil {
		return nil, fmt.Errorf("首次按键发现失败: %w", err)
	}

	return e, nil
}

// ContainsKey 判断标签是否存在于任一注册表中，无副作用
func (e *Emulator) ContainsKey(label string) bool {
	if _, ok := e.normal[label]; ok {
		return true
	}
	_, ok := e.shifted[label]
	return ok
}

// UpdateKeyDetails 重新扫描控件树并替换注册表。
// 扫描先构建全新映射再整体替换，重复调用不会累积重复条目。
func (e *Emulator) UpdateKeyDetails(ctx context.Context) error {
	normal, shifted, err := e.scan(ctx)
	if err != nil {
		return err
	}

	e.normal = normal
	e.shifted = shifted

	e.log.DebugContext(ctx, "按键发现完成",
		"keypad", e.surface.Name(),
		"normal", len(normal),
		"shifted", len(shifted),
	)
	return nil
}

// KeyDetails 执行一次独立的发现扫描，返回每个标签适用的状态和矩形。
// 不修改模拟器自身的注册表。
func (e *Emulator) KeyDetails(ctx context.Context) (map[string]State, map[string]widget.Rect, error) {
	normal, shifted, err := e.scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	states := make(map[string]State, len(normal)+len(shifted))
	positions := make(map[string]widget.Rect, len(normal)+len(shifted))

	for label, rect := range normal {
		states[label] = StateNormal
		positions[label] = rect
	}
	for label, rect := range shifted {
		states[label] = StateShifted
		positions[label] = rect
	}

	return states, positions, nil
}

// scan 扫描控件树，构建标准态与上档态注册表。
// 矩形在控件的稳定快照中读取，避免读到布局变化中途的值。
func (e *Emulator) scan(ctx context.Context) (map[string]widget.Rect, map[string]widget.Rect, error) {
	normal := make(map[string]widget.Rect)
	shifted := make(map[string]widget.Rect)

	iterKeys := func(kind widget.Kind, labelOf func(widget.Handle) string) error {
		keys, err := e.query.FindByKind(ctx, kind)
		if err != nil {
			return fmt.Errorf("查找 %s 控件失败: %w", kind, err)
		}

		for _, key := range keys {
			err := key.Frozen(func(k widget.Handle) error {
				rect := k.Rect()
				if label := labelOf(k); label != "" {
					normal[label] = rect
				}
				if s := k.Shifted(); s != "" {
					shifted[s] = rect
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("读取 %s 控件快照失败: %w", kind, err)
			}
		}
		return nil
	}

	if err := iterKeys(widget.KindCharKey, widget.Handle.Label); err != nil {
		return nil, nil, err
	}
	if err := iterKeys(widget.KindActionKey, widget.Handle.Action); err != nil {
		return nil, nil, err
	}

	return normal, shifted, nil
}

// PressKey 按下标签为 label 的按键。
// 先解析按键所需的键区状态，必要时切换状态，再点击按键矩形。
// p 为 nil 时为本次调用构造默认触摸指针，并在调用结束后释放。
func (e *Emulator) PressKey(ctx context.Context, label string, p pointer.Pointer) error {
	if !e.ContainsKey(label) {
		return fmt.Errorf("按键 %q 不在键盘 %s 中: %w", label, e.surface.Name(), ErrUnknownKey)
	}

	if !e.surface.Visible() {
		return fmt.Errorf("键盘 %s: %w", e.surface.Name(), ErrKeypadNotVisible)
	}

	required, err := e.requiredState(label)
	if err != nil {
		return err
	}

	if p == nil {
		created, err := e.opts.PointerFactory()
		if err != nil {
			return fmt.Errorf("创建默认指针失败: %w", err)
		}
		defer created.Close()
		p = created
	}

	if err := e.switchToState(ctx, required, p); err != nil {
		return err
	}

	rect, err := e.KeyPosition(label)
	if err != nil {
		return err
	}

	e.log.DebugContext(ctx, "点击按键", "key", label, "rect", rect.String())
	if err := p.TapRect(rect); err != nil {
		return fmt.Errorf("点击按键 %q 失败: %w", label, err)
	}
	return nil
}

// KeyPosition 返回发现时记录的按键矩形
func (e *Emulator) KeyPosition(label string) (widget.Rect, error) {
	if rect, ok := e.normal[label]; ok {
		return rect, nil
	}
	if rect, ok := e.shifted[label]; ok {
		return rect, nil
	}
	return widget.Rect{}, fmt.Errorf("没有记录按键 %q 的位置: %w", label, ErrUnknownKey)
}

// requiredState 解析按键所需的键区状态。
// 结构键使用当前状态；其余按键按其所在注册表决定。
func (e *Emulator) requiredState(label string) (State, error) {
	if _, ok := structuralKeys[label]; ok {
		current, err := e.states.State()
		if err != nil {
			return "", fmt.Errorf("读取键盘状态失败: %w", err)
		}
		return current, nil
	}
	if _, ok := e.normal[label]; ok {
		return StateNormal, nil
	}
	if _, ok := e.shifted[label]; ok {
		return StateShifted, nil
	}
	return "", fmt.Errorf("无法确定按键 %q 所需的状态: %w", label, ErrUnknownKey)
}

// switchToState 将键区切换到目标状态。
// 已处于目标状态时为空操作；目标为 SHIFTED 且当前为 CAPSLOCK 时视为
// 已满足（大写锁定覆盖上档字符集）。否则点击 shift 并等待活动控件
// 报告预期状态。
func (e *Emulator) switchToState(ctx context.Context, target State, p pointer.Pointer) error {
	current, err := e.states.State()
	if err != nil {
		return fmt.Errorf("读取键盘状态失败: %w", err)
	}

	if target == current {
		return nil
	}

	if target == StateShifted && current == StateCapsLock {
		e.log.DebugContext(ctx, "已处于 CAPSLOCK，忽略切换到 SHIFTED 的请求")
		return nil
	}

	e.log.DebugContext(ctx, "切换键盘状态", "from", string(current), "to", string(target))

	expected := StateShifted
	if current != StateNormal {
		expected = StateNormal
	}

	rect, err := e.KeyPosition(ActionShift)
	if err != nil {
		return err
	}

	if err := e.waitShiftReady(ctx); err != nil {
		return err
	}

	if err := p.TapRect(rect); err != nil {
		return fmt.Errorf("点击 shift 键失败: %w", err)
	}

	// 等待失败原样向上传播，这里不做重试
	return e.states.WaitForState(ctx, expected)
}

// waitShiftReady 轮询等待 shift 键可交互。
// 键区布局切换后 shift 键会短暂不响应点击，这里以有界轮询代替
// 无条件延时，超时返回 ErrShiftNotReady。
func (e *Emulator) waitShiftReady(ctx context.Context) error {
	deadline := time.Now().Add(e.opts.ShiftReadyTimeout)

	for {
		ready, err := e.shiftInteractable(ctx)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: 超时 %s", ErrShiftNotReady, e.opts.ShiftReadyTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.opts.PollInterval):
		}
	}
}

// shiftInteractable 检查 shift 键当前是否可见且可交互
func (e *Emulator) shiftInteractable(ctx context.Context) (bool, error) {
	keys, err := e.query.FindByKind(ctx, widget.KindActionKey)
	if err != nil {
		return false, fmt.Errorf("查找 shift 键失败: %w", err)
	}

	for _, k := range keys {
		if k.Action() == ActionShift {
			return k.Visible() && k.Enabled(), nil
		}
	}

	return false, nil
}
