package keypad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoeyai/oskemu/pkg/pointer"
	"github.com/zoeyai/oskemu/pkg/widget"
)

var (
	rectA     = widget.Rect{X: 10, Y: 100, Width: 40, Height: 40}
	rectB     = widget.Rect{X: 60, Y: 100, Width: 40, Height: 40}
	rectShift = widget.Rect{X: 10, Y: 150, Width: 60, Height: 40}
	rectSpace = widget.Rect{X: 80, Y: 150, Width: 200, Height: 40}
)

// testFixture 标准测试夹具：a/A、b/B 两个字符键和全部动作键
type testFixture struct {
	query   *fakeQuery
	surface *fakeSurface
	states  *fakeStates
	ptr     *fakePointer
	shift   *fakeHandle
}

func newFixture() *testFixture {
	shift := actionKey(ActionShift, rectShift)
	return &testFixture{
		query: &fakeQuery{handles: map[widget.Kind][]widget.Handle{
			widget.KindCharKey: {
				charKey("a", "A", rectA),
				charKey("b", "B", rectB),
			},
			widget.KindActionKey: {
				shift,
				actionKey(ActionSpace, rectSpace),
				actionKey(ActionBackspace, widget.Rect{X: 290, Y: 150, Width: 40, Height: 40}),
				actionKey(ActionReturn, widget.Rect{X: 340, Y: 150, Width: 40, Height: 40}),
			},
		}},
		surface: &fakeSurface{name: "keypad", visible: true},
		states:  &fakeStates{state: StateNormal},
		ptr:     &fakePointer{},
		shift:   shift,
	}
}

func (f *testFixture) emulator(t *testing.T, opts ...Option) *Emulator {
	t.Helper()
	e, err := New(context.Background(), f.query, f.surface, f.states, nil, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestDiscovery(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	for _, label := range []string{"a", "A", "b", "B", ActionShift, ActionSpace} {
		if !e.ContainsKey(label) {
			t.Errorf("ContainsKey(%q) = false, want true", label)
		}
	}
	if e.ContainsKey("z") {
		t.Error("ContainsKey(z) = true, want false")
	}

	// 标准态标签和上档态标签共享同一控件矩形
	for _, label := range []string{"a", "A"} {
		rect, err := e.KeyPosition(label)
		if err != nil {
			t.Fatalf("KeyPosition(%q) error = %v", label, err)
		}
		if rect != rectA {
			t.Errorf("KeyPosition(%q) = %v, want %v", label, rect, rectA)
		}
	}
}

func TestKeyPositionUnknown(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	_, err := e.KeyPosition("z")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("KeyPosition(z) error = %v, want ErrUnknownKey", err)
	}
}

func TestUpdateKeyDetailsIdempotent(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	if len(e.normal) != 6 || len(e.shifted) != 2 {
		t.Fatalf("after first scan: normal=%d shifted=%d, want 6/2", len(e.normal), len(e.shifted))
	}

	// 重复扫描不应累积重复条目
	for i := 0; i < 3; i++ {
		if err := e.UpdateKeyDetails(context.Background()); err != nil {
			t.Fatalf("UpdateKeyDetails() error = %v", err)
		}
	}
	if len(e.normal) != 6 || len(e.shifted) != 2 {
		t.Errorf("after rescans: normal=%d shifted=%d, want 6/2", len(e.normal), len(e.shifted))
	}

	// 重新扫描应替换已有矩形
	moved := widget.Rect{X: 500, Y: 500, Width: 40, Height: 40}
	f.query.handles[widget.KindCharKey][0] = charKey("a", "A", moved)
	if err := e.UpdateKeyDetails(context.Background()); err != nil {
		t.Fatalf("UpdateKeyDetails() error = %v", err)
	}
	rect, err := e.KeyPosition("a")
	if err != nil {
		t.Fatalf("KeyPosition(a) error = %v", err)
	}
	if rect != moved {
		t.Errorf("KeyPosition(a) = %v, want %v after rescan", rect, moved)
	}
}

func TestKeyDetails(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	states, positions, err := e.KeyDetails(context.Background())
	if err != nil {
		t.Fatalf("KeyDetails() error = %v", err)
	}

	tests := []struct {
		label string
		state State
		rect  widget.Rect
	}{
		{"a", StateNormal, rectA},
		{"A", StateShifted, rectA},
		{"b", StateNormal, rectB},
		{ActionSpace, StateNormal, rectSpace},
	}
	for _, tt := range tests {
		if states[tt.label] != tt.state {
			t.Errorf("states[%q] = %v, want %v", tt.label, states[tt.label], tt.state)
		}
		if positions[tt.label] != tt.rect {
			t.Errorf("positions[%q] = %v, want %v", tt.label, positions[tt.label], tt.rect)
		}
	}
}

func TestKeyDetailsDoesNotMutateRegistries(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	// 控件树变化后 KeyDetails 反映新扫描，但注册表保持不变
	f.query.handles[widget.KindCharKey] = []widget.Handle{charKey("x", "X", rectA)}

	states, _, err := e.KeyDetails(context.Background())
	if err != nil {
		t.Fatalf("KeyDetails() error = %v", err)
	}
	if _, ok := states["x"]; !ok {
		t.Error("KeyDetails should see the fresh widget tree")
	}

	if !e.ContainsKey("a") {
		t.Error("registries must not change during KeyDetails")
	}
	if e.ContainsKey("x") {
		t.Error("KeyDetails must not append to registries")
	}
}

func TestPressKeyUnknownRegardlessOfVisibility(t *testing.T) {
	f := newFixture()
	f.surface.visible = false
	e := f.emulator(t)

	// 未知按键优先于可见性检查
	err := e.PressKey(context.Background(), "z", f.ptr)
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("PressKey(z) error = %v, want ErrUnknownKey", err)
	}
	if len(f.ptr.taps) != 0 {
		t.Errorf("no taps expected, got %d", len(f.ptr.taps))
	}
}

func TestPressKeyNotVisible(t *testing.T) {
	f := newFixture()
	f.surface.visible = false
	e := f.emulator(t)

	err := e.PressKey(context.Background(), "a", f.ptr)
	if !errors.Is(err, ErrKeypadNotVisible) {
		t.Errorf("PressKey(a) error = %v, want ErrKeypadNotVisible", err)
	}
	if len(f.ptr.taps) != 0 {
		t.Errorf("no taps expected, got %d", len(f.ptr.taps))
	}
}

func TestPressStructuralKeyNeverSwitchesState(t *testing.T) {
	for _, state := range []State{StateNormal, StateShifted, StateCapsLock} {
		t.Run(string(state), func(t *testing.T) {
			f := newFixture()
			f.states.state = state
			e := f.emulator(t)

			if err := e.PressKey(context.Background(), ActionSpace, f.ptr); err != nil {
				t.Fatalf("PressKey(space) error = %v", err)
			}

			if len(f.states.waits) != 0 {
				t.Errorf("structural key must not wait for a state switch, waits=%v", f.states.waits)
			}
			if f.states.state != state {
				t.Errorf("state changed from %v to %v", state, f.states.state)
			}
			if len(f.ptr.taps) != 1 || f.ptr.taps[0] != rectSpace {
				t.Errorf("taps = %v, want exactly [%v]", f.ptr.taps, rectSpace)
			}
		})
	}
}

func TestPressNormalKeyInNormalState(t *testing.T) {
	f := newFixture()
	e := f.emulator(t)

	if err := e.PressKey(context.Background(), "a", f.ptr); err != nil {
		t.Fatalf("PressKey(a) error = %v", err)
	}

	if len(f.states.waits) != 0 {
		t.Errorf("no state switch expected, waits=%v", f.states.waits)
	}
	if len(f.ptr.taps) != 1 || f.ptr.taps[0] != rectA {
		t.Errorf("taps = %v, want [%v]", f.ptr.taps, rectA)
	}
}

func TestPressShiftedKeyFromNormal(t *testing.T) {
	f := newFixture()
	e := f.emulator(t, WithPollInterval(time.Millisecond))

	// NORMAL 下按 "A"：一次 shift 点击、等待 SHIFTED、再点击目标矩形
	if err := e.PressKey(context.Background(), "A", f.ptr); err != nil {
		t.Fatalf("PressKey(A) error = %v", err)
	}

	want := []widget.Rect{rectShift, rectA}
	if len(f.ptr.taps) != 2 || f.ptr.taps[0] != want[0] || f.ptr.taps[1] != want[1] {
		t.Errorf("taps = %v, want %v", f.ptr.taps, want)
	}
	if len(f.states.waits) != 1 || f.states.waits[0] != StateShifted {
		t.Errorf("waits = %v, want [SHIFTED]", f.states.waits)
	}
	if f.states.state != StateShifted {
		t.Errorf("final state = %v, want SHIFTED", f.states.state)
	}
}

func TestPressShiftedKeyFromCapsLock(t *testing.T) {
	f := newFixture()
	f.states.state = StateCapsLock
	e := f.emulator(t)

	// CAPSLOCK 覆盖上档需求：不点击 shift，直接点击目标
	if err := e.PressKey(context.Background(), "A", f.ptr); err != nil {
		t.Fatalf("PressKey(A) error = %v", err)
	}

	if len(f.states.waits) != 0 {
		t.Errorf("no shift tap expected under CAPSLOCK, waits=%v", f.states.waits)
	}
	if len(f.ptr.taps) != 1 || f.ptr.taps[0] != rectA {
		t.Errorf("taps = %v, want [%v]", f.ptr.taps, rectA)
	}
	if f.states.state != StateCapsLock {
		t.Errorf("state = %v, want CAPSLOCK unchanged", f.states.state)
	}
}

func TestPressNormalKeyFromShifted(t *testing.T) {
	f := newFixture()
	f.states.state = StateShifted
	e := f.emulator(t, WithPollInterval(time.Millisecond))

	if err := e.PressKey(context.Background(), "a", f.ptr); err != nil {
		t.Fatalf("PressKey(a) error = %v", err)
	}

	if len(f.states.waits) != 1 || f.states.waits[0] != StateNormal {
		t.Errorf("waits = %v, want [NORMAL]", f.states.waits)
	}
	want := []widget.Rect{rectShift, rectA}
	if len(f.ptr.taps) != 2 || f.ptr.taps[0] != want[0] || f.ptr.taps[1] != want[1] {
		t.Errorf("taps = %v, want %v", f.ptr.taps, want)
	}
}

func TestShiftNotReadyTimeout(t *testing.T) {
	f := newFixture()
	f.shift.enabled = false
	e := f.emulator(t,
		WithShiftReadyTimeout(10*time.Millisecond),
		WithPollInterval(time.Millisecond),
	)

	err := e.PressKey(context.Background(), "A", f.ptr)
	if !errors.Is(err, ErrShiftNotReady) {
		t.Errorf("PressKey(A) error = %v, want ErrShiftNotReady", err)
	}
	if len(f.ptr.taps) != 0 {
		t.Errorf("shift must not be tapped before it is interactable, taps=%v", f.ptr.taps)
	}
}

func TestWaitForStateErrorPropagates(t *testing.T) {
	f := newFixture()
	waitErr := errors.New("widget gone")
	f.states.waitErr = waitErr
	e := f.emulator(t, WithPollInterval(time.Millisecond))

	err := e.PressKey(context.Background(), "A", f.ptr)
	if !errors.Is(err, waitErr) {
		t.Errorf("PressKey(A) error = %v, want the wait error unmodified", err)
	}
}

func TestStateReadErrorPropagates(t *testing.T) {
	f := newFixture()
	stateErr := errors.New("state read failed")
	f.states.stateErr = stateErr
	e := f.emulator(t)

	err := e.PressKey(context.Background(), "a", f.ptr)
	if !errors.Is(err, stateErr) {
		t.Errorf("PressKey(a) error = %v, want state read error", err)
	}
}

func TestPressKeyDefaultPointer(t *testing.T) {
	f := newFixture()
	created := &fakePointer{}
	e := f.emulator(t, WithPointerFactory(func() (pointer.Pointer, error) {
		return created, nil
	}))

	// 未传入指针时为本次调用构造默认指针，调用结束后释放
	if err := e.PressKey(context.Background(), "a", nil); err != nil {
		t.Fatalf("PressKey(a) error = %v", err)
	}

	if len(created.taps) != 1 {
		t.Errorf("default pointer taps = %d, want 1", len(created.taps))
	}
	if created.closed != 1 {
		t.Errorf("default pointer closed %d times, want 1", created.closed)
	}
}

func TestPressKeyCancelledContext(t *testing.T) {
	f := newFixture()
	f.shift.enabled = false
	e := f.emulator(t,
		WithShiftReadyTimeout(time.Second),
		WithPollInterval(time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.PressKey(ctx, "A", f.ptr)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PressKey error = %v, want context.Canceled", err)
	}
}

func BenchmarkContainsKey(b *testing.B) {
	f := newFixture()
	e, err := New(context.Background(), f.query, f.surface, f.states, nil)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.ContainsKey("A")
	}
}
