package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/zoeyai/oskemu/pkg/keypad"
	"github.com/zoeyai/oskemu/pkg/pointer"
	"github.com/zoeyai/oskemu/pkg/widget/atspi"
)

// session 一次连接到键盘的完整会话
type session struct {
	conn *atspi.Conn
	pad  *atspi.Keypad
	em   *keypad.Emulator
}

// attach 连接辅助功能总线, 定位键盘区并构建模拟器
func attach(ctx context.Context) (*session, error) {
	conn, err := atspi.Connect(ctx, &atspi.Options{
		BusAddress:       cfg.BusAddress,
		Service:          cfg.Service,
		StateWaitTimeout: time.Duration(cfg.StateWaitTimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	pad, err := conn.Keypad(ctx, cfg.KeypadName)
	if err != nil {
		conn.Close()
		return nil, err
	}

	em, err := keypad.New(ctx, pad, pad, pad, appLog.Logger,
		keypad.WithShiftReadyTimeout(time.Duration(cfg.ShiftReadyTimeoutMs)*time.Millisecond),
		keypad.WithPointerFactory(newPointer),
	)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &session{conn: conn, pad: pad, em: em}, nil
}

func (s *session) close() {
	s.conn.Close()
}

// newPointer 按配置构建指针后端
func newPointer() (pointer.Pointer, error) {
	settle := pointer.WithSettleDelay(time.Duration(cfg.TapSettleMs) * time.Millisecond)

	switch cfg.PointerBackend {
	case "", "robotgo":
		return pointer.NewTouch(settle), nil
	case "uinput":
		width, height := robotgo.GetScreenSize()
		return pointer.NewUinput(width, height, settle)
	default:
		return nil, fmt.Errorf("未知指针后端: %s", cfg.PointerBackend)
	}
}
