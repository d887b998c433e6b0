package keypad

import (
	"context"
	"fmt"
)

// State 键盘的大小写状态
type State string

const (
	// StateNormal 普通状态（小写字符）
	StateNormal State = "NORMAL"
	// StateShifted 上档状态（大写字符，单次）
	StateShifted State = "SHIFTED"
	// StateCapsLock 大写锁定状态
	StateCapsLock State = "CAPSLOCK"
)

func (s State) String() string {
	return string(s)
}

// ParseState 解析状态字符串
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateNormal, StateShifted, StateCapsLock:
		return State(s), nil
	default:
		return "", fmt.Errorf("未知的键盘状态: %q", s)
	}
}

// StateSource 键盘状态源。状态始终从活动控件读取，本地不做权威缓存。
type StateSource interface {
	// State 读取当前状态
	State() (State, error)

	// WaitForState 阻塞等待状态变为 target，超时与取消由实现方和 ctx 决定
	WaitForState(ctx context.Context, target State) error
}
