package keypad

import "errors"

// 错误分类：参数错误与状态错误均同步抛出，不在内部重试。
var (
	// ErrUnknownKey 请求的按键不在任何注册表中
	ErrUnknownKey = errors.New("按键不在键盘中")

	// ErrKeypadNotVisible 按键请求时键盘控件不可见
	ErrKeypadNotVisible = errors.New("键盘当前不可见")

	// ErrShiftNotReady 等待 shift 键可交互超时
	ErrShiftNotReady = errors.New("等待 shift 键就绪超时")
)
