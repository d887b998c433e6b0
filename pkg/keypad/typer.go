package keypad

import (
	"context"
	"fmt"
)

// PressKeys 依次按下一组按键，共用一个指针
func (e *Emulator) PressKeys(ctx context.Context, labels ...string) error {
	if len(labels) == 0 {
		return nil
	}

	p, err := e.opts.PointerFactory()
	if err != nil {
		return fmt.Errorf("创建默认指针失败: %w", err)
	}
	defer p.Close()

	for _, label := range labels {
		if err := e.PressKey(ctx, label, p); err != nil {
			return fmt.Errorf("按键 %q 失败: %w", label, err)
		}
	}
	return nil
}

// TypeText 将文本逐字符转换为按键序列并输入。
// 空格、换行和退格映射为对应的动作键，其余字符按标签查找。
func (e *Emulator) TypeText(ctx context.Context, text string) error {
	labels := make([]string, 0, len(text))
	for _, r := range text {
		labels = append(labels, labelForRune(r))
	}
	return e.PressKeys(ctx, labels...)
}

// labelForRune 字符到按键标签的映射
func labelForRune(r rune) string {
	switch r {
	case ' ':
		return ActionSpace
	case '\n':
		return ActionReturn
	case '\b':
		return ActionBackspace
	default:
		return string(r)
	}
}
