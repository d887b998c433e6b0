//go:build !linux

package pointer

import "fmt"

// NewUinput uinput 指针仅支持 Linux
func NewUinput(screenWidth, screenHeight int, opts ...Option) (Pointer, error) {
	return nil, fmt.Errorf("uinput 指针仅支持 Linux")
}
