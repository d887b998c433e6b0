//go:build linux

// Package permissions 提供系统权限检查功能
package permissions

import (
	"os"
)

// PermissionStatus 权限状态
type PermissionStatus struct {
	Accessibility bool `json:"accessibility"`
	Injection     bool `json:"injection"`
	AllGranted    bool `json:"all_granted"`
}

// CheckPermissions 检查所需权限
// Linux 上辅助功能总线无需授权，注入依赖 /dev/uinput 的写权限
func CheckPermissions() *PermissionStatus {
	injection := canWriteUinput()

	return &PermissionStatus{
		Accessibility: true,
		Injection:     injection,
		AllGranted:    injection,
	}
}

func canWriteUinput() bool {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// RequestAccessibilityPermission 请求辅助功能权限
func RequestAccessibilityPermission() bool {
	return true
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {}

// GetPermissionInstructions 获取权限说明
func GetPermissionInstructions(status *PermissionStatus) string {
	if status.AllGranted {
		return ""
	}

	msg := "需要以下权限才能正常工作:\n\n"
	msg += "1. /dev/uinput 写权限 (uinput 指针后端)\n"
	msg += "   将当前用户加入 input 组, 或改用 robotgo 指针后端\n"

	return msg
}

// EnsurePermissions 确保权限已授予
func EnsurePermissions() (bool, string) {
	status := CheckPermissions()
	if status.AllGranted {
		return true, ""
	}

	return false, GetPermissionInstructions(status)
}

// ResetPermissions 重置权限状态
func ResetPermissions() error {
	return nil
}
