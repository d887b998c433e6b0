//go:build darwin

// Package permissions 提供系统权限检查功能（macOS 专用）
package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework ApplicationServices
#import <Cocoa/Cocoa.h>
#import <ApplicationServices/ApplicationServices.h>

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

int requestAccessibilityPermission() {
    NSDictionary *options = @{(__bridge NSString *)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}

void openAccessibilityPreferences() {
    NSString *urlString = @"x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility";
    [[NSWorkspace sharedWorkspace] openURL:[NSURL URLWithString:urlString]];
}
*/
import "C"
import (
	"fmt"
	"os/exec"
)

// PermissionStatus 权限状态
type PermissionStatus struct {
	Accessibility bool `json:"accessibility"`
	Injection     bool `json:"injection"`
	AllGranted    bool `json:"all_granted"`
}

// CheckPermissions 检查所需权限（不触发弹窗）
// macOS 上指针注入同样走辅助功能权限
func CheckPermissions() *PermissionStatus {
	accessibility := C.checkAccessibilityPermission() == 1

	return &PermissionStatus{
		Accessibility: accessibility,
		Injection:     accessibility,
		AllGranted:    accessibility,
	}
}

// RequestAccessibilityPermission 请求辅助功能权限（触发系统弹窗）
func RequestAccessibilityPermission() bool {
	return C.requestAccessibilityPermission() == 1
}

// OpenAccessibilitySettings 打开辅助功能设置页面
func OpenAccessibilitySettings() {
	C.openAccessibilityPreferences()
}

// GetPermissionInstructions 获取权限说明
func GetPermissionInstructions(status *PermissionStatus) string {
	if status.AllGranted {
		return ""
	}

	msg := "需要授权以下权限才能正常工作:\n\n"
	msg += "1. 辅助功能权限 (用于注入指针事件)\n"
	msg += "   系统偏好设置 > 安全性与隐私 > 隐私 > 辅助功能\n\n"
	msg += "授权后需要重新运行才能生效。"

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
	bundleID := "com.zoeyai.oskemu"

	cmd := fmt.Sprintf("tccutil reset Accessibility %s", bundleID)
	if err := exec.Command("sh", "-c", cmd).Run(); err != nil {
		return fmt.Errorf("重置辅助功能权限失败: %v", err)
	}

	return nil
}
