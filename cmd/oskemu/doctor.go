package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoeyai/oskemu/pkg/permissions"
	"github.com/zoeyai/oskemu/pkg/process"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "检查运行环境: 权限、键盘服务进程、总线连接",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		failed := 0

		check := func(name string, ok bool, detail string) {
			status := "OK"
			if !ok {
				status = "NG"
				failed++
			}
			fmt.Printf("%-4s | %s", status, name)
			if detail != "" {
				fmt.Printf(" | %s", detail)
			}
			fmt.Println()
		}

		fmt.Printf("配置: service=%s pointer=%s bus=%s\n\n", cfg.Service, cfg.PointerBackend, busLabel())

		// 权限
		perm := permissions.CheckPermissions()
		check("注入权限", perm.AllGranted, "")
		if !perm.AllGranted {
			fmt.Println(permissions.GetPermissionInstructions(perm))
		}

		// 键盘服务进程
		info, err := process.FindServer(cfg.ProcessName)
		if err != nil {
			check("键盘服务进程", false, err.Error())
		} else {
			check("键盘服务进程", true, fmt.Sprintf("%s (PID %d)", info.Name, info.PID))
		}

		// 总线连接与按键发现
		s, err := attach(ctx)
		if err != nil {
			check("总线连接", false, err.Error())
		} else {
			defer s.close()
			check("总线连接", true, "")

			states, _, err := s.em.KeyDetails(ctx)
			if err != nil {
				check("按键发现", false, err.Error())
			} else {
				check("按键发现", len(states) > 0, fmt.Sprintf("%d 个按键", len(states)))
				check("键盘区可见", s.pad.Visible(), "")
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d 项检查未通过", failed)
		}

		fmt.Println("\n所有检查通过")
		return nil
	},
}

func busLabel() string {
	if cfg.BusAddress == "" {
		return "(自动发现)"
	}
	return cfg.BusAddress
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
