package main

import (
	"github.com/spf13/cobra"
)

var pressCmd = &cobra.Command{
	Use:   "press <按键>...",
	Short: "依次按下指定按键, 必要时自动切换 shift 状态",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := attach(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		return s.em.PressKeys(ctx, args...)
	},
}

func init() {
	rootCmd.AddCommand(pressCmd)
}
