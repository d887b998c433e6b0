package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "显示键盘区当前状态",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := attach(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		state, err := s.pad.State()
		if err != nil {
			return err
		}

		name := s.pad.Name()
		if name == "" {
			name = "(未命名)"
		}

		fmt.Printf("键盘区: %s\n", name)
		fmt.Printf("状态:   %s\n", state)
		fmt.Printf("可见:   %v\n", s.pad.Visible())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
