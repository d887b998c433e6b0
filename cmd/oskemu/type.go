package main

import (
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <文本>",
	Short: "逐字符输入一段文本",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := attach(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		return s.em.TypeText(ctx, args[0])
	},
}

func init() {
	rootCmd.AddCommand(typeCmd)
}
