package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zoeyai/oskemu/pkg/keypad"
	"github.com/zoeyai/oskemu/pkg/widget"
)

var keysJSON bool

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "列出键盘区当前发现的按键",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := attach(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		states, rects, err := s.em.KeyDetails(ctx)
		if err != nil {
			return err
		}

		labels := make([]string, 0, len(states))
		for label := range states {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		if keysJSON {
			return printKeysJSON(labels, states, rects)
		}

		fmt.Printf("%-12s %-10s %s\n", "按键", "状态层", "位置")
		for _, label := range labels {
			fmt.Printf("%-12s %-10s %s\n", label, states[label], rects[label])
		}
		fmt.Printf("共 %d 个按键\n", len(labels))
		return nil
	},
}

type keyEntry struct {
	Label string      `json:"label"`
	State string      `json:"state"`
	Rect  widget.Rect `json:"rect"`
}

func printKeysJSON(labels []string, states map[string]keypad.State, rects map[string]widget.Rect) error {
	entries := make([]keyEntry, 0, len(labels))
	for _, label := range labels {
		entries = append(entries, keyEntry{
			Label: label,
			State: string(states[label]),
			Rect:  rects[label],
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func init() {
	keysCmd.Flags().BoolVar(&keysJSON, "json", false, "以 JSON 输出")
	rootCmd.AddCommand(keysCmd)
}
