package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"fphash/internal/hasher"
)

func newArrayCmd() *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "array [items...]",
		Short: "Hash an ordered list of strings joined with commas",
		Long: `Hash an ordered list of strings. The items are joined with "," before
hashing, so "a" "b" and the single item "a,b" produce the same digest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := args
			if fromStdin {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					items = append(items, sc.Text())
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), hasher.HashArray(items))
			return err
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "append one item per line from standard input")
	return cmd
}
