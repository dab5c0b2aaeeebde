package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fphash/internal/hasher"
)

func newBytesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bytes [text]",
		Short: "Hash text, or standard input when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			if len(args) == 1 {
				content = []byte(args[0])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				content = data
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), hasher.HashBytes(content))
			return err
		},
	}
}
