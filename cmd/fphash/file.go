package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fphash/internal/hasher"
)

var errUnreadable = errors.New("unreadable files")

func newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>...",
		Short: "Hash files by their first buffer of content",
		Long: fmt.Sprintf(`Hash files. Only the first %d bytes of each file are hashed.
Unreadable paths print "-" and make the command exit with status 1.`, hasher.SampleSize),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := hasher.HashFiles(cmd.Context(), args, settings.Hash.Jobs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unreadable := 0
			for _, r := range results {
				if !r.OK {
					unreadable++
				}
				if _, err := fmt.Fprintf(out, "%s  %s\n", formatDigest(r.Digest, r.OK), r.Path); err != nil {
					return err
				}
			}
			if unreadable > 0 {
				return fmt.Errorf("%d of %d: %w", unreadable, len(results), errUnreadable)
			}
			return nil
		},
	}
}
