package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fphash/internal/hasher"
	"fphash/internal/version"
)

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Algorithm  string `json:"algorithm"`
	SampleSize int    `json:"sample_size"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

const hashAlgorithm = "xxh3-64"

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show fphash build metadata",
		// overrides the root hook: version needs no fphash.toml or tracer
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupColor(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout())
				return nil
			case "json":
				return renderVersionJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func renderVersionPretty(out io.Writer) {
	fmt.Fprintf(out, "fphash %s\n", version.Colored())
	fmt.Fprintf(out, "digest: %s, file sample %d bytes\n", hashAlgorithm, hasher.SampleSize)
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(version.GitCommit))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(version.BuildDate))
}

func renderVersionJSON(out io.Writer) error {
	payload := versionPayload{
		Tool:       "fphash",
		Version:    version.Version,
		Algorithm:  hashAlgorithm,
		SampleSize: hasher.SampleSize,
		GitCommit:  strings.TrimSpace(version.GitCommit),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unknown"
	}
	return s
}
