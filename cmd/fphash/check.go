package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"fphash/internal/hasher"
	"fphash/internal/manifest"
)

var errChanged = errors.New("files changed")

type checkOptions struct {
	record       bool
	exitCode     bool
	list         bool
	manifestPath string
	quiet        bool
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Compare file digests against the recorded manifest",
		Long: `Compare file digests against the recorded manifest. Unreadable files are
always reported as changed. With --record the new digests are stored.

Entries are keyed by their path relative to the directory holding
fphash.toml, so checks give the same answer from any working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return runList(cmd, args, opts)
			}
			if len(args) == 0 {
				return errors.New("check requires at least one path (or --list)")
			}
			return runCheck(cmd, args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.record, "record", false, "store the new digests in the manifest")
	cmd.Flags().BoolVar(&opts.exitCode, "exit-code", false, "exit with status 1 when any file changed")
	cmd.Flags().BoolVar(&opts.list, "list", false, "print the recorded entries instead of checking")
	cmd.Flags().StringVar(&opts.manifestPath, "manifest", "", "manifest path (default from config)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print changed files")
	return cmd
}

func manifestPath(opts checkOptions) string {
	if opts.manifestPath != "" {
		return opts.manifestPath
	}
	return settings.ManifestPath()
}

// manifestKey names path relative to root with forward slashes.
// Paths on another volume fall back to their absolute form.
func manifestKey(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}

func runCheck(cmd *cobra.Command, args []string, opts checkOptions) error {
	path := manifestPath(opts)
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	paths := make([]string, len(args))
	for i, a := range args {
		paths[i] = filepath.Clean(a)
	}
	results, err := hasher.HashFiles(cmd.Context(), paths, settings.Hash.Jobs)
	if err != nil {
		return err
	}

	// results keep the typed paths for output; keyed is what the manifest sees
	keyed := make([]hasher.Result, len(results))
	for i, r := range results {
		key, err := manifestKey(settings.Root, r.Path)
		if err != nil {
			return err
		}
		keyed[i] = r
		keyed[i].Path = key
	}

	changes := m.Diff(keyed)
	width := columnWidth(paths)
	changed := 0
	out := cmd.OutOrStdout()
	for i, c := range changes {
		if c.Status.Changed() {
			changed++
		} else if opts.quiet {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s  %s  %s\n", formatStatus(c.Status), runewidth.FillRight(paths[i], width), c.Current); err != nil {
			return err
		}
	}

	if opts.record {
		m.Record(keyed)
		if err := m.Save(path); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}
	}
	if opts.exitCode && changed > 0 {
		return fmt.Errorf("%d of %d: %w", changed, len(changes), errChanged)
	}
	return nil
}

// runList prints recorded entries, all of them or only the given paths.
func runList(cmd *cobra.Command, args []string, opts checkOptions) error {
	m, err := manifest.Load(manifestPath(opts))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if m.Len() == 0 {
		_, err := fmt.Fprintln(out, "manifest is empty")
		return err
	}

	keys := m.Paths()
	if len(args) > 0 {
		keys = keys[:0:0]
		for _, a := range args {
			key, err := manifestKey(settings.Root, filepath.Clean(a))
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		digest, ok := m.Get(key)
		if _, err := fmt.Fprintf(out, "%s  %s\n", formatDigest(digest, ok), key); err != nil {
			return err
		}
	}
	return nil
}
