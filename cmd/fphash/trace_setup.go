package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fphash/internal/trace"
)

// setupTracing builds the tracer from config and trace flags, attaches it
// to the command context and opens the command span. finishTrace is set to
// end the span and close the tracer.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	cfg, err := settings.TracerConfig()
	if err != nil {
		return fmt.Errorf("invalid trace config: %w", err)
	}

	if flags.Changed("trace") {
		if cfg.OutputPath, err = flags.GetString("trace"); err != nil {
			return fmt.Errorf("failed to get trace flag: %w", err)
		}
		// --trace alone means "trace something"
		if cfg.Level == trace.LevelOff {
			cfg.Level = trace.LevelPhase
		}
	}
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		if cfg.Level, err = trace.ParseLevel(levelStr); err != nil {
			return err
		}
	}
	if flags.Changed("trace-format") {
		formatStr, err := flags.GetString("trace-format")
		if err != nil {
			return fmt.Errorf("failed to get trace-format flag: %w", err)
		}
		if cfg.Format, err = trace.ParseFormat(formatStr); err != nil {
			return err
		}
	}

	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	span := trace.Begin(tracer, trace.ScopeCommand, cmd.Name(), 0)
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithSpan(ctx, span)
	cmd.SetContext(ctx)

	finishTrace = func(runErr error) {
		if runErr != nil {
			trace.Error(tracer, trace.ScopeCommand, cmd.Name(), runErr.Error(), span.ID())
			span.End("failed")
		} else {
			span.End("")
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return nil
}
