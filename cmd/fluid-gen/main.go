package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	fluidgen "github.com/blimu-dev/fluid-gen"
	"github.com/blimu-dev/fluid-gen/pkg/generator"
	"github.com/blimu-dev/fluid-gen/pkg/watch"
)

func main() {
	root := &cobra.Command{
		Use:   "fluid-gen",
		Short: "Generate typed frontend clients from API descriptors",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

type sourceFlags struct {
	config   string
	snapshot string
	openapi  string
	rootDir  string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Path to fluid.config.yaml")
	cmd.Flags().StringVar(&f.snapshot, "snapshot", "", "Descriptor snapshot file (yaml)")
	cmd.Flags().StringVar(&f.openapi, "openapi", "", "OpenAPI document file or URL")
	cmd.Flags().StringVar(&f.rootDir, "root", ".", "Project root for output paths")
}

func (f *sourceFlags) options() fluidgen.Options {
	return fluidgen.Options{
		Config:   f.config,
		Snapshot: f.snapshot,
		OpenAPI:  f.openapi,
		Root:     f.rootDir,
	}
}

func newGenerateCmd() *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate clients once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), flags.options())
		},
	}
	flags.register(cmd)
	return cmd
}

func newValidateCmd() *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and descriptors without writing output",
		RunE: func(cmd *cobra.Command, args []string) error {
			warnings, err := fluidgen.Validate(cmd.Context(), flags.options())
			for _, w := range warnings {
				slog.Warn(w.Message, "context", w.Context)
			}
			if err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newWatchCmd() *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate on descriptor changes until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(flags.rootDir, func(ctx context.Context) error {
				return runGenerate(ctx, flags.options())
			})
			err := w.Watch(ctx)
			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func runGenerate(ctx context.Context, opts fluidgen.Options) error {
	report, err := fluidgen.Generate(ctx, opts)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		slog.Warn(w.Message, "context", w.Context)
	}
	for _, d := range report.Diagnostics {
		if d.Severity == generator.SeverityError {
			slog.Error(d.Message, "stage", d.Stage, "file", d.File)
		} else {
			slog.Warn(d.Message, "stage", d.Stage, "file", d.File)
		}
	}
	slog.Info("generated", "files", len(report.Files))
	return nil
}
