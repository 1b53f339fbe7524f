package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/runner"
	"github.com/goliatone/go-formstate/pkg/script"
	"github.com/goliatone/go-formstate/pkg/scriptfile"
)

var runCmd = &cobra.Command{
	Use:   "run [script.yaml]",
	Short: "Run a YAML script once and print its records",
	Long: `Runs the script against the configured session and prints the records
with the selected renderer.

Example:
  formstate run alarms.yaml --renderer json`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	doc, err := scriptfile.Load(args[0])
	if err != nil {
		return err
	}
	logger.Debug("Script loaded", zap.String("path", args[0]), zap.Int("inputs", doc.Inputs()))
	return runOnce(cmd, doc.Script())
}

// runOnce executes fn against the configured session and writes the
// rendered records to the command output.
func runOnce(cmd *cobra.Command, fn script.Func) error {
	ctx, cancel := signalContext()
	defer cancel()

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	r, err := runner.New(fn, runner.WithSession(sess), runner.WithLogger(logger))
	if err != nil {
		return err
	}
	result, err := r.Run(ctx)
	if err != nil {
		return err
	}

	registry, err := formstate.NewRenderers()
	if err != nil {
		return err
	}
	out, _, err := registry.Render(ctx, cfg.Renderer, result.Deltas)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if result.Err != nil {
		return fmt.Errorf("script failed: %w", result.Err)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
