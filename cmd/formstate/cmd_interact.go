package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/runner"
	"github.com/goliatone/go-formstate/pkg/scriptfile"
)

var showRecords bool

var interactCmd = &cobra.Command{
	Use:   "interact [script.yaml]",
	Short: "Run a YAML script interactively",
	Long: `Reruns the script after every change. Pick a time input, enter HH:MM
or leave the answer blank to clear it. Choose Done or press Ctrl+C to stop.

With session.store: sqlite the values survive between invocations; pass the
printed session id with --session to resume.`,
	Args: cobra.ExactArgs(1),
	RunE: runInteract,
}

func runInteract(cmd *cobra.Command, args []string) error {
	doc, err := scriptfile.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess, closeStore, err := openSession()
	if err != nil {
		return err
	}
	defer closeStore()

	r, err := runner.New(doc.Script(), runner.WithSession(sess), runner.WithLogger(logger))
	if err != nil {
		return err
	}

	options := []tui.Option{
		tui.WithLogger(logger),
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithTheme(tui.Theme{InfoPrefix: "» ", ErrorPrefix: "error: "}),
	}
	if showRecords {
		registry, err := formstate.NewRenderers()
		if err != nil {
			return err
		}
		renderer, err := registry.Get(cfg.Renderer)
		if err != nil {
			return err
		}
		options = append(options, tui.WithRecordRenderer(renderer))
	}

	loop, err := tui.New(r, options...)
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}
