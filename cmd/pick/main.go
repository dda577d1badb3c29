package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/pick.go/cli"
	"github.com/sokinpui/pick.go/internal/tui"
	"github.com/sokinpui/pick.go/internal/ui"
	"github.com/sokinpui/pick.go/model"
	"github.com/sokinpui/pick.go/pick"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.SetVerbose(cfg.Verbose)

	app, err := pick.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	summary, err := run(app, cfg)
	if err != nil {
		ui.Error("Error: %v", err)
		var detailed *pick.DetailedError
		if errors.As(err, &detailed) {
			if ui.Verbose() {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
			} else {
				ui.Info("Run with --verbose for the stack trace.")
			}
		}
		os.Exit(1)
	}
	printSummary(cfg, summary)
}

func run(app *pick.App, cfg *cli.Config) (model.Summary, error) {
	interactive := !(cfg.NoTUI || cfg.Revert || cfg.Redo || cfg.Explain)
	if !interactive {
		if !cfg.NoAnimation && (cfg.Revert || cfg.Redo) {
			var bar *ui.ProgressBar
			app.SetProgressCallback(func(current, total int) {
				if bar == nil {
					bar = ui.NewProgressBar(total, "Restoring")
					bar.Start()
				}
				bar.Set(current)
				if current == total {
					bar.Finish()
				}
			})
		}
		return app.Execute()
	}

	p := tea.NewProgram(tui.New(app.Load, cfg.Flat), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return model.Summary{}, fmt.Errorf("error running program: %w", err)
	}
	m := final.(tui.Model)
	if m.Err() != nil {
		return model.Summary{}, m.Err()
	}
	if !m.Confirmed() {
		return model.Summary{Message: "Cancelled. Nothing was written."}, nil
	}
	return app.Commit(m.Commit())
}

func printSummary(cfg *cli.Config, summary model.Summary) {
	switch {
	case cfg.Revert:
		ui.PrintRevertSummary(summary.Written, summary.Failed)
	case cfg.Redo:
		ui.PrintRedoSummary(summary.Written, summary.Failed)
	default:
		ui.PrintWriteSummary(summary.Written, summary.Skipped, summary.Failed)
	}
	if summary.Message != "" {
		ui.Info("%s", summary.Message)
	}
}
