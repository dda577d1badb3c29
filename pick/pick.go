package pick

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/pick.go/cli"
	"github.com/sokinpui/pick.go/internal/differ"
	"github.com/sokinpui/pick.go/internal/fs"
	"github.com/sokinpui/pick.go/internal/nvim"
	"github.com/sokinpui/pick.go/internal/selection"
	"github.com/sokinpui/pick.go/internal/semantic"
	"github.com/sokinpui/pick.go/internal/source"
	"github.com/sokinpui/pick.go/internal/state"
	"github.com/sokinpui/pick.go/internal/ui"
	"github.com/sokinpui/pick.go/model"
)

// diffContext is the number of context lines in --diff output.
const diffContext = 3

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	stateManager     *state.Manager
	newState         func() (*state.Manager, error)
	pathResolver     *fs.PathResolver
	sourceProvider   *source.SourceProvider
	builder          *semantic.Builder
	progressCallback ProgressUpdate
	stdout           io.Writer
	copyText         func(string) error

	pairs []source.Pair
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("missing configuration")
	}
	pathResolver := fs.NewPathResolver(cfg.LookupDirs)
	builder := semantic.NewBuilder()
	if cfg.ParseTimeout > 0 {
		builder.Timeout = cfg.ParseTimeout
	}

	return &App{
		cfg:            cfg,
		newState:       state.New,
		pathResolver:   pathResolver,
		sourceProvider: source.New(pathResolver),
		builder:        builder,
		stdout:         os.Stdout,
		copyText:       clipboard.WriteAll,
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// state opens the history on first use so read-only runs leave no state
// directory behind.
func (a *App) state() (*state.Manager, error) {
	if a.stateManager != nil {
		return a.stateManager, nil
	}
	m, err := a.newState()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	a.stateManager = m
	return m, nil
}

// Execute executes the main application logic based on parsed flags. It
// applies the initial selection without user interaction.
func (a *App) Execute() (summary model.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Revert:
		return a.revertLastWrite()
	case a.cfg.Redo:
		return a.redoLastWrite()
	case a.cfg.Explain:
		return a.explain()
	default:
		commit, err := a.Load()
		if err != nil {
			return model.Summary{}, err
		}
		return a.Commit(commit)
	}
}

// loadPairs reads the file versions named on the command line.
func (a *App) loadPairs() ([]source.Pair, error) {
	if a.cfg.GitRef != "" {
		pairs, err := a.sourceProvider.GitPairs(a.cfg.GitRef, a.cfg.Paths)
		if err != nil {
			return nil, fmt.Errorf("failed to load files from git: %w", err)
		}
		return pairs, nil
	}
	pair, err := a.sourceProvider.FilePair(a.cfg.OldPath, a.cfg.NewPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}
	return []source.Pair{pair}, nil
}

// Load reads every file pair, diffs it and groups its sections into
// containers unless flat mode is set. The initial selection is applied.
func (a *App) Load() (*model.Commit, error) {
	pairs, err := a.loadPairs()
	if err != nil {
		return nil, err
	}
	a.pairs = pairs

	total := len(pairs)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	commit := &model.Commit{Files: make([]model.File, 0, total)}
	for i, pair := range pairs {
		commit.Files = append(commit.Files, a.buildFile(pair))
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}
	selection.SetAll(commit, a.cfg.SelectAllInitially())
	return commit, nil
}

func (a *App) buildFile(pair source.Pair) model.File {
	file := differ.BuildFile(pair.Path, pair.Old, pair.New)
	differ.BuildModeChange(&file, pair.OldMode, pair.NewMode)
	if a.cfg.Flat {
		return file
	}
	return a.builder.Build(context.Background(), file, pair.Old, pair.New)
}

// result is the selected outcome for one file.
type result struct {
	pair    source.Pair
	content string
	mode    model.FileMode
}

// resolve turns a file's selection into content and mode. Lines cannot live
// in an absent file, so a selection that keeps lines but not the file's
// existence falls back to a side where the file exists.
func resolve(pair source.Pair, sel model.SelectedChanges) result {
	content := sel.Contents
	switch sel.Binary {
	case model.BinaryNew:
		content = pair.New
	case model.BinaryOld:
		content = pair.Old
	case model.BinaryNone:
		if differ.IsBinary(pair.Old) || differ.IsBinary(pair.New) {
			// An unchanged binary file has no sections to select from.
			content = pair.New
		}
	}
	mode := sel.Mode
	if mode == model.FileModeAbsent && content != "" {
		mode = pair.NewMode
		if mode == model.FileModeAbsent {
			mode = pair.OldMode
		}
	}
	return result{pair: pair, content: content, mode: mode}
}

// Commit sends the selected contents of every file to the configured sinks.
func (a *App) Commit(commit *model.Commit) (model.Summary, error) {
	if commit == nil || len(commit.Files) != len(a.pairs) {
		return model.Summary{}, errors.New("commit does not match the loaded files")
	}

	results := make([]result, len(commit.Files))
	summary := model.Summary{Contents: make(map[string]string, len(commit.Files))}
	for i, file := range commit.Files {
		results[i] = resolve(a.pairs[i], selection.SelectedContents(file))
		summary.Contents[a.pairs[i].Path] = results[i].content
	}

	sinkChosen := a.cfg.Diff || a.cfg.Output != "" || a.cfg.Write || a.cfg.Buffer || a.cfg.Clipboard

	if a.cfg.Diff || (!sinkChosen && len(results) > 1) {
		if err := a.printDiffs(results); err != nil {
			return summary, err
		}
	}
	if !sinkChosen && len(results) == 1 {
		fmt.Fprint(a.stdout, results[0].content)
	}

	if a.cfg.Clipboard {
		if err := a.copyResults(results); err != nil {
			return summary, err
		}
		summary.Message = "Copied selection to clipboard."
	}

	switch {
	case a.cfg.Buffer:
		updated, failed, err := a.loadBuffers(results)
		if err != nil {
			return summary, err
		}
		summary.Written = append(summary.Written, updated...)
		summary.Failed = append(summary.Failed, failed...)
	case a.cfg.Output != "":
		target := results[0]
		target.pair.Target = a.pathResolver.Resolve(a.cfg.Output)
		if err := a.writeResults(&summary, []result{target}); err != nil {
			return summary, err
		}
	case a.cfg.Write:
		if err := a.writeResults(&summary, results); err != nil {
			return summary, err
		}
	}

	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

func (a *App) printDiffs(results []result) error {
	for _, r := range results {
		diff, err := differ.Unified(r.pair.Path, r.pair.Old, r.content, diffContext)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, diff)
	}
	return nil
}

func (a *App) copyResults(results []result) error {
	var b strings.Builder
	for _, r := range results {
		b.WriteString(r.content)
	}
	if err := a.copyText(b.String()); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// loadBuffers connects to Neovim and loads the selected contents.
func (a *App) loadBuffers(results []result) (updated, failed []string, err error) {
	manager, err := nvim.New()
	if err != nil {
		return nil, nil, err
	}
	defer manager.Close()
	if manager.SelfStarted() {
		ui.Warning("No running Neovim found (NVIM_LISTEN_ADDRESS); buffers will not persist.")
	}

	buffers := make([]nvim.Buffer, 0, len(results))
	for _, r := range results {
		if r.mode == model.FileModeAbsent {
			continue
		}
		buffers = append(buffers, nvim.Buffer{Path: r.pair.Target, Content: r.content})
	}

	total := len(buffers)
	var nvimProgressCb func(int)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
		nvimProgressCb = func(current int) {
			a.progressCallback(current, total)
		}
	}
	updated, failed = manager.LoadBuffers(buffers, nvimProgressCb)
	return updated, failed, nil
}

// writeResults writes each result to its target and records the writes so
// they can be reverted.
func (a *App) writeResults(summary *model.Summary, results []result) error {
	var pending []result
	targets := make([]string, 0, len(results))
	for _, r := range results {
		current, currentMode, err := fs.ReadText(r.pair.Target)
		if err != nil {
			summary.Failed = append(summary.Failed, r.pair.Target)
			ui.Debug("failed to read %s: %v", r.pair.Target, err)
			continue
		}
		if current == r.content && currentMode == r.mode {
			summary.Skipped = append(summary.Skipped, r.pair.Target)
			continue
		}
		pending = append(pending, r)
		targets = append(targets, r.pair.Target)
	}
	if len(pending) == 0 {
		return nil
	}

	_, dirs := fs.GetFileActionsAndDirs(targets)
	if !fs.ConfirmAndCreateDirs(dirs, false) {
		return errors.New("failed to create directories")
	}

	manager, err := a.state()
	if err != nil {
		return err
	}

	var ops []state.Operation
	for _, r := range pending {
		op, err := a.writeResult(manager, r)
		if err != nil {
			ui.Debug("%v", err)
			summary.Failed = append(summary.Failed, r.pair.Target)
			continue
		}
		ops = append(ops, op)
		summary.Written = append(summary.Written, r.pair.Target)
	}

	if err := manager.Write(ops); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

func (a *App) writeResult(manager *state.Manager, r result) (state.Operation, error) {
	path := r.pair.Target
	op := state.Operation{Path: path}

	current, currentMode, err := fs.ReadText(path)
	if err != nil {
		return op, err
	}
	if currentMode != model.FileModeAbsent {
		if op.Before, err = manager.Store(current, currentMode); err != nil {
			return op, err
		}
	}

	if r.mode == model.FileModeAbsent {
		op.Action = "delete"
		if err := os.Remove(path); err != nil {
			return op, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		return op, nil
	}

	op.Action = "modify"
	if currentMode == model.FileModeAbsent {
		op.Action = "create"
	}
	if op.After, err = manager.Store(r.content, r.mode); err != nil {
		return op, err
	}
	if err := fs.WriteFile(path, r.content, r.mode); err != nil {
		return op, err
	}
	return op, nil
}

// revertLastWrite puts the files of the last --write back.
func (a *App) revertLastWrite() (model.Summary, error) {
	manager, err := a.state()
	if err != nil {
		return model.Summary{}, err
	}
	ops, err := manager.GetOperationsToUndo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No write to revert."}, nil
	}

	reverted, failed := a.replay(ops, manager.Revert)
	summary := model.Summary{
		Written: reverted,
		Failed:  failed,
		Message: "Reverted last write.",
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// redoLastWrite reapplies the last reverted --write.
func (a *App) redoLastWrite() (model.Summary, error) {
	manager, err := a.state()
	if err != nil {
		return model.Summary{}, err
	}
	ops, err := manager.GetOperationsToRedo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No write to redo."}, nil
	}

	redone, failed := a.replay(ops, manager.Reapply)
	summary := model.Summary{
		Written: redone,
		Failed:  failed,
		Message: "Redid last reverted write.",
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

func (a *App) replay(ops []state.Operation, apply func(state.Operation) error) (done, failed []string) {
	total := len(ops)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}
	for i, op := range ops {
		if err := apply(op); err != nil {
			ui.Debug("%v", err)
			failed = append(failed, op.Path)
		} else {
			done = append(done, op.Path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}
	return done, failed
}

// explain prints the containers found in both versions of every file.
func (a *App) explain() (model.Summary, error) {
	pairs, err := a.loadPairs()
	if err != nil {
		return model.Summary{}, err
	}
	for _, pair := range pairs {
		lang, _ := semantic.DetectLanguage(pair.Path)
		fmt.Fprintf(a.stdout, "%s (%s)\n", pair.Path, lang.Name())

		oldContainers, newContainers, err := a.builder.Explain(context.Background(), pair.Path, pair.Old, pair.New)
		if err != nil {
			fmt.Fprintf(a.stdout, "  %v\n", err)
			continue
		}
		writeContainers(a.stdout, "old", oldContainers)
		writeContainers(a.stdout, "new", newContainers)
	}
	return model.Summary{}, nil
}

func writeContainers(w io.Writer, side string, containers []semantic.Container) {
	fmt.Fprintf(w, "  %s: %d container(s)\n", side, len(containers))
	for _, c := range containers {
		fmt.Fprintf(w, "    %s %s [%d-%d]\n", c.Kind, c.Name, c.StartLine+1, c.EndLine+1)
		for _, m := range c.Members {
			fmt.Fprintf(w, "      %s %s [%d-%d]\n", m.Kind, m.Name, m.StartLine+1, m.EndLine+1)
		}
	}
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	makeRelative := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = fs.Relative(p)
		}
		return out
	}
	summary.Written = makeRelative(summary.Written)
	summary.Skipped = makeRelative(summary.Skipped)
	summary.Failed = makeRelative(summary.Failed)
}
