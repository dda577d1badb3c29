package ui

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	PromptColor  = color.New(color.FgMagenta)
	DebugColor   = color.New(color.FgHiBlack)
)

var verbose atomic.Bool

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	return verbose.Load()
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

// Debug prints only when verbose output is enabled.
func Debug(format string, a ...interface{}) {
	if !verbose.Load() {
		return
	}
	DebugColor.Fprintf(os.Stderr, "[debug] "+format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

func Prompt(format string, a ...interface{}) string {
	return PromptColor.Sprintf(format, a...)
}

// --- Summaries ---

func PrintWriteSummary(written, skipped, failed []string) {
	Header("\n--- Selection Summary ---")

	if len(written) == 0 && len(skipped) == 0 && len(failed) == 0 {
		Info("No files were written.")
		return
	}

	printList(Success, "Wrote selected changes to %d file(s):", written)
	printList(Info, "Left %d file(s) untouched:", skipped)
	printList(Error, "Failed to write %d file(s):", failed)
}

func PrintRevertSummary(reverted, failed []string) {
	Header("\n--- Revert Summary ---")
	printList(Success, "Successfully reverted %d file(s):", reverted)
	printList(Error, "Failed to revert %d file(s):", failed)
}

func PrintRedoSummary(redone, failed []string) {
	Header("\n--- Redo Summary ---")
	printList(Success, "Successfully redid %d file(s):", redone)
	printList(Error, "Failed to redo %d file(s):", failed)
}

func printList(title func(string, ...interface{}), format string, files []string) {
	if len(files) == 0 {
		return
	}
	title(format, len(files))
	for _, f := range files {
		fmt.Fprintf(os.Stderr, "  - %s\n", f)
	}
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

// Set moves the bar to current.
func (p *ProgressBar) Set(current int) {
	p.current = current
	p.draw()
}

func (p *ProgressBar) Finish() {
	if p.total == 0 {
		return
	}
	fmt.Fprintln(os.Stderr)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	fmt.Fprintf(os.Stderr, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}
