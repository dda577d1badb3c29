package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Initial selection values for --select.
const (
	SelectAll  = "all"
	SelectNone = "none"
)

// Config holds all the command-line flag values.
type Config struct {
	OldPath string
	NewPath string
	GitRef  string
	Paths   []string

	Output    string
	Write     bool
	Buffer    bool
	Clipboard bool
	Diff      bool

	Flat         bool
	Select       string
	NoTUI        bool
	Explain      bool
	ParseTimeout time.Duration
	Verbose      bool
	NoAnimation  bool
	LookupDirs   []string

	Revert bool
	Redo   bool
}

// ErrHelp is returned when usage was requested.
var ErrHelp = pflag.ErrHelp

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs parses args (without the program name). Usage goes to usageOut.
func ParseArgs(args []string, usageOut io.Writer) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("pick", pflag.ContinueOnError)
	flags.SetOutput(usageOut)

	flags.StringVarP(&cfg.GitRef, "git", "g", "", "Compare REF:path with the working tree for each path (all changed files when none are given).")
	flags.StringVarP(&cfg.Output, "output", "o", "", "Write the selected contents to PATH.")
	flags.BoolVarP(&cfg.Write, "write", "w", false, "Overwrite the new file in place (can be reverted).")
	flags.BoolVarP(&cfg.Buffer, "buffer", "b", false, "Load the selected contents into Neovim buffers without saving them.")
	flags.BoolVarP(&cfg.Clipboard, "clipboard", "c", false, "Copy the selected contents to the clipboard.")
	flags.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff from the old version to the selection.")
	flags.BoolVar(&cfg.Flat, "flat", false, "Disable semantic grouping; select by section and line only.")
	flags.StringVar(&cfg.Select, "select", SelectNone, "Initial selection: 'all' or 'none'.")
	flags.BoolVar(&cfg.NoTUI, "no-tui", false, "Apply the initial selection without the interactive picker.")
	flags.BoolVar(&cfg.Explain, "explain", false, "Print the containers found in each file and exit.")
	flags.DurationVar(&cfg.ParseTimeout, "parse-timeout", 2*time.Second, "Deadline for parsing one file version.")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print debug messages.")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable loading spinner and progress updates.")
	flags.StringSliceVar(&cfg.LookupDirs, "lookup-dir", nil, "Directories used to resolve relative paths (default: working directory).")

	flags.BoolVarP(&cfg.Revert, "revert", "r", false, "Revert the last --write.")
	flags.BoolVarP(&cfg.Redo, "redo", "R", false, "Redo the last reverted --write.")

	flags.Usage = func() {
		fmt.Fprintln(usageOut, "Usage: pick [flags] OLD NEW")
		fmt.Fprintln(usageOut, "       pick [flags] -g REF [PATH...]")
		fmt.Fprintln(usageOut, "\nSelect which changes between two versions of a file to keep,")
		fmt.Fprintln(usageOut, "grouped by the functions, types and sections they touch.")
		fmt.Fprintln(usageOut, "NEW may be '-' to read from stdin (pipe) or the clipboard.")
		fmt.Fprintln(usageOut, "\nExample: pick -g HEAD -d src/lib.rs")
		fmt.Fprintln(usageOut, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	positional := flags.Args()

	if err := cfg.validate(positional); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate(positional []string) error {
	if cfg.Revert && cfg.Redo {
		return errors.New("error: --revert and --redo are mutually exclusive")
	}
	if cfg.Revert || cfg.Redo {
		if len(positional) > 0 || cfg.GitRef != "" {
			return errors.New("error: --revert and --redo take no files")
		}
		return nil
	}

	if cfg.Select != SelectAll && cfg.Select != SelectNone {
		return fmt.Errorf("error: --select must be 'all' or 'none', got %q", cfg.Select)
	}
	if cfg.ParseTimeout <= 0 {
		return errors.New("error: --parse-timeout must be positive")
	}

	if cfg.GitRef != "" {
		cfg.Paths = positional
	} else {
		if len(positional) != 2 {
			return errors.New("error: expected OLD and NEW files, or --git REF")
		}
		cfg.OldPath, cfg.NewPath = positional[0], positional[1]
	}

	if cfg.Output != "" {
		if cfg.Write {
			return errors.New("error: --output and --write are mutually exclusive")
		}
		if cfg.GitRef != "" && len(cfg.Paths) != 1 {
			return errors.New("error: --output needs exactly one file")
		}
	}
	return nil
}

// SelectAllInitially reports whether every change starts selected.
func (cfg *Config) SelectAllInitially() bool {
	return cfg.Select == SelectAll
}
