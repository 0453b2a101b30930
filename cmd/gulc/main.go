// Command gulc drives the gulc middle-end (spec.md §2: lex, parse,
// decl-validate, resolve, instantiate, overload-resolve, contract-check,
// codegen) over a list of source files.
//
// Usage:
//
//	gulc build [options] <file.gul> [file.gul ...]
//	gulc check [options] <file.gul> [file.gul ...]
//
// build emits the compiled IR to stdout (or -o <file>); check runs every
// pass but discards the IR, reporting only diagnostics (spec.md §6).
//
// Options:
//
//	-o <file>        Write IR to file (build only; default: stdout)
//	--config <file>  Use a specific gulc.toml/.gulcrc file
//	--no-config      Ignore config files
//	--verbose        Enable debug-level pass-entry/exit logging
//
// Config file:
//
//	gulc looks for gulc.toml or .gulcrc starting in the first input file's
//	directory (the current directory when no file is given) and then its
//	parent directories (internal/config.Load). No CLI flag overrides an
//	individual config-file field; --config and --no-config only choose
//	which file, if any, is read.
//
// Diagnostics print in the spec.md §6 machine format
// ("gulc <phase> <severity>[<file>, {l,c} to {l,c}]: <message>") on every
// run; on an interactive terminal the phase/severity/location are
// additionally colorized via github.com/fatih/color.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"codeberg.org/saruga/gulc/internal/config"
	"codeberg.org/saruga/gulc/internal/diagnostic"
	"codeberg.org/saruga/gulc/internal/log"
	"codeberg.org/saruga/gulc/pkg/api"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gulc: %v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	outputFile string
	configFile string
	noConfig   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:     "gulc",
		Short:   "gulc compiles gulc source files through the middle-end pipeline",
		Version: fmt.Sprintf("%s (%s)", version, commit),
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "use a specific gulc.toml/.gulcrc file")
	root.PersistentFlags().BoolVar(&flags.noConfig, "no-config", false, "ignore config files")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug-level pass logging")

	build := &cobra.Command{
		Use:   "build <file.gul> [file.gul ...]",
		Short: "compile files and emit IR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, flags, args, true)
		},
	}
	build.Flags().StringVarP(&flags.outputFile, "output", "o", "", "write IR to `file` (default: stdout)")

	check := &cobra.Command{
		Use:   "check <file.gul> [file.gul ...]",
		Short: "run every pass and report diagnostics without emitting IR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, flags, args, false)
		},
	}

	root.AddCommand(build, check)
	return root
}

func runCompile(cmd *cobra.Command, flags *cliFlags, files []string, emitIR bool) error {
	target, err := resolveTarget(flags, files)
	if err != nil {
		return err
	}

	logger := log.Nop()
	if flags.verbose {
		logger = log.NewDev()
	}

	mod, err := api.Compile(files, target, logger)
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), mod.Diagnostics)
	if mod.HasErrors() {
		return fmt.Errorf("compilation failed with %d error(s)", countErrors(mod.Diagnostics))
	}

	if !emitIR {
		return nil
	}

	out := cmd.OutOrStdout()
	if flags.outputFile != "" {
		f, err := os.Create(flags.outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	_, err = fmt.Fprint(out, mod.IR)
	return err
}

// resolveTarget loads a gulc.toml/.gulcrc target descriptor, searching from
// --config, or from the directory of the first input file, matching the
// teacher's Load(startDir)-from-first-input-file convention
// (cmd/wgslmin/main.go's "startDir = filepath.Dir(flag.Arg(0))").
func resolveTarget(flags *cliFlags, files []string) (api.TargetDescriptor, error) {
	if flags.noConfig {
		return api.DefaultTarget(), nil
	}

	var cfg *config.Config
	var err error
	if flags.configFile != "" {
		cfg, err = config.LoadFile(flags.configFile)
		if err != nil {
			return api.TargetDescriptor{}, fmt.Errorf("loading config file %s: %w", flags.configFile, err)
		}
	} else {
		startDir, _ := os.Getwd()
		if len(files) > 0 {
			startDir = filepath.Dir(files[0])
		}
		cfg, _, err = config.Load(startDir)
		if err != nil {
			return api.TargetDescriptor{}, fmt.Errorf("loading config: %w", err)
		}
	}

	target := cfg.ToTarget()
	target.Config = cfg
	return target, nil
}

func countErrors(diags []*diagnostic.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == diagnostic.Error {
			n++
		}
	}
	return n
}

// printDiagnostics renders every diagnostic in the spec.md §6 machine
// format, colorizing the phase/severity/location when w is an interactive
// terminal (github.com/fatih/color, gated on github.com/mattn/go-isatty the
// way color's own NoColor default does).
func printDiagnostics(w io.Writer, diags []*diagnostic.Diagnostic) {
	f, isFile := w.(*os.File)
	interactive := isFile && isatty.IsTerminal(f.Fd())

	severityColor := map[diagnostic.Severity]*color.Color{
		diagnostic.Error:   color.New(color.FgRed, color.Bold),
		diagnostic.Warning: color.New(color.FgYellow, color.Bold),
		diagnostic.Note:    color.New(color.FgCyan),
	}

	for _, d := range diags {
		line := d.Error()
		if interactive {
			if c, ok := severityColor[d.Severity]; ok {
				line = c.Sprint(line)
			}
		}
		fmt.Fprintln(w, line)
	}
}
