package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"typemeta/internal/analyze"
	"typemeta/internal/config"
	"typemeta/internal/diagnostic"
	"typemeta/internal/report"
	"typemeta/typeinfo"
)

type options struct {
	configDir string
	dir       string
	packages  []string
	verbose   bool
	noColor   bool
}

// session is the state shared by a command once packages are loaded.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	analyzer *analyze.Analyzer
	units    []*analyze.PackageUnit
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "typemeta",
		Short: "Inspect the type metadata of Go packages",
		Long: `typemeta loads Go packages and describes the types they define:
members across embedded bases, generic instantiations, sequence element
types and default values. Packages with type errors load partially.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", ".", "directory holding typemeta.yaml")
	flags.StringVar(&opts.dir, "dir", "", "directory in which package patterns are resolved")
	flags.StringSliceVarP(&opts.packages, "package", "p", nil, "package patterns to load (default from config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output and list info diagnostics")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored diagnostics")

	// Add subcommands
	rootCmd.AddCommand(newTypesCmd(opts))
	rootCmd.AddCommand(newMembersCmd(opts))
	rootCmd.AddCommand(newElementCmd(opts))
	rootCmd.AddCommand(newDefaultCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// open reads the configuration and loads the requested packages. patterns
// override the --package flag, which overrides the configuration.
func (o *options) open(cmd *cobra.Command, patterns []string) (*session, error) {
	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, err
	}
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	switch {
	case len(patterns) > 0:
		cfg.Packages = patterns
	case len(o.packages) > 0:
		cfg.Packages = o.packages
	}

	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	a := analyze.NewAnalyzer(typeinfo.NewUniverse(),
		analyze.WithLogger(log),
		analyze.WithContext(cmd.Context()),
		analyze.WithDir(cfg.Dir))

	units, err := a.LoadPackages(cfg.Packages...)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debug("packages loaded", zap.Strings("patterns", cfg.Packages), zap.Int("units", len(units)))

	o.printDiagnostics(cmd.ErrOrStderr(), a.Diagnostics(), cfg.Report.Color)

	return &session{cfg: cfg, log: log, analyzer: a, units: units}, nil
}

func (o *options) printDiagnostics(w io.Writer, d diagnostic.Diagnostics, useColor bool) {
	useColor = useColor && !o.noColor

	for _, diag := range d.All() {
		if diag.Severity == diagnostic.DiagnosticInfo && !o.verbose {
			continue
		}

		line := diag.Severity.String() + ": " + diag.String()
		if !useColor {
			fmt.Fprintln(w, line)
			continue
		}

		c := color.New(color.FgCyan)
		switch diag.Severity {
		case diagnostic.DiagnosticError:
			c = color.New(color.FgRed, color.Bold)
		case diagnostic.DiagnosticWarning:
			c = color.New(color.FgYellow)
		}
		c.Fprintln(w, line)
	}
}

// close flushes the logger. Sync errors on terminals are ignored.
func (s *session) close() {
	_ = s.log.Sync()
}

// builder returns a report builder honoring the configuration.
func (s *session) builder() *report.Builder {
	return report.NewBuilder(s.analyzer,
		report.WithInherited(s.cfg.Report.Inherited),
		report.WithMaxDepth(s.cfg.Report.MaxDepth))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "typemeta version: %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", GitCommit)
		},
	}
}
