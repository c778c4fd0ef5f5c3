package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("parsecore.cmd")

// errDiagnostics signals that inputs were read but had problems. The
// diagnostics themselves have already been printed.
var errDiagnostics = errors.New("diagnostics reported")

type app struct {
	configPath string
	color      string
	verbosity  int

	cfg Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "parsecore:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig()}

	rootCmd := &cobra.Command{
		Use:           "parsecore",
		Short:         "Parse configuration, document, stylesheet, snapshot and script files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.toml or .yaml)")
	rootCmd.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize diagnostics (auto, always, never)")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newGrammarsCmd(a))

	return rootCmd
}

// setup loads the config file and lets flags given on the command line
// override it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath, ".")
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = a.color
	}
	if flags.Changed("verbose") {
		cfg.Verbosity = a.verbosity
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	var logFile *string
	if cfg.LogFile != "" {
		logFile = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbosity, logFile)
	log.Debugf("configured with color=%s workers=%d", cfg.Color, cfg.Workers)
	return nil
}

// useColor decides whether output written to w gets ANSI colors.
func (a *app) useColor(w io.Writer) bool {
	switch a.cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
