// Command isoshell serves the universal web application shell.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vango-dev/isoshell/internal/config"
	"github.com/vango-dev/isoshell/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	envFile  string
	settings string
	env      string
	noColor  bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "isoshell",
		Short: "Universal web application shell",
		Long: `isoshell renders pages on the server, serves static assets and
keeps live client sessions that follow login and logout.

Configuration comes from ISOSHELL_* environment variables and the
section of the settings file named by ISOSHELL_ENV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			errors.SetColors(!g.noColor)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.envFile, "env-file", "", "Load environment variables from a dotenv file")
	pf.StringVar(&g.settings, "settings", "", "Settings file (overrides ISOSHELL_SETTINGS)")
	pf.StringVar(&g.env, "env", "", "Settings section (overrides ISOSHELL_ENV)")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	root.AddCommand(
		serveCmd(g),
		routesCmd(g),
		explainCmd(),
		versionCmd(),
	)
	return root
}

// load reads the dotenv file, the environment and the settings file.
func (g *globalFlags) load() (*config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil {
			return nil, errors.FromError(err, errors.CodeConfig).WithSubject(g.envFile)
		}
	}
	e, err := config.LoadEnv()
	if err != nil {
		return nil, errors.FromError(err, errors.CodeConfig).WithSubject("environment")
	}
	if g.settings != "" {
		e.SettingsPath = g.settings
	}
	if g.env != "" {
		e.Name = g.env
	}
	return config.LoadWith(e)
}

// newLogger logs text in development and JSON otherwise.
func newLogger(w io.Writer, dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
