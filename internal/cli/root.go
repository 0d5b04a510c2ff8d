package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/scgen/internal/adapters/progress"
	"github.com/trebuchet-org/scgen/internal/app"
	"github.com/trebuchet-org/scgen/internal/cli/render"
	"github.com/trebuchet-org/scgen/internal/config"
	"github.com/trebuchet-org/scgen/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// session holds what a command run must release once cobra returns.
// Post-run hooks are skipped when RunE fails, so cleanup lives here.
type session struct {
	app     *app.App
	spinner *progress.SpinnerSink
	cancel  context.CancelFunc
}

func (s *session) close() error {
	if s.spinner != nil {
		s.spinner.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.app != nil {
		return s.app.Metrics.Export()
	}
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	s := &session{}
	rootCmd := newRootCmd(s)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := s.close(); cerr != nil {
		fmt.Fprintln(stderr, render.FormatWarning(cerr.Error()))
	}
	return exitCode(err, stderr)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&session{})
}

func newRootCmd(s *session) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "scgen",
		Short: "Generate, compile and deploy smart contracts across chains",
		Long: `scgen drives the native toolchains of three chains behind one pipeline:

  evm    Solidity contracts compiled with solc, deployed over JSON-RPC
  rust   Anchor programs built with anchor, deployed with the solana CLI
  radix  Scrypto blueprints built with scrypto, published with resim

Every command accepts --chain (or one of its aliases, see 'scgen chains').`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for commands that need no app
			switch cmd.Name() {
			case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}

			v := config.SetupViper(configFile, cmd)
			if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				v.Set("non_interactive", true)
			}
			if _, err := render.ParseFormat(v.GetString("output")); err != nil {
				return err
			}

			sink := newProgressSink(v, cmd.ErrOrStderr())
			if spinner, ok := sink.(*progress.SpinnerSink); ok {
				s.spinner = spinner
			}

			// Initialize app with DI
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			s.app = appInstance

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (defaults to ./scgen.toml or ~/.scgen/scgen.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON (same as --output json)")
	rootCmd.PersistentFlags().String("output", "text", "Output format: text, json or yaml")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "pipeline",
		Title: "Pipeline Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, cmd := range []*cobra.Command{NewGenerateCmd(), NewCompileCmd(), NewDeployCmd()} {
		cmd.GroupID = "pipeline"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{NewNodeCmd(), NewChainsCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink shows a spinner only for a human watching a terminal
func newProgressSink(v *viper.Viper, stderr io.Writer) usecase.ProgressSink {
	f, ok := stderr.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return progress.NewNopSink()
	}
	if v.GetBool("json") || v.GetString("output") != string(render.FormatText) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink(stderr)
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

func outputFormat(a *app.App) render.Format {
	format, err := render.ParseFormat(a.Config.Output)
	if err != nil {
		return render.FormatText
	}
	return format
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}
