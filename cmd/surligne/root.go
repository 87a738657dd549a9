package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/surligne"
	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/internal/presentation/tui"
	"github.com/aretw0/surligne/pkg/adapters/file"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "surligne",
	Short: "Surligne highlights pseudo-code keywords by zone",
	Long: `Surligne colors the keywords of a pseudo-code text according to zones
(instructions, loops, conditions...) and keeps a diagram of those zones in sync.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), profileFor(cmd.OutOrStdout()))
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML or JSON preset with the zones to use (default: built-in zones)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

// newLogger builds the logger selected by --log-level.
func newLogger(cmd *cobra.Command, json bool) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, json), nil
}

// loadConfiguration returns the --config preset, or the built-in zones.
func loadConfiguration(ctx context.Context, cmd *cobra.Command) (domain.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return domain.DefaultConfiguration(), nil
	}
	return file.NewSource(path).Load(ctx)
}

// newEngine wires the library facade from the persistent flags.
func newEngine(cmd *cobra.Command, logger *slog.Logger) (*surligne.Engine, error) {
	cfg, err := loadConfiguration(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	eng, err := surligne.New(
		surligne.WithConfiguration(cfg),
		surligne.WithLogger(logger),
		surligne.WithNotifier(logging.Notifier{Logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize surligne: %w", err)
	}
	return eng, nil
}

// profileFor picks the color profile of w: the environment's when w is a terminal, none otherwise.
func profileFor(w any) termenv.Profile {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}
