package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/surligne/internal/presentation/tui"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/aretw0/surligne/pkg/registry"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Highlight a pseudo-code text",
	Long: `Reads the text from file (or stdin) and prints it highlighted.

Formats:
- html: escaped markup with colored spans
- ansi: terminal colors
- json: the highlighted segments
- text: the plain text
- auto (default): ansi on a terminal, html otherwise`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		logger, err := newLogger(cmd, false)
		if err != nil {
			return err
		}
		eng, err := newEngine(cmd, logger)
		if err != nil {
			return err
		}

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		profile := termenv.TrueColor
		if format == "auto" {
			format = "html"
			if f, ok := out.(*os.File); ok && isTerminal(f) {
				format, profile = "ansi", termenv.EnvColorProfile()
			}
		}

		formats := outputFormats(profile)
		if !slices.Contains(formats.Names(), format) {
			return fmt.Errorf("unknown format %q: supported %s, auto", format, strings.Join(formats.Names(), ", "))
		}
		rendered, err := formats.Render(format, eng.Segments(text))
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(highlightCmd)
	highlightCmd.Flags().StringP("format", "f", "auto", "Output format: html, ansi, json, text or auto")
}

// readInput reads the first argument as a file path, or stdin when there is none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// outputFormats extends the built-in formats with terminal colors for p and JSON segments.
func outputFormats(p termenv.Profile) *registry.Registry {
	formats := registry.NewRegistry()
	formats.Register("ansi", func(segments []highlight.Segment) (string, error) {
		return tui.RenderANSI(segments, p), nil
	})
	formats.Register("json", func(segments []highlight.Segment) (string, error) {
		data, err := json.MarshalIndent(segments, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode segments: %w", err)
		}
		return string(data) + "\n", nil
	})
	return formats
}
