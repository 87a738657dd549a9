package main

import (
	"fmt"
	"os"

	"github.com/aretw0/surligne/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the zones, their colors and keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, err := loadConfiguration(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		markdown := tui.ZonesMarkdown(cfg)
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), markdown)
			return nil
		}

		style := "notty"
		if f, ok := cmd.OutOrStdout().(*os.File); ok && isTerminal(f) {
			style = ""
		}
		render, err := tui.NewRenderer(style)
		if err != nil {
			return err
		}
		out, err := render(markdown)
		if err != nil {
			return fmt.Errorf("failed to render zones: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(zonesCmd)
	zonesCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}
