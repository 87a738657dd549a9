package main

import (
	"fmt"

	"github.com/aretw0/surligne/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a zone preset for consistency",
	Long:  `Loads a YAML or JSON preset and reports duplicate keywords, invalid colors or shapes and unknown fields.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := file.NewSource(args[0]).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preset is valid: %d zones, %d keywords ✅\n", len(cfg.Zones), cfg.KeywordCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
