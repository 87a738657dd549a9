package main

import (
	"fmt"
	"os"

	"github.com/aretw0/surligne/internal/logging"
	"github.com/spf13/cobra"
)

// diagramCmd represents the diagram command
var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Export the zones as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) with one subgraph per zone and one node per keyword.
With --text, keywords found in that file are outlined.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		textFile, _ := cmd.Flags().GetString("text")

		eng, err := newEngine(cmd, logging.NewNop())
		if err != nil {
			return err
		}

		if textFile == "" {
			fmt.Fprint(cmd.OutOrStdout(), eng.Diagram())
			return nil
		}
		data, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", textFile, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), eng.DiagramFor(string(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagramCmd)
	diagramCmd.Flags().String("text", "", "Outline the keywords used in this text file")
}
