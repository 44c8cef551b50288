package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <form-id>",
	Short: "Export the form structure and rule dependencies",
	Long: `Outputs a Mermaid diagram (graph TD): groups as subgraphs, controls as nodes, and a dotted edge
from every value a hide, disabled or readonly rule reads to the node it governs.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := openForm(cmd, args[0])
		defer f.Close()

		overlay, _ := cmd.Flags().GetBool("state")
		if err := cli.Graph(os.Stdout, f, overlay); err != nil {
			fmt.Printf("Error generating graph: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addFormFlags(graphCmd)
	graphCmd.Flags().Bool("state", false, "Style hidden, disabled and invalid nodes")
}
