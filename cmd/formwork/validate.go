package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [form-id]...",
	Short: "Check form definitions for consistency",
	Long: `Loads every form (or the given ones) and reports duplicate ids, rules that do not parse,
unknown validators, types without a component and malformed component fields.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		loader := mustLoader(opts)

		if err := cli.Lint(cmd.Context(), loader, args...); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Forms are valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
