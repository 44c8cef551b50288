package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <form-id>",
	Short: "Render a form as HTML",
	Long:  `Builds the form, restores the session draft and applies --set values, then writes its markup to stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f := openForm(cmd, args[0])
		defer f.Close()

		format, _ := cmd.Flags().GetString("format")
		if err := cli.Render(cmd.Context(), os.Stdout, f, format); err != nil {
			fmt.Printf("Error rendering form: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addFormFlags(renderCmd)
	renderCmd.Flags().String("format", cli.FormatHTML, "Output format: html or markdown")
}

// addFormFlags registers the flags openForm reads.
func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("session", "s", "", "Restore the draft of this session")
	cmd.Flags().StringArray("set", nil, "Set a value after restoring (key=value, dotted keys for groups)")
}

// openForm loads a form with its session draft and --set values, or exits.
func openForm(cmd *cobra.Command, formID string) *formwork.Form {
	opts := options(cmd)
	logger := opts.Logger()
	loader := mustLoader(opts)

	var backend *cli.Backend
	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID != "" {
		backend = mustBackend(opts, logger)
		defer backend.Close()
	}

	f, err := cli.OpenForm(cmd.Context(), loader, backend, formID, sessionID, logger)
	if err != nil {
		fmt.Printf("Error loading form '%s': %v\n", formID, err)
		os.Exit(1)
	}

	pairs, _ := cmd.Flags().GetStringArray("set")
	values, err := cli.ParseValues(pairs)
	if err != nil {
		fmt.Printf("Error parsing values: %v\n", err)
		os.Exit(1)
	}
	f.Restore(values)
	return f
}
