package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <form-id>",
	Short: "Inspect a form again on every definition change",
	Long:  `Development mode: prints the node table of a form and reprints it whenever the Loam directory changes.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		opts.Loader = cli.LoaderLoam
		logger := opts.Logger()
		tui.PrintBanner(os.Stdout, formwork.Version)

		loader := mustLoader(opts)
		sessionID, _ := cmd.Flags().GetString("session")
		var backend *cli.Backend
		if sessionID != "" {
			backend = mustBackend(opts, logger)
			defer backend.Close()
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err := cli.Watch(sigCtx, os.Stdout, loader, backend, cli.WatchOptions{
			FormID:    args[0],
			SessionID: sessionID,
			Logger:    logger,
		})
		if err != nil {
			fmt.Printf("Error watching form: %v\n", err)
			os.Exit(1)
		}
		if sig := sigCtx.Signal(); sig != nil {
			fmt.Printf("\n>>> Stopped (%v).\n", sig)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("session", "s", "", "Restore the draft of this session on every reload")
}
