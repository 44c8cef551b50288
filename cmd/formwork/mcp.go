package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/aretw0/formwork/internal/adapters/mcp"
	"github.com/aretw0/formwork/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the forms of --dir to AI agents as MCP tools: list_forms, get_state, patch_values,
validate and delete_draft, working on the same per-session drafts as serve.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := options(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		logger := opts.Logger()

		loader := mustLoader(opts)
		backend := mustBackend(opts, logger)
		defer backend.Close()

		srv := mcp.NewServer(loader, backend.Sessions, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Logs go to stderr; stdout carries JSON-RPC.
			logger.Info("Starting Formwork MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				fmt.Fprintf(os.Stderr, "MCP Server execution failed: %v\n", err)
				os.Exit(1)
			}
		case "sse":
			sigCtx := cli.NewSignalContext(context.Background())
			defer sigCtx.Cancel()

			fmt.Printf("Starting Formwork MCP Server (SSE) on :%d\n", port)
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Printf("MCP Server execution failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("MCP Server stopped gracefully")
		default:
			fmt.Printf("Unknown transport: %s. Supported: stdio, sse\n", transport)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
