package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/formwork/internal/cli"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formwork",
	Short: "Formwork is a declarative form state engine",
	Long: `Formwork builds reactive forms from YAML, JSON or Markdown definitions:
rules hide, disable and lock nodes as the value changes, and drafts are kept per session.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the form definitions")
	rootCmd.PersistentFlags().String("loader", cli.LoaderAuto, "Content loader: auto, file or loam")
	rootCmd.PersistentFlags().String("log-level", "", "Log level written to stderr (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for drafts (default: files under <dir>/.formwork/drafts)")
	rootCmd.PersistentFlags().String("encrypt-key", "", "Encrypt drafts at rest with this 32 byte key (or $FORMWORK_ENCRYPTION_KEY)")
	rootCmd.PersistentFlags().StringSlice("mask", nil, "Regexps of value keys masked before drafts are saved")
}

// options reads the persistent flags.
func options(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.Dir, _ = flags.GetString("dir")
	opts.Loader, _ = flags.GetString("loader")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.RedisAddr, _ = flags.GetString("redis")
	opts.EncryptKey, _ = flags.GetString("encrypt-key")
	opts.Mask, _ = flags.GetStringSlice("mask")
	if opts.EncryptKey == "" {
		opts.EncryptKey = os.Getenv("FORMWORK_ENCRYPTION_KEY")
	}
	return opts
}

// mustLoader builds the content loader or exits.
func mustLoader(opts cli.Options) ports.ContentLoader {
	loader, err := cli.NewLoader(opts)
	if err != nil {
		fmt.Printf("Error initializing loader: %v\n", err)
		os.Exit(1)
	}
	return loader
}

// mustBackend opens the draft backend or exits.
func mustBackend(opts cli.Options, logger *slog.Logger) *cli.Backend {
	backend, err := cli.OpenBackend(opts, logger)
	if err != nil {
		fmt.Printf("Error opening draft store: %v\n", err)
		os.Exit(1)
	}
	return backend
}
