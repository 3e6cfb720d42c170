package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "config.yaml"

type rootOptions struct {
	configPath string
	envFile    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "podcast-digest",
		Short:         "Download, transcribe, summarize and publish podcast audio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config (default ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file seeding credentials, skipped when missing")

	root.AddCommand(
		newRunCmd(opts),
		newWatchCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

func (o *rootOptions) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}
