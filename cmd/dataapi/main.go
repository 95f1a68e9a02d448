// Package main provides the dataapi command-line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/dataapi/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	namespace  string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "dataapi",
		Short:         "Client for Data API collections and commands",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: config/$ENV.yaml)")
	rootCmd.PersistentFlags().StringVarP(&g.namespace, "namespace", "n", "", "Namespace to operate on (overrides client.namespace)")

	rootCmd.AddCommand(
		newCollectionsCmd(g),
		newCommandCmd(g),
		newCountCmd(g),
	)

	return rootCmd
}
