package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikiwalk.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikiwalk",
		Short: "Play Getting to Philosophy on Wikipedia",
		Long: `wikiwalk automates the "Getting to Philosophy" game.

Starting from a random Wikipedia article it clicks the first qualifying link
in the body text (not in parentheses, not external, not a red link, not a
pronunciation or audio link) until it reaches Philosophy or gets stuck.

Pages are fetched over plain HTTP by default. Use --backend chrome or
--backend firefox to drive a real browser through playwright.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewWalkCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so a running walk stops and releases its driver.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
