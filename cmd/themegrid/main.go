package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/themegrid/internal/cli"
	"codeberg.org/snonux/themegrid/internal/processor"
)

func main() {
	flags := cli.NewFlags()
	proc := processor.NewProcessor(flags)
	rootCmd := cli.CreateRootCommand(flags, proc)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Interrupts cancel in-flight searches and downloads
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
