package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logrus.WithError(err).Error("ga4-pageviews-etl finalizado com erro")
	}

	stop()
	os.Exit(exitCode(err))
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ga4-pageviews-etl",
		Short:         "Loads GA4 page views into a SQL table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "config.ini", "Path to the INI configuration file")

	rootCmd.AddCommand(
		newRunCommand(),
		newValidateCommand(),
		newInitConfigCommand(),
	)

	return rootCmd
}
