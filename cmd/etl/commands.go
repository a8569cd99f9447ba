package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/database/sqldb"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/integrator/ga4/ga4client"
	"github.com/vfg2006/ga4-pageviews-etl/infrastructure/repository"
	"github.com/vfg2006/ga4-pageviews-etl/internal/config"
	"github.com/vfg2006/ga4-pageviews-etl/internal/usecases/syncing"
	"github.com/vfg2006/ga4-pageviews-etl/pkg/log"
)

func newRunCommand() *cobra.Command {
	var (
		dryRun  bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch page views from GA4 and load them into the configured table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if logFile != "" {
				cfg.App.LogFile = logFile
			}
			closer, err := log.Setup(log.Options{
				File:   cfg.App.LogFile,
				Level:  cfg.App.LogLevel,
				Stderr: true,
			})
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx := cmd.Context()
			if cfg.App.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.App.Timeout)
				defer cancel()
			}

			client, err := ga4client.NewClient(ctx, cfg.Directories)
			if err != nil {
				return err
			}

			loader := repository.NewPageViewRepository(sqldb.NewOpener(cfg.Database), cfg.Database.Table)
			service := syncing.NewPageViewSyncService(cfg, ga4.New(client), loader)
			if dryRun {
				service.WithDryRun(cmd.OutOrStdout())
			}

			result, err := service.Run(ctx)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"run_id":   result.RunID,
				"fetched":  result.FetchedRows,
				"inserted": result.InsertedRows,
				"dry_run":  result.DryRun,
				"duration": result.Duration().String(),
			}).Info("Execução finalizada")

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and map only; print the rows as JSON instead of loading them")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Override APP.LOG_FILE")

	return cmd
}

func newValidateCommand() *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file without calling GA4",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if ping {
				conn, err := sqldb.NewConnection(cmd.Context(), cfg.Database)
				if err != nil {
					return err
				}
				if err := conn.Close(); err != nil {
					logrus.WithError(err).Warn("Erro ao fechar conexão")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "property=%s dates=%s..%s driver=%s table=%s\n",
				cfg.Directories.PropertyID,
				cfg.Dates.StartDate,
				cfg.Dates.EndDate,
				cfg.Database.Driver,
				cfg.Database.Table,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Also open and close a database connection")

	return cmd
}

func newInitConfigCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a config.ini template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteTemplate(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config template written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "config.ini", "Destination file")

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.NewConfig(path)
}
