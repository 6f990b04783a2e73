package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

const skipConfigAnnotation = "onereel/skip-config"

func newRootCommand() *cobra.Command {
	var configFlag, logLevelFlag, logFormatFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "onereel",
		Short:         "Upload and watch a single hosted video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, format := logLevelFlag, logFormatFlag
			if cmd.Annotations[skipConfigAnnotation] == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if level == "" {
					level = cfg.LogLevel
				}
				if format == "" {
					format = cfg.LogFormat
				}
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), level, format))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newUploadCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConvertCommand())

	return rootCmd
}
