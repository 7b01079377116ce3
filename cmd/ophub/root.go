package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ophub/internal/config"
)

type outputFlags struct {
	json bool
	yaml bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		out      outputFlags
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "ophub",
		Short: "Ophub is a personal agile hub for OpenProject",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&out.json, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&out.yaml, "yaml", false, "output YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newLoginCmd(cfg),
		newWhoamiCmd(cfg, &out),
		newProjectsCmd(cfg, &out),
		newReportCmd(cfg, &out),
		newKanbanCmd(cfg, &out),
		newCreateCmd(cfg, &out),
		newLogCmd(cfg, &out),
		newEditCmd(cfg, &out),
		newCloseCmd(cfg, &out),
		newHistoryCmd(cfg, &out),
		newTypesCmd(cfg, &out),
		newStatusesCmd(cfg, &out),
		newUsersCmd(cfg, &out),
	)

	return cmd
}
