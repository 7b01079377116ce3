package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/op"
)

func newLoginCmd(cfg *config.Config) *cobra.Command {
	var (
		baseURL string
		apiKey  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Validate credentials and store them in the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL != "" {
				cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
			}
			if apiKey != "" {
				cfg.APIKey = strings.TrimSpace(apiKey)
			}
			if !cfg.HasCredentials() {
				return errors.New("both --url and --key are required")
			}

			client := op.NewClient(cfg.BaseURL, cfg.APIKey)
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			path, err := config.Save(cfg)
			if err != nil {
				return err
			}

			if err := writePlain("logged in as %s\n", user.Name); err != nil {
				return err
			}
			return writePlain("credentials saved to %s\n", path)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "OpenProject base URL")
	cmd.Flags().StringVar(&apiKey, "key", "", "OpenProject API key")

	return cmd
}
