package main

import (
	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/op"
)

func newWhoamiCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				user, err := client.Me(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, user)
				}
				return writePlain("%s (#%d)\n", user.Name, user.ID)
			})
		},
	}
}
