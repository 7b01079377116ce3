package main

import (
	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/op"
)

// The vocabulary commands list the instance's selectable values, mainly to
// find the ids that create and edit take.

func newTypesCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List work package types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				types, err := client.ListWorkTypes(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, types)
				}
				for _, t := range types {
					if err := writePlain("%d\t%s\n", t.ID, t.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newStatusesCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List work package statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				statuses, err := client.Statuses(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, statuses)
				}
				for _, s := range statuses {
					if err := writePlain("%d\t%s\n", s.ID, s.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newUsersCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				users, err := client.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, users)
				}
				for _, u := range users {
					if err := writePlain("%d\t%s\n", u.ID, u.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
