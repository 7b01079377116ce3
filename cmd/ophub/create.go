package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/models"
	"ophub/internal/op"
)

type createCmdOptions struct {
	projectID   int
	typeID      int
	estimate    float64
	dueDate     string
	description string
}

func newCreateCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	opts := &createCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create <subject>",
		Short: "Create a task assigned to yourself",
		Args:  requireAtLeastArgs(1, "subject is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				req, err := buildCreateRequest(opts, args)
				if err != nil {
					return err
				}

				task, err := client.CreateTask(cmd.Context(), req)
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, task)
				}
				return writePlain("#%d %s\n", task.ID, task.Subject)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.projectID, "project", "p", 0, "project id (required)")
	cmd.Flags().IntVarP(&opts.typeID, "type", "t", 0, "work package type id (required)")
	cmd.Flags().Float64Var(&opts.estimate, "estimate", 0, "estimated hours")
	cmd.Flags().StringVar(&opts.dueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "description")

	return cmd
}

func buildCreateRequest(opts *createCmdOptions, args []string) (models.CreateTaskRequest, error) {
	if opts.projectID <= 0 {
		return models.CreateTaskRequest{}, errors.New("--project is required")
	}
	if opts.typeID <= 0 {
		return models.CreateTaskRequest{}, errors.New("--type is required")
	}

	return models.CreateTaskRequest{
		ProjectID:      opts.projectID,
		Subject:        strings.Join(args, " "),
		TypeID:         opts.typeID,
		EstimatedHours: opts.estimate,
		DueDate:        opts.dueDate,
		Description:    opts.description,
	}, nil
}
