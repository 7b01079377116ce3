package main

import (
	"context"
	"errors"
	"time"

	"ophub/internal/config"
	"ophub/internal/hierarchy"
	"ophub/internal/models"
	"ophub/internal/op"
)

var errNotLoggedIn = errors.New("not logged in")

func withClient(cfg *config.Config, fn func(*op.Client) error) error {
	if !cfg.HasCredentials() {
		return errNotLoggedIn
	}
	return fn(op.NewClient(cfg.BaseURL, cfg.APIKey))
}

// snapshot is one consistent fetch: the project tree plus the enriched
// visible tasks. Commands act on a snapshot and never refetch mid-action.
type snapshot struct {
	Tree  *hierarchy.Tree
	Tasks []models.EnrichedTask
}

func fetchSnapshot(ctx context.Context, client *op.Client, cfg *config.Config, filter op.TaskFilter) (snapshot, error) {
	if filter.PageSize == 0 {
		filter.PageSize = cfg.PageSize
	}

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return snapshot{}, err
	}
	tasks, err := client.ListTasks(ctx, filter)
	if err != nil {
		return snapshot{}, err
	}

	return snapshot{
		Tree:  hierarchy.Build(projects),
		Tasks: models.EnrichAll(tasks, time.Now().UTC()),
	}, nil
}
