package main

import (
	"context"
	"errors"
	"net"

	"ophub/internal/op"
	"ophub/internal/session"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	if errors.Is(err, errNotLoggedIn) {
		lines = append(lines, "hint: run: ophub login --url <base-url> --key <api-key>")
		return uniqueLines(lines)
	}
	if errors.Is(err, session.ErrSelectionNotVisible) {
		lines = append(lines, "hint: the task left the visible set; list tasks again and retry.")
		return uniqueLines(lines)
	}

	var apiErr *op.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 401 || apiErr.Status == 403:
			lines = append(lines, "hint: verify OPHUB_API_KEY or re-run ophub login.")
		case op.IsConflict(err):
			lines = append(lines, "hint: the task changed on the server; rerun the command to pick up the new version.")
		case apiErr.Status >= 500:
			lines = append(lines, "hint: server returned an internal error; check the OpenProject logs.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check server health or increase OPHUB_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines, "hint: ensure OPHUB_URL points to a reachable OpenProject instance.")
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
