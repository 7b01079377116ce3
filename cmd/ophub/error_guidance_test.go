package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ophub/internal/op"
	"ophub/internal/session"
)

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}

func TestFormatCLIErrorNil(t *testing.T) {
	if lines := formatCLIError(nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}

func TestFormatCLIErrorNotLoggedIn(t *testing.T) {
	lines := formatCLIError(fmt.Errorf("report: %w", errNotLoggedIn))
	if !strings.Contains(joined(lines), "ophub login") {
		t.Fatalf("expected login hint, got %v", lines)
	}
}

func TestFormatCLIErrorUnauthorized(t *testing.T) {
	err := &op.APIError{Status: 401, Message: "no"}
	if !strings.Contains(joined(formatCLIError(err)), "OPHUB_API_KEY") {
		t.Fatalf("expected api key hint, got %v", formatCLIError(err))
	}
}

func TestFormatCLIErrorConflict(t *testing.T) {
	err := fmt.Errorf("close #4: %w", &op.APIError{Status: 409, Message: "stale"})
	if !strings.Contains(joined(formatCLIError(err)), "changed on the server") {
		t.Fatalf("expected conflict hint, got %v", formatCLIError(err))
	}
}

func TestFormatCLIErrorSelectionNotVisible(t *testing.T) {
	err := fmt.Errorf("edit: %w", session.ErrSelectionNotVisible)
	if !strings.Contains(joined(formatCLIError(err)), "visible set") {
		t.Fatalf("expected visibility hint, got %v", formatCLIError(err))
	}
}

func TestFormatCLIErrorPlain(t *testing.T) {
	err := errors.New("boom")
	lines := formatCLIError(err)
	if len(lines) != 1 || lines[0] != "boom" {
		t.Fatalf("expected the bare message, got %v", lines)
	}
}

func TestUniqueLines(t *testing.T) {
	lines := uniqueLines([]string{"a", "", "a", "b"})
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}
