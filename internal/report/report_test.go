package report

import (
	"testing"
	"time"

	"ophub/internal/hierarchy"
	"ophub/internal/models"
)

var testToday = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func buildTasks(tasks []models.Task) []models.EnrichedTask {
	return models.EnrichAll(tasks, testToday)
}

func specTree() *hierarchy.Tree {
	return hierarchy.Build([]models.Project{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "A.1", ParentID: intPtr(1)},
		{ID: 3, Name: "B"},
	})
}

func specTasks() []models.EnrichedTask {
	return buildTasks([]models.Task{
		{ID: 10, ProjectID: intPtr(1), Status: "New", Progress: 0, EstimatedTime: "PT10H", SpentTime: "PT0H"},
		{ID: 11, ProjectID: intPtr(2), Status: "Closed", Progress: 100, EstimatedTime: "PT5H", SpentTime: "PT5H"},
		{ID: 12, ProjectID: intPtr(2), Status: "In Progress", Progress: 50, EstimatedTime: "PT20H", SpentTime: "PT10H"},
	})
}

func TestBuildRowsMetrics(t *testing.T) {
	rows := BuildRows(specTree(), specTasks())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Pre-order: parent A before child A.1, then B.
	if rows[0].Name != "A" || rows[1].Name != "A.1" || rows[2].Name != "B" {
		t.Fatalf("unexpected row order: %v, %v, %v", rows[0].Name, rows[1].Name, rows[2].Name)
	}
	if rows[1].Depth != 1 {
		t.Fatalf("A.1 depth = %d", rows[1].Depth)
	}

	a1 := rows[1].Metrics
	if a1.TotalTasks != 2 {
		t.Fatalf("A.1 total = %d; direct tasks only, not descendants", a1.TotalTasks)
	}
	if a1.ClosedTasks != 1 {
		t.Fatalf("A.1 closed = %d", a1.ClosedTasks)
	}
	if a1.AvgProgress != 75.0 {
		t.Fatalf("A.1 avg progress = %v", a1.AvgProgress)
	}
	if a1.HoursEstimated != 25.0 || a1.HoursSpent != 15.0 || a1.HoursPending != 10.0 {
		t.Fatalf("A.1 hours = %v/%v/%v", a1.HoursEstimated, a1.HoursSpent, a1.HoursPending)
	}

	// A counts only its own direct task.
	if rows[0].TotalTasks != 1 || rows[0].HoursEstimated != 10.0 {
		t.Fatalf("A metrics = %+v", rows[0].Metrics)
	}
}

func TestBuildRowsEmptyNode(t *testing.T) {
	rows := BuildRows(specTree(), nil)
	for _, row := range rows {
		if row.AvgProgress != 0 {
			t.Fatalf("avg progress of empty node must be exactly 0, got %v", row.AvgProgress)
		}
		if row.TotalTasks != 0 || row.HoursEstimated != 0 {
			t.Fatalf("empty node metrics = %+v", row.Metrics)
		}
	}
}

func TestBuildRowsOrphanBucket(t *testing.T) {
	tasks := append(specTasks(), buildTasks([]models.Task{
		{ID: 13, ProjectID: intPtr(999), Status: "Cerrado", Progress: 100, EstimatedTime: "PT2H"},
		{ID: 14, Status: "New", Progress: 20, SpentTime: "PT1H"},
	})...)

	rows := BuildRows(specTree(), tasks)
	last := rows[len(rows)-1]
	if !last.Unclassified || last.Name != UnclassifiedLabel {
		t.Fatalf("expected trailing unclassified row, got %+v", last)
	}
	if last.TotalTasks != 2 || last.ClosedTasks != 1 {
		t.Fatalf("orphan metrics = %+v", last.Metrics)
	}
	if last.AvgProgress != 60.0 {
		t.Fatalf("orphan avg progress = %v", last.AvgProgress)
	}
	if last.HoursPending != 1.0 {
		t.Fatalf("orphan pending hours = %v", last.HoursPending)
	}
}

func TestBuildRowsNegativePendingPreserved(t *testing.T) {
	tree := hierarchy.Build([]models.Project{{ID: 1, Name: "A"}})
	tasks := buildTasks([]models.Task{
		{ID: 1, ProjectID: intPtr(1), Status: "New", EstimatedTime: "PT2H", SpentTime: "PT5H"},
	})

	rows := BuildRows(tree, tasks)
	if rows[0].HoursPending != -3.0 {
		t.Fatalf("over-spent pending must stay negative, got %v", rows[0].HoursPending)
	}
}

func TestBuildHoursBreakdown(t *testing.T) {
	rows := BuildHoursBreakdown(specTree(), specTasks())
	// B has no tasks and must not chart.
	if len(rows) != 2 {
		t.Fatalf("expected 2 chart rows, got %d", len(rows))
	}
	if rows[0].Name != "A" || rows[1].Name != "A.1" {
		t.Fatalf("chart order = %v, %v", rows[0].Name, rows[1].Name)
	}
	if rows[1].HoursPending != 10 {
		t.Fatalf("A.1 chart pending = %v", rows[1].HoursPending)
	}
}

func TestBuildBoardPrunesInactiveBranches(t *testing.T) {
	tree := hierarchy.Build([]models.Project{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "A.1", ParentID: intPtr(1)},
		{ID: 3, Name: "A.1.a", ParentID: intPtr(2)},
		{ID: 4, Name: "B", ParentID: nil},
	})
	// Only the grandchild carries a task; the whole A branch stays, B goes.
	tasks := buildTasks([]models.Task{
		{ID: 10, ProjectID: intPtr(3), Status: "New"},
	})

	board := BuildBoard(tree, tasks)
	if len(board.Groups) != 3 {
		t.Fatalf("expected groups for A, A.1, A.1.a; got %d", len(board.Groups))
	}
	for i, wantID := range []int{1, 2, 3} {
		if board.Groups[i].Node.Project.ID != wantID {
			t.Fatalf("group %d = project %d, want %d", i, board.Groups[i].Node.Project.ID, wantID)
		}
	}
	if len(board.Groups[0].Tasks) != 0 {
		t.Fatal("A has no direct tasks")
	}
	if len(board.Groups[2].Tasks) != 1 {
		t.Fatal("A.1.a must list its direct task")
	}
}

func TestBuildBoardOrphans(t *testing.T) {
	board := BuildBoard(specTree(), buildTasks([]models.Task{
		{ID: 20, ProjectID: intPtr(404), Status: "New"},
	}))
	if len(board.Groups) != 0 {
		t.Fatalf("no known project carries tasks, got %d groups", len(board.Groups))
	}
	if len(board.Orphans) != 1 {
		t.Fatalf("orphan task must survive, got %d", len(board.Orphans))
	}
}
