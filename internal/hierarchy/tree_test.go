package hierarchy

import (
	"reflect"
	"testing"

	"ophub/internal/models"
)

func intPtr(v int) *int { return &v }

func project(id int, name string, parent *int) models.Project {
	return models.Project{ID: id, Name: name, ParentID: parent}
}

func traversalIDs(tree *Tree) []int {
	var ids []int
	tree.Walk(func(node *Node, _ int) {
		ids = append(ids, node.Project.ID)
	})
	return ids
}

func TestBuildNesting(t *testing.T) {
	projects := []models.Project{
		project(1, "A", nil),
		project(2, "A.1", intPtr(1)),
		project(4, "A.1.a", intPtr(2)),
		project(3, "B", nil),
	}

	tree := Build(projects)
	if len(tree.Roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(tree.Roots))
	}

	got := traversalIDs(tree)
	want := []int{1, 2, 4, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pre-order traversal = %v, want %v", got, want)
	}

	var depths []int
	tree.Walk(func(_ *Node, depth int) { depths = append(depths, depth) })
	if !reflect.DeepEqual(depths, []int{0, 1, 2, 0}) {
		t.Fatalf("depths = %v", depths)
	}
}

func TestBuildDanglingParent(t *testing.T) {
	projects := []models.Project{
		project(1, "A", nil),
		project(2, "lost", intPtr(999)),
		project(3, "lost child", intPtr(2)),
	}

	tree := Build(projects)
	got := traversalIDs(tree)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("traversal = %v; every project must appear exactly once", got)
	}

	lost := tree.Node(2)
	if lost == nil || !lost.Unclassified {
		t.Fatal("dangling-parent project must surface as an unclassified root")
	}
	if len(lost.Children) != 1 || lost.Children[0].Project.ID != 3 {
		t.Fatalf("dangling root must keep its own subtree, got %+v", lost.Children)
	}

	if _, ok := tree.ReferencedParentIDs()[999]; !ok {
		t.Fatal("dangling parent id must be reported as referenced")
	}
}

func TestBuildCycleTerminates(t *testing.T) {
	projects := []models.Project{
		project(1, "A", intPtr(2)),
		project(2, "B", intPtr(1)),
	}

	tree := Build(projects)
	got := traversalIDs(tree)
	if len(got) != 2 {
		t.Fatalf("cycle members must each appear once, got %v", got)
	}
}

func TestBuildIdempotent(t *testing.T) {
	projects := []models.Project{
		project(1, "A", nil),
		project(2, "A.1", intPtr(1)),
		project(5, "A.2", intPtr(1)),
		project(3, "B", nil),
		project(9, "orphan", intPtr(42)),
	}

	first := Build(projects)
	second := Build(projects)
	if !reflect.DeepEqual(traversalIDs(first), traversalIDs(second)) {
		t.Fatal("rebuilding from the same list must yield the same traversal")
	}

	var firstShape, secondShape [][2]int
	first.Walk(func(n *Node, d int) { firstShape = append(firstShape, [2]int{n.Project.ID, d}) })
	second.Walk(func(n *Node, d int) { secondShape = append(secondShape, [2]int{n.Project.ID, d}) })
	if !reflect.DeepEqual(firstShape, secondShape) {
		t.Fatal("rebuilding must preserve structure")
	}
}

func TestDescendants(t *testing.T) {
	projects := []models.Project{
		project(1, "A", nil),
		project(2, "A.1", intPtr(1)),
		project(3, "A.1.a", intPtr(2)),
		project(4, "A.2", intPtr(1)),
		project(5, "B", nil),
	}

	tree := Build(projects)
	got := tree.Descendants(1)
	want := []int{2, 4, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("descendants of 1 = %v, want %v", got, want)
	}

	if ids := tree.Descendants(5); len(ids) != 0 {
		t.Fatalf("leaf should have no descendants, got %v", ids)
	}
	if ids := tree.Descendants(404); ids != nil {
		t.Fatalf("unknown id should yield nil, got %v", ids)
	}

	// Memoized result stays stable on repeat calls.
	if again := tree.Descendants(1); !reflect.DeepEqual(again, want) {
		t.Fatalf("memoized descendants changed: %v", again)
	}
}

func TestChildProjectsOrder(t *testing.T) {
	projects := []models.Project{
		project(1, "root", nil),
		project(30, "c", intPtr(1)),
		project(10, "a", intPtr(1)),
		project(20, "b", intPtr(1)),
	}

	tree := Build(projects)
	children := tree.ChildProjects(1)
	ids := make([]int, 0, len(children))
	for _, child := range children {
		ids = append(ids, child.ID)
	}
	if !reflect.DeepEqual(ids, []int{30, 10, 20}) {
		t.Fatalf("children must keep encounter order, got %v", ids)
	}
}
