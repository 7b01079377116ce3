package report

import (
	"ophub/internal/hierarchy"
	"ophub/internal/models"
)

// Group is one kanban section: a project node and its direct tasks.
// Groups exist for every node inside an active branch, even when the node
// itself has no direct tasks, so the hierarchy stays readable.
type Group struct {
	Node  *hierarchy.Node
	Depth int
	Tasks []models.EnrichedTask
}

// Board is the kanban output mode: project groups pruned to active
// branches plus the orphan bucket.
type Board struct {
	Groups  []Group
	Orphans []models.EnrichedTask
}

// BuildBoard groups direct tasks per node and prunes branches that carry
// no tasks anywhere below them. Branch activity is decided against the
// descendant closure, not the roll-up metrics.
func BuildBoard(tree *hierarchy.Tree, tasks []models.EnrichedTask) Board {
	index := indexByProject(tree, tasks)

	board := Board{Orphans: index.orphans}
	for _, root := range tree.Roots {
		board.appendBranch(tree, root, 0, index.direct)
	}
	return board
}

func (b *Board) appendBranch(tree *hierarchy.Tree, node *hierarchy.Node, depth int, direct map[int][]models.EnrichedTask) {
	if !branchHasTasks(tree, node, direct) {
		return
	}
	b.Groups = append(b.Groups, Group{
		Node:  node,
		Depth: depth,
		Tasks: direct[node.Project.ID],
	})
	for _, child := range node.Children {
		b.appendBranch(tree, child, depth+1, direct)
	}
}

// branchHasTasks reports whether the node or any of its descendants has at
// least one direct task.
func branchHasTasks(tree *hierarchy.Tree, node *hierarchy.Node, direct map[int][]models.EnrichedTask) bool {
	if len(direct[node.Project.ID]) > 0 {
		return true
	}
	for _, id := range tree.Descendants(node.Project.ID) {
		if len(direct[id]) > 0 {
			return true
		}
	}
	return false
}
