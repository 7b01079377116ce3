// Package hierarchy builds a navigable project tree from the flat
// parent-referencing list the tracking service returns. The parent graph
// is untrusted: references may dangle and may form cycles, and the builder
// must terminate and keep every project reachable either way.
package hierarchy

import "ophub/internal/models"

// Node is one project in the tree. Children are owned by their parent and
// keep the order in which the flat list produced them. Unclassified marks
// a project hoisted to the root level because its parent reference did not
// resolve (dangling id or cycle).
type Node struct {
	Project      models.Project
	Children     []*Node
	Unclassified bool
}

// Tree is the assembled hierarchy plus the lookup indexes derived while
// building it. It is an immutable snapshot; rebuild from a fresh project
// list instead of mutating it.
type Tree struct {
	Roots []*Node

	byID               map[int]*Node
	childrenByID       map[int][]models.Project
	referencedAsParent map[int]struct{}
	descendants        map[int][]int
}

// Build partitions projects into roots and a children-by-parent index,
// then assembles the tree depth-first. Projects left unvisited after the
// root walk (dangling parent or cycle member) are appended as unclassified
// roots in encounter order, so every project appears exactly once.
func Build(projects []models.Project) *Tree {
	tree := &Tree{
		byID:               make(map[int]*Node, len(projects)),
		childrenByID:       make(map[int][]models.Project),
		referencedAsParent: make(map[int]struct{}),
		descendants:        make(map[int][]int),
	}

	var roots []models.Project
	for _, project := range projects {
		if project.ParentID == nil {
			roots = append(roots, project)
			continue
		}
		parent := *project.ParentID
		tree.childrenByID[parent] = append(tree.childrenByID[parent], project)
		tree.referencedAsParent[parent] = struct{}{}
	}

	visited := make(map[int]bool, len(projects))
	for _, root := range roots {
		tree.Roots = append(tree.Roots, tree.attach(root, visited, false))
	}

	// Safety net: anything not reachable from a root still gets a row.
	for _, project := range projects {
		if !visited[project.ID] {
			tree.Roots = append(tree.Roots, tree.attach(project, visited, true))
		}
	}

	return tree
}

func (t *Tree) attach(project models.Project, visited map[int]bool, unclassified bool) *Node {
	visited[project.ID] = true
	node := &Node{Project: project, Unclassified: unclassified}
	t.byID[project.ID] = node
	for _, child := range t.childrenByID[project.ID] {
		if visited[child.ID] {
			// Cycle edge; the child already has a place in the tree.
			continue
		}
		node.Children = append(node.Children, t.attach(child, visited, false))
	}
	return node
}

// Node returns the tree node for a project id, or nil.
func (t *Tree) Node(id int) *Node {
	return t.byID[id]
}

// Has reports whether the project id is part of the known set.
func (t *Tree) Has(id int) bool {
	_, ok := t.byID[id]
	return ok
}

// ChildProjects returns the direct child projects recorded for a parent
// id, in encounter order.
func (t *Tree) ChildProjects(parentID int) []models.Project {
	return t.childrenByID[parentID]
}

// ReferencedParentIDs returns the set of ids that appear as a parent_id,
// including dangling ones. Callers use it for cycle/dangling diagnostics.
func (t *Tree) ReferencedParentIDs() map[int]struct{} {
	return t.referencedAsParent
}

// Walk visits every node pre-order: each node before its children, roots
// and children in encounter order. depth is 0 for roots.
func (t *Tree) Walk(visit func(node *Node, depth int)) {
	for _, root := range t.Roots {
		walkNode(root, 0, visit)
	}
}

func walkNode(node *Node, depth int, visit func(*Node, int)) {
	visit(node, depth)
	for _, child := range node.Children {
		walkNode(child, depth+1, visit)
	}
}

// Descendants returns the ids of every project below node id, memoized per
// node. The result excludes the node itself.
func (t *Tree) Descendants(id int) []int {
	if ids, ok := t.descendants[id]; ok {
		return ids
	}
	node := t.byID[id]
	if node == nil {
		return nil
	}

	var ids []int
	queue := make([]*Node, 0, len(node.Children))
	queue = append(queue, node.Children...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		ids = append(ids, current.Project.ID)
		queue = append(queue, current.Children...)
	}

	t.descendants[id] = ids
	return ids
}
