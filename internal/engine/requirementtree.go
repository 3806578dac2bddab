package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// RequirementTree is the validated requirement forest of one program. Nodes
// live in an arena keyed by id with a children-by-parent index built once
// at load; evaluation only ever walks that index.
type RequirementTree struct {
	ProgramID uuid.UUID
	Warnings  []string

	snap     *CatalogSnapshot
	nodes    map[uuid.UUID]*RequirementNode
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// BuildRequirementTree validates that every parent id resolves to a node of
// the same program and that no node is its own ancestor. Duplicate sibling
// order values are not fatal; ties keep insertion order and the tree
// carries a warning.
func BuildRequirementTree(snap *CatalogSnapshot, programID uuid.UUID) (*RequirementTree, error) {
	t := &RequirementTree{
		ProgramID: programID,
		snap:      snap,
		nodes:     map[uuid.UUID]*RequirementNode{},
		children:  map[uuid.UUID][]uuid.UUID{},
	}

	declared := snap.Requirements[programID]
	for _, node := range declared {
		if !node.Type.Valid() {
			return nil, &ConfigurationError{
				Kind:   ConfigBadNodeType,
				Detail: fmt.Sprintf("node %q has unknown type %q", node.Name, node.Type),
			}
		}
		if node.ProgramID != programID {
			return nil, &ConfigurationError{
				Kind:   ConfigBadParent,
				Detail: fmt.Sprintf("node %q belongs to another program", node.Name),
			}
		}
		t.nodes[node.ID] = node
	}

	for _, node := range declared {
		if node.ParentID == nil {
			t.roots = append(t.roots, node.ID)
			continue
		}
		parent, ok := t.nodes[*node.ParentID]
		if !ok {
			return nil, &ConfigurationError{
				Kind:   ConfigBadParent,
				Detail: fmt.Sprintf("node %q references parent %s outside program", node.Name, node.ParentID),
			}
		}
		t.children[parent.ID] = append(t.children[parent.ID], node.ID)
	}

	t.sortSiblings(t.roots)
	for parentID := range t.children {
		t.sortSiblings(t.children[parentID])
	}

	if cycle := t.findCycle(); cycle != nil {
		return nil, &ConfigurationError{Kind: ConfigRequirementCycle, Cycle: cycle}
	}
	return t, nil
}

// sortSiblings stable-sorts by order so ties fall back to insertion order.
func (t *RequirementTree) sortSiblings(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return t.nodes[ids[i]].Order < t.nodes[ids[j]].Order
	})
	seen := map[int]bool{}
	for _, id := range ids {
		o := t.nodes[id].Order
		if seen[o] {
			t.Warnings = append(t.Warnings,
				fmt.Sprintf("duplicate sibling order %d at node %q, keeping insertion order", o, t.nodes[id].Name))
		}
		seen[o] = true
	}
}

func (t *RequirementTree) findCycle() []string {
	color := make(map[uuid.UUID]int, len(t.nodes))
	var cycle []string

	var visit func(id uuid.UUID, path []uuid.UUID) bool
	visit = func(id uuid.UUID, path []uuid.UUID) bool {
		color[id] = colorInStack
		path = append(path, id)
		for _, child := range t.children[id] {
			switch color[child] {
			case colorInStack:
				start := 0
				for i, p := range path {
					if p == child {
						start = i
						break
					}
				}
				for _, p := range path[start:] {
					cycle = append(cycle, t.nodes[p].Name)
				}
				cycle = append(cycle, t.nodes[child].Name)
				return true
			case colorUnvisited:
				if visit(child, path) {
					return true
				}
			}
		}
		color[id] = colorDone
		return false
	}

	for _, root := range t.roots {
		if color[root] == colorUnvisited {
			if visit(root, nil) {
				return cycle
			}
		}
	}

	// A parent chain that loops without touching a root never gets
	// reached above; any unvisited node with a parent is on such a loop.
	for id := range t.nodes {
		if color[id] == colorUnvisited {
			if visit(id, nil) {
				return cycle
			}
		}
	}
	return nil
}

func (t *RequirementTree) Node(id uuid.UUID) *RequirementNode {
	return t.nodes[id]
}

func (t *RequirementTree) Children(id uuid.UUID) []uuid.UUID {
	return t.children[id]
}

func (t *RequirementTree) Roots() []uuid.UUID {
	return t.roots
}
