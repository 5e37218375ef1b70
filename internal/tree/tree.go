// Package tree resolves parent/child relationships over a flat task list.
//
// The forest is rebuilt from the list on every call: a node's parent is a
// weak reference, and a parent id that is not present in the list (for
// example a soft-deleted task) simply makes the node a root. All walks are
// iterative and guarded by a visited set, so a corrupt list that contains a
// cycle still terminates.
package tree

import "github.com/zulandar/tasktrail/internal/models"

// Node is the minimal view of a task the resolver needs.
type Node struct {
	ID       string
	ParentID string // empty for roots
}

// Nodes projects tasks onto resolver nodes.
func Nodes(tasks []models.Task) []Node {
	nodes := make([]Node, len(tasks))
	for i, t := range tasks {
		nodes[i] = Node{ID: t.ID}
		if t.ParentTaskID != nil {
			nodes[i].ParentID = *t.ParentTaskID
		}
	}
	return nodes
}

// Children builds the parent -> children adjacency map, preserving the
// input order of siblings.
func Children(nodes []Node) map[string][]string {
	children := make(map[string][]string)
	for _, n := range nodes {
		if n.ParentID == "" || n.ParentID == n.ID {
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n.ID)
	}
	return children
}

// DescendantIDs returns every id reachable below rootID, in depth-first
// order. rootID itself is never included.
func DescendantIDs(rootID string, nodes []Node) []string {
	return walk(rootID, Children(nodes))
}

// SubtreeIDs returns rootID followed by all of its descendants.
func SubtreeIDs(rootID string, nodes []Node) []string {
	return append([]string{rootID}, DescendantIDs(rootID, nodes)...)
}

// IsDescendant reports whether candidateID lies somewhere below rootID.
func IsDescendant(rootID, candidateID string, nodes []Node) bool {
	for _, id := range DescendantIDs(rootID, nodes) {
		if id == candidateID {
			return true
		}
	}
	return false
}

func walk(rootID string, children map[string][]string) []string {
	visited := map[string]bool{rootID: true}
	var out []string
	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		kids := children[id]
		// Push in reverse so siblings are visited in input order.
		for i := len(kids) - 1; i >= 0; i-- {
			kid := kids[i]
			if visited[kid] {
				continue
			}
			visited[kid] = true
			stack = append(stack, kid)
		}
		if id != rootID {
			out = append(out, id)
		}
	}
	return out
}

// DescendantCounts returns, for every node in the list, the number of its
// transitive descendants. Counts are memoised bottom-up with an explicit
// post-order stack; an edge back into a node still being counted is
// ignored, so cycles contribute nothing instead of looping.
func DescendantCounts(nodes []Node) map[string]int {
	children := Children(nodes)
	counts := make(map[string]int, len(nodes))

	const (
		unseen = iota
		open
		done
	)
	state := make(map[string]int, len(nodes))

	type frame struct {
		id   string
		next int
	}

	for _, n := range nodes {
		if state[n.ID] != unseen {
			continue
		}
		state[n.ID] = open
		stack := []frame{{id: n.ID}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := children[top.id]
			if top.next < len(kids) {
				kid := kids[top.next]
				top.next++
				if state[kid] == unseen {
					state[kid] = open
					stack = append(stack, frame{id: kid})
				}
				continue
			}

			total := 0
			for _, kid := range kids {
				if state[kid] == done {
					total += 1 + counts[kid]
				}
			}
			counts[top.id] = total
			state[top.id] = done
			stack = stack[:len(stack)-1]
		}
	}
	return counts
}
