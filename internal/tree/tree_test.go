package tree

import (
	"reflect"
	"sort"
	"strconv"
	"testing"

	"github.com/zulandar/tasktrail/internal/models"
)

// sample:
//
//	a
//	├── b
//	│   └── d
//	└── c
//	e
func sample() []Node {
	return []Node{
		{ID: "a"},
		{ID: "b", ParentID: "a"},
		{ID: "c", ParentID: "a"},
		{ID: "d", ParentID: "b"},
		{ID: "e"},
	}
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestDescendantIDs(t *testing.T) {
	tests := []struct {
		root string
		want []string
	}{
		{"a", []string{"b", "c", "d"}},
		{"b", []string{"d"}},
		{"c", nil},
		{"e", nil},
		{"missing", nil},
	}
	for _, tt := range tests {
		got := sorted(DescendantIDs(tt.root, sample()))
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DescendantIDs(%q) = %v, want %v", tt.root, got, tt.want)
		}
	}
}

func TestDescendantIDs_DepthFirstOrder(t *testing.T) {
	got := DescendantIDs("a", sample())
	want := []string{"b", "d", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescendantIDs(a) = %v, want %v", got, want)
	}
}

func TestDescendantIDs_NeverContainsRoot(t *testing.T) {
	for _, n := range sample() {
		for _, id := range DescendantIDs(n.ID, sample()) {
			if id == n.ID {
				t.Errorf("DescendantIDs(%q) contains root", n.ID)
			}
		}
	}
}

func TestDescendantIDs_ClosedUnderChildren(t *testing.T) {
	nodes := sample()
	children := Children(nodes)
	for _, n := range nodes {
		set := map[string]bool{}
		for _, id := range DescendantIDs(n.ID, nodes) {
			set[id] = true
		}
		for id := range set {
			for _, kid := range children[id] {
				if !set[kid] {
					t.Errorf("descendants of %q contain %q but not its child %q", n.ID, id, kid)
				}
			}
		}
	}
}

func TestDescendantIDs_Cycle(t *testing.T) {
	nodes := []Node{
		{ID: "x", ParentID: "z"},
		{ID: "y", ParentID: "x"},
		{ID: "z", ParentID: "y"},
	}
	got := sorted(DescendantIDs("x", nodes))
	want := []string{"y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescendantIDs on cycle = %v, want %v", got, want)
	}
}

func TestDescendantIDs_SelfParentIgnored(t *testing.T) {
	nodes := []Node{{ID: "x", ParentID: "x"}}
	if got := DescendantIDs("x", nodes); len(got) != 0 {
		t.Errorf("DescendantIDs(self-parent) = %v, want empty", got)
	}
}

func TestDescendantIDs_DeadParentIsRoot(t *testing.T) {
	// "gone" was soft-deleted and is absent from the list.
	nodes := []Node{
		{ID: "top"},
		{ID: "orphan", ParentID: "gone"},
		{ID: "leaf", ParentID: "orphan"},
	}
	if got := DescendantIDs("top", nodes); len(got) != 0 {
		t.Errorf("DescendantIDs(top) = %v, want empty", got)
	}
	if got := DescendantIDs("orphan", nodes); !reflect.DeepEqual(got, []string{"leaf"}) {
		t.Errorf("DescendantIDs(orphan) = %v, want [leaf]", got)
	}
}

func TestSubtreeIDs(t *testing.T) {
	got := SubtreeIDs("b", sample())
	want := []string{"b", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SubtreeIDs(b) = %v, want %v", got, want)
	}
	if got := SubtreeIDs("e", sample()); !reflect.DeepEqual(got, []string{"e"}) {
		t.Errorf("SubtreeIDs(e) = %v, want [e]", got)
	}
}

func TestIsDescendant(t *testing.T) {
	tests := []struct {
		root, candidate string
		want            bool
	}{
		{"a", "d", true},
		{"a", "c", true},
		{"b", "c", false},
		{"d", "a", false},
		{"a", "a", false},
	}
	for _, tt := range tests {
		if got := IsDescendant(tt.root, tt.candidate, sample()); got != tt.want {
			t.Errorf("IsDescendant(%q, %q) = %v, want %v", tt.root, tt.candidate, got, tt.want)
		}
	}
}

func TestDescendantCounts(t *testing.T) {
	got := DescendantCounts(sample())
	want := map[string]int{"a": 3, "b": 1, "c": 0, "d": 0, "e": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescendantCounts = %v, want %v", got, want)
	}
}

func TestDescendantCounts_ChildListedBeforeParent(t *testing.T) {
	nodes := []Node{
		{ID: "d", ParentID: "b"},
		{ID: "b", ParentID: "a"},
		{ID: "a"},
	}
	got := DescendantCounts(nodes)
	want := map[string]int{"a": 2, "b": 1, "d": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DescendantCounts = %v, want %v", got, want)
	}
}

func TestDescendantCounts_CycleTerminates(t *testing.T) {
	nodes := []Node{
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}
	got := DescendantCounts(nodes)
	if len(got) != 2 {
		t.Fatalf("DescendantCounts on cycle returned %d entries, want 2", len(got))
	}
	for id, n := range got {
		if n < 0 || n > 1 {
			t.Errorf("count[%q] = %d, want 0 or 1", id, n)
		}
	}
}

func TestDescendantCounts_Deep(t *testing.T) {
	const depth = 50000
	nodes := make([]Node, depth)
	nodes[0] = Node{ID: "n0"}
	for i := 1; i < depth; i++ {
		nodes[i] = Node{ID: idOf(i), ParentID: idOf(i - 1)}
	}
	counts := DescendantCounts(nodes)
	if counts["n0"] != depth-1 {
		t.Errorf("count[n0] = %d, want %d", counts["n0"], depth-1)
	}
	if got := len(DescendantIDs("n0", nodes)); got != depth-1 {
		t.Errorf("len(DescendantIDs(n0)) = %d, want %d", got, depth-1)
	}
}

func idOf(i int) string {
	return "n" + strconv.Itoa(i)
}

func TestNodes(t *testing.T) {
	parent := "a"
	tasks := []models.Task{
		{ID: "a"},
		{ID: "b", ParentTaskID: &parent},
	}
	got := Nodes(tasks)
	want := []Node{{ID: "a"}, {ID: "b", ParentID: "a"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes = %v, want %v", got, want)
	}
}
