package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/zulandar/tasktrail/internal/models"
)

func strPtr(s string) *string { return &s }

func prioPtr(p models.Priority) *models.Priority { return &p }

func TestDiff(t *testing.T) {
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sameDayElsewhere := day.In(time.FixedZone("plus2", 2*3600))
	base := models.Task{
		ID:                  "t1",
		Title:               "Write docs",
		Description:         strPtr("first draft"),
		Priority:            prioPtr(models.PriorityLow),
		PredictedFinishDate: &day,
	}

	tests := []struct {
		name   string
		patch  Patch
		fields []string
	}{
		{"empty patch", Patch{}, nil},
		{"identical values", Patch{
			Title:       Some("Write docs"),
			Description: Some("first draft"),
			Priority:    Some(models.PriorityLow),
		}, nil},
		{"same instant other zone", Patch{PredictedFinishDate: Some(sameDayElsewhere)}, nil},
		{"title and priority", Patch{
			Title:    Some("Write more docs"),
			Priority: Some(models.PriorityHigh),
		}, []string{FieldTitle, FieldPriority}},
		{"clear description", Patch{Description: Null[string]()}, []string{FieldDescription}},
		{"set parent", Patch{ParentTaskID: Some("t0")}, []string{FieldParentTaskID}},
		{"clear unset parent", Patch{ParentTaskID: Null[string]()}, nil},
		{"every field", Patch{
			Title:               Some("x"),
			Description:         Some("y"),
			ParentTaskID:        Some("p"),
			Priority:            Null[models.Priority](),
			PredictedFinishDate: Some(day.AddDate(0, 0, 1)),
		}, []string{FieldTitle, FieldDescription, FieldParentTaskID, FieldPriority, FieldPredictedFinishDate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Diff(base, Apply(base, tt.patch))
			if len(changes) != len(tt.fields) {
				t.Fatalf("Diff() = %d changes %+v, want fields %v", len(changes), changes, tt.fields)
			}
			for i, c := range changes {
				if c.Field != tt.fields[i] {
					t.Errorf("change[%d].Field = %q, want %q", i, c.Field, tt.fields[i])
				}
			}
		})
	}
}

func TestDiff_Values(t *testing.T) {
	old := models.Task{Title: "a", Priority: prioPtr(models.PriorityLow)}
	updated := Apply(old, Patch{Priority: Null[models.Priority](), Title: Some("b")})

	changes := Diff(old, updated)
	if len(changes) != 2 {
		t.Fatalf("Diff() = %+v, want 2 changes", changes)
	}
	if *changes[0].Old != "a" || *changes[0].New != "b" {
		t.Errorf("title change = %q -> %q, want a -> b", *changes[0].Old, *changes[0].New)
	}
	if *changes[1].Old != "LOW" || changes[1].New != nil {
		t.Errorf("priority change = %v -> %v, want LOW -> nil", changes[1].Old, changes[1].New)
	}
}

func TestDiff_DateFormat(t *testing.T) {
	day := time.Date(2026, 5, 1, 9, 30, 0, 0, time.FixedZone("plus2", 2*3600))
	changes := Diff(models.Task{}, models.Task{PredictedFinishDate: &day})
	if len(changes) != 1 {
		t.Fatalf("Diff() = %+v, want 1 change", changes)
	}
	if got := *changes[0].New; got != "2026-05-01T07:30:00Z" {
		t.Errorf("date New = %q, want 2026-05-01T07:30:00Z", got)
	}
}

func TestApply_TitleNullIgnored(t *testing.T) {
	got := Apply(models.Task{Title: "keep"}, Patch{Title: Null[string]()})
	if got.Title != "keep" {
		t.Errorf("Title = %q, want keep", got.Title)
	}
}

func TestColumns(t *testing.T) {
	old := models.Task{Title: "a"}
	updated := Apply(old, Patch{Title: Some("b"), Description: Some("d")})
	cols := Columns(updated, Diff(old, updated))
	if len(cols) != 2 {
		t.Fatalf("Columns() = %v, want 2 entries", cols)
	}
	if cols["title"] != "b" {
		t.Errorf("title column = %v, want b", cols["title"])
	}
	if d, ok := cols["description"].(*string); !ok || *d != "d" {
		t.Errorf("description column = %v, want d", cols["description"])
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Description: Null[string]()}).Empty() {
		t.Error("Patch clearing description should not be empty")
	}
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var body struct {
		Title       Optional[string] `json:"title"`
		Description Optional[string] `json:"description"`
		Parent      Optional[string] `json:"parent_task_id"`
	}
	if err := json.Unmarshal([]byte(`{"title":"x","description":null}`), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !body.Title.Set || body.Title.Value == nil || *body.Title.Value != "x" {
		t.Errorf("Title = %+v, want Set with x", body.Title)
	}
	if !body.Description.Set || body.Description.Value != nil {
		t.Errorf("Description = %+v, want Set with nil", body.Description)
	}
	if body.Parent.Set {
		t.Errorf("Parent = %+v, want unset", body.Parent)
	}
}

func TestOptional_UnmarshalJSON_WrongType(t *testing.T) {
	var o Optional[string]
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("expected error unmarshalling number into Optional[string]")
	}
}

func TestOptional_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
	}{A: Some("v")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"a":"v","b":null}` {
		t.Errorf("Marshal = %s", out)
	}
}
