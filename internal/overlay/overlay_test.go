package overlay

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spiffcs/tracker/internal/model"
)

func items() []model.Item {
	return []model.Item{
		{ID: "a", Title: "first"},
		{ID: "b", Title: "second"},
		{ID: "c", Title: "third"},
	}
}

func TestMergeDefaults(t *testing.T) {
	merged := Merge(items(), model.NewAnnotations())

	want := []Annotated{
		{Item: model.Item{ID: "a", Title: "first"}, Status: model.StatusNone},
		{Item: model.Item{ID: "b", Title: "second"}, Status: model.StatusNone},
		{Item: model.Item{ID: "c", Title: "third"}, Status: model.StatusNone},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAttachesAnnotations(t *testing.T) {
	ann := model.NewAnnotations()
	ann.Ignored["b"] = true
	ann.Notes["a"] = "look at this one"
	ann.Statuses["c"] = model.StatusBlocked

	merged := Merge(items(), ann)

	if merged[0].Note != "look at this one" || merged[0].Ignored {
		t.Errorf("item a = %+v, want note without ignore", merged[0])
	}
	if !merged[1].Ignored {
		t.Errorf("item b should be ignored")
	}
	if merged[2].Status != model.StatusBlocked {
		t.Errorf("item c status = %s, want blocked", merged[2].Status)
	}
}

func TestMergeKeepsStaleAnnotations(t *testing.T) {
	ann := model.NewAnnotations()
	ann.Notes["gone"] = "item no longer fetched"

	merged := Merge(items(), ann)
	if len(merged) != 3 {
		t.Fatalf("Merge() returned %d items, want 3", len(merged))
	}
	if ann.Notes["gone"] != "item no longer fetched" {
		t.Error("annotations for absent items must survive the merge")
	}
}

func TestMergeIdempotent(t *testing.T) {
	ann := model.NewAnnotations()
	ann.Ignored["a"] = true

	first := Merge(items(), ann)
	second := Merge(items(), ann)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Merge() differs (-first +second):\n%s", diff)
	}
}

func TestApplyEditToggleIgnore(t *testing.T) {
	ann := model.NewAnnotations()

	on := ApplyEdit(ann, "a", ToggleIgnore{})
	if !on.Ignored["a"] {
		t.Fatal("first toggle should set the ignore flag")
	}
	if ann.Ignored["a"] {
		t.Error("input annotation set must not be mutated")
	}

	off := ApplyEdit(on, "a", ToggleIgnore{})
	if _, ok := off.Ignored["a"]; ok {
		t.Error("second toggle should remove the entry entirely")
	}
}

func TestApplyEditSetNote(t *testing.T) {
	ann := model.NewAnnotations()

	withNote := ApplyEdit(ann, "a", SetNote{Text: "check upstream"})
	if withNote.Notes["a"] != "check upstream" {
		t.Fatalf("note = %q, want %q", withNote.Notes["a"], "check upstream")
	}

	cleared := ApplyEdit(withNote, "a", SetNote{})
	if _, ok := cleared.Notes["a"]; ok {
		t.Error("empty note text should delete the entry")
	}
}

func TestApplyEditCycleStatus(t *testing.T) {
	ann := model.NewAnnotations()

	want := []model.Status{model.StatusInProgress, model.StatusBlocked, model.StatusFuture}
	for _, status := range want {
		ann = ApplyEdit(ann, "a", CycleStatus{})
		if got := ann.StatusFor("a"); got != status {
			t.Fatalf("StatusFor(a) = %s, want %s", got, status)
		}
	}

	// Fourth cycle wraps to none and drops the entry.
	ann = ApplyEdit(ann, "a", CycleStatus{})
	if _, ok := ann.Statuses["a"]; ok {
		t.Error("cycling back to none must remove the entry")
	}
	if got := ann.StatusFor("a"); got != model.StatusNone {
		t.Errorf("StatusFor(a) = %s, want none", got)
	}
}

func TestApplyEditTouchesOnlyTargetID(t *testing.T) {
	ann := model.NewAnnotations()
	ann.Ignored["other"] = true
	ann.Notes["other"] = "keep me"
	ann.Statuses["other"] = model.StatusFuture

	out := ApplyEdit(ann, "a", ToggleIgnore{})

	if !out.Ignored["other"] || out.Notes["other"] != "keep me" || out.Statuses["other"] != model.StatusFuture {
		t.Errorf("edit of a leaked into other: %+v", out)
	}
}
