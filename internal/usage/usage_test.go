package usage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTouchIncrements(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), "usage.json"))

	if rec := store.Record("bugs"); rec.UseCount != 0 || !rec.LastUsed.IsZero() {
		t.Errorf("unused template record = %+v, want zero value", rec)
	}

	for i := 1; i <= 3; i++ {
		if err := store.Touch("bugs"); err != nil {
			t.Fatal(err)
		}
		if rec := store.Record("bugs"); rec.UseCount != i {
			t.Errorf("UseCount after %d touches = %d", i, rec.UseCount)
		}
	}

	if rec := store.Record("bugs"); rec.LastUsed.IsZero() {
		t.Error("LastUsed not set")
	}
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	first := NewStoreWithPath(path)
	if err := first.Touch("bugs"); err != nil {
		t.Fatal(err)
	}
	if err := first.Touch("features"); err != nil {
		t.Fatal(err)
	}

	second := NewStoreWithPath(path)
	all := second.All()
	if len(all) != 2 || all["bugs"].UseCount != 1 {
		t.Errorf("All() = %+v", all)
	}
}

func TestMalformedStoreStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewStoreWithPath(path)
	if err := store.Touch("bugs"); err != nil {
		t.Fatalf("Touch() on malformed store = %v", err)
	}
	if rec := store.Record("bugs"); rec.UseCount != 1 {
		t.Errorf("UseCount = %d, want 1", rec.UseCount)
	}
}
