package model

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStatusCycle(t *testing.T) {
	order := []Status{StatusNone, StatusInProgress, StatusBlocked, StatusFuture, StatusNone}
	for i := 0; i < len(order)-1; i++ {
		if got := order[i].Next(); got != order[i+1] {
			t.Errorf("%s.Next() = %s, want %s", order[i], got, order[i+1])
		}
	}

	// Unknown values restart the cycle rather than propagating garbage.
	if got := Status("bogus").Next(); got != StatusNone {
		t.Errorf("bogus.Next() = %s, want none", got)
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"none", "in_progress", "blocked", "future"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "done", "IN_PROGRESS"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) should fail", invalid)
		}
	}
}

func TestStatusYAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(StatusBlocked)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "blocked\n" {
		t.Errorf("Marshal = %q, want plain string scalar", data)
	}

	var s Status
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if s != StatusBlocked {
		t.Errorf("round trip = %s", s)
	}
}

func TestStatusYAMLRejectsNonString(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"tagged scalar", "!!python/object:app.Status blocked"},
		{"mapping", "value: blocked"},
		{"sequence", "- blocked"},
		{"integer", "3"},
		{"unknown value", "urgent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			if err := yaml.Unmarshal([]byte(tt.doc), &s); err == nil {
				t.Errorf("Unmarshal(%q) succeeded with %s, want error", tt.doc, s)
			}
		})
	}
}

func TestParseStateFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    StateFilter
		wantErr bool
	}{
		{"open", FilterOpen, false},
		{"closed", FilterClosed, false},
		{"all", FilterAll, false},
		{"", FilterOpen, false},
		{"merged", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStateFilter(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStateFilter(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseRepositoryRef(t *testing.T) {
	ref, err := ParseRepositoryRef("acme/widgets")
	if err != nil || ref.Owner != "acme" || ref.Name != "widgets" {
		t.Errorf("ParseRepositoryRef = %+v, %v", ref, err)
	}
	for _, bad := range []string{"", "acme", "acme/", "/widgets", "a/b/c"} {
		if _, err := ParseRepositoryRef(bad); err == nil {
			t.Errorf("ParseRepositoryRef(%q) should fail", bad)
		}
	}
}
