package mode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	var got []ID
	for _, m := range r.Modes() {
		got = append(got, m.ID)
	}
	want := []ID{SendEmail, Assistance, Commands, File}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("registry order mismatch (-want +got):\n%s", diff)
	}
	if r.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(want))
	}
}

func TestResolve(t *testing.T) {
	r := Default()
	tests := []struct {
		id        ID
		wantOK    bool
		wantLabel string
	}{
		{SendEmail, true, "Send Email"},
		{Assistance, true, "Assistance"},
		{Commands, true, "Commands & Scripts"},
		{File, true, "File"},
		{"", false, ""},
		{"unknown", false, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			m, ok := r.Resolve(tt.id)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if m.Label != tt.wantLabel {
				t.Errorf("Resolve(%q).Label = %q, want %q", tt.id, m.Label, tt.wantLabel)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	r := Default()
	if got := r.Placeholder("nope"); got != DefaultPlaceholder {
		t.Errorf("Placeholder(unknown) = %q, want default", got)
	}
	if got := r.Placeholder(""); got != DefaultPlaceholder {
		t.Errorf("Placeholder(\"\") = %q, want default", got)
	}
	if got := r.Placeholder(Assistance); got != "Ask anything..." {
		t.Errorf("Placeholder(assistance) = %q", got)
	}
}

func TestNewRegistryIgnoresDuplicates(t *testing.T) {
	r := NewRegistry(Mode{ID: "a", Label: "first"}, Mode{ID: "a", Label: "second"}, Mode{ID: "b"})
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if m, _ := r.Resolve("a"); m.Label != "first" {
		t.Errorf("Resolve(a).Label = %q, want first", m.Label)
	}
}

func TestModesReturnsCopy(t *testing.T) {
	r := Default()
	ms := r.Modes()
	ms[0].Label = "mutated"
	if r.At(0).Label == "mutated" {
		t.Error("Modes() exposed internal slice")
	}
}
