package composer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMenuKeys(t *testing.T) {
	tests := []struct {
		name         string
		keys         []Key
		want         MenuState
		wantConsumed []bool
	}{
		{
			name:         "down wraps",
			keys:         []Key{KeyDown, KeyDown, KeyDown, KeyDown},
			want:         MenuState{Open: true, Highlighted: 0},
			wantConsumed: []bool{true, true, true, true},
		},
		{
			name:         "up wraps",
			keys:         []Key{KeyUp},
			want:         MenuState{Open: true, Highlighted: 3},
			wantConsumed: []bool{true},
		},
		{
			name:         "backspace closes",
			keys:         []Key{KeyDown, KeyBackspace},
			want:         MenuState{},
			wantConsumed: []bool{true, false},
		},
		{
			name:         "other key passes through",
			keys:         []Key{KeyOther, KeyDown},
			want:         MenuState{Open: true, Highlighted: 1},
			wantConsumed: []bool{false, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMenu(4)
			m.Observe(Trigger, false)
			var consumed []bool
			for _, k := range tt.keys {
				c, commit := m.Key(k)
				if commit != -1 {
					t.Fatalf("Key(%v) committed %d", k, commit)
				}
				consumed = append(consumed, c)
			}
			if diff := cmp.Diff(tt.want, m.State()); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantConsumed, consumed); diff != "" {
				t.Errorf("consumed mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMenuDownCyclesFromEveryIndex(t *testing.T) {
	for _, count := range []int{1, 2, 4, 7} {
		for start := 0; start < count; start++ {
			m := NewMenu(count)
			m.Request()
			for i := 0; i < start; i++ {
				m.Key(KeyDown)
			}
			if got := m.Highlighted(); got != start {
				t.Fatalf("count %d: setup highlighted = %d, want %d", count, got, start)
			}
			for i := 0; i < count; i++ {
				m.Key(KeyDown)
			}
			if diff := cmp.Diff(MenuState{Open: true, Highlighted: start}, m.State()); diff != "" {
				t.Errorf("count %d from %d: state mismatch (-want +got):\n%s", count, start, diff)
			}
		}
	}
}

func TestMenuEnterCommitsHighlighted(t *testing.T) {
	m := NewMenu(4)
	m.Observe(Trigger, false)
	m.Key(KeyDown)
	m.Key(KeyDown)
	consumed, commit := m.Key(KeyEnter)
	if !consumed || commit != 2 {
		t.Errorf("Key(Enter) = %v, %d; want true, 2", consumed, commit)
	}
	if m.IsOpen() {
		t.Error("menu still open after commit")
	}
}

func TestMenuObserve(t *testing.T) {
	tests := []struct {
		buffer     string
		modeActive bool
		want       bool
	}{
		{"/", false, true},
		{"/", true, false},
		{"", false, false},
		{"/e", false, false},
		{" /", false, false},
		{"hello", false, false},
	}
	for _, tt := range tests {
		m := NewMenu(4)
		m.Observe(tt.buffer, tt.modeActive)
		if got := m.IsOpen(); got != tt.want {
			t.Errorf("Observe(%q, %v): open = %v, want %v", tt.buffer, tt.modeActive, got, tt.want)
		}
	}
}

func TestMenuObserveKeepsHighlight(t *testing.T) {
	m := NewMenu(4)
	m.Observe(Trigger, false)
	m.Key(KeyDown)
	m.Observe("/x", false)
	m.Observe(Trigger, false)
	if diff := cmp.Diff(MenuState{Open: true, Highlighted: 1}, m.State()); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuClosedIgnoresKeys(t *testing.T) {
	m := NewMenu(4)
	for _, k := range []Key{KeyUp, KeyDown, KeyEnter, KeyBackspace} {
		if consumed, commit := m.Key(k); consumed || commit != -1 {
			t.Errorf("closed Key(%v) = %v, %d", k, consumed, commit)
		}
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenu(4)
	if m.Select(1) {
		t.Error("Select on closed menu succeeded")
	}
	m.Request()
	if m.Select(4) {
		t.Error("Select out of range succeeded")
	}
	if !m.Select(3) {
		t.Error("Select(3) failed")
	}
	if m.IsOpen() {
		t.Error("menu open after Select")
	}
}

func TestEmptyMenuNeverOpens(t *testing.T) {
	m := NewMenu(0)
	m.Observe(Trigger, false)
	m.Request()
	if m.IsOpen() {
		t.Error("empty menu opened")
	}
}
