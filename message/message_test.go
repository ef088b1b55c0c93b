package message

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLogAppend(t *testing.T) {
	var l Log
	var seen []Role
	l.SetOnChange(func(m Msg) { seen = append(seen, m.Role) })

	l.Append(User("hello"))
	l.Append(Msg{Role: RoleBot, Content: "hi"})

	got := l.Messages()
	want := []Msg{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleBot, Content: "hi"},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Msg{}, "ID", "Time")); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
	for i, m := range got {
		if m.ID == "" || m.Time.IsZero() {
			t.Errorf("message %d missing ID or Time: %+v", i, m)
		}
	}
	if diff := cmp.Diff([]Role{RoleUser, RoleBot}, seen); diff != "" {
		t.Errorf("OnChange calls mismatch (-want +got):\n%s", diff)
	}
}

func TestLogSettle(t *testing.T) {
	var l Log
	m := User("hello")
	m.Pending = true
	l.Append(m)

	var settled []bool
	l.SetOnChange(func(m Msg) { settled = append(settled, m.Pending) })
	if !l.Settle(m.ID) {
		t.Fatal("Settle() = false, want true for pending message")
	}
	if l.Messages()[0].Pending {
		t.Error("message still pending after Settle")
	}
	if l.Settle(m.ID) {
		t.Error("second Settle() = true, want false")
	}
	if l.Settle("missing") {
		t.Error("Settle(missing) = true, want false")
	}
	if diff := cmp.Diff([]bool{false}, settled); diff != "" {
		t.Errorf("hook calls mismatch (-want +got):\n%s", diff)
	}
}

func TestLogConcurrentAppend(t *testing.T) {
	var l Log
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(User("x"))
		}()
	}
	wg.Wait()
	if l.Len() != 50 {
		t.Errorf("Len() = %d, want 50", l.Len())
	}
}

func TestLatest(t *testing.T) {
	var l Latest
	if l.Get() != "" {
		t.Errorf("zero Latest = %q, want empty", l.Get())
	}
	l.SetLatestBotMessage("Hi there")
	if l.Get() != "Hi there" {
		t.Errorf("Get() = %q, want %q", l.Get(), "Hi there")
	}
}
