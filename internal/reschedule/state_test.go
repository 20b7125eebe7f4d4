package reschedule

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/runcal/internal/run"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func testRuns() []*run.Run {
	return []*run.Run{
		{ID: 1, ProductName: "Sourdough", StartDate: time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local), EndDate: time.Date(2024, 3, 12, 8, 0, 0, 0, time.Local)},
		{ID: 2, ProductName: "Granola", StartDate: time.Date(2024, 3, 11, 6, 0, 0, 0, time.Local), EndDate: time.Date(2024, 3, 11, 14, 0, 0, 0, time.Local)},
	}
}

func TestTransition_DropAndConfirm(t *testing.T) {
	runs := testRuns()
	var s State = Idle{}

	s, cmd := Transition(s, DragStarted{RunID: 1}, runs)
	if cmd != nil {
		t.Fatal("drag start should not emit a command")
	}
	if id, ok := DraggedRun(s); !ok || id != 1 {
		t.Fatalf("got state %#v, want Dragging{1}", s)
	}

	at := Point{X: 40, Y: 12}
	s, _ = Transition(s, Dropped{Target: day(2024, 3, 14), At: at}, runs)
	want := Confirming{
		Draft: Draft{RunID: 1, DaysDelta: 4, TargetDate: day(2024, 3, 14)},
		At:    at,
	}
	if diff := cmp.Diff(State(want), s); diff != "" {
		t.Fatalf("state after drop mismatch (-want +got):\n%s", diff)
	}

	s, cmd = Transition(s, Confirmed{}, runs)
	if _, ok := s.(Idle); !ok {
		t.Errorf("got state %#v after confirm, want Idle", s)
	}
	if cmd == nil {
		t.Fatal("confirm should emit a command")
	}
	if diff := cmp.Diff(Command{Kind: KindReschedule, RunID: 1, DaysDelta: 4}, *cmd); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestTransition_Cancel(t *testing.T) {
	runs := testRuns()
	s, _ := Transition(Idle{}, DragStarted{RunID: 2}, runs)
	s, _ = Transition(s, Dropped{Target: day(2024, 3, 9)}, runs)

	draft, ok := PendingDraft(s)
	if !ok || draft.DaysDelta != -2 {
		t.Fatalf("got draft %+v (ok=%v), want delta -2", draft, ok)
	}

	s, cmd := Transition(s, Cancelled{}, runs)
	if cmd != nil {
		t.Error("cancel should not emit a command")
	}
	if _, ok := s.(Idle); !ok {
		t.Errorf("got state %#v after cancel, want Idle", s)
	}
}

func TestTransition_SameDayDropIsNoOp(t *testing.T) {
	runs := testRuns()
	s, _ := Transition(Idle{}, DragStarted{RunID: 1}, runs)
	// Later on the same start day.
	s, cmd := Transition(s, Dropped{Target: time.Date(2024, 3, 10, 23, 0, 0, 0, time.Local)}, runs)
	if cmd != nil {
		t.Error("same-day drop should not emit a command")
	}
	if _, ok := s.(Idle); !ok {
		t.Errorf("got state %#v, want Idle", s)
	}
}

func TestTransition_UnknownRunIsIgnored(t *testing.T) {
	runs := testRuns()
	s, _ := Transition(Idle{}, DragStarted{RunID: 99}, runs)
	s, cmd := Transition(s, Dropped{Target: day(2024, 3, 20)}, runs)
	if cmd != nil {
		t.Error("drop of unknown run should not emit a command")
	}
	if _, ok := s.(Idle); !ok {
		t.Errorf("got state %#v, want Idle", s)
	}
}

func TestTransition_SecondDragReplacesFirst(t *testing.T) {
	runs := testRuns()
	s, _ := Transition(Idle{}, DragStarted{RunID: 1}, runs)
	s, _ = Transition(s, DragStarted{RunID: 2}, runs)
	if id, _ := DraggedRun(s); id != 2 {
		t.Fatalf("dragging %d, want 2", id)
	}

	s, _ = Transition(s, Dropped{Target: day(2024, 3, 15)}, runs)
	draft, ok := PendingDraft(s)
	if !ok || draft.RunID != 2 || draft.DaysDelta != 4 {
		t.Errorf("got draft %+v, want run 2 delta 4", draft)
	}

	// Picking up another run while confirming discards the draft.
	s, _ = Transition(s, DragStarted{RunID: 1}, runs)
	if _, ok := PendingDraft(s); ok {
		t.Error("draft should be discarded by a new drag")
	}
}

func TestTransition_IgnoredEvents(t *testing.T) {
	runs := testRuns()
	confirming := Confirming{Draft: Draft{RunID: 1, DaysDelta: 1, TargetDate: day(2024, 3, 11)}}

	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"confirm while idle", Idle{}, Confirmed{}, Idle{}},
		{"drop while idle", Idle{}, Dropped{Target: day(2024, 3, 14)}, Idle{}},
		{"confirm while dragging", Dragging{RunID: 1}, Confirmed{}, Dragging{RunID: 1}},
		{"drop while confirming", confirming, Dropped{Target: day(2024, 3, 20)}, confirming},
		{"abort while dragging", Dragging{RunID: 1}, DragAborted{}, Idle{}},
		{"abort while confirming", confirming, DragAborted{}, Idle{}},
		{"nil state", nil, Confirmed{}, Idle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cmd := Transition(tt.state, tt.event, runs)
			if cmd != nil {
				t.Errorf("unexpected command %+v", cmd)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraftPrompt(t *testing.T) {
	d := Draft{TargetDate: day(2024, 3, 14)}
	if got := d.Prompt(); got != "Reschedule to Mar 14?" {
		t.Errorf("Prompt() = %q", got)
	}
}

func TestName(t *testing.T) {
	states := map[string]State{
		"idle":         Idle{},
		"dragging":     Dragging{},
		"drop_pending": DropPending{},
		"confirming":   Confirming{},
	}
	for want, s := range states {
		if got := Name(s); got != want {
			t.Errorf("Name(%T) = %q, want %q", s, got, want)
		}
	}
}
