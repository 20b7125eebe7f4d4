package calendar

import (
	"testing"
	"time"
)

func TestNavigate(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
		view View
		dir  Direction
		want time.Time
	}{
		{"month forward", date(2024, 3, 15), ViewMonth, Next, date(2024, 4, 15)},
		{"month back across year", date(2024, 1, 10), ViewMonth, Prev, date(2023, 12, 10)},
		{"month overflow", date(2024, 1, 31), ViewMonth, Next, date(2024, 3, 2)},
		{"month overflow non-leap", date(2023, 1, 31), ViewMonth, Next, date(2023, 3, 3)},
		{"week forward", date(2024, 3, 15), ViewWeek, Next, date(2024, 3, 22)},
		{"week back", date(2024, 3, 3), ViewWeek, Prev, date(2024, 2, 25)},
		{"day forward across leap day", date(2024, 2, 28), ViewDay, Next, date(2024, 2, 29)},
		{"day back", date(2024, 3, 1), ViewDay, Prev, date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Navigate(tt.ref, tt.view, tt.dir); !got.Equal(tt.want) {
				t.Errorf("Navigate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNavigate_RoundTrip(t *testing.T) {
	ref := date(2024, 3, 15)
	for _, v := range Views() {
		if got := Navigate(Navigate(ref, v, Next), v, Prev); !got.Equal(ref) {
			t.Errorf("%s: next then prev = %v, want %v", v, got, ref)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 3, 15, 17, 42, 10, 0, time.Local)
	if got := Today(now); !got.Equal(date(2024, 3, 15)) {
		t.Errorf("Today() = %v", got)
	}
}

func TestRangeAndTitle(t *testing.T) {
	start, end := Range(date(2024, 3, 15), ViewMonth)
	if !start.Equal(date(2024, 2, 25)) || !end.Equal(date(2024, 4, 6)) {
		t.Errorf("month range = %v..%v", start, end)
	}

	tests := []struct {
		ref  time.Time
		view View
		want string
	}{
		{date(2024, 3, 15), ViewMonth, "March 2024"},
		{date(2024, 3, 15), ViewWeek, "Mar 10 - Mar 16, 2024"},
		{date(2024, 12, 31), ViewWeek, "Dec 29, 2024 - Jan 4, 2025"},
		{date(2024, 3, 15), ViewDay, "Friday, Mar 15 2024"},
	}
	for _, tt := range tests {
		if got := Title(tt.ref, tt.view); got != tt.want {
			t.Errorf("Title(%v, %s) = %q, want %q", tt.ref, tt.view, got, tt.want)
		}
	}
}
