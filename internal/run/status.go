package run

import (
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a run.
type Status string

const (
	StatusOnTrack          Status = "On Track"
	StatusMaterialShortage Status = "Material Shortage"
	StatusScheduled        Status = "Scheduled"
	StatusInProgress       Status = "In Progress"
	StatusPendingApproval  Status = "Pending Approval"
	StatusConfirmed        Status = "Confirmed"
	StatusCancelled        Status = "Cancelled"
	StatusCompleted        Status = "Completed"
)

// Statuses returns every known status in display order.
func Statuses() []Status {
	return []Status{
		StatusOnTrack,
		StatusMaterialShortage,
		StatusScheduled,
		StatusInProgress,
		StatusPendingApproval,
		StatusConfirmed,
		StatusCancelled,
		StatusCompleted,
	}
}

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Key returns the snake_case form used in flags and config files.
func (s Status) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), " ", "_")
}

// ParseStatus parses a status from its display form ("Material Shortage")
// or its key form ("material_shortage", "material-shortage").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	for _, known := range Statuses() {
		if strings.ToLower(string(known)) == norm {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Badge style keys.
const (
	StyleSuccess   = "success"
	StyleConfirmed = "confirmed"
	StyleWarning   = "warning"
	StyleInfo      = "info"
	StyleActive    = "active"
	StylePending   = "pending"
	StyleMuted     = "muted"
	StyleDone      = "done"
	StyleDefault   = "default"
)

// Badge describes how a status is drawn on a card.
type Badge struct {
	Style string
	Icon  string // empty when the status has no icon
}

var badges = map[Status]Badge{
	StatusOnTrack:          {Style: StyleSuccess, Icon: "✓"},
	StatusMaterialShortage: {Style: StyleWarning, Icon: "⚠"},
	StatusScheduled:        {Style: StyleInfo},
	StatusInProgress:       {Style: StyleActive},
	StatusPendingApproval:  {Style: StylePending},
	StatusConfirmed:        {Style: StyleConfirmed},
	StatusCancelled:        {Style: StyleMuted},
	StatusCompleted:        {Style: StyleDone},
}

// Badge returns the badge for the status. Unknown statuses get the
// default style and no icon.
func (s Status) Badge() Badge {
	if b, ok := badges[s]; ok {
		return b
	}
	return Badge{Style: StyleDefault}
}
