package domain

import "time"

// Page sizes for condition history listings.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ConditionFilter selects past conditions. Zero fields match everything;
// From and To are inclusive calendar dates.
type ConditionFilter struct {
	Activity Activity
	From     time.Time
	To       time.Time
	Limit    int
}

// PageLimit returns Limit bounded to (0, MaxListLimit], defaulting to
// DefaultListLimit.
func (f ConditionFilter) PageLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}
