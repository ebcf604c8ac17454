package database

import (
	"fmt"
	"strings"
)

// Priority represents the priority level of a requirement.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// AllPriorities returns all valid priority values in order.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority parses a string into a Priority, case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium", "":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	default:
		return PriorityMedium, fmt.Errorf("invalid priority: %q", s)
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Weight returns a numeric weight for sorting (higher = more urgent).
func (p Priority) Weight() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// IsHighPriority returns true if priority is high.
func (p Priority) IsHighPriority() bool {
	return p == PriorityHigh
}
