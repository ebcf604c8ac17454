// Package database provides the record shapes, the in-memory entity store and
// the seed data for the docflow portal.
package database

import (
	"fmt"
	"strings"
)

// SponsorStatus represents the administration status of a sponsor.
type SponsorStatus string

const (
	SponsorActive    SponsorStatus = "active"
	SponsorPending   SponsorStatus = "pending"
	SponsorInactive  SponsorStatus = "inactive"
	SponsorSuspended SponsorStatus = "suspended"
)

// AllSponsorStatuses returns all valid sponsor status values.
func AllSponsorStatuses() []SponsorStatus {
	return []SponsorStatus{SponsorActive, SponsorPending, SponsorInactive, SponsorSuspended}
}

// ParseSponsorStatus parses a string into a SponsorStatus, case-insensitive.
func ParseSponsorStatus(s string) (SponsorStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return SponsorActive, nil
	case "pending", "":
		return SponsorPending, nil
	case "inactive":
		return SponsorInactive, nil
	case "suspended":
		return SponsorSuspended, nil
	default:
		return SponsorPending, fmt.Errorf("invalid sponsor status: %q", s)
	}
}

// String returns the string representation of the status.
func (s SponsorStatus) String() string {
	return string(s)
}

// RequirementStatus represents the completion status of a document requirement.
type RequirementStatus string

const (
	RequirementPending    RequirementStatus = "pending"
	RequirementInProgress RequirementStatus = "in-progress"
	RequirementCompleted  RequirementStatus = "completed"
	RequirementOverdue    RequirementStatus = "overdue"
)

// AllRequirementStatuses returns all valid requirement status values.
func AllRequirementStatuses() []RequirementStatus {
	return []RequirementStatus{RequirementPending, RequirementInProgress, RequirementCompleted, RequirementOverdue}
}

// ParseRequirementStatus parses a string into a RequirementStatus, case-insensitive.
// Underscores are accepted in place of dashes.
func ParseRequirementStatus(s string) (RequirementStatus, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "pending", "":
		return RequirementPending, nil
	case "in-progress":
		return RequirementInProgress, nil
	case "completed":
		return RequirementCompleted, nil
	case "overdue":
		return RequirementOverdue, nil
	default:
		return RequirementPending, fmt.Errorf("invalid requirement status: %q", s)
	}
}

// String returns the string representation of the status.
func (s RequirementStatus) String() string {
	return string(s)
}

// IsOpen returns true if the requirement still expects submissions.
func (s RequirementStatus) IsOpen() bool {
	return s != RequirementCompleted
}

// HistoryStatus is the outcome recorded on a submission history entry.
type HistoryStatus string

const (
	HistoryApproved  HistoryStatus = "approved"
	HistoryRejected  HistoryStatus = "rejected"
	HistorySubmitted HistoryStatus = "submitted"
)

// VersionStatus is the review state of a submitted document version.
type VersionStatus string

const (
	VersionPending  VersionStatus = "Pending"
	VersionApproved VersionStatus = "Approved"
	VersionRejected VersionStatus = "Rejected"
)

// ActivityType classifies a dashboard activity feed entry.
type ActivityType string

const (
	ActivitySubmission  ActivityType = "submission"
	ActivityRequirement ActivityType = "requirement"
	ActivityApproval    ActivityType = "approval"
	ActivityRejection   ActivityType = "rejection"
)
