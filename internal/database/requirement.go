package database

import (
	"slices"
	"strings"
)

// Requirement represents a document obligation assigned to one or more sponsors.
type Requirement struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`

	// AssignedSponsors references sponsors from the requirement directory.
	AssignedSponsors []SponsorRef `yaml:"assigned_sponsors" json:"assigned_sponsors"`

	// DueDate is a display date (MM/DD/YYYY).
	DueDate string `yaml:"due_date" json:"due_date"`

	Status   RequirementStatus `yaml:"status" json:"status"`
	Priority Priority          `yaml:"priority" json:"priority"`

	CompletionRate     int `yaml:"completion_rate" json:"completion_rate"`
	TotalDocuments     int `yaml:"total_documents" json:"total_documents"`
	SubmittedDocuments int `yaml:"submitted_documents" json:"submitted_documents"`
}

// SponsorRef is a lightweight reference to a sponsor, used for assignment.
type SponsorRef struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}

// RequirementForm holds the fields collected by the create-requirement form.
type RequirementForm struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	Priority    string `yaml:"priority" json:"priority"`

	// DueDate is a form date (YYYY-MM-DD) or a display date.
	DueDate string `yaml:"due_date" json:"due_date"`

	// SponsorIDs are ids from the sponsor directory.
	SponsorIDs []string `yaml:"sponsor_ids" json:"sponsor_ids"`

	DocumentSpecs      string `yaml:"document_specs" json:"document_specs"`
	ApprovalWorkflow   string `yaml:"approval_workflow" json:"approval_workflow"`
	NotifyOnSubmission bool   `yaml:"notify_on_submission" json:"notify_on_submission"`
	AllowResubmission  bool   `yaml:"allow_resubmission" json:"allow_resubmission"`
}

// Approval workflows offered by the create form.
const (
	WorkflowSingleReviewer = "single-reviewer"
	WorkflowMultiReviewer  = "multi-reviewer"
	WorkflowSequential     = "sequential"
)

// DefaultRequirementForm returns the form as it is first shown.
func DefaultRequirementForm() RequirementForm {
	return RequirementForm{
		Type:               TypeFinancialReport,
		Priority:           PriorityMedium.String(),
		ApprovalWorkflow:   WorkflowSingleReviewer,
		NotifyOnSubmission: true,
		AllowResubmission:  true,
	}
}

// Requirement types offered by the create form.
const (
	TypeFinancialReport    = "Financial Report"
	TypeComplianceDocument = "Compliance Document"
	TypePlanDocument       = "Plan Document"
	TypeAuditReport        = "Audit Report"
	TypeTaxFiling          = "Tax Filing"
	TypeLegalDocument      = "Legal Document"
	TypeOther              = "Other"
)

// RequirementTypes returns the known requirement types in display order.
func RequirementTypes() []string {
	return []string{
		TypeFinancialReport,
		TypeComplianceDocument,
		TypePlanDocument,
		TypeAuditReport,
		TypeTaxFiling,
		TypeLegalDocument,
		TypeOther,
	}
}

// IsRequirementType reports whether t is one of RequirementTypes, ignoring case.
func IsRequirementType(t string) bool {
	for _, known := range RequirementTypes() {
		if strings.EqualFold(known, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}

// SponsorIDs returns the ids of the assigned sponsors in assignment order.
func (r Requirement) SponsorIDs() []string {
	ids := make([]string, 0, len(r.AssignedSponsors))
	for _, s := range r.AssignedSponsors {
		ids = append(ids, s.ID)
	}
	return ids
}

// SponsorNames returns the names of the assigned sponsors in assignment order.
func (r Requirement) SponsorNames() []string {
	names := make([]string, 0, len(r.AssignedSponsors))
	for _, s := range r.AssignedSponsors {
		names = append(names, s.Name)
	}
	return names
}

// OutstandingDocuments returns how many documents have not been submitted yet.
// Submitted counts above the total are not an error and yield zero.
func (r Requirement) OutstandingDocuments() int {
	if r.SubmittedDocuments >= r.TotalDocuments {
		return 0
	}
	return r.TotalDocuments - r.SubmittedDocuments
}

// Clone creates a deep copy of the requirement.
func (r Requirement) Clone() Requirement {
	clone := r
	clone.AssignedSponsors = slices.Clone(r.AssignedSponsors)
	return clone
}

// StringSet is a set of strings.
type StringSet map[string]struct{}

// NewStringSet creates a new StringSet from strings.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet)
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// ParseStringSet parses a comma- or pipe-separated string into a StringSet.
func ParseStringSet(s string) StringSet {
	return NewStringSet(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	})...)
}

// Add adds an item to the set.
func (s StringSet) Add(item string) {
	if item = strings.TrimSpace(item); item != "" {
		s[item] = struct{}{}
	}
}

// Remove removes an item from the set.
func (s StringSet) Remove(item string) {
	delete(s, strings.TrimSpace(item))
}

// Toggle adds the item if absent and removes it if present.
func (s StringSet) Toggle(item string) {
	if s.Contains(strings.TrimSpace(item)) {
		s.Remove(item)
		return
	}
	s.Add(item)
}

// Contains checks if an item is in the set.
func (s StringSet) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// ContainsAny reports whether at least one of items is in the set.
func (s StringSet) ContainsAny(items ...string) bool {
	for _, item := range items {
		if s.Contains(item) {
			return true
		}
	}
	return false
}

// Slice returns the items as a sorted slice.
func (s StringSet) Slice() []string {
	items := make([]string, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// String returns a pipe-separated string.
func (s StringSet) String() string {
	return strings.Join(s.Slice(), "|")
}

// Len returns the number of items.
func (s StringSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s StringSet) Clone() StringSet {
	c := make(StringSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}
