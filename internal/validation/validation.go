// Package validation checks portal form input. Validators are pure: they
// return every problem found and never modify their input.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/docflow-ai/docflow-go/internal/database"
)

// DefaultMaxCommentLength is the character limit of review comments.
const DefaultMaxCommentLength = 500

// Field names reported in ValidationError.
const (
	FieldName         = "name"
	FieldContactEmail = "contactEmail"
	FieldContactPhone = "contactPhone"
	FieldAddress      = "address"
	FieldStatus       = "status"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldDueDate      = "dueDate"
	FieldSponsors     = "assignedSponsors"
	FieldType         = "type"
	FieldPriority     = "priority"
	FieldWorkflow     = "approvalWorkflow"
	FieldComment      = "comment"
	FieldOutcome      = "outcome"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a problem with one form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors is the list of problems found in one submission. A non-empty list
// blocks the submission.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}

// Field returns the first message reported for field.
func (e Errors) Field(name string) (string, bool) {
	for _, v := range e {
		if v.Field == name {
			return v.Message, true
		}
	}
	return "", false
}

// Err returns e as an error, or nil when e is empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// AsErrors extracts the validation errors wrapped in err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateSponsor checks the add-sponsor form.
func ValidateSponsor(s database.NewSponsor) Errors {
	var errs Errors
	if blank(s.Name) {
		errs.add(FieldName, "Sponsor name is required")
	}
	switch {
	case blank(s.ContactEmail):
		errs.add(FieldContactEmail, "Email is required")
	case !emailPattern.MatchString(s.ContactEmail):
		errs.add(FieldContactEmail, "Invalid email format")
	}
	if blank(s.ContactPhone) {
		errs.add(FieldContactPhone, "Phone number is required")
	}
	if blank(s.Address) {
		errs.add(FieldAddress, "Address is required")
	}
	if s.Status != "" && s.Status != database.SponsorActive && s.Status != database.SponsorPending {
		errs.add(FieldStatus, "Status must be active or pending")
	}
	return errs
}

// ValidateRequirement checks the create-requirement form against the sponsor
// directory.
func ValidateRequirement(f database.RequirementForm, directory []database.SponsorRef) Errors {
	var errs Errors
	if blank(f.Title) {
		errs.add(FieldTitle, "Title is required")
	}
	if blank(f.Description) {
		errs.add(FieldDescription, "Description is required")
	}
	if blank(f.DueDate) {
		errs.add(FieldDueDate, "Due date is required")
	} else if _, err := database.ParseDate(f.DueDate); err != nil {
		errs.add(FieldDueDate, "Due date is not a valid date")
	}

	if len(f.SponsorIDs) == 0 {
		errs.add(FieldSponsors, "At least one sponsor must be selected")
	} else {
		known := make(map[string]struct{}, len(directory))
		for _, ref := range directory {
			known[ref.ID] = struct{}{}
		}
		for _, id := range f.SponsorIDs {
			if _, ok := known[id]; !ok {
				errs.add(FieldSponsors, fmt.Sprintf("Unknown sponsor %q", id))
			}
		}
	}

	if f.Type != "" && !database.IsRequirementType(f.Type) {
		errs.add(FieldType, fmt.Sprintf("Unknown requirement type %q", f.Type))
	}
	if _, err := database.ParsePriority(f.Priority); err != nil {
		errs.add(FieldPriority, fmt.Sprintf("Unknown priority %q", f.Priority))
	}
	switch f.ApprovalWorkflow {
	case "", database.WorkflowSingleReviewer, database.WorkflowMultiReviewer, database.WorkflowSequential:
	default:
		errs.add(FieldWorkflow, fmt.Sprintf("Unknown approval workflow %q", f.ApprovalWorkflow))
	}
	return errs
}

// ValidateDecision checks a review decision. Rejections need a reason.
func ValidateDecision(outcome, comment string, maxLen int) Errors {
	var errs Errors
	switch outcome {
	case "accept":
	case "reject":
		if blank(comment) {
			errs.add(FieldComment, "Please provide a reason for rejection")
		}
	default:
		errs.add(FieldOutcome, fmt.Sprintf("Unknown outcome %q", outcome))
	}
	errs = append(errs, checkLength(comment, maxLen)...)
	return errs
}

// ValidateComment checks a new comment.
func ValidateComment(text string, maxLen int) Errors {
	var errs Errors
	if blank(text) {
		errs.add(FieldComment, "Comment cannot be empty")
	}
	errs = append(errs, checkLength(text, maxLen)...)
	return errs
}

func checkLength(text string, maxLen int) Errors {
	if maxLen <= 0 {
		maxLen = DefaultMaxCommentLength
	}
	if n := utf8.RuneCountInString(text); n > maxLen {
		return Errors{{Field: FieldComment, Message: fmt.Sprintf("Comment is %d characters; the limit is %d", n, maxLen)}}
	}
	return nil
}
