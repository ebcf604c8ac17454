package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/docflow-ai/docflow-go/internal/database"
)

func validSponsor() database.NewSponsor {
	return database.NewSponsor{
		Name:         "Northwind Traders",
		ContactEmail: "ops@northwind.com",
		ContactPhone: "(555) 000-1111",
		Address:      "1 Harbor Rd, Seattle, WA 98101",
		Status:       database.SponsorPending,
	}
}

func TestValidateSponsor(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*database.NewSponsor)
		field  string
		want   string
	}{
		{"valid", func(*database.NewSponsor) {}, "", ""},
		{"missing name", func(s *database.NewSponsor) { s.Name = "  " }, FieldName, "Sponsor name is required"},
		{"missing email", func(s *database.NewSponsor) { s.ContactEmail = "" }, FieldContactEmail, "Email is required"},
		{"bad email", func(s *database.NewSponsor) { s.ContactEmail = "ops@northwind" }, FieldContactEmail, "Invalid email format"},
		{"email with space", func(s *database.NewSponsor) { s.ContactEmail = "o ps@northwind.com" }, FieldContactEmail, "Invalid email format"},
		{"missing phone", func(s *database.NewSponsor) { s.ContactPhone = "" }, FieldContactPhone, "Phone number is required"},
		{"missing address", func(s *database.NewSponsor) { s.Address = "" }, FieldAddress, "Address is required"},
		{"suspended on create", func(s *database.NewSponsor) { s.Status = database.SponsorSuspended }, FieldStatus, "Status must be active or pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSponsor()
			tt.modify(&s)
			errs := ValidateSponsor(s)

			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("ValidateSponsor() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("ValidateSponsor() returned %d errors, want 1: %v", len(errs), errs)
			}
			if got, ok := errs.Field(tt.field); !ok || got != tt.want {
				t.Errorf("Field(%q) = %q, %v, want %q", tt.field, got, ok, tt.want)
			}
		})
	}
}

func TestValidateSponsorReportsEveryField(t *testing.T) {
	errs := ValidateSponsor(database.NewSponsor{})
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors for an empty form, got %d: %v", len(errs), errs)
	}
	for _, f := range []string{FieldName, FieldContactEmail, FieldContactPhone, FieldAddress} {
		if _, ok := errs.Field(f); !ok {
			t.Errorf("missing error for %s", f)
		}
	}
}

func validRequirement() database.RequirementForm {
	f := database.DefaultRequirementForm()
	f.Title = "Form 5500 Filing"
	f.Description = "Annual return"
	f.DueDate = "2025-03-31"
	f.SponsorIDs = []string{"sp1", "sp3"}
	return f
}

func TestValidateRequirement(t *testing.T) {
	directory := database.DefaultSeed().Directory

	tests := []struct {
		name   string
		modify func(*database.RequirementForm)
		field  string
		want   string
	}{
		{"valid", func(*database.RequirementForm) {}, "", ""},
		{"display date accepted", func(f *database.RequirementForm) { f.DueDate = "03/31/2025" }, "", ""},
		{"missing title", func(f *database.RequirementForm) { f.Title = "" }, FieldTitle, "Title is required"},
		{"missing description", func(f *database.RequirementForm) { f.Description = "" }, FieldDescription, "Description is required"},
		{"missing due date", func(f *database.RequirementForm) { f.DueDate = "" }, FieldDueDate, "Due date is required"},
		{"bad due date", func(f *database.RequirementForm) { f.DueDate = "next week" }, FieldDueDate, "Due date is not a valid date"},
		{"no sponsors", func(f *database.RequirementForm) { f.SponsorIDs = nil }, FieldSponsors, "At least one sponsor must be selected"},
		{"unknown sponsor", func(f *database.RequirementForm) { f.SponsorIDs = []string{"sp9"} }, FieldSponsors, `Unknown sponsor "sp9"`},
		{"unknown type", func(f *database.RequirementForm) { f.Type = "Memo" }, FieldType, `Unknown requirement type "Memo"`},
		{"unknown priority", func(f *database.RequirementForm) { f.Priority = "urgent" }, FieldPriority, `Unknown priority "urgent"`},
		{"unknown workflow", func(f *database.RequirementForm) { f.ApprovalWorkflow = "committee" }, FieldWorkflow, `Unknown approval workflow "committee"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validRequirement()
			tt.modify(&f)
			errs := ValidateRequirement(f, directory)

			if tt.field == "" {
				if err := errs.Err(); err != nil {
					t.Errorf("ValidateRequirement() = %v, want nil", err)
				}
				return
			}
			if got, ok := errs.Field(tt.field); !ok || got != tt.want {
				t.Errorf("Field(%q) = %q, %v, want %q (all: %v)", tt.field, got, ok, tt.want, errs)
			}
		})
	}
}

func TestValidateDecision(t *testing.T) {
	tests := []struct {
		outcome string
		comment string
		wantErr bool
	}{
		{"accept", "", false},
		{"accept", "looks good", false},
		{"reject", "missing figures", false},
		{"reject", "", true},
		{"reject", "   ", true},
		{"reject", strings.Repeat("x", 501), true},
		{"reject", strings.Repeat("é", 500), false},
		{"escalate", "", true},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s/%d", tt.outcome, len(tt.comment))
		t.Run(name, func(t *testing.T) {
			errs := ValidateDecision(tt.outcome, tt.comment, DefaultMaxCommentLength)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("ValidateDecision(%q, %q) = %v, wantErr %v", tt.outcome, tt.comment, errs, tt.wantErr)
			}
		})
	}

	errs := ValidateDecision("reject", "", 0)
	if msg, _ := errs.Field(FieldComment); msg != "Please provide a reason for rejection" {
		t.Errorf("reject message = %q", msg)
	}
}

func TestValidateComment(t *testing.T) {
	if errs := ValidateComment("Please attach page 4", 500); len(errs) != 0 {
		t.Errorf("ValidateComment() = %v, want none", errs)
	}
	if errs := ValidateComment("\n\t", 500); len(errs) != 1 {
		t.Errorf("blank comment: got %v", errs)
	}
	if errs := ValidateComment("abcdef", 5); len(errs) != 1 {
		t.Errorf("long comment: got %v", errs)
	}
}

func TestAsErrors(t *testing.T) {
	err := fmt.Errorf("create sponsor: %w", ValidateSponsor(database.NewSponsor{}).Err())

	errs, ok := AsErrors(err)
	if !ok {
		t.Fatal("AsErrors should unwrap validation errors")
	}
	if len(errs) != 4 {
		t.Errorf("expected 4 errors, got %d", len(errs))
	}
	if !strings.Contains(err.Error(), "name: Sponsor name is required") {
		t.Errorf("unexpected message: %s", err)
	}

	if _, ok := AsErrors(fmt.Errorf("plain")); ok {
		t.Error("AsErrors should not match plain errors")
	}
	if (Errors{}).Err() != nil {
		t.Error("empty Errors should be nil error")
	}
}
