package database

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Sponsor export columns (snake_case).
var sponsorColumns = []string{
	"id",
	"name",
	"status",
	"plan_count",
	"active_requirements",
	"last_activity",
	"contact_email",
	"contact_phone",
	"address",
	"registration_date",
	"completion_rate",
}

// Requirement export columns (snake_case).
var requirementColumns = []string{
	"id",
	"title",
	"description",
	"type",
	"assigned_sponsors",
	"due_date",
	"status",
	"priority",
	"completion_rate",
	"total_documents",
	"submitted_documents",
}

// WriteSponsorsCSV writes sponsors to a CSV writer in the given order.
func WriteSponsorsCSV(w io.Writer, sponsors []Sponsor) error {
	rows := make([][]string, 0, len(sponsors))
	for _, s := range sponsors {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Status.String(),
			strconv.Itoa(s.PlanCount),
			strconv.Itoa(s.ActiveRequirements),
			s.LastActivity,
			s.ContactEmail,
			s.ContactPhone,
			s.Address,
			s.RegistrationDate,
			strconv.Itoa(s.CompletionRate),
		})
	}
	return writeCSV(w, sponsorColumns, rows)
}

// WriteRequirementsCSV writes requirements to a CSV writer in the given order.
// Assigned sponsors are stored pipe-separated by id.
func WriteRequirementsCSV(w io.Writer, reqs []Requirement) error {
	rows := make([][]string, 0, len(reqs))
	for _, r := range reqs {
		rows = append(rows, []string{
			r.ID,
			r.Title,
			r.Description,
			r.Type,
			strings.Join(r.SponsorIDs(), "|"),
			r.DueDate,
			r.Status.String(),
			r.Priority.String(),
			strconv.Itoa(r.CompletionRate),
			strconv.Itoa(r.TotalDocuments),
			strconv.Itoa(r.SubmittedDocuments),
		})
	}
	return writeCSV(w, requirementColumns, rows)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
