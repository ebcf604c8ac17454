package portal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
)

// Metrics are the headline figures of the dashboard.
type Metrics struct {
	TotalSponsors      int `json:"total_sponsors"`
	ActiveRequirements int `json:"active_requirements"`
	PendingDocuments   int `json:"pending_documents"`
	CompletionRate     int `json:"completion_rate"`
}

// OverviewSort orders the sponsor overview.
type OverviewSort string

const (
	// OverviewByName sorts alphabetically.
	OverviewByName OverviewSort = "name"
	// OverviewByPending puts the most outstanding requirements first.
	OverviewByPending OverviewSort = "pending"
	// OverviewByActivity puts the most recent activity first.
	OverviewByActivity OverviewSort = "activity"
)

// ParseOverviewSort parses an overview sort key.
func ParseOverviewSort(s string) (OverviewSort, error) {
	switch OverviewSort(strings.ToLower(strings.TrimSpace(s))) {
	case OverviewByName, "":
		return OverviewByName, nil
	case OverviewByPending:
		return OverviewByPending, nil
	case OverviewByActivity:
		return OverviewByActivity, nil
	default:
		return "", fmt.Errorf("invalid overview sort: %q (use name, pending or activity)", s)
	}
}

// Dashboard is the landing overview. It reads the sponsor and requirement
// screens and never modifies them.
type Dashboard struct {
	sponsors     *SponsorScreen
	requirements *RequirementScreen
	activities   []database.Activity

	query  string
	status string
	sortBy OverviewSort
}

// NewDashboard creates the overview of sponsors and requirements.
func NewDashboard(sponsors *SponsorScreen, requirements *RequirementScreen, activities []database.Activity) *Dashboard {
	return &Dashboard{
		sponsors:     sponsors,
		requirements: requirements,
		activities:   slices.Clone(activities),
		sortBy:       OverviewByName,
	}
}

// Metrics computes the headline figures from the current records.
func (d *Dashboard) Metrics() Metrics {
	var m Metrics
	spons := d.sponsors.List().Store().All()
	m.TotalSponsors = len(spons)

	reqs := d.requirements.List().Store().All()
	rates := make([]int, 0, len(reqs))
	for _, r := range reqs {
		if r.Status.IsOpen() {
			m.ActiveRequirements++
		}
		m.PendingDocuments += r.OutstandingDocuments()
		rates = append(rates, r.CompletionRate)
	}
	m.CompletionRate = database.RoundedMean(rates)
	return m
}

// Activities returns the activity feed, newest first.
func (d *Dashboard) Activities() []database.Activity {
	return slices.Clone(d.activities)
}

// SetQuery filters the overview by sponsor name.
func (d *Dashboard) SetQuery(q string) {
	d.query = q
}

// SetStatus restricts the overview to one sponsor status. "" or "all"
// shows every sponsor.
func (d *Dashboard) SetStatus(status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "all" {
		status = ""
	}
	if status != "" {
		if _, err := database.ParseSponsorStatus(status); err != nil {
			return err
		}
	}
	d.status = status
	return nil
}

// SetSort orders the overview.
func (d *Dashboard) SetSort(s OverviewSort) {
	d.sortBy = s
}

// Overview returns the sponsors matching the query and status, ordered by
// the overview sort.
func (d *Dashboard) Overview() []database.Sponsor {
	criteria := listview.Criteria{Query: d.query}
	if d.status != "" {
		criteria.Toggle(listview.CategoryStatus, d.status)
	}
	schema := SponsorSchema()
	schema.Text = func(s database.Sponsor) []string { return []string{s.Name} }
	rows := listview.ApplyFilters(d.sponsors.List().Store().All(), schema, criteria)

	switch d.sortBy {
	case OverviewByPending:
		return listview.ApplySort(rows, schema, listview.SortState{Column: "pending", Direction: listview.Descending})
	case OverviewByActivity:
		return listview.ApplySort(rows, schema, listview.SortState{Column: "lastActivity", Direction: listview.Descending})
	default:
		return listview.ApplySort(rows, schema, listview.SortState{Column: "name", Direction: listview.Ascending})
	}
}
