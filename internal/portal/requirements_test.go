package portal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/metrics"
	"github.com/docflow-ai/docflow-go/internal/validation"
)

func requirementIDs(rows []database.Requirement) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func validRequirementForm() database.RequirementForm {
	form := database.DefaultRequirementForm()
	form.Title = "Q1 2025 Tax Documentation"
	form.Description = "Quarterly tax filings and supporting schedules."
	form.Type = "tax filing"
	form.Priority = "high"
	form.DueDate = "2025-03-31"
	form.SponsorIDs = []string{"sp2", "sp1"}
	return form
}

func TestRequirementScreenDefaultSort(t *testing.T) {
	s := newRequirementScreen(t, &recordingBackend{})

	want := []string{"req4", "req2", "req3", "req5", "req1", "req6"}
	if diff := cmp.Diff(want, requirementIDs(s.List().Visible())); diff != "" {
		t.Errorf("default order mismatch (-want +got):\n%s", diff)
	}
}

func TestRequirementSortOrders(t *testing.T) {
	s := newRequirementScreen(t, &recordingBackend{})

	// Due dates span a year boundary, so the order is by calendar date
	// rather than by the MM/DD/YYYY text.
	s.List().SetSort(listview.SortState{Column: "dueDate"})
	assert.Equal(t, []string{"req6", "req4", "req1", "req2", "req3", "req5"}, requirementIDs(s.List().Visible()))

	// Priority ranks by urgency rather than by label.
	s.List().SetSort(listview.SortState{Column: "priority"})
	var priorities []database.Priority
	for _, r := range s.List().Visible() {
		priorities = append(priorities, r.Priority)
	}
	assert.Equal(t, []database.Priority{
		database.PriorityLow,
		database.PriorityMedium, database.PriorityMedium,
		database.PriorityHigh, database.PriorityHigh, database.PriorityHigh,
	}, priorities)
}

func TestRequirementFilters(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*listview.Controller[string, database.Requirement])
		want  []string
	}{
		{
			name: "overdue",
			apply: func(c *listview.Controller[string, database.Requirement]) {
				c.ToggleFilter(listview.CategoryStatus, "overdue")
			},
			want: []string{"req4"},
		},
		{
			name: "assigned to sp1",
			apply: func(c *listview.Controller[string, database.Requirement]) {
				c.ToggleFilter(listview.CategorySponsors, "sp1")
			},
			want: []string{"req4", "req1"},
		},
		{
			name: "due in december",
			apply: func(c *listview.Controller[string, database.Requirement]) {
				c.SetDateRange("12/01/2024", "2024-12-31")
			},
			want: []string{"req4", "req1"},
		},
		{
			name: "query matches description",
			apply: func(c *listview.Controller[string, database.Requirement]) {
				c.SetQuery("form 5500")
			},
			want: []string{"req4"},
		},
		{
			name: "medium plan documents",
			apply: func(c *listview.Controller[string, database.Requirement]) {
				c.ToggleFilter(listview.CategoryPriority, "medium")
				c.ToggleFilter(listview.CategoryType, database.TypePlanDocument)
			},
			want: []string{"req3", "req5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newRequirementScreen(t, &recordingBackend{})
			tt.apply(s.List())
			assert.Equal(t, tt.want, requirementIDs(s.List().Visible()))
		})
	}
}

func TestRequirementCreate(t *testing.T) {
	rec := metrics.New()
	s := newRequirementScreen(t, &recordingBackend{}, WithMetrics(rec))

	req, err := s.Create(validRequirementForm())
	require.NoError(t, err)
	assert.Equal(t, "req7", req.ID)
	assert.Equal(t, database.TypeTaxFiling, req.Type)
	assert.Equal(t, database.PriorityHigh, req.Priority)
	assert.Equal(t, "03/31/2025", req.DueDate)
	assert.Equal(t, database.RequirementPending, req.Status)
	assert.Equal(t, 1, req.TotalDocuments)
	assert.Zero(t, req.CompletionRate)
	assert.Equal(t, []string{"sp1", "sp2"}, req.SponsorIDs(), "assignment follows directory order")
	assert.Equal(t, "req7", s.List().Store().IDs()[0])

	require.NoError(t, s.List().Delete("req7"))
	req, err = s.Create(validRequirementForm())
	require.NoError(t, err)
	assert.Equal(t, "req8", req.ID, "deleted ids are not reused")
	assert.Equal(t, 7, s.Stats().Total)
	assert.Equal(t, 2.0, counterSum(t, rec, "docflow_records_created_total"))
}

func TestRequirementCreateInvalid(t *testing.T) {
	rec := metrics.New()
	s := newRequirementScreen(t, &recordingBackend{}, WithMetrics(rec))

	form := validRequirementForm()
	form.SponsorIDs = nil
	form.DueDate = "soon"
	_, err := s.Create(form)

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	msg, _ := errs.Field(validation.FieldSponsors)
	assert.Equal(t, "At least one sponsor must be selected", msg)
	msg, _ = errs.Field(validation.FieldDueDate)
	assert.Equal(t, "Due date is not a valid date", msg)
	assert.Equal(t, 6, s.List().Store().Len())
	assert.Equal(t, 1.0, counterSum(t, rec, "docflow_validation_failures_total"))
}

func TestRequirementBulkReminders(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	backend := &recordingBackend{}
	s := newRequirementScreen(t, backend, WithLogger(zap.New(core)))

	for _, id := range []string{"req1", "req4"} {
		_, err := s.List().ToggleSelect(id)
		require.NoError(t, err)
	}
	n, err := s.List().DispatchBulkAction(context.Background(), listview.ActionSendReminders)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	req, _ := backend.last()
	assert.Equal(t, "requirements", req.Screen)
	assert.Equal(t, "send-reminders", req.Action)
	assert.Equal(t, []string{"req1", "req4"}, req.IDs)
	assert.Equal(t, 6, s.List().Store().Len())

	entries := logs.FilterMessage("Bulk action dispatched").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "requirements", entries[0].ContextMap()["screen"])
}

func TestRequirementExportToDir(t *testing.T) {
	dir := t.TempDir()
	s := newRequirementScreen(t, &recordingBackend{}, WithExportSink(DirSink{Dir: filepath.Join(dir, "exports"), Now: fixedClock}))

	s.List().SelectAllVisible()
	_, err := s.List().DispatchBulkAction(context.Background(), listview.ActionExport)
	require.NoError(t, err)

	res, ok := s.LastExport()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "exports", "requirements-20241215-100000.csv"), res.Path)
	assert.Equal(t, 6, res.Rows)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)
	assert.True(t, strings.HasPrefix(string(data), "id,title,description"))
}

func TestRequirementIntents(t *testing.T) {
	backend := &recordingBackend{}
	s := newRequirementScreen(t, backend)
	ctx := context.Background()

	require.NoError(t, s.SendReminder(ctx, "req2"))
	req, _ := backend.last()
	assert.Equal(t, IntentSendReminder, req.Action)

	require.NoError(t, s.ViewSubmissions(ctx, "req2"))
	req, _ = backend.last()
	assert.Equal(t, IntentViewSubmissions, req.Action)

	require.NoError(t, s.Edit(ctx, "req2"))
	req, _ = backend.last()
	assert.Equal(t, IntentEditRequirement, req.Action)
	assert.Equal(t, []string{"req2"}, req.IDs)

	assert.ErrorIs(t, s.SendReminder(ctx, "req99"), database.ErrNotFound)
}

func TestRequirementViewMode(t *testing.T) {
	s := newRequirementScreen(t, &recordingBackend{})
	assert.Equal(t, ViewTable, s.ViewMode())
	require.NoError(t, s.SetViewMode(ViewGrid))
	assert.Equal(t, ViewGrid, s.ViewMode())
	assert.Error(t, s.SetViewMode("kanban"))
	assert.Equal(t, ViewGrid, s.ViewMode())
}

func TestCanonicalType(t *testing.T) {
	tests := map[string]string{
		"":                  database.TypeOther,
		"audit report":      database.TypeAuditReport,
		" Legal Document ":  database.TypeLegalDocument,
		"Financial Report":  database.TypeFinancialReport,
		"Something Bespoke": "Something Bespoke",
	}
	for input, want := range tests {
		if got := canonicalType(input); got != want {
			t.Errorf("canonicalType(%q) = %q, want %q", input, got, want)
		}
	}
}
