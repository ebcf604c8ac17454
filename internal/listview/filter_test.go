package listview

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/docflow-ai/docflow-go/internal/database"
)

func requirementSchema() Schema[database.Requirement] {
	return Schema[database.Requirement]{
		Text: func(r database.Requirement) []string { return []string{r.Title, r.Description} },
		Categories: map[Category]func(database.Requirement) []string{
			CategoryStatus:   func(r database.Requirement) []string { return []string{r.Status.String()} },
			CategoryPriority: func(r database.Requirement) []string { return []string{r.Priority.String()} },
			CategoryType:     func(r database.Requirement) []string { return []string{r.Type} },
			CategorySponsors: database.Requirement.SponsorIDs,
		},
		Date: func(r database.Requirement) string { return r.DueDate },
		Columns: map[string]Column[database.Requirement]{
			"title":      TextColumn(func(r database.Requirement) string { return r.Title }),
			"dueDate":    DateColumn(func(r database.Requirement) string { return r.DueDate }),
			"completion": NumberColumn(func(r database.Requirement) int { return r.CompletionRate }),
			"sponsors":   NumberColumn(func(r database.Requirement) int { return len(r.AssignedSponsors) }),
			"priority":   NumberColumn(func(r database.Requirement) int { return r.Priority.Weight() }),
		},
	}
}

func requirementIDs(reqs []database.Requirement) []string {
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}

func criteriaWith(category Category, values ...string) Criteria {
	var c Criteria
	for _, v := range values {
		c.Toggle(category, v)
	}
	return c
}

func TestApplyFilters(t *testing.T) {
	reqs := database.DefaultSeed().Requirements
	schema := requirementSchema()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "no criteria keeps everything in order",
			criteria: Criteria{},
			want:     []string{"req1", "req2", "req3", "req4", "req5", "req6"},
		},
		{
			name:     "overdue status",
			criteria: criteriaWith(CategoryStatus, "overdue"),
			want:     []string{"req4"},
		},
		{
			name:     "status values combine with OR",
			criteria: criteriaWith(CategoryStatus, "pending", "completed"),
			want:     []string{"req2", "req5", "req6"},
		},
		{
			name:     "query matches description case-insensitively",
			criteria: Criteria{Query: "FORM 5500"},
			want:     []string{"req4"},
		},
		{
			name:     "query matches title",
			criteria: Criteria{Query: "statement"},
			want:     []string{"req1", "req5"},
		},
		{
			name:     "any assigned sponsor matches",
			criteria: criteriaWith(CategorySponsors, "sp3"),
			want:     []string{"req2", "req5"},
		},
		{
			name: "categories combine with AND",
			criteria: func() Criteria {
				c := criteriaWith(CategoryPriority, "high")
				c.Toggle(CategorySponsors, "sp1")
				return c
			}(),
			want: []string{"req1", "req4"},
		},
		{
			name:     "type filter",
			criteria: criteriaWith(CategoryType, database.TypePlanDocument),
			want:     []string{"req3", "req5"},
		},
		{
			name:     "unknown category is no restriction",
			criteria: criteriaWith(Category("region"), "west"),
			want:     []string{"req1", "req2", "req3", "req4", "req5", "req6"},
		},
		{
			name:     "inclusive date range",
			criteria: Criteria{DateRange: DateRange{Start: "12/20/2024", End: "01/15/2025"}},
			want:     []string{"req1", "req2", "req4"},
		},
		{
			name:     "form dates accepted",
			criteria: Criteria{DateRange: DateRange{Start: "2025-01-16"}},
			want:     []string{"req3", "req5"},
		},
		{
			name:     "end bound only",
			criteria: Criteria{DateRange: DateRange{End: "11/30/2024"}},
			want:     []string{"req6"},
		},
		{
			name:     "malformed bound is no restriction",
			criteria: Criteria{DateRange: DateRange{Start: "soon"}},
			want:     []string{"req1", "req2", "req3", "req4", "req5", "req6"},
		},
		{
			name:     "nothing matches",
			criteria: Criteria{Query: "zzz"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := requirementIDs(ApplyFilters(reqs, schema, tt.criteria))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ApplyFilters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyFiltersUnparseableRecordDate(t *testing.T) {
	reqs := database.DefaultSeed().Requirements[:2]
	reqs[0].DueDate = "TBD"
	schema := requirementSchema()

	got := ApplyFilters(reqs, schema, Criteria{DateRange: DateRange{Start: "01/01/2020"}})
	assert.Equal(t, []string{"req2"}, requirementIDs(got))

	got = ApplyFilters(reqs, schema, Criteria{})
	assert.Len(t, got, 2, "undated records pass when no bound is set")
}

func TestApplyFiltersIsStableSubset(t *testing.T) {
	reqs := database.DefaultSeed().Requirements
	schema := requirementSchema()
	position := make(map[string]int, len(reqs))
	for i, r := range reqs {
		position[r.ID] = i
	}

	for _, c := range []Criteria{
		criteriaWith(CategoryPriority, "high"),
		criteriaWith(CategorySponsors, "sp1", "sp5"),
		{Query: "document"},
		{Query: "e", DateRange: DateRange{Start: "12/01/2024"}},
	} {
		got := ApplyFilters(reqs, schema, c)
		for i := 1; i < len(got); i++ {
			assert.Less(t, position[got[i-1].ID], position[got[i].ID], "order not preserved for %+v", c)
		}
	}
}

func TestCriteria(t *testing.T) {
	var c Criteria
	assert.Equal(t, 0, c.ActiveCount())

	c.Toggle(CategoryStatus, "pending")
	c.Toggle(CategoryStatus, "overdue")
	c.Toggle(CategoryPriority, "high")
	assert.Equal(t, 3, c.ActiveCount())
	assert.Equal(t, []string{"overdue", "pending"}, c.Selected(CategoryStatus))

	c.Toggle(CategoryPriority, "high")
	assert.Equal(t, 2, c.ActiveCount())
	assert.NotContains(t, c.Sets, CategoryPriority)

	c.SetDateRange("", "01/31/2025")
	assert.Equal(t, 3, c.ActiveCount())

	clone := c.Clone()
	clone.Toggle(CategoryStatus, "completed")
	assert.Equal(t, 3, c.ActiveCount(), "clone must not share sets")

	c.Query = "audit"
	c.Clear()
	assert.Equal(t, 0, c.ActiveCount())
	assert.Equal(t, "audit", c.Query)
	assert.Empty(t, c.Selected(CategoryStatus))
}
