// Package listview implements the list-management state shared by the portal
// screens: free-text search, multi-valued category filters, an optional date
// range, a single sort column, a selection set and bulk action dispatch.
package listview

import (
	"strings"
	"time"

	"github.com/docflow-ai/docflow-go/internal/database"
)

// Category names a multi-select filter group.
type Category string

const (
	CategoryStatus   Category = "status"
	CategoryPriority Category = "priority"
	CategoryType     Category = "type"
	CategorySponsors Category = "sponsors"
)

// Schema describes how a screen projects its records for filtering and sorting.
type Schema[T any] struct {
	// Text returns the fields the free-text query is matched against.
	Text func(T) []string

	// Categories projects a record onto the values of each filter category.
	// A record passes a category when any of its values is selected.
	Categories map[Category]func(T) []string

	// Date returns the field checked against the date range. Nil disables the range.
	Date func(T) string

	// Columns are the sortable columns by name.
	Columns map[string]Column[T]
}

// DateRange is an inclusive range of display or form dates. Empty bounds are open.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsSet reports whether either bound is non-empty.
func (d DateRange) IsSet() bool {
	return strings.TrimSpace(d.Start) != "" || strings.TrimSpace(d.End) != ""
}

// Criteria is the active filter configuration of a list.
type Criteria struct {
	Query     string
	Sets      map[Category]database.StringSet
	DateRange DateRange
}

// Toggle selects value in category if absent and deselects it otherwise.
func (c *Criteria) Toggle(category Category, value string) {
	if c.Sets == nil {
		c.Sets = make(map[Category]database.StringSet)
	}
	set, ok := c.Sets[category]
	if !ok {
		set = database.NewStringSet()
		c.Sets[category] = set
	}
	set.Toggle(value)
	if set.Len() == 0 {
		delete(c.Sets, category)
	}
}

// Selected returns the selected values of category, sorted.
func (c Criteria) Selected(category Category) []string {
	return c.Sets[category].Slice()
}

// SetDateRange replaces the date range.
func (c *Criteria) SetDateRange(start, end string) {
	c.DateRange = DateRange{Start: start, End: end}
}

// Clear resets every category and the date range. The query is kept.
func (c *Criteria) Clear() {
	c.Sets = nil
	c.DateRange = DateRange{}
}

// ActiveCount returns the number of selected category values, plus one when a
// date bound is set.
func (c Criteria) ActiveCount() int {
	n := 0
	for _, set := range c.Sets {
		n += set.Len()
	}
	if c.DateRange.IsSet() {
		n++
	}
	return n
}

// Clone returns a copy that shares no sets with c.
func (c Criteria) Clone() Criteria {
	clone := Criteria{Query: c.Query, DateRange: c.DateRange}
	if c.Sets != nil {
		clone.Sets = make(map[Category]database.StringSet, len(c.Sets))
		for cat, set := range c.Sets {
			clone.Sets[cat] = set.Clone()
		}
	}
	return clone
}

// ApplyFilters returns the records that pass every criterion, in input order.
// Categories unknown to the schema and date bounds that do not parse impose
// no restriction.
func ApplyFilters[T any](records []T, schema Schema[T], c Criteria) []T {
	query := strings.ToLower(c.Query)
	bounds := parseBounds(c.DateRange)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if query != "" && schema.Text != nil && !matchesQuery(schema.Text(rec), query) {
			continue
		}
		if !matchesSets(rec, schema, c.Sets) {
			continue
		}
		if schema.Date != nil && !bounds.contains(schema.Date(rec)) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesQuery(fields []string, query string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func matchesSets[T any](rec T, schema Schema[T], sets map[Category]database.StringSet) bool {
	for cat, set := range sets {
		if set.Len() == 0 {
			continue
		}
		project, ok := schema.Categories[cat]
		if !ok {
			continue
		}
		if !set.ContainsAny(project(rec)...) {
			return false
		}
	}
	return true
}

type dateBounds struct {
	start, end       time.Time
	hasStart, hasEnd bool
}

func parseBounds(r DateRange) dateBounds {
	var b dateBounds
	if t, err := database.ParseDate(r.Start); err == nil {
		b.start, b.hasStart = t, true
	}
	if t, err := database.ParseDate(r.End); err == nil {
		b.end, b.hasEnd = t, true
	}
	return b
}

func (b dateBounds) contains(value string) bool {
	if !b.hasStart && !b.hasEnd {
		return true
	}
	t, err := database.ParseDate(value)
	if err != nil {
		return false
	}
	if b.hasStart && t.Before(b.start) {
		return false
	}
	if b.hasEnd && t.After(b.end) {
		return false
	}
	return true
}
