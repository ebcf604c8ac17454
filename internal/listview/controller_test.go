package listview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/metrics"
)

func sponsorSchema() Schema[database.Sponsor] {
	return Schema[database.Sponsor]{
		Text: func(s database.Sponsor) []string { return []string{s.Name, s.ContactEmail} },
		Categories: map[Category]func(database.Sponsor) []string{
			CategoryStatus: func(s database.Sponsor) []string { return []string{s.Status.String()} },
		},
		Columns: map[string]Column[database.Sponsor]{
			"name":           TextColumn(func(s database.Sponsor) string { return s.Name }),
			"completionRate": NumberColumn(func(s database.Sponsor) int { return s.CompletionRate }),
		},
	}
}

func newSponsorController(t *testing.T, opts ...Option) *Controller[int, database.Sponsor] {
	t.Helper()
	store, err := database.NewStore(func(s database.Sponsor) int { return s.ID }, database.DefaultSeed().Sponsors...)
	require.NoError(t, err)
	c := NewController("sponsors", store, sponsorSchema(), opts...)
	c.Handle(ActionActivate, nil)
	c.Handle(ActionDelete, nil)
	return c
}

func TestDispatchDeleteRemovesSelected(t *testing.T) {
	rec := metrics.New()
	c := newSponsorController(t, WithMetrics(rec))

	for _, id := range []int{1, 3} {
		selected, err := c.ToggleSelect(id)
		require.NoError(t, err)
		require.True(t, selected)
	}

	n, err := c.DispatchBulkAction(context.Background(), ActionDelete)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, 6, c.Store().Len())
	assert.False(t, c.Store().Exists(1))
	assert.False(t, c.Store().Exists(3))
	assert.Empty(t, c.SelectedIDs())

	expected := `
# HELP docflow_records_deleted_total Records removed from a screen's store.
# TYPE docflow_records_deleted_total counter
docflow_records_deleted_total{screen="sponsors"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "docflow_records_deleted_total"))
}

func TestDispatchRequiresSelection(t *testing.T) {
	c := newSponsorController(t)

	_, err := c.DispatchBulkAction(context.Background(), ActionDelete)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, 8, c.Store().Len())
}

func TestDispatchUnsupportedActionKeepsSelection(t *testing.T) {
	c := newSponsorController(t)
	_, err := c.ToggleSelect(2)
	require.NoError(t, err)

	_, err = c.DispatchBulkAction(context.Background(), ActionSendReminders)
	assert.ErrorIs(t, err, ErrUnsupportedAction)
	assert.Equal(t, []int{2}, c.SelectedIDs())
}

func TestDispatchRunsEffectThenClears(t *testing.T) {
	c := newSponsorController(t)
	var gotAction Action
	var gotIDs []int
	c.Handle(ActionExport, func(_ context.Context, a Action, ids []int) error {
		gotAction, gotIDs = a, ids
		assert.Len(t, c.SelectedIDs(), 2, "selection is cleared after the effect")
		return nil
	})

	c.SelectAllVisible()
	c.ToggleFilter(CategoryStatus, "pending")
	c.SelectAllVisible()
	require.Equal(t, []int{3, 8}, c.SelectedIDs())

	n, err := c.DispatchBulkAction(context.Background(), ActionExport)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, ActionExport, gotAction)
	assert.Equal(t, []int{3, 8}, gotIDs)
	assert.Empty(t, c.SelectedIDs())
	assert.Equal(t, 8, c.Store().Len())
}

func TestDispatchEffectFailureStillClears(t *testing.T) {
	c := newSponsorController(t)
	boom := errors.New("backend unavailable")
	c.Handle(ActionDelete, func(context.Context, Action, []int) error { return boom })

	_, err := c.ToggleSelect(5)
	require.NoError(t, err)

	n, err := c.DispatchBulkAction(context.Background(), ActionDelete)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.Empty(t, c.SelectedIDs())
	assert.True(t, c.Store().Exists(5), "failed delete keeps the record")
}

func TestDeleteRemovesFromStoreAndSelection(t *testing.T) {
	c := newSponsorController(t)
	_, _ = c.ToggleSelect(4)
	_, _ = c.ToggleSelect(7)
	require.NoError(t, c.Inspect(4))

	require.NoError(t, c.Delete(4))

	assert.False(t, c.Store().Exists(4))
	assert.False(t, c.IsSelected(4))
	assert.Equal(t, []int{7}, c.SelectedIDs())
	_, open := c.Inspected()
	assert.False(t, open, "deleting the inspected record closes it")

	assert.ErrorIs(t, c.Delete(4), database.ErrNotFound)
}

func TestToggleSelectUnknownID(t *testing.T) {
	c := newSponsorController(t)

	_, err := c.ToggleSelect(99)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Empty(t, c.SelectedIDs())
}

func TestSelectionSurvivesFiltering(t *testing.T) {
	c := newSponsorController(t)
	_, _ = c.ToggleSelect(5)

	c.ToggleFilter(CategoryStatus, "active")
	assert.NotContains(t, c.VisibleIDs(), 5)
	assert.True(t, c.IsSelected(5))
	assert.Len(t, c.Selected(), 1)
}

func TestVisibleAppliesFilterThenSort(t *testing.T) {
	c := newSponsorController(t, WithSort(SortState{Column: "name"}))

	c.SetQuery("corp")
	assert.Equal(t, []int{1, 7}, c.VisibleIDs())

	assert.Equal(t, SortState{"completionRate", Ascending}, c.SortBy("completionRate"))
	c.SetQuery("")
	c.ToggleFilter(CategoryStatus, "pending")
	assert.Equal(t, []int{3, 8}, c.VisibleIDs())

	assert.Equal(t, SortState{"completionRate", Descending}, c.SortBy("completionRate"))
	assert.Equal(t, []int{8, 3}, c.VisibleIDs())

	c.ClearFilters()
	assert.Len(t, c.VisibleIDs(), 8)
}

func TestCreatePrepends(t *testing.T) {
	rec := metrics.New()
	c := newSponsorController(t, WithMetrics(rec))

	require.NoError(t, c.Create(database.Sponsor{ID: 9, Name: "New Co", Status: database.SponsorPending}))
	assert.Equal(t, 9, c.Store().IDs()[0])

	assert.ErrorIs(t, c.Create(database.Sponsor{ID: 9}), database.ErrDuplicateID)

	expected := `
# HELP docflow_records_created_total Records created through a screen's form.
# TYPE docflow_records_created_total counter
docflow_records_created_total{screen="sponsors"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(rec.Registry(), strings.NewReader(expected), "docflow_records_created_total"))
}

func TestUpdateInPlace(t *testing.T) {
	c := newSponsorController(t)

	err := c.Update(2, func(s database.Sponsor) database.Sponsor {
		s.Status = database.SponsorSuspended
		return s
	})
	require.NoError(t, err)
	got, _ := c.Store().Get(2)
	assert.Equal(t, database.SponsorSuspended, got.Status)
	assert.Equal(t, 2, c.Store().IDs()[1])
}

func TestInspect(t *testing.T) {
	c := newSponsorController(t)

	_, open := c.Inspected()
	assert.False(t, open)

	require.NoError(t, c.Inspect(2))
	require.NoError(t, c.Inspect(6))
	id, open := c.Inspected()
	assert.True(t, open)
	assert.Equal(t, 6, id)

	assert.ErrorIs(t, c.Inspect(42), database.ErrNotFound)
	c.CloseInspect()
	_, open = c.Inspected()
	assert.False(t, open)
}

func TestActionsInRegistrationOrder(t *testing.T) {
	c := newSponsorController(t)
	c.Handle(ActionActivate, nil)

	assert.Equal(t, []Action{ActionActivate, ActionDelete}, c.Actions())
	assert.True(t, c.Supports(ActionDelete))
	assert.False(t, c.Supports(ActionExport))
}

func TestDispatchIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newSponsorController(t, WithLogger(zap.New(core)))
	_, _ = c.ToggleSelect(1)

	_, err := c.DispatchBulkAction(context.Background(), ActionActivate)
	require.NoError(t, err)

	entries := logs.FilterMessage("Bulk action dispatched").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sponsors", fields["screen"])
	assert.Equal(t, "activate", fields["action"])
	assert.EqualValues(t, 1, fields["count"])
}

func TestParseAction(t *testing.T) {
	for _, a := range AllActions() {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := ParseAction("SEND_REMINDERS")
	require.NoError(t, err)
	assert.Equal(t, ActionSendReminders, got)

	_, err = ParseAction("archive")
	assert.Error(t, err)
}
