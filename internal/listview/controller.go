package listview

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/metrics"
)

// Controller owns the list state of one screen. It is not safe for
// concurrent use; every operation completes before the next one starts.
type Controller[K comparable, T any] struct {
	name      string
	store     *database.Store[K, T]
	schema    Schema[T]
	criteria  Criteria
	sort      SortState
	selection *Selection[K]

	effects map[Action]Effect[K]
	order   []Action

	// inspected is the record whose detail view or row menu is open.
	inspected *K

	logger  *zap.Logger
	metrics *metrics.Recorder
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Recorder
	sort    SortState
}

// WithLogger sets the logger. Nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSort sets the initial sort state.
func WithSort(s SortState) Option {
	return func(o *options) {
		o.sort = s
	}
}

// NewController creates a controller named name (used in logs and metrics)
// over store.
func NewController[K comparable, T any](name string, store *database.Store[K, T], schema Schema[T], opts ...Option) *Controller[K, T] {
	o := options{sort: SortState{Direction: Ascending}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.sort.Direction == "" {
		o.sort.Direction = Ascending
	}
	return &Controller[K, T]{
		name:      name,
		store:     store,
		schema:    schema,
		sort:      o.sort,
		selection: NewSelection[K](),
		effects:   make(map[Action]Effect[K]),
		logger:    o.logger.With(zap.String("screen", name)),
		metrics:   o.metrics,
	}
}

// Handle offers action on this screen. A nil effect means the action only
// updates local state.
func (c *Controller[K, T]) Handle(action Action, effect Effect[K]) {
	if _, ok := c.effects[action]; !ok {
		c.order = append(c.order, action)
	}
	c.effects[action] = effect
}

// Name returns the screen name.
func (c *Controller[K, T]) Name() string { return c.name }

// Store returns the underlying entity store.
func (c *Controller[K, T]) Store() *database.Store[K, T] { return c.store }

// Actions returns the offered actions in registration order.
func (c *Controller[K, T]) Actions() []Action {
	return append([]Action{}, c.order...)
}

// Supports reports whether the screen offers action.
func (c *Controller[K, T]) Supports(action Action) bool {
	_, ok := c.effects[action]
	return ok
}

// SetQuery replaces the free-text query.
func (c *Controller[K, T]) SetQuery(q string) {
	c.criteria.Query = q
}

// ToggleFilter toggles value in category.
func (c *Controller[K, T]) ToggleFilter(category Category, value string) {
	c.criteria.Toggle(category, value)
}

// SetDateRange replaces the date range filter.
func (c *Controller[K, T]) SetDateRange(start, end string) {
	c.criteria.SetDateRange(start, end)
}

// ClearFilters resets all category filters and the date range.
func (c *Controller[K, T]) ClearFilters() {
	c.criteria.Clear()
}

// Criteria returns a copy of the active filters.
func (c *Controller[K, T]) Criteria() Criteria {
	return c.criteria.Clone()
}

// SortBy applies the column toggle rules and returns the new sort state.
func (c *Controller[K, T]) SortBy(column string) SortState {
	c.sort = c.sort.Toggle(column)
	return c.sort
}

// SetSort replaces the sort state.
func (c *Controller[K, T]) SetSort(s SortState) {
	if s.Direction == "" {
		s.Direction = Ascending
	}
	c.sort = s
}

// Sort returns the active sort state.
func (c *Controller[K, T]) Sort() SortState {
	return c.sort
}

// Visible returns the filtered and sorted records.
func (c *Controller[K, T]) Visible() []T {
	return ApplySort(ApplyFilters(c.store.All(), c.schema, c.criteria), c.schema, c.sort)
}

// VisibleIDs returns the ids of Visible in display order.
func (c *Controller[K, T]) VisibleIDs() []K {
	visible := c.Visible()
	ids := make([]K, len(visible))
	for i, rec := range visible {
		ids[i] = c.store.KeyOf(rec)
	}
	return ids
}

// ToggleSelect toggles the selection of id and reports whether it is selected
// afterwards. Ids not in the store cannot be selected.
func (c *Controller[K, T]) ToggleSelect(id K) (bool, error) {
	if !c.store.Exists(id) {
		return false, fmt.Errorf("%w: %v", database.ErrNotFound, id)
	}
	return c.selection.Toggle(id), nil
}

// SelectAllVisible toggles between selecting every visible record and none.
func (c *Controller[K, T]) SelectAllVisible() {
	c.selection.SelectAllVisible(c.VisibleIDs())
}

// ClearSelection empties the selection.
func (c *Controller[K, T]) ClearSelection() {
	c.selection.Clear()
}

// IsSelected reports whether id is selected.
func (c *Controller[K, T]) IsSelected(id K) bool {
	return c.selection.Contains(id)
}

// SelectedIDs returns the selected ids in selection order.
func (c *Controller[K, T]) SelectedIDs() []K {
	return c.selection.IDs()
}

// Selected returns the selected records in selection order.
func (c *Controller[K, T]) Selected() []T {
	ids := c.selection.IDs()
	recs := make([]T, 0, len(ids))
	for _, id := range ids {
		if rec, ok := c.store.Get(id); ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// DispatchBulkAction runs action on the selection and returns how many ids it
// applied to. The selection is cleared afterwards even if the effect fails;
// records are removed by delete only when its effect succeeds.
func (c *Controller[K, T]) DispatchBulkAction(ctx context.Context, action Action) (int, error) {
	ids := c.selection.IDs()
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}
	effect, ok := c.effects[action]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}

	var err error
	if effect != nil {
		err = effect(ctx, action, ids)
	}
	if action == ActionDelete && err == nil {
		c.removeAll(ids)
	}
	c.selection.Clear()
	c.metrics.BulkAction(c.name, action.String())

	if err != nil {
		c.logger.Warn("Bulk action failed",
			zap.String("action", action.String()),
			zap.Int("count", len(ids)),
			zap.Error(err))
		return len(ids), fmt.Errorf("%s on %d records: %w", action, len(ids), err)
	}
	c.logger.Info("Bulk action dispatched",
		zap.String("action", action.String()),
		zap.Int("count", len(ids)))
	return len(ids), nil
}

// Create adds rec to the front of the list.
func (c *Controller[K, T]) Create(rec T) error {
	if err := c.store.Prepend(rec); err != nil {
		return err
	}
	c.metrics.RecordCreated(c.name)
	c.logger.Info("Record created", zap.Any("id", c.store.KeyOf(rec)))
	return nil
}

// Update replaces the record with id in place.
func (c *Controller[K, T]) Update(id K, fn func(T) T) error {
	return c.store.Update(id, fn)
}

// Delete removes id from the store and the selection together.
func (c *Controller[K, T]) Delete(id K) error {
	if !c.store.Exists(id) {
		return fmt.Errorf("%w: %v", database.ErrNotFound, id)
	}
	c.removeAll([]K{id})
	return nil
}

func (c *Controller[K, T]) removeAll(ids []K) {
	n := c.store.RemoveAll(ids)
	for _, id := range ids {
		c.selection.Remove(id)
		if c.inspected != nil && *c.inspected == id {
			c.inspected = nil
		}
	}
	c.metrics.RecordsDeleted(c.name, n)
	c.logger.Info("Records deleted", zap.Int("count", n))
}

// Inspect opens the detail view of id, replacing any open one.
func (c *Controller[K, T]) Inspect(id K) error {
	if !c.store.Exists(id) {
		return fmt.Errorf("%w: %v", database.ErrNotFound, id)
	}
	c.inspected = &id
	return nil
}

// Inspected returns the id whose detail view is open.
func (c *Controller[K, T]) Inspected() (K, bool) {
	if c.inspected == nil {
		var zero K
		return zero, false
	}
	return *c.inspected, true
}

// CloseInspect closes the detail view.
func (c *Controller[K, T]) CloseInspect() {
	c.inspected = nil
}
