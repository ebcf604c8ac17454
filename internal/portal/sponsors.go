package portal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/validation"
)

// Sponsor intents routed to the backend from a row menu.
const (
	IntentEditSponsor = "edit"
	IntentViewPlans   = "view-plans"
)

// SponsorSchema returns the filter and sort projections of the sponsor table.
func SponsorSchema() listview.Schema[database.Sponsor] {
	pending := listview.NumberColumn(func(s database.Sponsor) int { return s.ActiveRequirements })
	return listview.Schema[database.Sponsor]{
		Text: func(s database.Sponsor) []string { return []string{s.Name, s.ContactEmail} },
		Categories: map[listview.Category]func(database.Sponsor) []string{
			listview.CategoryStatus: func(s database.Sponsor) []string { return []string{s.Status.String()} },
		},
		Columns: map[string]listview.Column[database.Sponsor]{
			"name":               listview.TextColumn(func(s database.Sponsor) string { return s.Name }),
			"status":             listview.TextColumn(func(s database.Sponsor) string { return s.Status.String() }),
			"planCount":          listview.NumberColumn(func(s database.Sponsor) int { return s.PlanCount }),
			"activeRequirements": pending,
			"pending":            pending,
			"lastActivity":       listview.DateColumn(func(s database.Sponsor) string { return s.LastActivity }),
			"completionRate":     listview.NumberColumn(func(s database.Sponsor) int { return s.CompletionRate }),
			"registrationDate":   listview.DateColumn(func(s database.Sponsor) string { return s.RegistrationDate }),
		},
	}
}

// SponsorScreen is the sponsor management table.
type SponsorScreen struct {
	list    *listview.Controller[int, database.Sponsor]
	backend adapters.Backend
	opts    options
	logger  *zap.Logger

	nextID     int
	lastExport *ExportResult
}

// NewSponsorScreen creates the sponsor table over sponsors, sorted by name.
func NewSponsorScreen(sponsors []database.Sponsor, backend adapters.Backend, opts ...Option) (*SponsorScreen, error) {
	o := buildOptions(opts)
	store, err := database.NewStore(func(s database.Sponsor) int { return s.ID }, sponsors...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sponsors: %w", err)
	}

	s := &SponsorScreen{
		list: listview.NewController(ScreenSponsors, store, SponsorSchema(),
			o.listOptions(listview.SortState{Column: "name", Direction: listview.Ascending})...),
		backend: backend,
		opts:    o,
		logger:  o.logger.With(zap.String("screen", ScreenSponsors)),
		nextID:  1,
	}
	for _, sp := range sponsors {
		if sp.ID >= s.nextID {
			s.nextID = sp.ID + 1
		}
	}

	s.list.Handle(listview.ActionActivate, s.setStatus(database.SponsorActive))
	s.list.Handle(listview.ActionSuspend, s.setStatus(database.SponsorSuspended))
	s.list.Handle(listview.ActionExport, s.export)
	s.list.Handle(listview.ActionDelete, s.notify)
	return s, nil
}

// List returns the list state of the table.
func (s *SponsorScreen) List() *listview.Controller[int, database.Sponsor] {
	return s.list
}

func (s *SponsorScreen) notify(ctx context.Context, action listview.Action, ids []int) error {
	return notify(ctx, s.backend, ScreenSponsors, action, ids)
}

func (s *SponsorScreen) setStatus(status database.SponsorStatus) listview.Effect[int] {
	return func(ctx context.Context, action listview.Action, ids []int) error {
		if err := s.notify(ctx, action, ids); err != nil {
			return err
		}
		for _, id := range ids {
			err := s.list.Update(id, func(sp database.Sponsor) database.Sponsor {
				sp.Status = status
				return sp
			})
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func (s *SponsorScreen) export(_ context.Context, _ listview.Action, ids []int) error {
	rows := make([]database.Sponsor, 0, len(ids))
	for _, id := range ids {
		if sp, ok := s.list.Store().Get(id); ok {
			rows = append(rows, sp)
		}
	}
	res, err := export(s.opts.exports, ScreenSponsors, len(rows), func(w io.Writer) error {
		return database.WriteSponsorsCSV(w, rows)
	})
	if err != nil {
		return err
	}
	s.lastExport = &res
	s.logger.Info("Sponsors exported", zap.String("path", res.Path), zap.Int("rows", res.Rows), zap.Int64("bytes", res.Bytes))
	return nil
}

// LastExport returns the result of the latest successful export.
func (s *SponsorScreen) LastExport() (ExportResult, bool) {
	if s.lastExport == nil {
		return ExportResult{}, false
	}
	return *s.lastExport, true
}

// Create validates the add-sponsor form and adds the sponsor to the top of
// the table. Ids are never reused.
func (s *SponsorScreen) Create(in database.NewSponsor) (database.Sponsor, error) {
	if errs := validation.ValidateSponsor(in); len(errs) > 0 {
		s.opts.metrics.ValidationFailure("sponsor")
		return database.Sponsor{}, errs
	}
	status := in.Status
	if status == "" {
		status = database.SponsorPending
	}

	for s.list.Store().Exists(s.nextID) || s.list.Store().IsRetired(s.nextID) {
		s.nextID++
	}
	today := database.FormatDate(s.opts.now())
	sp := database.Sponsor{
		ID:               s.nextID,
		Name:             strings.TrimSpace(in.Name),
		Status:           status,
		LastActivity:     today,
		ContactEmail:     strings.TrimSpace(in.ContactEmail),
		ContactPhone:     strings.TrimSpace(in.ContactPhone),
		Address:          strings.TrimSpace(in.Address),
		RegistrationDate: today,
	}
	if err := s.list.Create(sp); err != nil {
		return database.Sponsor{}, err
	}
	s.nextID++
	return sp, nil
}

// Intent routes a single-row menu action to the backend.
func (s *SponsorScreen) Intent(ctx context.Context, intent string, id int) error {
	if !s.list.Store().Exists(id) {
		return fmt.Errorf("%w: %d", database.ErrNotFound, id)
	}
	switch intent {
	case IntentEditSponsor, IntentViewPlans:
	default:
		return fmt.Errorf("unknown sponsor intent: %q", intent)
	}
	return notify(ctx, s.backend, ScreenSponsors, listview.Action(intent), []int{id})
}

// Stats summarizes every sponsor in the store, filtered or not.
func (s *SponsorScreen) Stats() database.SponsorSummary {
	return database.SponsorStats(s.list.Store().All())
}
