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

// Requirement intents routed to the backend from a row or card.
const (
	IntentEditRequirement = "edit"
	IntentViewSubmissions = "view-submissions"
	IntentSendReminder    = "send-reminder"
)

// ViewMode is the layout of the requirement list.
type ViewMode string

const (
	ViewTable ViewMode = "table"
	ViewGrid  ViewMode = "grid"
)

// RequirementSchema returns the filter and sort projections of the
// requirement list.
func RequirementSchema() listview.Schema[database.Requirement] {
	return listview.Schema[database.Requirement]{
		Text: func(r database.Requirement) []string { return []string{r.Title, r.Description} },
		Categories: map[listview.Category]func(database.Requirement) []string{
			listview.CategoryStatus:   func(r database.Requirement) []string { return []string{r.Status.String()} },
			listview.CategoryPriority: func(r database.Requirement) []string { return []string{r.Priority.String()} },
			listview.CategoryType:     func(r database.Requirement) []string { return []string{r.Type} },
			listview.CategorySponsors: database.Requirement.SponsorIDs,
		},
		Date: func(r database.Requirement) string { return r.DueDate },
		Columns: map[string]listview.Column[database.Requirement]{
			"title":      listview.TextColumn(func(r database.Requirement) string { return r.Title }),
			"type":       listview.TextColumn(func(r database.Requirement) string { return r.Type }),
			"dueDate":    listview.DateColumn(func(r database.Requirement) string { return r.DueDate }),
			"status":     listview.TextColumn(func(r database.Requirement) string { return r.Status.String() }),
			"priority":   listview.NumberColumn(func(r database.Requirement) int { return r.Priority.Weight() }),
			"sponsors":   listview.NumberColumn(func(r database.Requirement) int { return len(r.AssignedSponsors) }),
			"completion": listview.NumberColumn(func(r database.Requirement) int { return r.CompletionRate }),
			"documents":  listview.NumberColumn(func(r database.Requirement) int { return r.SubmittedDocuments }),
		},
	}
}

// RequirementScreen is the requirement management list.
type RequirementScreen struct {
	list      *listview.Controller[string, database.Requirement]
	directory []database.SponsorRef
	backend   adapters.Backend
	opts      options
	logger    *zap.Logger

	view       ViewMode
	nextSeq    int
	lastExport *ExportResult
}

// NewRequirementScreen creates the requirement list over reqs, sorted by
// title. directory lists the sponsors requirements can be assigned to.
func NewRequirementScreen(reqs []database.Requirement, directory []database.SponsorRef, backend adapters.Backend, opts ...Option) (*RequirementScreen, error) {
	o := buildOptions(opts)
	store, err := database.NewStore(func(r database.Requirement) string { return r.ID }, reqs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}

	s := &RequirementScreen{
		list: listview.NewController(ScreenRequirements, store, RequirementSchema(),
			o.listOptions(listview.SortState{Column: "title", Direction: listview.Ascending})...),
		directory: append([]database.SponsorRef(nil), directory...),
		backend:   backend,
		opts:      o,
		logger:    o.logger.With(zap.String("screen", ScreenRequirements)),
		view:      ViewTable,
		nextSeq:   len(reqs) + 1,
	}

	s.list.Handle(listview.ActionAssignSponsors, s.notify)
	s.list.Handle(listview.ActionUpdateDueDate, s.notify)
	s.list.Handle(listview.ActionSendReminders, s.notify)
	s.list.Handle(listview.ActionExport, s.export)
	s.list.Handle(listview.ActionDelete, s.notify)
	return s, nil
}

// List returns the list state of the screen.
func (s *RequirementScreen) List() *listview.Controller[string, database.Requirement] {
	return s.list
}

// Directory returns the sponsors requirements can be assigned to.
func (s *RequirementScreen) Directory() []database.SponsorRef {
	return append([]database.SponsorRef(nil), s.directory...)
}

// ViewMode returns the current layout.
func (s *RequirementScreen) ViewMode() ViewMode {
	return s.view
}

// SetViewMode switches between the table and the card grid.
func (s *RequirementScreen) SetViewMode(m ViewMode) error {
	switch m {
	case ViewTable, ViewGrid:
		s.view = m
		return nil
	default:
		return fmt.Errorf("unknown view mode: %q (use 'table' or 'grid')", m)
	}
}

func (s *RequirementScreen) notify(ctx context.Context, action listview.Action, ids []string) error {
	return notify(ctx, s.backend, ScreenRequirements, action, ids)
}

func (s *RequirementScreen) export(_ context.Context, _ listview.Action, ids []string) error {
	rows := make([]database.Requirement, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.list.Store().Get(id); ok {
			rows = append(rows, r)
		}
	}
	res, err := export(s.opts.exports, ScreenRequirements, len(rows), func(w io.Writer) error {
		return database.WriteRequirementsCSV(w, rows)
	})
	if err != nil {
		return err
	}
	s.lastExport = &res
	s.logger.Info("Requirements exported", zap.String("path", res.Path), zap.Int("rows", res.Rows), zap.Int64("bytes", res.Bytes))
	return nil
}

// LastExport returns the result of the latest successful export.
func (s *RequirementScreen) LastExport() (ExportResult, bool) {
	if s.lastExport == nil {
		return ExportResult{}, false
	}
	return *s.lastExport, true
}

// Create validates the create-requirement form and adds a pending
// requirement to the top of the list. Generated ids are never reused.
func (s *RequirementScreen) Create(form database.RequirementForm) (database.Requirement, error) {
	if errs := validation.ValidateRequirement(form, s.directory); len(errs) > 0 {
		s.opts.metrics.ValidationFailure("requirement")
		return database.Requirement{}, errs
	}
	due, _ := database.ParseDate(form.DueDate)
	priority, _ := database.ParsePriority(form.Priority)
	reqType := canonicalType(form.Type)

	assigned := make([]database.SponsorRef, 0, len(form.SponsorIDs))
	for _, ref := range s.directory {
		for _, id := range form.SponsorIDs {
			if ref.ID == id {
				assigned = append(assigned, ref)
				break
			}
		}
	}

	req := database.Requirement{
		ID:               s.allocateID(),
		Title:            strings.TrimSpace(form.Title),
		Description:      strings.TrimSpace(form.Description),
		Type:             reqType,
		AssignedSponsors: assigned,
		DueDate:          database.FormatDate(due),
		Status:           database.RequirementPending,
		Priority:         priority,
		TotalDocuments:   1,
	}
	if err := s.list.Create(req); err != nil {
		return database.Requirement{}, err
	}
	return req, nil
}

func (s *RequirementScreen) allocateID() string {
	for {
		id := fmt.Sprintf("req%d", s.nextSeq)
		s.nextSeq++
		if !s.list.Store().Exists(id) && !s.list.Store().IsRetired(id) {
			return id
		}
	}
}

// canonicalType maps t onto the spelling of the matching known type. An
// empty type becomes Other.
func canonicalType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return database.TypeOther
	}
	for _, known := range database.RequirementTypes() {
		if strings.EqualFold(known, t) {
			return known
		}
	}
	return t
}

// Intent routes a single-record action to the backend.
func (s *RequirementScreen) Intent(ctx context.Context, intent, id string) error {
	if !s.list.Store().Exists(id) {
		return fmt.Errorf("%w: %s", database.ErrNotFound, id)
	}
	switch intent {
	case IntentEditRequirement, IntentViewSubmissions, IntentSendReminder:
	default:
		return fmt.Errorf("unknown requirement intent: %q", intent)
	}
	return notify(ctx, s.backend, ScreenRequirements, listview.Action(intent), []string{id})
}

// SendReminder asks the backend to remind the sponsors of id.
func (s *RequirementScreen) SendReminder(ctx context.Context, id string) error {
	return s.Intent(ctx, IntentSendReminder, id)
}

// ViewSubmissions asks the backend for the submissions of id.
func (s *RequirementScreen) ViewSubmissions(ctx context.Context, id string) error {
	return s.Intent(ctx, IntentViewSubmissions, id)
}

// Edit opens id for editing in the backend.
func (s *RequirementScreen) Edit(ctx context.Context, id string) error {
	return s.Intent(ctx, IntentEditRequirement, id)
}

// Stats summarizes every requirement in the store, filtered or not.
func (s *RequirementScreen) Stats() database.RequirementSummary {
	return database.RequirementStats(s.list.Store().All())
}
