// Package review implements the document review session: a reviewer accepts
// or rejects one document, comments on it and compares its versions.
package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/metrics"
	"github.com/docflow-ai/docflow-go/internal/validation"
)

// Outcome is a review verdict.
type Outcome string

const (
	Accept Outcome = "accept"
	Reject Outcome = "reject"
)

// ParseOutcome parses accept/approve or reject.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "accept", "approve":
		return Accept, nil
	case "reject":
		return Reject, nil
	default:
		return "", fmt.Errorf("invalid outcome: %q (use 'accept' or 'reject')", s)
	}
}

// State is the lifecycle state of a session.
type State int

const (
	// Viewing: no decision submitted yet.
	Viewing State = iota
	// Submitting: a decision is waiting for the backend.
	Submitting
	// Notified: a decision was recorded and its banner is shown.
	Notified
	// Decided: the banner was dismissed.
	Decided
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Submitting:
		return "submitting"
	case Notified:
		return "notified"
	case Decided:
		return "decided"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrSubmitting is returned when a decision is made while another is in flight.
	ErrSubmitting = errors.New("a decision is already being submitted")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("review session closed")
	// ErrUnknownVersion is returned when selecting a version the document does not have.
	ErrUnknownVersion = errors.New("unknown version")
	// ErrNoVersionSelected is returned by Compare before a version is selected.
	ErrNoVersionSelected = errors.New("no version selected")
)

// Banner is the transient notice shown after a decision.
type Banner struct {
	Outcome Outcome
	Title   string
	Message string
}

func bannerFor(o Outcome) Banner {
	if o == Accept {
		return Banner{Outcome: o, Title: "Document Approved", Message: "The sponsor has been notified of approval"}
	}
	return Banner{Outcome: o, Title: "Document Rejected", Message: "The sponsor will be notified to resubmit"}
}

// DefaultBannerDuration is how long a decision banner stays up when the
// config leaves it unset.
const DefaultBannerDuration = 3 * time.Second

// Config holds the reviewer identity and session limits.
type Config struct {
	Reviewer         string
	Role             string
	BannerDuration   time.Duration
	MaxCommentLength int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Session) { s.metrics = m }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the state of one document review screen. It is safe for
// concurrent use; the banner timer fires on its own goroutine.
type Session struct {
	mu sync.Mutex

	review  database.Review
	backend adapters.Backend
	cfg     Config

	state    State
	decision Outcome
	banner   *Banner
	tab      Tab
	version  string

	bannerTimer *time.Timer
	bannerGen   uint64
	bannerDone  chan struct{}
	closed      bool

	logger  *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewSession opens a review of r. The session keeps its own copy of r.
func NewSession(r database.Review, backend adapters.Backend, cfg Config, opts ...Option) *Session {
	if cfg.MaxCommentLength <= 0 {
		cfg.MaxCommentLength = validation.DefaultMaxCommentLength
	}
	if cfg.BannerDuration <= 0 {
		cfg.BannerDuration = DefaultBannerDuration
	}
	s := &Session{
		review:  cloneReview(r),
		backend: backend,
		cfg:     cfg,
		tab:     TabMetadata,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("document", r.Document.ID))
	return s
}

func cloneReview(r database.Review) database.Review {
	r.History = slices.Clone(r.History)
	r.Comments = slices.Clone(r.Comments)
	r.Versions = slices.Clone(r.Versions)
	return r
}

// Decide submits a verdict. Invalid input is rejected before any state
// change; a rejection needs a non-empty comment.
func (s *Session) Decide(ctx context.Context, outcome Outcome, comment string) error {
	if errs := validation.ValidateDecision(string(outcome), comment, s.cfg.MaxCommentLength); len(errs) > 0 {
		s.metrics.ValidationFailure("decision")
		return errs
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == Submitting {
		s.mu.Unlock()
		return ErrSubmitting
	}
	prev := s.state
	s.state = Submitting
	docID := s.review.Document.ID
	s.mu.Unlock()

	_, err := s.backend.SubmitDecision(ctx, adapters.Decision{
		DocumentID: docID,
		Outcome:    string(outcome),
		Comment:    comment,
		Reviewer:   s.cfg.Reviewer,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err != nil {
		s.state = prev
		s.logger.Warn("Decision not recorded", zap.String("outcome", string(outcome)), zap.Error(err))
		return fmt.Errorf("submit decision: %w", err)
	}

	s.record(outcome, comment)
	s.metrics.ReviewDecision(string(outcome))
	s.logger.Info("Decision recorded", zap.String("outcome", string(outcome)))
	return nil
}

// record applies a successful decision. Callers hold s.mu.
func (s *Session) record(outcome Outcome, comment string) {
	item := database.HistoryItem{
		ID:       uuid.NewString(),
		Date:     database.FormatTimestamp(s.now()),
		Reviewer: s.cfg.Reviewer,
		Comment:  comment,
	}
	metaStatus, versionStatus := "Approved", database.VersionApproved
	if outcome == Accept {
		item.Action, item.Status = "Document Approved", database.HistoryApproved
	} else {
		item.Action, item.Status = "Document Rejected", database.HistoryRejected
		metaStatus, versionStatus = "Rejected", database.VersionRejected
	}
	s.review.History = append([]database.HistoryItem{item}, s.review.History...)
	s.review.Metadata.Status = metaStatus
	if i := s.latestVersion(); i >= 0 {
		s.review.Versions[i].Status = versionStatus
	}

	s.decision = outcome
	banner := bannerFor(outcome)
	s.banner = &banner
	s.state = Notified
	if s.bannerDone == nil {
		s.bannerDone = make(chan struct{})
	}

	// A newer decision supersedes the pending dismissal.
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
	}
	s.bannerGen++
	gen := s.bannerGen
	s.bannerTimer = time.AfterFunc(s.cfg.BannerDuration, func() { s.dismiss(gen) })
}

func (s *Session) dismiss(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.bannerGen {
		return
	}
	s.clearBanner()
}

// clearBanner hides the banner. Callers hold s.mu.
func (s *Session) clearBanner() {
	if s.banner == nil {
		return
	}
	s.banner = nil
	s.bannerTimer = nil
	s.releaseBannerWaiters()
	if s.state == Notified {
		s.state = Decided
	}
}

// releaseBannerWaiters unblocks BannerDone receivers. Callers hold s.mu.
func (s *Session) releaseBannerWaiters() {
	if s.bannerDone != nil {
		close(s.bannerDone)
		s.bannerDone = nil
	}
}

// BannerDone returns a channel that is closed once the current banner is
// dismissed or the session is closed. With no banner up the channel is
// already closed.
func (s *Session) BannerDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bannerDone == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.bannerDone
}

// DismissBanner hides the banner before its timer fires.
func (s *Session) DismissBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
	}
	s.bannerGen++
	s.clearBanner()
}

// AddComment appends a comment signed by the configured reviewer.
func (s *Session) AddComment(text string, isRevisionRequest bool) (database.Comment, error) {
	if errs := validation.ValidateComment(text, s.cfg.MaxCommentLength); len(errs) > 0 {
		s.metrics.ValidationFailure("comment")
		return database.Comment{}, errs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return database.Comment{}, ErrClosed
	}

	c := database.Comment{
		ID:                uuid.NewString(),
		Author:            s.cfg.Reviewer,
		Role:              s.cfg.Role,
		Timestamp:         database.FormatTimestamp(s.now()),
		Content:           text,
		IsRevisionRequest: isRevisionRequest,
	}
	s.review.Comments = append(s.review.Comments, c)
	s.logger.Debug("Comment added", zap.Bool("revision_request", isRevisionRequest))
	return c, nil
}

// Close stops the banner timer. It is idempotent; once it returns no
// callback of this session will run.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.bannerTimer != nil {
		s.bannerTimer.Stop()
		s.bannerTimer = nil
	}
	s.releaseBannerWaiters()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Decision returns the last recorded outcome.
func (s *Session) Decision() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decision, s.decision != ""
}

// Banner returns the banner currently shown.
func (s *Session) Banner() (Banner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.banner == nil {
		return Banner{}, false
	}
	return *s.banner, true
}

// Review returns a copy of the document under review with its logs.
func (s *Session) Review() database.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneReview(s.review)
}

// History returns the submission history, newest first.
func (s *Session) History() []database.HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.review.History)
}

// Comments returns the comment log in posting order.
func (s *Session) Comments() []database.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.review.Comments)
}
