// Package testutil provides test utilities and fixtures for docflow testing.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/config"
	"github.com/docflow-ai/docflow-go/internal/database"
)

// SeedOption configures a test seed.
type SeedOption func(*database.Seed)

// NewTestSeed returns the built-in sample data with options applied.
func NewTestSeed(t *testing.T, opts ...SeedOption) *database.Seed {
	t.Helper()

	seed := database.DefaultSeed()
	for _, opt := range opts {
		opt(seed)
	}
	return seed
}

// WithSponsors replaces the seed's sponsors.
func WithSponsors(sponsors ...database.Sponsor) SeedOption {
	return func(s *database.Seed) {
		s.Sponsors = sponsors
	}
}

// WithSponsor appends a sponsor to the seed.
func WithSponsor(sponsor database.Sponsor) SeedOption {
	return func(s *database.Seed) {
		s.Sponsors = append(s.Sponsors, sponsor)
	}
}

// WithRequirements replaces the seed's requirements.
func WithRequirements(reqs ...database.Requirement) SeedOption {
	return func(s *database.Seed) {
		s.Requirements = reqs
	}
}

// WithRequirement appends a requirement to the seed.
func WithRequirement(req database.Requirement) SeedOption {
	return func(s *database.Seed) {
		s.Requirements = append(s.Requirements, req)
	}
}

// SponsorOption configures a test sponsor.
type SponsorOption func(*database.Sponsor)

// NewTestSponsor creates an active sponsor with placeholder contact details.
func NewTestSponsor(id int, name string, opts ...SponsorOption) database.Sponsor {
	s := database.Sponsor{
		ID:               id,
		Name:             name,
		Status:           database.SponsorActive,
		PlanCount:        1,
		LastActivity:     "12/01/2024",
		ContactEmail:     "contact@example.com",
		ContactPhone:     "(555) 000-0000",
		Address:          "1 Test Way",
		RegistrationDate: "01/01/2024",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithSponsorStatus sets the sponsor status.
func WithSponsorStatus(status database.SponsorStatus) SponsorOption {
	return func(s *database.Sponsor) {
		s.Status = status
	}
}

// WithCompletion sets the sponsor completion rate.
func WithCompletion(rate int) SponsorOption {
	return func(s *database.Sponsor) {
		s.CompletionRate = rate
	}
}

// WithPending sets the number of active requirements awaiting the sponsor.
func WithPending(n int) SponsorOption {
	return func(s *database.Sponsor) {
		s.ActiveRequirements = n
	}
}

// WithLastActivity sets the sponsor's last activity date.
func WithLastActivity(date string) SponsorOption {
	return func(s *database.Sponsor) {
		s.LastActivity = date
	}
}

// RequirementOption configures a test requirement.
type RequirementOption func(*database.Requirement)

// NewTestRequirement creates a pending medium-priority requirement.
func NewTestRequirement(id, title string, opts ...RequirementOption) database.Requirement {
	r := database.Requirement{
		ID:             id,
		Title:          title,
		Description:    "Test requirement",
		Type:           database.TypeOther,
		DueDate:        "12/31/2024",
		Status:         database.RequirementPending,
		Priority:       database.PriorityMedium,
		TotalDocuments: 1,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithStatus sets the requirement status.
func WithStatus(status database.RequirementStatus) RequirementOption {
	return func(r *database.Requirement) {
		r.Status = status
	}
}

// WithPriority sets the requirement priority.
func WithPriority(priority database.Priority) RequirementOption {
	return func(r *database.Requirement) {
		r.Priority = priority
	}
}

// WithType sets the requirement type.
func WithType(typ string) RequirementOption {
	return func(r *database.Requirement) {
		r.Type = typ
	}
}

// WithDueDate sets the display due date.
func WithDueDate(date string) RequirementOption {
	return func(r *database.Requirement) {
		r.DueDate = date
	}
}

// WithDocuments sets the document counts.
func WithDocuments(total, submitted int) RequirementOption {
	return func(r *database.Requirement) {
		r.TotalDocuments = total
		r.SubmittedDocuments = submitted
	}
}

// WithAssigned assigns sponsors from the directory.
func WithAssigned(refs ...database.SponsorRef) RequirementOption {
	return func(r *database.Requirement) {
		r.AssignedSponsors = refs
	}
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing. Review timings default to zero
// latency and a short banner so tests do not wait.
func NewTestConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Docflow.Review.SubmitLatency = 0
	cfg.Docflow.Review.BannerDuration = 10 * time.Millisecond

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithSeedPath sets the seed file path in the config.
func WithSeedPath(path string) ConfigOption {
	return func(c *config.Config) {
		c.Docflow.Seed = path
	}
}

// WithExportDir sets the export directory in the config.
func WithExportDir(dir string) ConfigOption {
	return func(c *config.Config) {
		c.Docflow.ExportDir = dir
	}
}

// WithReviewer sets the signed-in reviewer.
func WithReviewer(name, role string) ConfigOption {
	return func(c *config.Config) {
		c.Docflow.Reviewer.Name = name
		c.Docflow.Reviewer.Role = role
	}
}

// WithBannerDuration sets how long a decision banner stays up.
func WithBannerDuration(d time.Duration) ConfigOption {
	return func(c *config.Config) {
		c.Docflow.Review.BannerDuration = d
	}
}

// WithHTTPBackend points the config at a remote backend.
func WithHTTPBackend(url string) ConfigOption {
	return func(c *config.Config) {
		c.Docflow.Backend.Kind = config.BackendHTTP
		c.Docflow.Backend.URL = url
	}
}

// TempProject creates a temporary project directory removed when the test ends.
func TempProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".docflow"), 0755); err != nil {
		t.Fatalf("Failed to create .docflow directory: %v", err)
	}
	return dir
}

// TempProjectWithConfig creates a temp project with a config file.
func TempProjectWithConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	dir := TempProject(t)
	configPath := filepath.Join(dir, ".docflow", "config.yaml")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

// TempProjectFull creates a temp project with a config file and a seed file.
// The config's seed path is pointed at the written seed.
func TempProjectFull(t *testing.T, cfg *config.Config, seed *database.Seed) string {
	t.Helper()

	dir := TempProject(t)

	data, err := yaml.Marshal(seed)
	if err != nil {
		t.Fatalf("Failed to serialize seed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "seed.yaml"), data, 0644); err != nil {
		t.Fatalf("Failed to write seed: %v", err)
	}

	cfg.Docflow.Seed = "seed.yaml"
	if err := cfg.Save(filepath.Join(dir, ".docflow", "config.yaml")); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

// RecordingBackend is an adapters.Backend that records every effect.
// Err, when set, fails all calls.
type RecordingBackend struct {
	mu        sync.Mutex
	Decisions []adapters.Decision
	Bulk      []adapters.BulkRequest
	Err       error
}

// Name implements adapters.Backend.
func (b *RecordingBackend) Name() string { return "recording" }

// SubmitDecision implements adapters.Backend.
func (b *RecordingBackend) SubmitDecision(ctx context.Context, d adapters.Decision) (adapters.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return adapters.Receipt{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Decisions = append(b.Decisions, d)
	if b.Err != nil {
		return adapters.Receipt{}, b.Err
	}
	return adapters.Receipt{ID: "rcpt-" + d.DocumentID, Status: d.Outcome}, nil
}

// ApplyBulkAction implements adapters.Backend.
func (b *RecordingBackend) ApplyBulkAction(ctx context.Context, req adapters.BulkRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Bulk = append(b.Bulk, req)
	return b.Err
}

// BulkActions returns the recorded bulk action names in order.
func (b *RecordingBackend) BulkActions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.Bulk))
	for i, r := range b.Bulk {
		out[i] = r.Screen + ":" + r.Action
	}
	return out
}
