package cmd

import (
	"fmt"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/database"
	"github.com/docflow-ai/docflow-go/internal/portal"
	"github.com/docflow-ai/docflow-go/internal/review"
)

// workspace holds the screens of one invocation over a single seed.
type workspace struct {
	seed         *database.Seed
	backend      adapters.Backend
	sponsors     *portal.SponsorScreen
	requirements *portal.RequirementScreen
	dashboard    *portal.Dashboard
}

// loadSeed returns the configured seed file or the built-in sample data.
func (a *app) loadSeed() (*database.Seed, error) {
	path := a.cfg.SeedPath(a.baseDir)
	if path == "" {
		return database.DefaultSeed(), nil
	}
	seed, err := database.LoadSeed(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed %s: %w", path, err)
	}
	return seed, nil
}

// openWorkspace loads the seed and builds every screen over it.
func (a *app) openWorkspace() (*workspace, error) {
	seed, err := a.loadSeed()
	if err != nil {
		return nil, err
	}
	backend, err := a.newBackend(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend: %w", err)
	}

	opts := []portal.Option{
		portal.WithLogger(a.logger),
		portal.WithMetrics(a.metrics),
		portal.WithExportSink(portal.DirSink{Dir: a.cfg.ExportPath(a.baseDir)}),
	}
	sponsors, err := portal.NewSponsorScreen(seed.Sponsors, backend, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load sponsors: %w", err)
	}
	requirements, err := portal.NewRequirementScreen(seed.Requirements, seed.Directory, backend, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}

	return &workspace{
		seed:         seed,
		backend:      backend,
		sponsors:     sponsors,
		requirements: requirements,
		dashboard:    portal.NewDashboard(sponsors, requirements, seed.Activities),
	}, nil
}

// openReview starts a review session on the seed's document.
func (a *app) openReview(w *workspace) (*review.Session, error) {
	if w.seed.Review == nil {
		return nil, fmt.Errorf("seed has no document under review")
	}
	d := a.cfg.Docflow
	cfg := review.Config{
		Reviewer:         d.Reviewer.Name,
		Role:             d.Reviewer.Role,
		BannerDuration:   d.Review.BannerDuration,
		MaxCommentLength: d.Review.MaxCommentLength,
	}
	return review.NewSession(*w.seed.Review, w.backend, cfg,
		review.WithLogger(a.logger),
		review.WithMetrics(a.metrics),
	), nil
}
