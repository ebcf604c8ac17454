// Package adapters binds portal effects, such as review decisions and bulk
// actions, to a backend.
package adapters

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/config"
)

// Backend receives the effects the portal screens produce.
type Backend interface {
	// Name returns the backend name (e.g., "local", "http").
	Name() string

	// SubmitDecision records a review decision. It blocks until the backend
	// answers or ctx is done.
	SubmitDecision(ctx context.Context, d Decision) (Receipt, error)

	// ApplyBulkAction performs an action on records of one screen.
	ApplyBulkAction(ctx context.Context, req BulkRequest) error
}

// Decision is a reviewer's verdict on a document.
type Decision struct {
	DocumentID string `json:"document_id"`
	Outcome    string `json:"outcome"`
	Comment    string `json:"comment,omitempty"`
	Reviewer   string `json:"reviewer"`
}

// Receipt acknowledges a submitted decision.
type Receipt struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

// BulkRequest names an action applied to records of one screen.
type BulkRequest struct {
	Screen string   `json:"screen"`
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
}

// New creates the backend selected by cfg. The local backend simulates the
// configured review submit latency.
func New(cfg *config.Config, logger *zap.Logger, opts ...AdapterOption) (Backend, error) {
	backend := cfg.Docflow.Backend
	switch backend.Kind {
	case config.BackendLocal, "":
		return NewLocalBackend(cfg.Docflow.Review.SubmitLatency, logger), nil
	case config.BackendHTTP:
		return NewHTTPBackend(backend, logger, opts...)
	default:
		return nil, fmt.Errorf("unknown backend: %s (use 'local' or 'http')", backend.Kind)
	}
}
