package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalBackend acknowledges every effect without sending it anywhere. It
// stands in for a real backend and logs each call.
type LocalBackend struct {
	latency time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewLocalBackend creates a local backend that takes latency to answer a
// decision.
func NewLocalBackend(latency time.Duration, logger *zap.Logger) *LocalBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalBackend{
		latency: latency,
		logger:  logger.With(zap.String("backend", "local")),
		now:     time.Now,
	}
}

// Name returns the backend name.
func (b *LocalBackend) Name() string {
	return "local"
}

// SubmitDecision waits for the simulated latency and returns a receipt.
func (b *LocalBackend) SubmitDecision(ctx context.Context, d Decision) (Receipt, error) {
	if b.latency > 0 {
		timer := time.NewTimer(b.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	b.logger.Info("Decision submitted; effect not bound to a backend",
		zap.String("document", d.DocumentID),
		zap.String("outcome", d.Outcome),
		zap.String("reviewer", d.Reviewer))

	return Receipt{
		ID:         uuid.NewString(),
		Status:     "recorded",
		ReceivedAt: b.now(),
	}, nil
}

// ApplyBulkAction logs the action and returns immediately.
func (b *LocalBackend) ApplyBulkAction(ctx context.Context, req BulkRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Info("Bulk action applied; effect not bound to a backend",
		zap.String("screen", req.Screen),
		zap.String("action", req.Action),
		zap.Strings("ids", req.IDs))
	return nil
}
