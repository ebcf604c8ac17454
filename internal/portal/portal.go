// Package portal wires the list state machine to the portal screens: the
// sponsor table, the requirement list and the dashboard overview.
package portal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/listview"
	"github.com/docflow-ai/docflow-go/internal/metrics"
)

// Screen names used in logs, metrics and backend requests.
const (
	ScreenSponsors     = "sponsors"
	ScreenRequirements = "requirements"
	ScreenDashboard    = "dashboard"
)

// Option configures a screen.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Recorder
	exports ExportSink
	now     func() time.Time
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.exports == nil {
		o.exports = WriterSink{W: io.Discard}
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithExportSink sets where the export action writes CSV files.
func WithExportSink(s ExportSink) Option {
	return func(o *options) { o.exports = s }
}

// WithClock sets the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func (o options) listOptions(sort listview.SortState) []listview.Option {
	return []listview.Option{
		listview.WithLogger(o.logger),
		listview.WithMetrics(o.metrics),
		listview.WithSort(sort),
	}
}

// ExportSink opens the destination of one CSV export.
type ExportSink interface {
	// Open returns a writer for an export of screen and the name it is
	// stored under.
	Open(screen string) (io.WriteCloser, string, error)
}

// DirSink writes each export to a new timestamped file in Dir.
type DirSink struct {
	Dir string
	Now func() time.Time
}

// Open creates <Dir>/<screen>-<timestamp>.csv.
func (s DirSink) Open(screen string) (io.WriteCloser, string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.csv", screen, now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create export file: %w", err)
	}
	return f, path, nil
}

// WriterSink writes every export to W.
type WriterSink struct {
	W io.Writer
}

// Open returns W; closing it is a no-op.
func (s WriterSink) Open(string) (io.WriteCloser, string, error) {
	return nopCloser{s.W}, "-", nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// ExportResult describes a finished export.
type ExportResult struct {
	Screen string
	Path   string
	Rows   int
	Bytes  int64
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// export opens an export of screen and runs write against it.
func export(sink ExportSink, screen string, rows int, write func(io.Writer) error) (ExportResult, error) {
	w, path, err := sink.Open(screen)
	if err != nil {
		return ExportResult{}, err
	}
	cw := &countingWriter{w: w}
	if err := write(cw); err != nil {
		_ = w.Close()
		return ExportResult{}, err
	}
	if err := w.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("failed to close export: %w", err)
	}
	return ExportResult{Screen: screen, Path: path, Rows: rows, Bytes: cw.n}, nil
}

// notify sends action on ids of screen to the backend.
func notify[K comparable](ctx context.Context, backend adapters.Backend, screen string, action listview.Action, ids []K) error {
	return backend.ApplyBulkAction(ctx, adapters.BulkRequest{
		Screen: screen,
		Action: action.String(),
		IDs:    idStrings(ids),
	})
}

func idStrings[K comparable](ids []K) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		switch v := any(id).(type) {
		case int:
			out[i] = strconv.Itoa(v)
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
