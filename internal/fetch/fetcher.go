package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jharlow/lme-data/internal/session"
)

const (
	// DefaultBatchSize is the maximum number of securities per gateway request.
	DefaultBatchSize = 50

	// DefaultBatchDelay is the minimum spacing between consecutive requests.
	DefaultBatchDelay = 200 * time.Millisecond
)

// Gateway is the slice of the session client the fetcher needs.
type Gateway interface {
	Fetch(ctx context.Context, securities, fields []string) (map[string]session.FieldMap, []session.SecurityError, error)
}

// Fetcher fans a ticker universe out over chunked gateway requests.
type Fetcher struct {
	gw        Gateway
	batchSize int
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBatchSize sets the per-request security cap.
func WithBatchSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithBatchDelay sets the minimum spacing between consecutive requests.
func WithBatchDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher with default chunking and pacing.
func New(gw Gateway, opts ...Option) *Fetcher {
	f := &Fetcher{
		gw:        gw,
		batchSize: DefaultBatchSize,
		limiter:   rate.NewLimiter(rate.Every(DefaultBatchDelay), 1),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchAll retrieves fields for every ticker, splitting the universe into
// batches and pacing requests through the limiter. Results and per-ticker
// security errors from all batches are merged; a transport-level failure
// aborts the remaining batches.
func (f *Fetcher) FetchAll(ctx context.Context, tickers, fields []string) (map[string]session.FieldMap, []session.SecurityError, error) {
	data := make(map[string]session.FieldMap, len(tickers))
	var secErrs []session.SecurityError

	for start := 0; start < len(tickers); start += f.batchSize {
		end := start + f.batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		chunk := tickers[start:end]

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		chunkData, chunkErrs, err := f.gw.Fetch(ctx, chunk, fields)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching batch %d-%d: %w", start, end, err)
		}

		for ticker, fm := range chunkData {
			data[ticker] = fm
		}
		secErrs = append(secErrs, chunkErrs...)
	}

	if len(secErrs) > 0 {
		f.logger.Warn("batch fetch completed with security errors",
			"tickers", len(tickers),
			"errors", len(secErrs))
	}
	return data, secErrs, nil
}
