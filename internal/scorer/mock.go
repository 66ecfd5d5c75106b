package scorer

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

// Mock-path delays.
const (
	NoCredentialDelay = 1500 * time.Millisecond
	FallbackDelay     = 1000 * time.Millisecond
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ service.Scorer = (*MockScorer)(nil)

// MockScorer returns a pseudo-random score in [0,1) after a simulated delay.
// The random source is seeded so tests can predict its output.
type MockScorer struct {
	rng   *rand.Rand
	sleep SleepFunc
	delay time.Duration
	mu    sync.Mutex
}

// NewMockScorer creates a mock scorer from seed. delay is used by Score.
func NewMockScorer(seed int64, delay time.Duration) *MockScorer {
	return &MockScorer{
		rng:   rand.New(rand.NewSource(seed)), //nolint:gosec // not used for security
		sleep: Sleep,
		delay: delay,
	}
}

// WithSleep replaces the delay implementation, typically with a recorder in
// tests.
func (m *MockScorer) WithSleep(sleep SleepFunc) *MockScorer {
	m.sleep = sleep
	return m
}

// Score waits for the configured delay and returns a random score.
func (m *MockScorer) Score(ctx context.Context, _ model.ScoreRequest) (float64, error) {
	return m.Sample(ctx, m.delay)
}

// Sample waits for delay and returns a random score in [0,1).
func (m *MockScorer) Sample(ctx context.Context, delay time.Duration) (float64, error) {
	if err := m.sleep(ctx, delay); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Float64(), nil
}
