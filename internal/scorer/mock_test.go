package scorer

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/Veraticus/pym/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockScorer_Deterministic(t *testing.T) {
	var slept []time.Duration
	recorder := func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	s := NewMockScorer(42, NoCredentialDelay).WithSleep(recorder)
	expected := rand.New(rand.NewSource(42)) //nolint:gosec // mirrors the scorer's source

	first, err := s.Score(context.Background(), model.ScoreRequest{Text: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, expected.Float64(), first)

	second, err := s.Sample(context.Background(), FallbackDelay)
	require.NoError(t, err)
	assert.Equal(t, expected.Float64(), second)

	assert.Equal(t, []time.Duration{NoCredentialDelay, FallbackDelay}, slept)
}

func TestMockScorer_Range(t *testing.T) {
	s := NewMockScorer(7, 0)
	for i := 0; i < 1000; i++ {
		score, err := s.Score(context.Background(), model.ScoreRequest{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.Less(t, score, 1.0)
	}
}

func TestMockScorer_Canceled(t *testing.T) {
	s := NewMockScorer(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Score(ctx, model.ScoreRequest{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	require.NoError(t, Sleep(context.Background(), 0))
}
