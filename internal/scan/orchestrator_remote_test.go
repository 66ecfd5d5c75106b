package scan

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/pym/internal/history"
	"github.com/Veraticus/pym/internal/scorer"
	"github.com/Veraticus/pym/internal/settings"
	"github.com/Veraticus/pym/internal/storage"
)

// chatServer answers every completion request with content as the message.
func chatServer(t *testing.T, content string) *scorer.ChatScorer {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, string(body))
	}))
	t.Cleanup(server.Close)

	return scorer.NewChatScorer(scorer.Config{BaseURL: server.URL, HTTPClient: server.Client(), RateLimit: 1000})
}

func TestRun_UnusableRemoteScoreFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "nan", content: `{"score":"NaN"}`},
		{name: "infinity", content: `{"score":"Inf"}`},
		{name: "out of range", content: `{"score":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.orch.remote = chatServer(t, tt.content)
			require.NoError(t, h.prefs.SetCredential(context.Background(), "sk-test"))

			outcome, err := h.orch.Run(context.Background(), sampleText(150), nil)
			require.NoError(t, err)

			assert.Equal(t, NoticeMockAPIError, outcome.Notice)
			var parseErr *scorer.ParseError
			assert.ErrorAs(t, outcome.Cause, &parseErr)
			assert.Equal(t, expectedMockScores(1)[0], outcome.Score)
		})
	}
}

func TestRun_RemoteScoreFromChatBackend(t *testing.T) {
	h := newHarness(t, nil)
	h.orch.remote = chatServer(t, "```json\n{\"score\": 0.83}\n```")
	require.NoError(t, h.prefs.SetCredential(context.Background(), "sk-test"))

	outcome, err := h.orch.Run(context.Background(), sampleText(150), nil)
	require.NoError(t, err)

	assert.Equal(t, NoticeRemote, outcome.Notice)
	assert.InDelta(t, 0.83, outcome.Score, 1e-9)
	assert.Equal(t, 83, outcome.Percentage)
}

func TestNew_MockDelays(t *testing.T) {
	tests := []struct {
		name         string
		configured   time.Duration
		wantNoCred   time.Duration
		wantFallback time.Duration
	}{
		{name: "zero uses standard", configured: 0, wantNoCred: scorer.NoCredentialDelay, wantFallback: scorer.FallbackDelay},
		{name: "no delay", configured: NoDelay, wantNoCred: 0, wantFallback: 0},
		{name: "explicit", configured: 20 * time.Millisecond, wantNoCred: 20 * time.Millisecond, wantFallback: 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(Config{NoCredentialDelay: tt.configured, FallbackDelay: tt.configured})
			assert.Equal(t, tt.wantNoCred, o.noCredentialDelay)
			assert.Equal(t, tt.wantFallback, o.fallbackDelay)
		})
	}
}

func TestRun_NoDelaySkipsWait(t *testing.T) {
	store := storage.NewMemoryStore()
	var (
		mu     sync.Mutex
		sleeps []time.Duration
	)
	mock := scorer.NewMockScorer(seed, 0).WithSleep(func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		sleeps = append(sleeps, d)
		mu.Unlock()
		return ctx.Err()
	})

	o := New(Config{
		Preferences:       settings.NewManager(store),
		Mock:              mock,
		History:           history.NewManager(store),
		NoCredentialDelay: NoDelay,
	})

	outcome, err := o.Run(context.Background(), sampleText(150), nil)
	require.NoError(t, err)
	assert.Equal(t, NoticeMockNoCredential, outcome.Notice)
	assert.Equal(t, []time.Duration{0}, sleeps)
}
