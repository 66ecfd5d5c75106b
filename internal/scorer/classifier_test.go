package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, status int, body string) (*ClassifierScorer, *map[string]string) {
	t.Helper()
	got := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got["auth"] = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(raw, &payload)
		got["inputs"] = payload["inputs"]
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return NewClassifierScorer(Config{BaseURL: server.URL, HTTPClient: server.Client()}), &got
}

func TestClassifierScorer_Labels(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{name: "real fake nested", body: `[[{"label":"Real","score":0.12},{"label":"Fake","score":0.88}]]`, want: 0.88},
		{name: "label ids nested", body: `[[{"label":"LABEL_0","score":0.7},{"label":"LABEL_1","score":0.3}]]`, want: 0.3},
		{name: "flat list", body: `[{"label":"Fake","score":0.61},{"label":"Real","score":0.39}]`, want: 0.61},
		{name: "no ai label", body: `[[{"label":"Real","score":0.9}]]`, want: 0.5},
		{name: "empty outer", body: `[]`, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, got := newTestClassifier(t, http.StatusOK, tt.body)

			score, err := s.Score(context.Background(), model.ScoreRequest{Text: "some text", Credential: "hf_abc"})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score, 1e-9)
			assert.Equal(t, "Bearer hf_abc", (*got)["auth"])
			assert.Equal(t, "some text", (*got)["inputs"])
		})
	}
}

func TestClassifierScorer_ModelLoading(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusServiceUnavailable} {
		s, _ := newTestClassifier(t, status,
			`{"error":"Model roberta-base-openai-detector is currently loading","estimated_time":20.0}`)

		_, err := s.Score(context.Background(), model.ScoreRequest{Text: "t", Credential: "k"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelLoading), "status %d", status)
		assert.True(t, common.IsRetryable(err), "loading must be retryable")

		var retryable *common.RetryableError
		require.ErrorAs(t, err, &retryable)
		assert.Equal(t, 20*time.Second, retryable.After)
	}
}

func TestClassifierScorer_Failures(t *testing.T) {
	t.Run("error body", func(t *testing.T) {
		s, _ := newTestClassifier(t, http.StatusBadRequest, `{"error":"Authorization header is invalid"}`)
		_, err := s.Score(context.Background(), model.ScoreRequest{Text: "t", Credential: "k"})

		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, http.StatusBadRequest, transportErr.StatusCode)
		assert.Contains(t, transportErr.Body, "Authorization")
		assert.False(t, common.IsRetryable(err))
	})

	t.Run("non-json failure", func(t *testing.T) {
		s, _ := newTestClassifier(t, http.StatusBadGateway, `bad gateway`)
		_, err := s.Score(context.Background(), model.ScoreRequest{Text: "t", Credential: "k"})

		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("malformed body", func(t *testing.T) {
		s, _ := newTestClassifier(t, http.StatusOK, `{"label":"Fake"}`)
		_, err := s.Score(context.Background(), model.ScoreRequest{Text: "t", Credential: "k"})

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestNewRemote(t *testing.T) {
	s, err := NewRemote("chat", Config{})
	require.NoError(t, err)
	assert.IsType(t, &ChatScorer{}, s)

	s, err = NewRemote("Classifier", Config{})
	require.NoError(t, err)
	assert.IsType(t, &ClassifierScorer{}, s)

	_, err = NewRemote("oracle", Config{})
	require.Error(t, err)
}
