package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

// DefaultClassifierURL is the hosted two-class detector endpoint.
const DefaultClassifierURL = "https://api-inference.huggingface.co/models/roberta-base-openai-detector"

// neutralScore is returned when the detector reply has no AI-class label.
const neutralScore = 0.5

// aiLabels are the detector labels meaning "AI-generated".
var aiLabels = map[string]bool{
	"Fake":    true,
	"LABEL_1": true,
}

var _ service.Scorer = (*ClassifierScorer)(nil)

// ClassifierScorer scores text with a hosted two-class detector
// ({Real, Fake} or {LABEL_0, LABEL_1}).
type ClassifierScorer struct {
	httpClient  *http.Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	endpoint    string
}

// NewClassifierScorer creates a detector scorer. cfg.BaseURL is the full
// model endpoint.
func NewClassifierScorer(cfg Config) *ClassifierScorer {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = DefaultClassifierURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}

	return &ClassifierScorer{
		httpClient:  httpClient,
		logger:      common.LoggerOrDefault(cfg.Logger),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		endpoint:    endpoint,
	}
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type classifierError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Score returns the probability of the AI-generated class. A warming-up
// model yields a retryable error wrapping ErrModelLoading.
func (c *ClassifierScorer) Score(ctx context.Context, req model.ScoreRequest) (float64, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return 0, &TransportError{Err: fmt.Errorf("%w: credential", common.ErrMissingConfig)}
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return 0, &TransportError{Err: err}
	}

	body, status, err := postJSON(ctx, c.httpClient, c.endpoint, req.Credential, nil,
		map[string]string{"inputs": req.Text})
	if err != nil {
		return 0, err
	}

	if errBody, ok := decodeClassifierError(body); ok {
		if strings.Contains(strings.ToLower(errBody.Error), "loading") {
			c.logger.Info("detector model is loading",
				"estimated_time", errBody.EstimatedTime)
			return 0, &common.RetryableError{
				Err:       fmt.Errorf("%w: %s", ErrModelLoading, errBody.Error),
				After:     time.Duration(errBody.EstimatedTime * float64(time.Second)),
				Retryable: true,
			}
		}
		return 0, &TransportError{StatusCode: status, Body: errBody.Error}
	}

	if status < 200 || status > 299 {
		return 0, &TransportError{StatusCode: status, Body: truncateBody(body)}
	}

	return parseClassifierScore(body)
}

// decodeClassifierError recognizes an {"error": "..."} reply.
func decodeClassifierError(body []byte) (classifierError, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return classifierError{}, false
	}

	var errBody classifierError
	if err := json.Unmarshal(trimmed, &errBody); err != nil || errBody.Error == "" {
		return classifierError{}, false
	}
	return errBody, true
}

// parseClassifierScore picks the AI-class score from [[{label,score}]] or
// [{label,score}]. A reply without a recognizable label scores 0.5.
func parseClassifierScore(body []byte) (float64, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return neutralScore, nil
		}
		return pickAIScore(nested[0])
	}

	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return 0, parseErr("malformed detector reply", err)
	}
	return pickAIScore(flat)
}

func pickAIScore(labels []labelScore) (float64, error) {
	for _, l := range labels {
		if aiLabels[l.Label] {
			if l.Score < 0 || l.Score > 1 {
				return 0, parseErr(fmt.Sprintf("label score %v outside [0,1]", l.Score), nil)
			}
			return l.Score, nil
		}
	}
	return neutralScore, nil
}
