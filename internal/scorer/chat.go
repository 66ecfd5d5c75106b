package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

// DefaultChatBaseURL is the hosted model router the chat backend talks to.
const DefaultChatBaseURL = "https://openrouter.ai/api/v1"

// systemPrompt instructs the model to answer with a bare JSON score.
const systemPrompt = "Analyze the provided text and return ONLY a JSON object with 'score' (0-1 float for AI probability)."

var _ service.Scorer = (*ChatScorer)(nil)

// Config holds configuration for the remote scorer backends.
type Config struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	BaseURL    string
	Referer    string
	Title      string
	RateLimit  int
}

// ChatScorer asks a chat-completion model for a JSON object holding the
// AI probability of the text.
type ChatScorer struct {
	httpClient  *http.Client
	logger      *slog.Logger
	rateLimiter *rateLimiter
	endpoint    string
	referer     string
	title       string
}

// NewChatScorer creates a chat-completion scorer.
func NewChatScorer(cfg Config) *ChatScorer {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultChatBaseURL
	}

	referer := cfg.Referer
	if referer == "" {
		referer = DefaultReferer
	}
	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}

	return &ChatScorer{
		httpClient:  httpClient,
		logger:      common.LoggerOrDefault(cfg.Logger),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		endpoint:    baseURL + "/chat/completions",
		referer:     referer,
		title:       title,
	}
}

// chatResponse represents the chat-completion response structure.
type chatResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Score sends the full text to the selected model and extracts the score
// from the JSON text nested in the first choice's message content.
func (c *ChatScorer) Score(ctx context.Context, req model.ScoreRequest) (float64, error) {
	if strings.TrimSpace(req.Credential) == "" {
		return 0, &TransportError{Err: fmt.Errorf("%w: credential", common.ErrMissingConfig)}
	}

	modelID := req.Model
	if modelID == "" {
		modelID = model.DefaultModelID
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		return 0, &TransportError{Err: err}
	}

	requestBody := map[string]any{
		"model": modelID,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": req.Text},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	headers := map[string]string{
		"HTTP-Referer": c.referer,
		"X-Title":      c.title,
	}

	body, status, err := postJSON(ctx, c.httpClient, c.endpoint, req.Credential, headers, requestBody)
	if err != nil {
		return 0, err
	}

	if status < 200 || status > 299 {
		return 0, &TransportError{StatusCode: status, Body: truncateBody(body)}
	}

	score, err := parseChatScore(body)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("chat scorer returned score",
		"model", modelID,
		"score", score)

	return score, nil
}

// parseChatScore decodes the outer completion and the JSON text nested in
// its message content.
func parseChatScore(body []byte) (float64, error) {
	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, parseErr("malformed completion body", err)
	}

	if response.Error != nil && response.Error.Message != "" {
		return 0, parseErr("completion carried an error", errors.New(response.Error.Message))
	}

	if len(response.Choices) == 0 {
		return 0, parseErr("no completion choices returned", nil)
	}

	content := cleanJSONContent(response.Choices[0].Message.Content)
	if content == "" {
		return 0, parseErr("empty message content", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return 0, parseErr("message content is not a JSON object", err)
	}

	raw, ok := fields["score"]
	if !ok {
		return 0, parseErr("missing score field", nil)
	}

	score, err := decodeScore(raw)
	if err != nil {
		return 0, err
	}

	return score, nil
}

// decodeScore accepts a JSON number or a numeric string in [0,1].
func decodeScore(raw json.RawMessage) (float64, error) {
	var score float64
	if err := json.Unmarshal(raw, &score); err != nil {
		var s string
		if strErr := json.Unmarshal(raw, &s); strErr != nil {
			return 0, parseErr("score is not a number", err)
		}
		parsed, parseFloatErr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if parseFloatErr != nil {
			return 0, parseErr("score is not a number", parseFloatErr)
		}
		score = parsed
	}

	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, parseErr(fmt.Sprintf("score %v outside [0,1]", score), nil)
	}

	return score, nil
}
