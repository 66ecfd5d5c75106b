// Package scan runs a single text scan end to end: it validates the input,
// scores it remotely or through the mock path, asks for a label and records
// the result in history.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/pym/internal/common"
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scorer"
	"github.com/Veraticus/pym/internal/service"
)

// Label lengths taken from the start of the scanned text.
const (
	suggestionLength   = 30
	defaultLabelLength = 35
)

// Notice tells the caller which scoring path produced the result.
type Notice int

// Notice values.
const (
	NoticeRemote Notice = iota
	NoticeMockNoCredential
	NoticeMockAPIError
)

// String returns the notice as shown to users.
func (n Notice) String() string {
	switch n {
	case NoticeMockNoCredential:
		return "No API key configured: showing mock data"
	case NoticeMockAPIError:
		return "API error: showing mock data"
	default:
		return "Scored by remote model"
	}
}

// IsMock reports whether the score came from the mock path.
func (n Notice) IsMock() bool {
	return n != NoticeRemote
}

// Outcome is the result of one scan.
type Outcome struct {
	Cause      error
	Verdict    model.Verdict
	Record     model.ScanRecord
	Score      float64
	Percentage int
	Notice     Notice
}

// PreferenceSource loads the preferences used for a scan.
type PreferenceSource interface {
	Load(ctx context.Context) (model.Preferences, error)
}

// Recorder appends scans to history.
type Recorder interface {
	Append(ctx context.Context, label string, score float64, text string) (model.ScanRecord, error)
}

// Sampler produces mock scores after a delay.
type Sampler interface {
	Sample(ctx context.Context, delay time.Duration) (float64, error)
}

// Config wires an Orchestrator.
type Config struct {
	Preferences       PreferenceSource
	Remote            service.Scorer
	Mock              Sampler
	History           Recorder
	Logger            *slog.Logger
	NoCredentialDelay time.Duration
	FallbackDelay     time.Duration
}

// Orchestrator coordinates scans. At most one Run is in flight at a time.
type Orchestrator struct {
	prefs             PreferenceSource
	remote            service.Scorer
	mock              Sampler
	history           Recorder
	logger            *slog.Logger
	noCredentialDelay time.Duration
	fallbackDelay     time.Duration
	busy              atomic.Bool
}

// NoDelay disables a mock-path delay. Zero delays in Config mean the
// standard delays, as with net.Dialer.KeepAlive.
const NoDelay time.Duration = -1

// New creates an orchestrator. A nil Mock uses a time-seeded MockScorer.
func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		prefs:   cfg.Preferences,
		remote:  cfg.Remote,
		mock:    cfg.Mock,
		history: cfg.History,
		logger:  common.LoggerOrDefault(cfg.Logger),
	}
	if o.mock == nil {
		o.mock = scorer.NewMockScorer(time.Now().UnixNano(), scorer.NoCredentialDelay)
	}
	o.noCredentialDelay = mockDelay(cfg.NoCredentialDelay, scorer.NoCredentialDelay)
	o.fallbackDelay = mockDelay(cfg.FallbackDelay, scorer.FallbackDelay)
	return o
}

func mockDelay(d, standard time.Duration) time.Duration {
	switch {
	case d == 0:
		return standard
	case d < 0:
		return 0
	default:
		return d
	}
}

// Busy reports whether a scan is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Validate trims text and checks it is long enough to scan.
func Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(trimmed); n < model.MinScanLength {
		return "", fmt.Errorf("%w: %d characters, need at least %d", common.ErrInputTooShort, n, model.MinScanLength)
	}
	return trimmed, nil
}

// Run scans text. Short text fails with common.ErrInputTooShort before
// anything else happens, and a concurrent call fails with
// common.ErrScanInProgress. Scoring failures never fail the scan: they fall
// back to the mock path and are reported through Outcome.Notice.
//
// labeler may be nil, in which case the default label is used.
func (o *Orchestrator) Run(ctx context.Context, text string, labeler service.Labeler) (Outcome, error) {
	text, err := Validate(text)
	if err != nil {
		return Outcome{}, err
	}

	if !o.busy.CompareAndSwap(false, true) {
		return Outcome{}, common.ErrScanInProgress
	}
	defer o.busy.Store(false)

	outcome, err := o.score(ctx, text)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Percentage = model.Percentage(outcome.Score)
	outcome.Verdict = model.VerdictFor(outcome.Score)

	o.logger.Info("scan scored",
		"source", outcome.Notice.String(),
		"score", outcome.Score,
		"verdict", string(outcome.Verdict))

	label := o.label(ctx, text, labeler)

	// A scored scan is recorded even if the caller gave up while labeling.
	record, err := o.history.Append(context.WithoutCancel(ctx), label, outcome.Score, text)
	if err != nil {
		return outcome, fmt.Errorf("failed to save scan: %w", err)
	}
	outcome.Record = record

	return outcome, nil
}

// score fills in the score, notice and cause of an outcome. The returned
// error is non-nil only when ctx ends.
func (o *Orchestrator) score(ctx context.Context, text string) (Outcome, error) {
	prefs, err := o.loadPreferences(ctx)
	if err != nil {
		o.logger.Warn("failed to load preferences, scanning without credential", "error", err)
	}

	if !prefs.HasCredential() || o.remote == nil {
		score, err := o.mock.Sample(ctx, o.noCredentialDelay)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Score: score, Notice: NoticeMockNoCredential}, nil
	}

	score, remoteErr := o.remote.Score(ctx, model.ScoreRequest{
		Text:       text,
		Credential: strings.TrimSpace(prefs.Credential),
		Model:      prefs.ModelID,
	})
	if remoteErr == nil {
		return Outcome{Score: model.ClampScore(score), Notice: NoticeRemote}, nil
	}
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	o.logger.Warn("remote scoring failed, using mock score", "error", remoteErr, "model", prefs.ModelID)

	score, err = o.mock.Sample(ctx, o.fallbackDelay)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Score: score, Notice: NoticeMockAPIError, Cause: remoteErr}, nil
}

func (o *Orchestrator) loadPreferences(ctx context.Context) (model.Preferences, error) {
	if o.prefs == nil {
		return model.DefaultPreferences(), nil
	}
	return o.prefs.Load(ctx)
}

// label asks labeler for a label, falling back to the default label when
// there is no labeler, it fails, or the answer is blank.
func (o *Orchestrator) label(ctx context.Context, text string, labeler service.Labeler) string {
	fallback := DefaultLabel(text)
	if labeler == nil {
		return fallback
	}

	answer, err := labeler.Label(ctx, Suggestion(text))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			o.logger.Debug("label prompt failed, using default", "error", err)
		}
		return fallback
	}

	if answer = strings.TrimSpace(answer); answer != "" {
		return answer
	}
	return fallback
}

// Suggestion is the label offered to the user for text.
func Suggestion(text string) string {
	return truncate(text, suggestionLength) + "..."
}

// DefaultLabel is the label used when the user gives none.
func DefaultLabel(text string) string {
	return truncate(text, defaultLabelLength) + "..."
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
