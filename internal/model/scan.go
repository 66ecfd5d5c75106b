// Package model defines the core domain models used throughout the application.
package model

import (
	"math"
	"time"
)

// HistoryCapacity is the maximum number of scans kept in history.
const HistoryCapacity = 8

// MinScanLength is the minimum trimmed text length accepted for a scan.
const MinScanLength = 100

// TimeLayout formats a record's creation time for display.
const TimeLayout = "3:04:05 PM"

// ScanRecord is a single persisted scan result.
type ScanRecord struct {
	Label     string  `json:"label"`
	Text      string  `json:"text"`
	CreatedAt string  `json:"date"`
	ID        int64   `json:"id"`
	Score     float64 `json:"score"`
}

// Percentage returns the record's score as a rounded percentage.
func (r ScanRecord) Percentage() int {
	return Percentage(r.Score)
}

// Verdict returns the categorical verdict for the record's score.
func (r ScanRecord) Verdict() Verdict {
	return VerdictFor(r.Score)
}

// FormatCreatedAt renders t the way records store their creation time.
func FormatCreatedAt(t time.Time) string {
	return t.Format(TimeLayout)
}

// Verdict is the categorical reading of an AI-probability score.
type Verdict string

// Verdict constants.
const (
	VerdictAI    Verdict = "Likely AI-Generated"
	VerdictMixed Verdict = "Potentially Mixed"
	VerdictHuman Verdict = "Likely Human-Written"
)

// Level orders verdicts from human (0) to AI (2), for styling.
func (v Verdict) Level() int {
	switch v {
	case VerdictAI:
		return 2
	case VerdictMixed:
		return 1
	default:
		return 0
	}
}

// VerdictFor categorizes a score. Boundaries are exclusive on the low side:
// 0.7 is mixed and 0.4 is human.
func VerdictFor(score float64) Verdict {
	switch {
	case score > 0.7:
		return VerdictAI
	case score > 0.4:
		return VerdictMixed
	default:
		return VerdictHuman
	}
}

// Percentage converts a score in [0,1] into a rounded percentage in [0,100].
func Percentage(score float64) int {
	return int(math.Round(ClampScore(score) * 100))
}

// ClampScore forces a score into [0,1]. NaN maps to 0.
func ClampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// ScoreRequest is what a scorer backend needs to score one text.
type ScoreRequest struct {
	Text       string
	Credential string
	Model      string
}
