package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/stretchr/testify/assert"
)

func TestMeter(t *testing.T) {
	tests := []struct {
		score  float64
		filled int
	}{
		{score: 0, filled: 0},
		{score: 0.5, filled: 10},
		{score: 0.71, filled: 14},
		{score: 1, filled: 20},
		{score: 3, filled: 20},
	}

	for _, tt := range tests {
		m := Meter(tt.score)
		assert.Equal(t, tt.filled, strings.Count(m, "█"), "score %v", tt.score)
		assert.Equal(t, meterWidth, len([]rune(m)))
	}
}

func TestRenderOutcome(t *testing.T) {
	outcome := scan.Outcome{
		Score:      0.83,
		Percentage: 83,
		Verdict:    model.VerdictAI,
		Notice:     scan.NoticeMockAPIError,
		Cause:      errors.New("scorer API error (status 401): bad key"),
		Record:     model.ScanRecord{ID: 1718000000000, Label: "My essay", CreatedAt: "10:15:00 AM"},
	}

	out := RenderOutcome(outcome)
	assert.Contains(t, out, "API error: showing mock data")
	assert.Contains(t, out, "bad key")
	assert.Contains(t, out, "Likely AI-Generated")
	assert.Contains(t, out, "83%")
	assert.Contains(t, out, "My essay")
	assert.Contains(t, out, "#1718000000000")

	outcome.Notice = scan.NoticeRemote
	outcome.Cause = nil
	assert.NotContains(t, RenderOutcome(outcome), "mock data")
}

func TestRenderHistory(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "No scans yet")

	out := RenderHistory([]model.ScanRecord{
		{ID: 2, Label: "second", Score: 0.2, CreatedAt: "1:00:02 PM"},
		{ID: 1, Label: "first", Score: 0.55, CreatedAt: "1:00:01 PM"},
	})
	assert.Contains(t, out, "Likely Human-Written")
	assert.Contains(t, out, "Potentially Mixed")
	assert.Less(t, strings.Index(out, "second"), strings.Index(out, "first"))
}

func TestRenderPreferences(t *testing.T) {
	p := model.DefaultPreferences()
	assert.Contains(t, RenderPreferences(p), "mock mode")

	p.Credential = "sk-or-abcdef"
	out := RenderPreferences(p)
	assert.Contains(t, out, "cdef")
	assert.NotContains(t, out, "sk-or-abcdef")
	assert.Contains(t, out, model.DefaultModelID)
}

func TestRenderModels(t *testing.T) {
	free := []model.ModelDescriptor{{ID: "meta-llama/llama-3-8b-instruct:free", Name: "Llama 3 8B", Provider: "META-LLAMA", Free: true}}
	paid := []model.ModelDescriptor{{ID: model.DefaultModelID, Name: "Claude 3.5 Sonnet", Provider: "ANTHROPIC"}}

	out := RenderModels(free, paid, model.DefaultModelID)
	assert.Contains(t, out, "Free models (1)")
	assert.Contains(t, out, "Paid models (1)")
	assert.Contains(t, out, SuccessIcon+" ")
	assert.Less(t, strings.Index(out, "Llama"), strings.Index(out, "Claude"))

	assert.NotContains(t, RenderModels(nil, paid, ""), "Free models")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", Preview("a\n  b\tc"))
	long := strings.Repeat("x", 100)
	p := Preview(long)
	assert.Equal(t, previewWidth, len([]rune(p)))
	assert.True(t, strings.HasSuffix(p, "…"))
}

func TestApplyTheme(t *testing.T) {
	defer ApplyTheme(model.DefaultTheme)

	for _, theme := range model.Themes() {
		ApplyTheme(theme)
		assert.Equal(t, theme, CurrentTheme())
		assert.Contains(t, FormatSuccess("done"), "done")
	}

	ApplyTheme("neon")
	assert.Equal(t, model.DefaultTheme, CurrentTheme())
	assert.Equal(t, PaletteFor(model.DefaultTheme), PaletteFor("neon"))
}

func TestVerdictIcon(t *testing.T) {
	assert.Equal(t, RobotIcon, VerdictIcon(model.VerdictAI))
	assert.Equal(t, MixedIcon, VerdictIcon(model.VerdictMixed))
	assert.Equal(t, PersonIcon, VerdictIcon(model.VerdictHuman))
}
