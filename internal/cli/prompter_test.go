package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Label(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "typed title", input: "Cover letter\n", expected: "Cover letter"},
		{name: "surrounding whitespace", input: "   Essay draft  \n", expected: "Essay draft"},
		{name: "accept suggestion", input: "\n", expected: ""},
		{name: "closed input", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &output)

			label, err := p.Label(context.Background(), "Once upon a time there was a...")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
			assert.Contains(t, output.String(), "Give this scan a title (optional)")
			assert.Contains(t, output.String(), "[Once upon a time there was a...]")
		})
	}
}

func TestPrompter_LabelCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	p := NewCLIPrompter(pr, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Label(ctx, "suggestion...")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{input: "y\n", expected: true},
		{input: "YES\n", expected: true},
		{input: "n\n", expected: false},
		{input: "\n", expected: false},
		{input: "maybe\n", expected: false},
		{input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var output bytes.Buffer
			p := NewCLIPrompter(strings.NewReader(tt.input), &output)

			ok, err := p.Confirm(context.Background(), "Clear all history?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, output.String(), "Clear all history? [y/N]")
		})
	}
}

func TestPrompter_Ask(t *testing.T) {
	p := NewCLIPrompter(strings.NewReader("  sk-or-abc \n"), io.Discard)
	answer, err := p.Ask(context.Background(), "API key")
	require.NoError(t, err)
	assert.Equal(t, "sk-or-abc", answer)

	p = NewCLIPrompter(strings.NewReader(""), io.Discard)
	_, err = p.Ask(context.Background(), "API key")
	assert.Error(t, err)
}

func TestPrompter_Spinner(t *testing.T) {
	output := &syncBuffer{}
	p := NewCLIPrompter(strings.NewReader(""), output)

	stop := p.StartSpinner("Analyzing text...")
	time.Sleep(3 * spinnerInterval)
	stop()
	stop()

	assert.NotEmpty(t, output.String())
}
