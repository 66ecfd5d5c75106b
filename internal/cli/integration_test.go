//go:build integration
// +build integration

package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/pym/internal/history"
	"github.com/Veraticus/pym/internal/scan"
	"github.com/Veraticus/pym/internal/scorer"
	"github.com/Veraticus/pym/internal/settings"
	"github.com/Veraticus/pym/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrompterWithOrchestrator runs a scan whose label comes from the
// terminal prompter.
func TestPrompterWithOrchestrator(t *testing.T) {
	store := testutil.SetupTestStore(t)
	hist := history.NewManager(store)
	require.NoError(t, hist.Load(context.Background()))

	orch := scan.New(scan.Config{
		Preferences:       settings.NewManager(store),
		History:           hist,
		Mock:              scorer.NewMockScorer(1, 0),
		NoCredentialDelay: 1,
	})

	var output bytes.Buffer
	prompter := NewCLIPrompter(strings.NewReader("Integration run\n"), &output)

	text := strings.Repeat("The committee reviewed the proposal carefully. ", 4)
	outcome, err := orch.Run(context.Background(), text, prompter)
	require.NoError(t, err)

	assert.Equal(t, "Integration run", outcome.Record.Label)
	assert.Equal(t, scan.NoticeMockNoCredential, outcome.Notice)
	assert.Contains(t, output.String(), "[The committee reviewed the pro...]")

	reloaded := history.NewManager(store)
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Equal(t, hist.List(), reloaded.List())

	assert.Contains(t, RenderOutcome(outcome), "Integration run")
}
