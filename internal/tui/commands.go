package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/service"
)

// scanSession connects one running scan with the UI's label prompt.
type scanSession struct {
	requests chan labelRequestMsg
	done     chan struct{}
}

func newScanSession() *scanSession {
	return &scanSession{
		requests: make(chan labelRequestMsg),
		done:     make(chan struct{}),
	}
}

// labeler returns a labeler that hands the request to the UI and waits for
// the user's answer.
func (s *scanSession) labeler() service.Labeler {
	return service.LabelerFunc(func(ctx context.Context, suggestion string) (string, error) {
		reply := make(chan string, 1)
		select {
		case s.requests <- labelRequestMsg{suggestion: suggestion, reply: reply}:
		case <-ctx.Done():
			return "", ctx.Err()
		}

		select {
		case answer := <-reply:
			return answer, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
}

// waitForLabelRequest delivers the scan's label request, or nothing once the
// scan has finished.
func (s *scanSession) waitForLabelRequest() tea.Cmd {
	return func() tea.Msg {
		select {
		case req := <-s.requests:
			return req
		case <-s.done:
			return nil
		}
	}
}

// runScan runs a scan in the background.
func (m Model) runScan(session *scanSession, text string) tea.Cmd {
	scanner := m.config.Scanner
	ctx := m.ctx
	return func() tea.Msg {
		defer close(session.done)
		outcome, err := scanner.Run(ctx, text, session.labeler())
		return scanDoneMsg{outcome: outcome, err: err}
	}
}

// loadHistory reads the current history.
func (m Model) loadHistory() tea.Cmd {
	history := m.config.History
	return func() tea.Msg {
		if history == nil {
			return historyLoadedMsg{}
		}
		return historyLoadedMsg{records: history.List()}
	}
}

func (m Model) renameRecord(id int64, label string) tea.Cmd {
	history := m.config.History
	ctx := m.ctx
	return func() tea.Msg {
		ok, err := history.Rename(ctx, id, label)
		if err != nil {
			return historyChangedMsg{err: fmt.Errorf("rename failed: %w", err)}
		}
		if !ok {
			return historyChangedMsg{notice: "Name unchanged"}
		}
		return historyChangedMsg{notice: "Renamed scan"}
	}
}

func (m Model) deleteRecord(id int64) tea.Cmd {
	history := m.config.History
	ctx := m.ctx
	return func() tea.Msg {
		if _, err := history.Delete(ctx, id); err != nil {
			return historyChangedMsg{err: fmt.Errorf("delete failed: %w", err)}
		}
		return historyChangedMsg{notice: "Deleted scan"}
	}
}

func (m Model) clearHistory() tea.Cmd {
	history := m.config.History
	ctx := m.ctx
	return func() tea.Msg {
		if err := history.Clear(ctx); err != nil {
			return historyChangedMsg{err: fmt.Errorf("clear failed: %w", err)}
		}
		return historyChangedMsg{notice: "History cleared"}
	}
}

func (m Model) saveTheme(theme model.Theme) tea.Cmd {
	store := m.config.Themes
	ctx := m.ctx
	return func() tea.Msg {
		if store == nil {
			return themeChangedMsg{theme: theme}
		}
		saved, err := store.SetTheme(ctx, string(theme))
		if err != nil {
			return themeChangedMsg{theme: theme, err: err}
		}
		return themeChangedMsg{theme: saved}
	}
}

func revealTick(seq int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return revealTickMsg{seq: seq}
	})
}
