package tui

import (
	"github.com/Veraticus/pym/internal/model"
	"github.com/Veraticus/pym/internal/scan"
)

// Data loading messages.
type historyLoadedMsg struct {
	records []model.ScanRecord
}

// Scan lifecycle messages.
type scanDoneMsg struct {
	err     error
	outcome scan.Outcome
}

// labelRequestMsg arrives when a running scan asks for its label. The
// answer is sent on reply.
type labelRequestMsg struct {
	reply      chan<- string
	suggestion string
}

// revealTickMsg advances the verdict reveal. seq ties a tick to one reveal
// so ticks from an earlier result are ignored.
type revealTickMsg struct {
	seq int
}

// History mutation results.
type historyChangedMsg struct {
	err    error
	notice string
}

type themeChangedMsg struct {
	err   error
	theme model.Theme
}
