package scorer

import (
	"fmt"
	"strings"

	"github.com/Veraticus/pym/internal/service"
)

// Backend names accepted by NewRemote.
const (
	BackendChat       = "chat"
	BackendClassifier = "classifier"
)

// NewRemote creates a remote scorer for the named backend.
func NewRemote(backend string, cfg Config) (service.Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendChat, "":
		return NewChatScorer(cfg), nil
	case BackendClassifier:
		return NewClassifierScorer(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported scorer backend: %s", backend)
	}
}
