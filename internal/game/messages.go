package game

import (
	"github.com/google/uuid"

	"github.com/naveenspark/reflex/pkg/domain"
)

// countdownTickMsg advances the countdown by one step.
type countdownTickMsg struct {
	gen uint64
}

// readyDoneMsg ends the ready-word dwell and opens the timing window.
type readyDoneMsg struct {
	gen uint64
}

// SavedMsg reports the outcome of handing a finished run to the result log.
// Err is non-nil when the entry was dropped.
type SavedMsg struct {
	Session uuid.UUID
	Mode    domain.Mode
	Err     error
}
