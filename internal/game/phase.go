// Package game is the reaction-game engine: the solo and duo phase machines,
// the timing capture and the hand-off of finished runs to the result log.
package game

import (
	"time"

	"github.com/naveenspark/reflex/pkg/domain"
)

// Phase is the current step of a session. Exactly one concrete phase is
// active at a time; which ones are reachable depends on the session's mode.
type Phase interface {
	Name() string
	phase()
}

// Idle waits for the solo player to press start.
type Idle struct{}

// NameEntry waits for the duo players to type names and press start.
type NameEntry struct{}

// Countdown shows Remaining (3, 2, 1) before the ready word.
type Countdown struct {
	Remaining int
}

// ReadyWord is the "go" dwell between the countdown and the motion.
type ReadyWord struct{}

// Moving is the open timing window. The target moves and a touch stops the
// clock that started at StartedAt.
type Moving struct {
	StartedAt time.Time
}

// Result shows the solo time.
type Result struct {
	ElapsedSeconds float64
}

// TurnDone follows a duo player's touch. Seat is the player who just went.
type TurnDone struct {
	Seat int
}

// Final shows both duo times. Entry is what was handed to the result log.
type Final struct {
	Entry domain.DuoResult
}

func (Idle) Name() string      { return "idle" }
func (NameEntry) Name() string { return "nameEntry" }
func (Countdown) Name() string { return "countdown" }
func (ReadyWord) Name() string { return "readyWord" }
func (Moving) Name() string    { return "moving" }
func (Result) Name() string    { return "result" }
func (TurnDone) Name() string  { return "turnDone" }
func (Final) Name() string     { return "final" }

func (Idle) phase()      {}
func (NameEntry) phase() {}
func (Countdown) phase() {}
func (ReadyWord) phase() {}
func (Moving) phase()    {}
func (Result) phase()    {}
func (TurnDone) phase()  {}
func (Final) phase()     {}
