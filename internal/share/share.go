// Package share builds the plain-text summaries players send to friends and
// hands them to the system clipboard.
package share

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/naveenspark/reflex/pkg/domain"
)

// Seconds renders a time the way every result screen shows it: three
// decimals, no unit.
func Seconds(t float64) string {
	return fmt.Sprintf("%.3f", t)
}

// Solo is the share text for one solo run.
func Solo(elapsed float64) string {
	return fmt.Sprintf("My reaction: %s sec.", Seconds(elapsed))
}

// Duo is the share text for a finished duel.
func Duo(r domain.DuoResult) string {
	return fmt.Sprintf("Reaction duel:\n%s: %s sec\n%s: %s sec",
		domain.PlayerName(r.Player1Name, 1), Seconds(r.ElapsedSeconds1),
		domain.PlayerName(r.Player2Name, 2), Seconds(r.ElapsedSeconds2))
}

// Average is the share text for the statistics screen.
func Average(mode domain.Mode, avg float64) string {
	if mode == domain.ModeDuo {
		return fmt.Sprintf("Average reaction time (duo): %s sec.", Seconds(avg))
	}
	return fmt.Sprintf("Average reaction time: %s sec.", Seconds(avg))
}

// writeAll is swapped in tests; the real clipboard needs a display.
var writeAll = clipboard.WriteAll

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if text == "" {
		return nil
	}
	if clipboard.Unsupported {
		return fmt.Errorf("share.Copy: clipboard unsupported on this system")
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("share.Copy: %w", err)
	}
	return nil
}
