package domain

import (
	"strings"
	"time"
)

// Positional names used when a duo player leaves their name blank.
const (
	DefaultPlayer1 = "Player 1"
	DefaultPlayer2 = "Player 2"
)

// DuoResult is one finished pair of duo turns. The JSON field names match the
// blobs written by earlier versions of the app.
type DuoResult struct {
	Player1Name     string  `json:"p1"`
	Player2Name     string  `json:"p2"`
	ElapsedSeconds1 float64 `json:"t1"`
	ElapsedSeconds2 float64 `json:"t2"`
	RecordedAtMs    int64   `json:"ts,omitempty"`
}

// RecordedAt returns the finalize time, or the zero time for legacy entries
// written without a timestamp.
func (r DuoResult) RecordedAt() time.Time {
	if r.RecordedAtMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.RecordedAtMs)
}

// Times returns both players' times in seat order.
func (r DuoResult) Times() [2]float64 {
	return [2]float64{r.ElapsedSeconds1, r.ElapsedSeconds2}
}

// PlayerName returns name trimmed, or the positional default for seat (1 or 2).
func PlayerName(name string, seat int) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if seat == 2 {
		return DefaultPlayer2
	}
	return DefaultPlayer1
}
