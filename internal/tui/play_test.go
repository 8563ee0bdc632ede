package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/reflex/internal/game"
	"github.com/naveenspark/reflex/internal/motion"
	"github.com/naveenspark/reflex/pkg/domain"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recorder struct {
	solo []float64
	duo  []domain.DuoResult
	err  error
}

func (r *recorder) AppendSolo(_ context.Context, v float64) error {
	if r.err != nil {
		return r.err
	}
	r.solo = append(r.solo, v)
	return nil
}

func (r *recorder) AppendDuo(_ context.Context, e domain.DuoResult) error {
	if r.err != nil {
		return r.err
	}
	r.duo = append(r.duo, e)
	return nil
}

func newTestSession(t *testing.T, mode domain.Mode, clk *fakeClock, rec game.Recorder) *game.Session {
	t.Helper()
	s := game.New(mode, game.Options{
		ArenaSize:  340,
		TargetSize: 32,
		Timing: game.Timing{
			CountdownFrom: 3,
			CountdownStep: time.Millisecond,
			ReadyDwell:    time.Millisecond,
		},
		Rand:     motion.NewRand(7),
		Now:      clk.Now,
		Recorder: rec,
	})
	t.Cleanup(s.Leave)
	return s
}

func newTestPlayModel(t *testing.T, mode domain.Mode, rec game.Recorder) (playModel, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := newPlayModel(newTestSession(t, mode, clk, rec), domain.Sports[domain.DefaultSport])
	m.width = 80
	m.height = 24
	return m, clk
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keySpace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

// runToMoving feeds the countdown and dwell messages back into the model
// until the target is moving.
func runToMoving(t *testing.T, m playModel, cmd tea.Cmd) playModel {
	t.Helper()
	for i := 0; i < 10; i++ {
		if _, ok := m.session.Phase().(game.Moving); ok {
			return m
		}
		if cmd == nil {
			t.Fatalf("no scheduled command in phase %s", m.session.Phase().Name())
		}
		m, cmd = m.Update(cmd())
	}
	t.Fatalf("never reached moving, phase %s", m.session.Phase().Name())
	return m
}

// steerToTarget walks the keyboard cursor onto the target with arrow keys.
func steerToTarget(t *testing.T, m playModel) playModel {
	t.Helper()
	for i := 0; i < arenaCols+arenaRows; i++ {
		if m.cursorOnTarget() {
			return m
		}
		col, row, ok := m.targetCell()
		if !ok {
			t.Fatal("target should be on screen while moving")
		}
		key := tea.KeyUp
		switch {
		case m.cursorCol < col:
			key = tea.KeyRight
		case m.cursorCol > col:
			key = tea.KeyLeft
		case m.cursorRow < row:
			key = tea.KeyDown
		}
		m, _ = m.Update(tea.KeyMsg{Type: key})
	}
	if !m.cursorOnTarget() {
		t.Fatal("cursor never reached the target")
	}
	return m
}

func pressN(m playModel, key tea.KeyType, n int) playModel {
	for i := 0; i < n; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: key})
	}
	return m
}

func TestPlaySoloKeyboardRun(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestPlayModel(t, domain.ModeSolo, rec)

	if !strings.Contains(m.View(), "press enter") {
		t.Errorf("idle view should prompt to start:\n%s", m.View())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "3") {
		t.Errorf("countdown should show 3:\n%s", m.View())
	}
	m = runToMoving(t, m, cmd)

	clk.Advance(1234 * time.Millisecond)
	m = steerToTarget(t, m)
	m, cmd = m.Update(keySpace())
	if cmd == nil {
		t.Fatal("touch while moving should return the save command")
	}
	m, _ = m.Update(cmd())

	view := m.View()
	if !strings.Contains(view, "Your result") || !strings.Contains(view, "1.234 sec.") {
		t.Errorf("result view missing time:\n%s", view)
	}
	if len(rec.solo) != 1 || rec.solo[0] != 1.234 {
		t.Errorf("recorded %v, want [1.234]", rec.solo)
	}
}

func TestPlayMovingDrawsTarget(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)

	glyph := domain.Sports[domain.DefaultSport].Glyph
	if !strings.Contains(m.View(), glyph) {
		t.Errorf("moving view should draw the target %q:\n%s", glyph, m.View())
	}
}

func TestPlayClickOnTargetCaptures(t *testing.T) {
	m, clk := newTestPlayModel(t, domain.ModeSolo, nil)
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)
	clk.Advance(300 * time.Millisecond)

	// A click in the far corner of the screen misses.
	m, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.session.Phase().(game.Moving); !ok {
		t.Fatalf("miss should not capture, phase %s", m.session.Phase().Name())
	}

	col, row, ok := m.targetCell()
	if !ok {
		t.Fatal("target should be on screen while moving")
	}
	x := m.arenaLeft() + 1 + col
	y := arenaTop + 1 + row

	// Releases and other buttons are ignored.
	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if _, ok := m.session.Phase().(game.Moving); !ok {
		t.Fatal("release should not capture")
	}

	m, _ = m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	got, ok := m.session.SoloElapsed()
	if !ok || got != 0.3 {
		t.Errorf("click capture = %v, %v; want 0.3, true", got, ok)
	}
}

func TestPlayTouchIgnoredBeforeMoving(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)
	m, _ = m.Update(keySpace())
	if _, ok := m.session.Phase().(game.Idle); !ok {
		t.Fatalf("space at idle changed phase to %s", m.session.Phase().Name())
	}

	m, _ = m.Update(keyRunes("s"))
	m, _ = m.Update(keySpace())
	if _, ok := m.session.Phase().(game.Countdown); !ok {
		t.Fatalf("space during countdown changed phase to %s", m.session.Phase().Name())
	}
}

func TestPlaySpaceOffTargetIsIgnored(t *testing.T) {
	m, clk := newTestPlayModel(t, domain.ModeSolo, nil)
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)
	clk.Advance(3 * time.Second)

	col, row, ok := m.targetCell()
	if !ok {
		t.Fatal("target should be on screen while moving")
	}
	// Park the cursor in the corner farthest from the target.
	if col >= arenaCols/2 {
		m = pressN(m, tea.KeyLeft, arenaCols)
	} else {
		m = pressN(m, tea.KeyRight, arenaCols)
	}
	if row >= arenaRows/2 {
		m = pressN(m, tea.KeyUp, arenaRows)
	} else {
		m = pressN(m, tea.KeyDown, arenaRows)
	}
	if m.cursorOnTarget() {
		t.Fatalf("cursor (%d,%d) should be away from target (%d,%d)", m.cursorCol, m.cursorRow, col, row)
	}

	m, cmd = m.Update(keySpace())
	if cmd != nil {
		t.Error("a miss should not schedule anything")
	}
	if _, ok := m.session.Phase().(game.Moving); !ok {
		t.Fatalf("space off target changed phase to %s", m.session.Phase().Name())
	}

	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())
	got, ok := m.session.SoloElapsed()
	if !ok || got != 3 {
		t.Errorf("capture after aiming = %v, %v; want 3, true", got, ok)
	}
}

func TestPlayCursorStaysInArena(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.cursorCol != arenaCols/2 || m.cursorRow != arenaRows/2 {
		t.Fatalf("cursor moved before the target did: (%d,%d)", m.cursorCol, m.cursorRow)
	}

	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)
	m = pressN(m, tea.KeyLeft, arenaCols+5)
	m = pressN(m, tea.KeyUp, arenaRows+5)
	if m.cursorCol != 0 || m.cursorRow != 0 {
		t.Errorf("cursor = (%d,%d), want (0,0)", m.cursorCol, m.cursorRow)
	}
	m, _ = m.Update(keyRunes("l"))
	m, _ = m.Update(keyRunes("j"))
	if m.cursorCol != 1 || m.cursorRow != 1 {
		t.Errorf("hjkl cursor = (%d,%d), want (1,1)", m.cursorCol, m.cursorRow)
	}
	if !strings.Contains(m.View(), "+") {
		t.Errorf("moving view should draw the cursor:\n%s", m.View())
	}

	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())
	if m.cursorCol != arenaCols/2 || m.cursorRow != arenaRows/2 {
		t.Errorf("cursor should re-center after the run, got (%d,%d)", m.cursorCol, m.cursorRow)
	}
}

func TestPlayDuoRun(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestPlayModel(t, domain.ModeDuo, rec)

	if !m.editing() {
		t.Fatal("duo should open on name entry")
	}
	m, _ = m.Update(keyRunes("Alex"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != 1 {
		t.Fatalf("enter on player 1 should move focus, focus=%d", m.focus)
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runToMoving(t, m, cmd)
	if !strings.Contains(m.View(), "Alex") {
		t.Errorf("player tag should name Alex:\n%s", m.View())
	}

	clk.Advance(800 * time.Millisecond)
	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())
	if !strings.Contains(m.View(), "Next player") {
		t.Errorf("turn done view should offer next player:\n%s", m.View())
	}

	m, cmd = m.Update(keyRunes("n"))
	m = runToMoving(t, m, cmd)
	if !strings.Contains(m.View(), domain.DefaultPlayer2) {
		t.Errorf("player tag should fall back to %q:\n%s", domain.DefaultPlayer2, m.View())
	}
	clk.Advance(950 * time.Millisecond)
	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())

	m, cmd = m.Update(keyRunes("r"))
	if cmd == nil {
		t.Fatal("showing the result should save the pair")
	}
	m, _ = m.Update(cmd())

	if len(rec.duo) != 1 {
		t.Fatalf("recorded %d duo entries, want 1", len(rec.duo))
	}
	e := rec.duo[0]
	if e.Player1Name != "Alex" || e.Player2Name != domain.DefaultPlayer2 || e.ElapsedSeconds1 != 0.8 || e.ElapsedSeconds2 != 0.95 {
		t.Errorf("recorded %+v", e)
	}
	view := m.View()
	for _, want := range []string{"Result", "0.800 sec.", "0.950 sec."} {
		if !strings.Contains(view, want) {
			t.Errorf("final view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(keyRunes("a"))
	if !m.editing() {
		t.Fatal("play again should return to name entry")
	}
	if m.inputs[0].Value() != "Alex" {
		t.Errorf("names should survive play again, got %q", m.inputs[0].Value())
	}
}

func TestPlayEnterAdvancesEachPhase(t *testing.T) {
	m, clk := newTestPlayModel(t, domain.ModeDuo, nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runToMoving(t, m, cmd)
	clk.Advance(time.Second)
	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = runToMoving(t, m, cmd)
	if m.session.CurrentPlayer() != 2 {
		t.Fatalf("enter after turn 1 should hand over to player 2")
	}
	clk.Advance(time.Second)
	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.session.Phase().(game.Final); !ok {
		t.Fatalf("enter after turn 2 should show the result, phase %s", m.session.Phase().Name())
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := m.session.Phase().(game.NameEntry); !ok {
		t.Fatalf("enter on the result should play again, phase %s", m.session.Phase().Name())
	}
}

func TestPlayEscLeaves(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a leave command")
	}
	if _, ok := cmd().(leavePlayMsg); !ok {
		t.Error("esc should emit leavePlayMsg")
	}
	if !m.session.Left() {
		t.Error("session should be discarded")
	}
	if _, ok := m.session.TargetOffset(); ok {
		t.Error("no target should show after leaving")
	}
}

func TestPlayEscDuringNameEntryLeaves(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeDuo, nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !m.session.Left() {
		t.Fatal("esc at name entry should leave")
	}
}

func TestPlaySaveFailureNotice(t *testing.T) {
	m, clk := newTestPlayModel(t, domain.ModeSolo, &recorder{err: errors.New("disk full")})
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)
	clk.Advance(time.Second)
	m = steerToTarget(t, m)
	m, cmd = m.Update(keySpace())
	m, _ = m.Update(cmd())

	view := m.View()
	if !strings.Contains(view, "result not saved") || !strings.Contains(view, "1.000 sec.") {
		t.Errorf("save failure should show a notice next to the result:\n%s", view)
	}
}

func TestPlayCopyStatus(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)

	if _, cmd := m.Update(keyRunes("c")); cmd != nil {
		t.Error("copy before a result should do nothing")
	}

	m, _ = m.Update(playCopyMsg{err: errors.New("no display")})
	if !strings.Contains(m.View(), "copy failed: no display") {
		t.Errorf("copy failure not shown:\n%s", m.View())
	}
	m, _ = m.Update(playCopyMsg{})
	if !strings.Contains(m.View(), "copied to clipboard") {
		t.Errorf("copy success not shown:\n%s", m.View())
	}
}

func TestPlayHelpLineFollowsPhase(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)
	if !strings.Contains(m.helpLine(), "start") {
		t.Errorf("idle help = %q", m.helpLine())
	}
	m, cmd := m.Update(keyRunes("s"))
	m = runToMoving(t, m, cmd)
	if !strings.Contains(m.helpLine(), "touch") {
		t.Errorf("moving help = %q", m.helpLine())
	}
	m = steerToTarget(t, m)
	m, _ = m.Update(keySpace())
	if !strings.Contains(m.helpLine(), "play again") {
		t.Errorf("result help = %q", m.helpLine())
	}
}

func TestPlayHitRadius(t *testing.T) {
	m, _ := newTestPlayModel(t, domain.ModeSolo, nil)
	cols, rows := m.hitRadius()
	if cols != 1 || rows != 1 {
		t.Errorf("hitRadius() = %d, %d; want 1, 1", cols, rows)
	}
}
