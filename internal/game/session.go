package game

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/reflex/internal/motion"
	"github.com/naveenspark/reflex/internal/share"
	"github.com/naveenspark/reflex/pkg/domain"
)

// Recorder receives finished runs. *results.Store satisfies it.
type Recorder interface {
	AppendSolo(ctx context.Context, elapsedSeconds float64) error
	AppendDuo(ctx context.Context, entry domain.DuoResult) error
}

// Timing holds the fixed intervals of the pre-motion phases.
type Timing struct {
	CountdownFrom int
	CountdownStep time.Duration
	ReadyDwell    time.Duration
}

// DefaultTiming is 3-2-1 at 700ms a step, then two seconds of "go".
func DefaultTiming() Timing {
	return Timing{
		CountdownFrom: 3,
		CountdownStep: 700 * time.Millisecond,
		ReadyDwell:    2000 * time.Millisecond,
	}
}

// Options configures a new Session. Zero values fall back to defaults.
type Options struct {
	ArenaSize  float64
	TargetSize float64
	Timing     Timing
	Motion     motion.Config
	Rand       *rand.Rand
	Now        func() time.Time
	Recorder   Recorder
}

// Default arena geometry, in arena units.
const (
	DefaultArenaSize  = 340
	DefaultTargetSize = 32
)

type turn struct {
	elapsed float64
	done    bool
}

// Session is one live game. It is driven from a single goroutine (the Bubble
// Tea update loop): UI events arrive as method calls, timers as messages
// passed to Update. It is never persisted.
//
// The owner must call Leave when done with a session. A moving target holds
// a running segment iterator that only Leave releases.
type Session struct {
	id     uuid.UUID
	mode   domain.Mode
	phase  Phase
	arena  float64
	target float64
	timing Timing
	now    func() time.Time
	rec    Recorder
	motion *motion.Generator

	// gen is bumped on every phase change; scheduled messages carrying an
	// older value are dropped.
	gen uint64

	seat    int
	names   [2]string
	turns   [2]turn
	saveErr error
	left    bool
}

// New starts a session in mode. Solo begins idle, duo begins at name entry.
func New(mode domain.Mode, opts Options) *Session {
	if opts.ArenaSize <= 0 {
		opts.ArenaSize = DefaultArenaSize
	}
	if opts.TargetSize <= 0 {
		opts.TargetSize = DefaultTargetSize
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Motion == (motion.Config{}) {
		opts.Motion = motion.DefaultConfig()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		seed, err := motion.NewSeed()
		if err != nil {
			seed = uint64(time.Now().UnixNano())
		}
		opts.Rand = motion.NewRand(seed)
	}

	s := &Session{
		id:     uuid.New(),
		mode:   mode,
		arena:  opts.ArenaSize,
		target: opts.TargetSize,
		timing: opts.Timing,
		now:    opts.Now,
		rec:    opts.Recorder,
		motion: motion.NewGenerator(opts.Motion, opts.Rand, opts.Now),
		seat:   1,
	}
	if mode == domain.ModeDuo {
		s.phase = NameEntry{}
	} else {
		s.mode = domain.ModeSolo
		s.phase = Idle{}
	}
	s.logf("open arena=%.0f", s.arena)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// Mode is solo or duo.
func (s *Session) Mode() domain.Mode { return s.mode }

// Phase is the active phase.
func (s *Session) Phase() Phase { return s.phase }

// ArenaSize is the side of the square play area.
func (s *Session) ArenaSize() float64 { return s.arena }

// TargetSize is the side of the target.
func (s *Session) TargetSize() float64 { return s.target }

// HalfTravel is how far the target may move from center on each axis.
func (s *Session) HalfTravel() float64 { return s.motion.HalfTravel() }

// Count is the countdown number on screen, or 0 outside the countdown.
func (s *Session) Count() int {
	if c, ok := s.phase.(Countdown); ok {
		return c.Remaining
	}
	return 0
}

// TargetOffset is the target's displacement from the arena center. ok is
// true only while moving.
func (s *Session) TargetOffset() (motion.Offset, bool) {
	if _, ok := s.phase.(Moving); !ok {
		return motion.Offset{}, false
	}
	return s.motion.Position()
}

// StartedAt is the open timing window's start. ok is false when no window is
// open.
func (s *Session) StartedAt() (time.Time, bool) {
	if m, ok := s.phase.(Moving); ok {
		return m.StartedAt, true
	}
	return time.Time{}, false
}

// SoloElapsed is the solo result. ok is false outside the result phase.
func (s *Session) SoloElapsed() (float64, bool) {
	if r, ok := s.phase.(Result); ok {
		return r.ElapsedSeconds, true
	}
	return 0, false
}

// Turn returns the recorded time for seat 1 or 2. ok is false until that
// player has touched the target.
func (s *Session) Turn(seat int) (float64, bool) {
	if seat != 1 && seat != 2 {
		return 0, false
	}
	t := s.turns[seat-1]
	return t.elapsed, t.done
}

// CurrentPlayer is the duo seat (1 or 2) whose turn it is.
func (s *Session) CurrentPlayer() int { return s.seat }

// PlayerName is the display name for seat, defaulted when blank.
func (s *Session) PlayerName(seat int) string {
	if seat != 1 && seat != 2 {
		return ""
	}
	return domain.PlayerName(s.names[seat-1], seat)
}

// SetName stores the raw text typed for seat. Only accepted at name entry;
// blank names are defaulted when the duo result is finalized.
func (s *Session) SetName(seat int, name string) {
	if _, ok := s.phase.(NameEntry); !ok || s.left {
		return
	}
	if seat == 1 || seat == 2 {
		s.names[seat-1] = name
	}
}

// LastSaveErr is the error from the most recent failed result append, for a
// non-blocking notice. It is cleared by PlayAgain.
func (s *Session) LastSaveErr() error { return s.saveErr }

// Left reports whether Leave has been called.
func (s *Session) Left() bool { return s.left }

// Summary is the plain-text share message for the finished run, or "" when
// nothing is finished yet.
func (s *Session) Summary() string {
	switch p := s.phase.(type) {
	case Result:
		return share.Solo(p.ElapsedSeconds)
	case Final:
		return share.Duo(p.Entry)
	}
	return ""
}

// Start begins the countdown from idle (solo) or name entry (duo).
func (s *Session) Start() tea.Cmd {
	if s.left {
		return nil
	}
	switch s.phase.(type) {
	case Idle:
		if s.mode != domain.ModeSolo {
			return nil
		}
	case NameEntry:
		if s.mode != domain.ModeDuo {
			return nil
		}
		s.seat = 1
		s.turns = [2]turn{}
	default:
		return nil
	}
	return s.beginCountdown("start")
}

// NextPlayer hands the arena to player 2 after player 1's turn.
func (s *Session) NextPlayer() tea.Cmd {
	if s.left || s.mode != domain.ModeDuo {
		return nil
	}
	td, ok := s.phase.(TurnDone)
	if !ok || td.Seat != 1 {
		return nil
	}
	s.seat = 2
	return s.beginCountdown("nextPlayer")
}

// TouchTarget captures the reaction time. It does nothing unless the session
// is moving.
func (s *Session) TouchTarget() tea.Cmd {
	if s.left {
		return nil
	}
	m, ok := s.phase.(Moving)
	if !ok {
		return nil
	}
	elapsed := s.now().Sub(m.StartedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	s.motion.Stop()

	if s.mode == domain.ModeSolo {
		s.enter(Result{ElapsedSeconds: elapsed})
		s.logf("touch elapsed=%.3f", elapsed)
		return s.saveSolo(elapsed)
	}

	s.turns[s.seat-1] = turn{elapsed: elapsed, done: true}
	s.enter(TurnDone{Seat: s.seat})
	s.logf("touch seat=%d elapsed=%.3f", s.seat, elapsed)
	return nil
}

// ShowResult finalizes a duo session after both turns and appends the pair to
// the result log.
func (s *Session) ShowResult() tea.Cmd {
	if s.left || s.mode != domain.ModeDuo {
		return nil
	}
	td, ok := s.phase.(TurnDone)
	if !ok || td.Seat != 2 || !s.turns[0].done || !s.turns[1].done {
		return nil
	}
	entry := domain.DuoResult{
		Player1Name:     s.PlayerName(1),
		Player2Name:     s.PlayerName(2),
		ElapsedSeconds1: s.turns[0].elapsed,
		ElapsedSeconds2: s.turns[1].elapsed,
		RecordedAtMs:    s.now().UnixMilli(),
	}
	s.enter(Final{Entry: entry})
	return s.saveDuo(entry)
}

// PlayAgain returns a finished session to its initial phase. The result log
// is not touched.
func (s *Session) PlayAgain() tea.Cmd {
	if s.left {
		return nil
	}
	switch s.phase.(type) {
	case Result:
		s.enter(Idle{})
	case Final:
		s.turns = [2]turn{}
		s.seat = 1
		s.enter(NameEntry{})
	default:
		return nil
	}
	s.saveErr = nil
	return nil
}

// Leave discards the session: pending timers are cancelled, motion stops and
// nothing partial is persisted. Every later event is ignored.
func (s *Session) Leave() {
	if s.left {
		return
	}
	s.cancelPending()
	s.left = true
	s.logf("leave")
}

// Update handles the session's scheduled messages. Messages from a
// superseded phase are dropped.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	if s.left {
		return nil
	}
	switch msg := msg.(type) {
	case countdownTickMsg:
		c, ok := s.phase.(Countdown)
		if !ok || msg.gen != s.gen {
			return nil
		}
		if c.Remaining > 1 {
			s.enter(Countdown{Remaining: c.Remaining - 1})
			return s.after(s.timing.CountdownStep, func(gen uint64) tea.Msg { return countdownTickMsg{gen: gen} })
		}
		s.enter(ReadyWord{})
		return s.after(s.timing.ReadyDwell, func(gen uint64) tea.Msg { return readyDoneMsg{gen: gen} })

	case readyDoneMsg:
		if _, ok := s.phase.(ReadyWord); !ok || msg.gen != s.gen {
			return nil
		}
		s.enter(Moving{StartedAt: s.now()})
		return s.motion.Start(s.arena, s.target)

	case motion.StepMsg:
		if _, ok := s.phase.(Moving); !ok {
			return nil
		}
		return s.motion.Update(msg)

	case SavedMsg:
		if msg.Session != s.id {
			return nil
		}
		if msg.Err != nil {
			s.saveErr = msg.Err
			s.logf("save %s failed: %v", msg.Mode, msg.Err)
		}
	}
	return nil
}

// beginCountdown opens a new run. Anything still in flight is cancelled first
// so two timing windows can never overlap.
func (s *Session) beginCountdown(event string) tea.Cmd {
	s.cancelPending()
	from := s.timing.CountdownFrom
	if from < 1 {
		from = 1
	}
	s.enter(Countdown{Remaining: from})
	s.logf("%s seat=%d", event, s.seat)
	return s.after(s.timing.CountdownStep, func(gen uint64) tea.Msg { return countdownTickMsg{gen: gen} })
}

// enter switches phase and invalidates every message scheduled before.
func (s *Session) enter(p Phase) {
	s.gen++
	if _, moving := p.(Moving); !moving {
		s.motion.Stop()
	}
	s.phase = p
}

func (s *Session) cancelPending() {
	s.gen++
	s.motion.Stop()
}

func (s *Session) after(d time.Duration, msg func(gen uint64) tea.Msg) tea.Cmd {
	gen := s.gen
	return tea.Tick(d, func(time.Time) tea.Msg { return msg(gen) })
}

func (s *Session) saveSolo(elapsed float64) tea.Cmd {
	if s.rec == nil {
		return nil
	}
	rec, id := s.rec, s.id
	return func() tea.Msg {
		err := rec.AppendSolo(context.Background(), elapsed)
		return SavedMsg{Session: id, Mode: domain.ModeSolo, Err: err}
	}
}

func (s *Session) saveDuo(entry domain.DuoResult) tea.Cmd {
	if s.rec == nil {
		return nil
	}
	rec, id := s.rec, s.id
	return func() tea.Msg {
		err := rec.AppendDuo(context.Background(), entry)
		return SavedMsg{Session: id, Mode: domain.ModeDuo, Err: err}
	}
}

func (s *Session) logf(format string, args ...any) {
	log.Printf("session=%s mode=%s phase=%s "+format,
		append([]any{s.id, s.mode, phaseName(s.phase)}, args...)...)
}

func phaseName(p Phase) string {
	if p == nil {
		return "none"
	}
	return p.Name()
}
