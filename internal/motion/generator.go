package motion

import (
	"iter"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StepMsg fires when the current hop and its pause are over. Gen ties it to
// the run that scheduled it; messages from a stopped run are ignored.
type StepMsg struct {
	Gen uint64
}

// Generator drives the target while the game is in its moving phase. It is
// owned by a single session and used only from the Bubble Tea update loop.
type Generator struct {
	cfg Config
	rng *rand.Rand
	now func() time.Time

	gen      uint64
	running  bool
	half     float64
	next     func() (Segment, bool)
	stopPull func()

	from     Offset
	seg      Segment
	segStart time.Time
	hops     int
}

// NewGenerator returns an idle generator drawing from rng. now is the clock
// used for interpolation; nil means time.Now.
func NewGenerator(cfg Config, rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{cfg: cfg, rng: rng, now: now}
}

// Start begins a fresh run from the arena center. A run already in progress
// is stopped first. The returned command delivers the first StepMsg.
func (g *Generator) Start(arenaSize, targetSize float64) tea.Cmd {
	g.Stop()
	g.gen++
	g.running = true
	g.half = HalfTravel(arenaSize, targetSize, g.cfg.Margin)
	g.next, g.stopPull = iter.Pull(Segments(g.rng, g.half, g.cfg))
	g.from = Offset{}
	g.hops = 0
	return g.advance()
}

// Stop cancels the in-flight hop and any pending pause. It is safe to call
// repeatedly and on an idle generator.
func (g *Generator) Stop() {
	if !g.running {
		return
	}
	g.running = false
	g.gen++
	if g.stopPull != nil {
		g.stopPull()
		g.stopPull = nil
		g.next = nil
	}
}

// Running reports whether a run is active.
func (g *Generator) Running() bool { return g.running }

// Generation identifies the current run; StepMsg values carry it.
func (g *Generator) Generation() uint64 { return g.gen }

// Hops is the number of segments issued in the current run.
func (g *Generator) Hops() int { return g.hops }

// HalfTravel is the per-axis bound of the current run.
func (g *Generator) HalfTravel() float64 { return g.half }

// Update handles StepMsg for the current run and ignores everything else.
func (g *Generator) Update(msg tea.Msg) tea.Cmd {
	step, ok := msg.(StepMsg)
	if !ok || !g.running || step.Gen != g.gen {
		return nil
	}
	g.from = g.seg.To
	return g.advance()
}

// Position is the target's current offset. ok is false while stopped.
func (g *Generator) Position() (Offset, bool) {
	if !g.running {
		return Offset{}, false
	}
	elapsed := g.now().Sub(g.segStart)
	if g.seg.Duration <= 0 || elapsed >= g.seg.Duration {
		return clamp(g.seg.To, g.half), true
	}
	p := float64(elapsed) / float64(g.seg.Duration)
	if p < 0 {
		p = 0
	}
	e := easeInOutQuad(p)
	pos := Offset{
		X: g.from.X + (g.seg.To.X-g.from.X)*e,
		Y: g.from.Y + (g.seg.To.Y-g.from.Y)*e,
	}
	return clamp(pos, g.half), true
}

func (g *Generator) advance() tea.Cmd {
	seg, ok := g.next()
	if !ok {
		g.running = false
		return nil
	}
	g.seg = seg
	g.segStart = g.now()
	g.hops++
	gen := g.gen
	return tea.Tick(seg.Duration+seg.Pause, func(time.Time) tea.Msg {
		return StepMsg{Gen: gen}
	})
}

func clamp(o Offset, half float64) Offset {
	return Offset{X: clamp1(o.X, half), Y: clamp1(o.Y, half)}
}

func clamp1(v, half float64) float64 {
	if v > half {
		return half
	}
	if v < -half {
		return -half
	}
	return v
}
