package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/reflex/internal/results"
	"github.com/naveenspark/reflex/internal/share"
	"github.com/naveenspark/reflex/pkg/domain"
)

type statsLoadedMsg struct {
	solo []float64
	duo  []domain.DuoResult
	err  error
}

type statsClearedMsg struct {
	mode domain.Mode
	err  error
}

type statsCopyMsg struct{ err error }

type statsModel struct {
	store      *results.Store
	mode       domain.Mode
	solo       []float64
	duo        []domain.DuoResult
	loading    bool
	confirming bool
	status     string
	err        string
	now        func() time.Time
	width      int
	height     int
}

func newStatsModel(store *results.Store) statsModel {
	return statsModel{store: store, mode: domain.ModeSolo, now: time.Now}
}

func (m statsModel) Init() tea.Cmd {
	return m.load()
}

func (m statsModel) load() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		solo, err := store.LoadSolo(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		duo, err := store.LoadDuo(ctx)
		return statsLoadedMsg{solo: solo, duo: duo, err: err}
	}
}

func (m statsModel) clear(mode domain.Mode) tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return statsClearedMsg{mode: mode, err: store.Clear(context.Background(), mode)}
	}
}

func (m statsModel) Update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// A failed read shows as an empty log plus the notice.
			m.err = msg.err.Error()
			m.solo, m.duo = nil, nil
			return m, nil
		}
		m.err = ""
		m.solo = msg.solo
		m.duo = msg.duo

	case statsClearedMsg:
		if msg.err != nil {
			m.status = "clear failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.mode.String() + " results cleared"
		m.loading = true
		return m, m.load()

	case statsCopyMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = "copied!"
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" {
				return m, m.clear(m.mode)
			}
			m.status = ""
			return m, nil
		}
		switch msg.String() {
		case "tab", "left", "right", "h", "l":
			if m.mode == domain.ModeSolo {
				m.mode = domain.ModeDuo
			} else {
				m.mode = domain.ModeSolo
			}
			m.status = ""
		case "x":
			if m.count() > 0 {
				m.confirming = true
				m.status = fmt.Sprintf("clear all %s results? y/n", m.mode)
			}
		case "c":
			if m.count() == 0 {
				return m, nil
			}
			text := share.Average(m.mode, m.average())
			return m, func() tea.Msg {
				return statsCopyMsg{err: share.Copy(text)}
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

// times is the sample pool behind the current mode's average.
func (m statsModel) times() []float64 {
	if m.mode == domain.ModeSolo {
		return m.solo
	}
	out := make([]float64, 0, 2*len(m.duo))
	for _, d := range m.duo {
		t := d.Times()
		out = append(out, t[0], t[1])
	}
	return out
}

func (m statsModel) average() float64 { return results.Mean(m.times()) }

func (m statsModel) count() int {
	if m.mode == domain.ModeSolo {
		return len(m.solo)
	}
	return len(m.duo)
}

func (m statsModel) View() string {
	var sb strings.Builder

	var tabs []string
	for _, mode := range []domain.Mode{domain.ModeSolo, domain.ModeDuo} {
		label := dimStyle.Render(mode.String())
		if mode == m.mode {
			label = selectedStyle.Underline(true).Render(mode.String())
		}
		tabs = append(tabs, label)
	}
	sb.WriteString("\n" + centerLine(strings.Join(tabs, "    "), m.width) + "\n\n")

	if m.err != "" {
		sb.WriteString("  " + errorStyle.Render("error: "+m.err) + "\n")
		return sb.String()
	}
	if m.loading && m.count() == 0 {
		sb.WriteString("  " + dimStyle.Render("loading...") + "\n")
		return sb.String()
	}
	if m.count() == 0 {
		sb.WriteString("  " + dimStyle.Render("No results yet. Play a round to see your statistics.") + "\n")
		if m.status != "" {
			sb.WriteString("\n  " + metaStyle.Render(m.status) + "\n")
		}
		return sb.String()
	}

	sb.WriteString("  " + metaStyle.Render("Average reaction time  ") +
		goldStyle.Render(share.Seconds(m.average())+" sec.") + "\n")
	best := slices.Min(m.times())
	sb.WriteString("  " + metaStyle.Render("Best                   ") +
		accentStyle.Render(share.Seconds(best)+" sec.") + "\n\n")

	maxRows := m.height - 8
	if maxRows < 3 {
		maxRows = 10
	}
	now := m.now()
	if m.mode == domain.ModeSolo {
		for i, h := range results.SoloHistory(m.solo) {
			if i >= maxRows {
				break
			}
			fmt.Fprintf(&sb, "  %s  %s\n",
				metaStyle.Render(fmt.Sprintf("#%-4d", h.N)),
				normalStyle.Render(share.Seconds(h.Seconds)+" sec."))
		}
	} else {
		for i, h := range results.DuoHistory(m.duo) {
			if i >= maxRows {
				break
			}
			d := h.Duo
			line := fmt.Sprintf("  %s  %s %s  %s %s",
				metaStyle.Render(fmt.Sprintf("#%-4d", h.N)),
				dimStyle.Render(truncStr(d.Player1Name, 12)),
				normalStyle.Render(share.Seconds(d.ElapsedSeconds1)),
				dimStyle.Render(truncStr(d.Player2Name, 12)),
				normalStyle.Render(share.Seconds(d.ElapsedSeconds2)))
			if when := formatRecorded(d.RecordedAt(), now); when != "" {
				line += "  " + metaStyle.Render(when)
			}
			sb.WriteString(line + "\n")
		}
	}

	if m.status != "" {
		sb.WriteString("\n  " + metaStyle.Render(m.status) + "\n")
	}
	return sb.String()
}

func (m statsModel) helpLine() string {
	if m.confirming {
		return helpBar(helpEntry("y", "clear"), helpEntry("n", "keep"))
	}
	return helpBar(helpEntry("tab", "mode"), helpEntry("c", "copy average"), helpEntry("x", "clear"),
		helpEntry("esc", "home"), helpEntry("q", "quit"))
}
