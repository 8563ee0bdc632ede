package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/reflex/internal/results"
	"github.com/naveenspark/reflex/pkg/domain"
)

type homeAveragesMsg struct {
	solo, duo float64
	err       error
}

// choosePlayMsg asks the app to open the arena in the given mode.
type choosePlayMsg struct {
	mode domain.Mode
}

var homeModes = []struct {
	mode  domain.Mode
	title string
	desc  string
}{
	{domain.ModeSolo, "Solo", "One player, one touch, one time"},
	{domain.ModeDuo, "Duo", "Two players take turns on the same arena"},
}

type homeModel struct {
	store   *results.Store
	cursor  int
	profile domain.Profile
	soloAvg float64
	duoAvg  float64
	err     string
	width   int
	height  int
}

func newHomeModel(store *results.Store) homeModel {
	return homeModel{store: store}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		solo, err := store.Average(ctx, domain.ModeSolo)
		if err != nil {
			return homeAveragesMsg{err: err}
		}
		duo, err := store.Average(ctx, domain.ModeDuo)
		return homeAveragesMsg{solo: solo, duo: duo, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case homeAveragesMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			m.soloAvg, m.duoAvg = 0, 0
			return m, nil
		}
		m.err = ""
		m.soloAvg = msg.solo
		m.duoAvg = msg.duo

	case profileLoadedMsg:
		if msg.err == nil {
			m.profile = msg.profile
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(homeModes)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", "s":
			mode := homeModes[m.cursor].mode
			return m, func() tea.Msg { return choosePlayMsg{mode: mode} }
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	var sb strings.Builder

	sport := m.profile.SportOrDefault()
	glyph := sportStyle(sport).Render(sport.Glyph)
	greeting := "Choose a mode"
	if name := strings.TrimSpace(m.profile.Name); name != "" {
		greeting = fmt.Sprintf("Hi %s, choose a mode", truncStr(name, 20))
	}
	sb.WriteString("\n" + centerLine(glyph+" "+normalStyle.Render(greeting), m.width) + "\n\n")

	for i, opt := range homeModes {
		prefix := "   "
		title := dimStyle.Render(fmt.Sprintf("%-6s", opt.title))
		if i == m.cursor {
			prefix = " " + accentStyle.Render(">") + " "
			title = selectedStyle.Render(fmt.Sprintf("%-6s", opt.title))
		}
		line := prefix + title + "  " + metaStyle.Render(opt.desc)
		sb.WriteString("  " + line + "\n")
	}

	sb.WriteString("\n")
	if m.err != "" {
		sb.WriteString("  " + errorStyle.Render("stats unavailable: "+m.err) + "\n")
	} else {
		sb.WriteString("  " + metaStyle.Render("solo avg ") + averageLabel(m.soloAvg) +
			metaStyle.Render("   duo avg ") + averageLabel(m.duoAvg) + "\n")
	}
	return sb.String()
}

// averageLabel renders an average, or a dash before any results exist.
func averageLabel(avg float64) string {
	if avg == 0 {
		return dimStyle.Render("-")
	}
	return goldStyle.Render(fmt.Sprintf("%.3f", avg))
}
