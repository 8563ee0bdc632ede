package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/reflex/pkg/domain"
)

// frameInterval drives both the logo shimmer and the moving target redraw.
const frameInterval = 40 * time.Millisecond

type frameTickMsg time.Time

func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// renderShimmerLogo renders "REFLEX" as a flowing wave of yellow light.
// Deep amber (#5a4a0a) -> signal yellow (#FFE651).
func renderShimmerLogo(frame int) string {
	const text = "REFLEX"
	n := len(text)

	var out string

	// The frame ticks twice as fast as a plain shimmer would.
	t := float64(frame) / 2

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(90 + b*(255-90))
		g := clampByte(74 + b*(230-74))
		bl := clampByte(10 + b*(81-10))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE651")).
			Bold(true)

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4A017"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	// Countdown digits and the ready word.
	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE651")).
			Bold(true)

	// Result pill: black on yellow.
	pillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFE651")).
			Bold(true).
			Padding(0, 2)

	arenaBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3a3f4b"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFE651"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868"))
)

// helpEntry renders a single "key label" pair for the help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins entries with the standard gap.
func helpBar(entries ...string) string {
	return "  " + strings.Join(entries, "  ")
}

// sportStyle colors a sport's glyph.
func sportStyle(s domain.Sport) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Bold(true)
}

func helpView() string {
	title := accentStyle.Render("R E F L E X")

	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Catch the ball before it gets away."`)

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"reflex", "Play (interactive TUI)"},
		{"reflex stats [mode]", "Print averages and history"},
		{"reflex clear <mode>", "Erase one mode's results"},
		{"reflex version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1 / 2", "Solo / duo"},
		{"enter", "Start, next player, result, play again"},
		{"arrows / hjkl", "Aim the cursor"},
		{"space", "Touch the target under the cursor"},
		{"click", "Touch the target"},
		{"c", "Copy the result"},
		{"t", "Statistics"},
		{"esc", "Leave the arena"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, quote)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
