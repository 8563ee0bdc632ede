package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/reflex/internal/game"
	"github.com/naveenspark/reflex/internal/results"
	"github.com/naveenspark/reflex/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewPlay
	viewStats
)

// headerHeight is the chrome above the body: logo and tab bar.
const headerHeight = 2

// profileLoadedMsg carries the saved player profile.
type profileLoadedMsg struct {
	profile domain.Profile
	err     error
}

// Options configures the sessions the app creates.
type Options struct {
	ArenaSize  float64
	TargetSize float64
	// StartMode opens the arena directly instead of the mode menu.
	StartMode domain.Mode
	// NewSession overrides how sessions are built. Tests use it to inject
	// clocks and timing.
	NewSession func(mode domain.Mode) *game.Session
}

// App is the root Bubbletea model.
type App struct {
	store    *results.Store
	opts     Options
	view     view
	home     homeModel
	play     playModel
	stats    statsModel
	profile  domain.Profile
	helpOpen bool
	width    int
	height   int
	frame    int
}

// NewApp creates a new TUI application backed by store.
func NewApp(store *results.Store, opts Options) App {
	if opts.ArenaSize <= 0 {
		opts.ArenaSize = game.DefaultArenaSize
	}
	if opts.TargetSize <= 0 {
		opts.TargetSize = game.DefaultTargetSize
	}
	return App{
		store: store,
		opts:  opts,
		view:  viewHome,
		home:  newHomeModel(store),
		stats: newStatsModel(store),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTickCmd(), a.loadProfile(), a.home.Init()}
	if a.opts.StartMode != domain.ModeUnset {
		mode := a.opts.StartMode
		cmds = append(cmds, func() tea.Msg { return choosePlayMsg{mode: mode} })
	}
	return tea.Batch(cmds...)
}

func (a App) loadProfile() tea.Cmd {
	store := a.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := store.LoadProfile(context.Background())
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (a App) newSession(mode domain.Mode) *game.Session {
	if a.opts.NewSession != nil {
		return a.opts.NewSession(mode)
	}
	var rec game.Recorder
	if a.store != nil {
		rec = a.store
	}
	return game.New(mode, game.Options{
		ArenaSize:  a.opts.ArenaSize,
		TargetSize: a.opts.TargetSize,
		Recorder:   rec,
	})
}

func (a App) bodyHeight() int {
	// Chrome: header + help line.
	return a.height - headerHeight - 1
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()}
		a.home, _ = a.home.Update(bodyMsg)
		a.play, _ = a.play.Update(bodyMsg)
		a.stats, _ = a.stats.Update(bodyMsg)
		return a, nil

	case frameTickMsg:
		a.frame++
		return a, frameTickCmd()

	case profileLoadedMsg:
		if msg.err == nil {
			a.profile = msg.profile
		}
		a.home, _ = a.home.Update(msg)
		return a, nil

	case choosePlayMsg:
		return a, a.openPlay(msg.mode)

	case leavePlayMsg:
		a.view = viewHome
		a.play = playModel{}
		return a, a.home.Init()

	case game.SavedMsg:
		var cmd tea.Cmd
		a.play, cmd = a.play.Update(msg)
		return a, tea.Batch(cmd, a.home.load())

	case tea.MouseMsg:
		if a.view != viewPlay || a.helpOpen {
			return a, nil
		}
		msg.Y -= headerHeight
		var cmd tea.Cmd
		a.play, cmd = a.play.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			case "1":
				return a, a.openPlay(domain.ModeSolo)
			case "2":
				return a, a.openPlay(domain.ModeDuo)
			case "t":
				if a.view != viewStats {
					a.leavePlay()
					a.view = viewStats
					a.stats.loading = true
					return a, a.stats.Init()
				}
				return a, nil
			case "esc":
				if a.view == viewStats {
					a.view = viewHome
					return a, a.home.Init()
				}
			}
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewPlay:
		a.play, cmd = a.play.Update(msg)
	case viewStats:
		a.stats, cmd = a.stats.Update(msg)
	}
	return a, cmd
}

// openPlay discards any running session and opens a fresh arena in mode.
func (a *App) openPlay(mode domain.Mode) tea.Cmd {
	if mode != domain.ModeSolo && mode != domain.ModeDuo {
		return nil
	}
	a.leavePlay()
	a.play = newPlayModel(a.newSession(mode), a.profile.SportOrDefault())
	a.play, _ = a.play.Update(tea.WindowSizeMsg{Width: a.width, Height: a.bodyHeight()})
	a.view = viewPlay
	return a.play.Init()
}

func (a *App) leavePlay() {
	if a.play.session != nil {
		a.play.session.Leave()
	}
}

func (a App) isEditing() bool {
	switch a.view {
	case viewPlay:
		return a.play.editing()
	case viewStats:
		return a.stats.confirming
	}
	return false
}

func (a App) View() string {
	header := centerLine(renderShimmerLogo(a.frame), a.width)

	type tabEntry struct {
		key  string
		name string
		on   bool
	}
	mode := domain.ModeUnset
	if a.view == viewPlay && a.play.session != nil {
		mode = a.play.session.Mode()
	}
	tabs := []tabEntry{
		{"1", "Solo", mode == domain.ModeSolo},
		{"2", "Duo", mode == domain.ModeDuo},
		{"t", "Stats", a.view == viewStats},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.on {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch {
	case a.helpOpen:
		body = helpView()
		help = helpBar(helpEntry("?", "close"), helpEntry("q", "quit"))
	case a.view == viewPlay:
		body = a.play.View()
		help = a.play.helpLine()
	case a.view == viewStats:
		body = a.stats.View()
		help = a.stats.helpLine()
	default:
		body = a.home.View()
		help = helpBar(helpEntry("j/k", "move"), helpEntry("enter", "play"), helpEntry("t", "stats"),
			helpEntry("?", "help"), helpEntry("q", "quit"))
	}

	body = truncateToHeight(body, a.bodyHeight())
	gap := a.bodyHeight() - strings.Count(body, "\n")
	if gap < 0 {
		gap = 0
	}

	return header + "\n" + tabBar.String() + "\n" + body + strings.Repeat("\n", gap) + help
}
