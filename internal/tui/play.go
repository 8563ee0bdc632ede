package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/reflex/internal/game"
	"github.com/naveenspark/reflex/internal/share"
	"github.com/naveenspark/reflex/pkg/domain"
)

// Arena grid in terminal cells. Cells are about twice as tall as they are
// wide, so twice the columns gives a square-looking arena.
const (
	arenaCols = 31
	arenaRows = 15
)

// arenaTop is the body line holding the arena's top border. The first grid
// row sits one line below it.
const arenaTop = 1

const readyWord = "Start"

type playCopyMsg struct{ err error }

// leavePlayMsg tells the app the player left the arena.
type leavePlayMsg struct{}

type playModel struct {
	session *game.Session
	sport   domain.Sport
	inputs  [2]textinput.Model
	focus   int
	flash   string
	flashOK bool
	width   int
	height  int
	// Keyboard aim, in grid cells. Centered whenever the target is not moving.
	cursorCol int
	cursorRow int
}

func newPlayModel(s *game.Session, sport domain.Sport) playModel {
	m := playModel{
		session: s,
		sport:   sport,
		inputs: [2]textinput.Model{
			newNameInput(domain.DefaultPlayer1),
			newNameInput(domain.DefaultPlayer2),
		},
	}
	if s.Mode() == domain.ModeDuo {
		m.inputs[0].Focus()
	}
	m.centerCursor()
	return m
}

func (m playModel) Init() tea.Cmd {
	if m.editing() {
		return textinput.Blink
	}
	return nil
}

// editing reports whether keystrokes belong to the name fields.
func (m playModel) editing() bool {
	if m.session == nil {
		return false
	}
	_, ok := m.session.Phase().(game.NameEntry)
	return ok
}

func (m playModel) Update(msg tea.Msg) (playModel, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	m, cmd := m.update(msg)
	if _, ok := m.session.Phase().(game.Moving); !ok {
		m.centerCursor()
	}
	return m, cmd
}

func (m playModel) update(msg tea.Msg) (playModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.hit(msg.X, msg.Y) {
			return m, m.session.TouchTarget()
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing() {
			return m.updateNames(msg)
		}
		return m.updateKeys(msg)

	case playCopyMsg:
		if msg.err != nil {
			m.flash = "copy failed: " + msg.err.Error()
			m.flashOK = false
		} else {
			m.flash = "copied to clipboard"
			m.flashOK = true
		}
		return m, nil
	}

	return m, m.session.Update(msg)
}

func (m playModel) updateNames(msg tea.KeyMsg) (playModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.leave()
	case "tab", "shift+tab", "up", "down":
		m.setFocus(1 - m.focus)
		return m, textinput.Blink
	case "enter":
		if m.focus == 0 {
			m.setFocus(1)
			return m, textinput.Blink
		}
		m.syncNames()
		m.inputs[1].Blur()
		return m, m.session.Start()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncNames()
	return m, cmd
}

func (m playModel) updateKeys(msg tea.KeyMsg) (playModel, tea.Cmd) {
	s := m.session
	switch msg.String() {
	case " ":
		if !m.cursorOnTarget() {
			return m, nil
		}
		return m, s.TouchTarget()
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "enter":
		return m.primary()
	case "s":
		return m, s.Start()
	case "n":
		return m, s.NextPlayer()
	case "r":
		return m, s.ShowResult()
	case "a":
		return m.playAgain()
	case "c":
		text := s.Summary()
		if text == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return playCopyMsg{err: share.Copy(text)}
		}
	case "esc":
		return m.leave()
	}
	return m, nil
}

// primary runs whatever the single action button would do in this phase.
func (m playModel) primary() (playModel, tea.Cmd) {
	s := m.session
	switch p := s.Phase().(type) {
	case game.Idle:
		return m, s.Start()
	case game.TurnDone:
		if p.Seat == 1 {
			return m, s.NextPlayer()
		}
		return m, s.ShowResult()
	case game.Result, game.Final:
		return m.playAgain()
	}
	return m, nil
}

func (m playModel) playAgain() (playModel, tea.Cmd) {
	cmd := m.session.PlayAgain()
	m.flash = ""
	if m.editing() {
		m.syncNames()
		m.setFocus(0)
		return m, tea.Batch(cmd, textinput.Blink)
	}
	return m, cmd
}

func (m playModel) leave() (playModel, tea.Cmd) {
	m.session.Leave()
	return m, func() tea.Msg { return leavePlayMsg{} }
}

func (m *playModel) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m playModel) syncNames() {
	m.session.SetName(1, m.inputs[0].Value())
	m.session.SetName(2, m.inputs[1].Value())
}

// arenaLeft is the body column holding the arena's left border.
func (m playModel) arenaLeft() int {
	pad := (m.width - (arenaCols + 2)) / 2
	if pad < 0 {
		pad = 0
	}
	return pad
}

// targetCell maps the target offset to a grid cell. ok is false when the
// target is not on screen.
func (m playModel) targetCell() (col, row int, ok bool) {
	off, ok := m.session.TargetOffset()
	if !ok {
		return 0, 0, false
	}
	arena := m.session.ArenaSize()
	if arena <= 0 {
		return 0, 0, false
	}
	col = arenaCols/2 + int(math.Round(off.X/arena*float64(arenaCols-1)))
	row = arenaRows/2 + int(math.Round(off.Y/arena*float64(arenaRows-1)))
	col = min(max(col, 0), arenaCols-1)
	row = min(max(row, 0), arenaRows-1)
	return col, row, true
}

// hitRadius is the target's half size in cells, at least one column.
func (m playModel) hitRadius() (cols, rows int) {
	arena := m.session.ArenaSize()
	if arena <= 0 {
		return 1, 0
	}
	frac := m.session.TargetSize() / arena / 2
	cols = max(1, int(math.Round(frac*float64(arenaCols-1))))
	rows = int(math.Round(frac * float64(arenaRows-1)))
	return cols, rows
}

// hit reports whether body coordinates (x, y) land on the target.
func (m playModel) hit(x, y int) bool {
	return m.hitCell(x-m.arenaLeft()-1, y-arenaTop-1)
}

// hitCell reports whether grid cell (col, row) lies on the target.
func (m playModel) hitCell(col, row int) bool {
	tc, tr, ok := m.targetCell()
	if !ok {
		return false
	}
	rc, rr := m.hitRadius()
	return abs(col-tc) <= rc && abs(row-tr) <= rr
}

func (m playModel) cursorOnTarget() bool {
	return m.hitCell(m.cursorCol, m.cursorRow)
}

func (m *playModel) centerCursor() {
	m.cursorCol, m.cursorRow = arenaCols/2, arenaRows/2
}

func (m *playModel) moveCursor(dc, dr int) {
	if _, ok := m.session.Phase().(game.Moving); !ok {
		return
	}
	m.cursorCol = min(max(m.cursorCol+dc, 0), arenaCols-1)
	m.cursorRow = min(max(m.cursorRow+dr, 0), arenaRows-1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (m playModel) View() string {
	if m.session == nil {
		return ""
	}
	s := m.session

	var sb strings.Builder

	bar := "Solo mode"
	if s.Mode() == domain.ModeDuo {
		bar = "Duo mode"
	}
	header := dimStyle.Render(bar)
	switch s.Phase().(type) {
	case game.Countdown, game.ReadyWord, game.Moving, game.TurnDone:
		if s.Mode() == domain.ModeDuo {
			header += "  " + accentStyle.Render(truncStr(s.PlayerName(s.CurrentPlayer()), maxNameLen))
		}
	}
	sb.WriteString(centerLine(header, m.width) + "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(arenaBorderStyle.GetForeground()).
		Render(strings.Join(m.arenaLines(), "\n"))
	pad := strings.Repeat(" ", m.arenaLeft())
	for _, line := range strings.Split(box, "\n") {
		sb.WriteString(pad + line + "\n")
	}

	if err := s.LastSaveErr(); err != nil {
		sb.WriteString(centerLine(errorStyle.Render("result not saved: "+err.Error()), m.width) + "\n")
	}
	if m.flash != "" {
		style := errorStyle
		if m.flashOK {
			style = successStyle
		}
		sb.WriteString(centerLine(style.Render(m.flash), m.width) + "\n")
	}
	return sb.String()
}

// arenaLines renders the grid rows, each arenaCols cells wide.
func (m playModel) arenaLines() []string {
	s := m.session
	blank := strings.Repeat(" ", arenaCols)

	if col, row, ok := m.targetCell(); ok {
		glyph := sportStyle(m.sport).Render(m.sport.Glyph)
		cursor := accentStyle.Render("+")
		lines := make([]string, arenaRows)
		for r := range lines {
			if r != row && r != m.cursorRow {
				lines[r] = blank
				continue
			}
			var line strings.Builder
			for c := 0; c < arenaCols; c++ {
				switch {
				case c == col && r == row:
					line.WriteString(glyph)
				case c == m.cursorCol && r == m.cursorRow:
					line.WriteString(cursor)
				default:
					line.WriteByte(' ')
				}
			}
			lines[r] = line.String()
		}
		return lines
	}

	var content []string
	switch p := s.Phase().(type) {
	case game.Idle:
		content = []string{
			countStyle.Render(readyWord),
			"",
			dimStyle.Render("press enter"),
		}
	case game.NameEntry:
		content = []string{
			normalStyle.Render("Enter names"),
			"",
			m.inputs[0].View(),
			"",
			m.inputs[1].View(),
		}
	case game.Countdown:
		content = []string{countStyle.Render(fmt.Sprintf("%d", p.Remaining))}
	case game.ReadyWord:
		content = []string{countStyle.Render(readyWord)}
	case game.Moving:
		// Motion has not produced a position yet.
	case game.Result:
		content = []string{
			normalStyle.Render("Your result"),
			"",
			pillStyle.Render(share.Seconds(p.ElapsedSeconds) + " sec."),
			"",
			dimStyle.Render("Keep it up!"),
		}
	case game.TurnDone:
		t, _ := s.Turn(p.Seat)
		next := "enter: Next player"
		if p.Seat == 2 {
			next = "enter: Result"
		}
		content = []string{
			normalStyle.Render(truncStr(s.PlayerName(p.Seat), arenaCols-2)),
			"",
			pillStyle.Render(share.Seconds(t) + " sec."),
			"",
			dimStyle.Render(next),
		}
	case game.Final:
		content = []string{normalStyle.Render("Result"), ""}
		for i, t := range p.Entry.Times() {
			name := p.Entry.Player1Name
			if i == 1 {
				name = p.Entry.Player2Name
			}
			content = append(content,
				dimStyle.Render(truncStr(name, arenaCols-2)),
				pillStyle.Render(share.Seconds(t)+" sec."))
		}
		content = append(content, "", dimStyle.Render("What a fight!"))
	}

	lines := make([]string, arenaRows)
	top := (arenaRows - len(content)) / 2
	if top < 0 {
		top = 0
	}
	for i := range lines {
		j := i - top
		if j >= 0 && j < len(content) && content[j] != "" {
			lines[i] = lipgloss.PlaceHorizontal(arenaCols, lipgloss.Center, content[j])
		} else {
			lines[i] = blank
		}
	}
	return lines
}

// helpLine lists the keys that do something in the current phase.
func (m playModel) helpLine() string {
	if m.session == nil {
		return ""
	}
	switch p := m.session.Phase().(type) {
	case game.Idle:
		return helpBar(helpEntry("enter", "start"), helpEntry("esc", "home"), helpEntry("q", "quit"))
	case game.NameEntry:
		return helpBar(helpEntry("tab", "switch"), helpEntry("enter", "start"), helpEntry("esc", "home"))
	case game.Countdown, game.ReadyWord:
		return helpBar(helpEntry("esc", "leave"))
	case game.Moving:
		return helpBar(helpEntry("arrows", "aim"), helpEntry("space", "touch at cursor"), helpEntry("click", "touch"), helpEntry("esc", "leave"))
	case game.TurnDone:
		if p.Seat == 1 {
			return helpBar(helpEntry("n", "next player"), helpEntry("esc", "leave"))
		}
		return helpBar(helpEntry("r", "result"), helpEntry("esc", "leave"))
	case game.Result, game.Final:
		return helpBar(helpEntry("a", "play again"), helpEntry("c", "copy"), helpEntry("t", "stats"), helpEntry("esc", "home"))
	}
	return ""
}
