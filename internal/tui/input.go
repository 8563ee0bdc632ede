package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// maxNameLen is the maximum number of runes in a duo player name.
const maxNameLen = 24

// newNameInput builds the text field for one duo seat.
func newNameInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen + 1
	ti.Prompt = ""
	ti.PromptStyle = inputPromptStyle
	ti.PlaceholderStyle = inputPlaceholderStyle
	return ti
}
