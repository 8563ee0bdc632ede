package domain

// Mode selects which phase graph a session runs and which result log it writes.
type Mode int

const (
	ModeUnset Mode = iota
	ModeSolo
	ModeDuo
)

func (m Mode) String() string {
	switch m {
	case ModeSolo:
		return "solo"
	case ModeDuo:
		return "duo"
	}
	return "unset"
}

// ParseMode maps "solo"/"duo" to a Mode. ok is false for anything else.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "solo":
		return ModeSolo, true
	case "duo":
		return ModeDuo, true
	}
	return ModeUnset, false
}
