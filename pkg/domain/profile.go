package domain

// Sport picks the ball the target is drawn as.
type Sport struct {
	ID    string
	Name  string
	Glyph string
	Color string
}

// The sports a profile can select.
var Sports = map[string]Sport{
	"tennis":     {ID: "tennis", Name: "Tennis", Glyph: "●", Color: "#d4f542"},
	"football":   {ID: "football", Name: "Football", Glyph: "◉", Color: "#f2f2f2"},
	"volleyball": {ID: "volleyball", Name: "Volleyball", Glyph: "◍", Color: "#FFE651"},
}

// DefaultSport is used when the profile is missing or names an unknown sport.
const DefaultSport = "tennis"

// ValidSport returns true if id is a known sport.
func ValidSport(id string) bool {
	_, ok := Sports[id]
	return ok
}

// Profile is the player profile blob. It is owned by the onboarding screens;
// the game only reads it.
type Profile struct {
	Sport    string `json:"sport,omitempty"`
	Name     string `json:"name,omitempty"`
	PhotoURI string `json:"photoUri,omitempty"`
	SavedAt  int64  `json:"savedAt,omitempty"`
}

// SportOrDefault returns the profile's sport, falling back to DefaultSport.
func (p Profile) SportOrDefault() Sport {
	if s, ok := Sports[p.Sport]; ok {
		return s
	}
	return Sports[DefaultSport]
}
