// Package theme defines the color palettes used by the UI. Widgets receive
// a *Theme explicitly; nothing reads styling from globals.
package theme

import (
	"hash/fnv"

	"github.com/gdamore/tcell/v2"
)

// Built-in theme names
const (
	NameDefault   = "default"
	NameLight     = "light"
	NameDracula   = "dracula"
	NameSolarized = "solarized"
)

// Theme holds the resolved colors and sizing for one palette.
type Theme struct {
	Name string

	Background tcell.Color
	Surface    tcell.Color
	Border     tcell.Color

	Title    tcell.Color
	Subtitle tcell.Color
	Text     tcell.Color
	Muted    tcell.Color

	Accent  tcell.Color
	Success tcell.Color
	Warning tcell.Color
	Danger  tcell.Color

	// HeaderBackground is the default channel header background; a header
	// can override it per instance.
	HeaderBackground tcell.Color
	BannerText       tcell.Color

	// Avatar sizing in cells
	AvatarWidth  int
	AvatarHeight int

	accents []tcell.Color
}

func defaultTheme() *Theme {
	return &Theme{
		Name:             NameDefault,
		Background:       tcell.ColorDefault,
		Surface:          tcell.ColorBlack,
		Border:           tcell.ColorGray,
		Title:            tcell.ColorWhite,
		Subtitle:         tcell.ColorDarkGray,
		Text:             tcell.ColorWhite,
		Muted:            tcell.ColorGray,
		Accent:           tcell.ColorAqua,
		Success:          tcell.ColorGreen,
		Warning:          tcell.ColorYellow,
		Danger:           tcell.ColorRed,
		HeaderBackground: tcell.ColorDarkSlateGray,
		BannerText:       tcell.ColorBlack,
		AvatarWidth:      4,
		AvatarHeight:     1,
		accents: []tcell.Color{
			tcell.ColorAqua, tcell.ColorFuchsia, tcell.ColorLime,
			tcell.ColorOrange, tcell.ColorSkyblue, tcell.ColorViolet,
			tcell.ColorGold, tcell.ColorSpringGreen,
		},
	}
}

func lightTheme() *Theme {
	t := defaultTheme()
	t.Name = NameLight
	t.Background = tcell.ColorWhite
	t.Surface = tcell.ColorWhiteSmoke
	t.Border = tcell.ColorDarkGray
	t.Title = tcell.ColorBlack
	t.Subtitle = tcell.ColorDimGray
	t.Text = tcell.ColorBlack
	t.Muted = tcell.ColorDarkGray
	t.Accent = tcell.ColorBlue
	t.HeaderBackground = tcell.ColorLightGray
	t.accents = []tcell.Color{
		tcell.ColorBlue, tcell.ColorDarkMagenta, tcell.ColorDarkGreen,
		tcell.ColorChocolate, tcell.ColorDarkCyan, tcell.ColorPurple,
	}
	return t
}

func draculaTheme() *Theme {
	return &Theme{
		Name:             NameDracula,
		Background:       tcell.NewHexColor(0x282a36),
		Surface:          tcell.NewHexColor(0x343746),
		Border:           tcell.NewHexColor(0x6272a4),
		Title:            tcell.NewHexColor(0xf8f8f2),
		Subtitle:         tcell.NewHexColor(0x6272a4),
		Text:             tcell.NewHexColor(0xf8f8f2),
		Muted:            tcell.NewHexColor(0x6272a4),
		Accent:           tcell.NewHexColor(0xbd93f9),
		Success:          tcell.NewHexColor(0x50fa7b),
		Warning:          tcell.NewHexColor(0xf1fa8c),
		Danger:           tcell.NewHexColor(0xff5555),
		HeaderBackground: tcell.NewHexColor(0x44475a),
		BannerText:       tcell.NewHexColor(0x282a36),
		AvatarWidth:      4,
		AvatarHeight:     1,
		accents: []tcell.Color{
			tcell.NewHexColor(0xbd93f9), tcell.NewHexColor(0xff79c6),
			tcell.NewHexColor(0x50fa7b), tcell.NewHexColor(0xffb86c),
			tcell.NewHexColor(0x8be9fd), tcell.NewHexColor(0xf1fa8c),
		},
	}
}

func solarizedTheme() *Theme {
	return &Theme{
		Name:             NameSolarized,
		Background:       tcell.NewHexColor(0x002b36),
		Surface:          tcell.NewHexColor(0x073642),
		Border:           tcell.NewHexColor(0x586e75),
		Title:            tcell.NewHexColor(0x93a1a1),
		Subtitle:         tcell.NewHexColor(0x586e75),
		Text:             tcell.NewHexColor(0x839496),
		Muted:            tcell.NewHexColor(0x586e75),
		Accent:           tcell.NewHexColor(0x268bd2),
		Success:          tcell.NewHexColor(0x859900),
		Warning:          tcell.NewHexColor(0xb58900),
		Danger:           tcell.NewHexColor(0xdc322f),
		HeaderBackground: tcell.NewHexColor(0x073642),
		BannerText:       tcell.NewHexColor(0x002b36),
		AvatarWidth:      4,
		AvatarHeight:     1,
		accents: []tcell.Color{
			tcell.NewHexColor(0x268bd2), tcell.NewHexColor(0xd33682),
			tcell.NewHexColor(0x859900), tcell.NewHexColor(0xcb4b16),
			tcell.NewHexColor(0x2aa198), tcell.NewHexColor(0x6c71c4),
		},
	}
}

// Get returns the named theme, falling back to the default palette for
// unknown names.
func Get(name string) *Theme {
	switch name {
	case NameLight:
		return lightTheme()
	case NameDracula:
		return draculaTheme()
	case NameSolarized:
		return solarizedTheme()
	default:
		return defaultTheme()
	}
}

// IsValid reports whether name is a built-in theme.
func IsValid(name string) bool {
	switch name {
	case NameDefault, NameLight, NameDracula, NameSolarized:
		return true
	}
	return false
}

// Names returns the built-in theme names.
func Names() []string {
	return []string{NameDefault, NameLight, NameDracula, NameSolarized}
}

// UserColor returns a stable accent color for a user or channel name, so
// the same sender is tinted identically across views.
func (t *Theme) UserColor(name string) tcell.Color {
	if len(t.accents) == 0 {
		return t.Accent
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return t.accents[int(h.Sum32()%uint32(len(t.accents)))]
}
