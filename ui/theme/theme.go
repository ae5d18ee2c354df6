package theme

// Styling for the tracker window: a small palette and the two ttk styles
// the view uses.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg       = "#f7f9fb" // app background
	ColorDanger   = "#dc2626"
	ColorAccent   = "#10b981"
	ColorDarkBg   = "#0f172a"
	ColorDarkText = "#f0fdf4"
)

// style names used with Style("danger.TButton") etc.
const (
	StyleDangerButton = "danger.TButton"
	StyleStateLabel   = "state.TLabel"
)

// internal flag for current mode
var darkMode bool

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(darkMode) }

// SetDark switches mode and reapplies styles.
func SetDark(dark bool) {
	darkMode = dark
	applyStyles(darkMode)
}

func applyStyles(dark bool) {
	_ = ActivateTheme("azure light") // baseline metrics
	bg, text := ColorBg, "white"
	if dark {
		bg, text = ColorDarkBg, ColorDarkText
	}
	App.Configure(Background(bg))

	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground(text),
		Background(ColorAccent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
}
