package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"montage-cli/internal/model"
)

// Theme/palette helpers.
//
// The timeline must stay readable on light and dark terminals, so clip
// colors are adaptive pairs rather than fixed ANSI codes. The "mono" theme
// drops clip coloring entirely for limited terminals.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorPlayhead lipgloss.TerminalColor = ac("160", "203")

	colorSelectedBorder lipgloss.TerminalColor = ac("232", "255")

	clipColors = map[model.ClipType]lipgloss.TerminalColor{
		model.ClipVideo:      ac("25", "24"),
		model.ClipAudio:      ac("28", "22"),
		model.ClipVoice:      ac("29", "23"),
		model.ClipImage:      ac("94", "58"),
		model.ClipText:       ac("90", "96"),
		model.ClipSubtitle:   ac("97", "139"),
		model.ClipSticker:    ac("130", "137"),
		model.ClipEffect:     ac("63", "61"),
		model.ClipFilter:     ac("66", "60"),
		model.ClipTransition: ac("101", "102"),
	}
)

type theme struct {
	mono bool

	header   lipgloss.Style
	footer   lipgloss.Style
	ruler    lipgloss.Style
	playhead lipgloss.Style
	laneName lipgloss.Style
	status   lipgloss.Style
}

func newTheme(name string) theme {
	mono := name == "mono" || termenv.ColorProfile() == termenv.Ascii
	return theme{
		mono:     mono,
		header:   lipgloss.NewStyle().Bold(true),
		footer:   lipgloss.NewStyle().Faint(true),
		ruler:    lipgloss.NewStyle().Foreground(colorMuted),
		playhead: lipgloss.NewStyle().Foreground(colorPlayhead).Bold(true),
		laneName: lipgloss.NewStyle().Foreground(colorMuted),
		status:   lipgloss.NewStyle().Foreground(colorAccent),
	}
}

// clipStyle renders one clip block; selection shows as reverse video so it
// survives both themes.
func (th theme) clipStyle(t model.ClipType, selected bool) lipgloss.Style {
	st := lipgloss.NewStyle()
	if !th.mono {
		if col, ok := clipColors[t]; ok {
			st = st.Background(col).Foreground(ac("255", "255"))
		}
	}
	if selected {
		st = st.Reverse(true).Bold(true)
	}
	return st
}
