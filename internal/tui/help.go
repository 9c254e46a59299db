package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Montage keys

## Pointer

| Gesture | Effect |
| --- | --- |
| drag clip body | move clip (whole selection moves together) |
| drag clip edge | trim start/end |
| alt-drag clip edge | adjust fade in/out |
| shift-click | add/remove clip from selection |
| ctrl-drag | marquee select |
| drag ruler | scrub the playhead |
| wheel | scroll, ctrl-wheel zoom |

## Keys

| Key | Effect |
| --- | --- |
| s | split primary clip at playhead |
| d / delete | delete selection (derived clips follow) |
| D | duplicate primary clip |
| M | merge selected adjacent clips |
| t | append empty track |
| + / - | zoom |
| left / right | nudge playhead |
| esc | cancel gesture, clear selection |
| r | reload from disk |
| q | quit |

Edits save immediately; every commit lands in the event log
(` + "`montage events list`" + `).
`

// openHelp (re)builds the help viewport for the current window size.
func (m *timelineModel) openHelp() {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	m.help = viewport.New(m.width, h)
	m.help.SetContent(m.renderHelp())
	m.showHelp = true
}

func (m *timelineModel) renderHelp() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(m.width-2, 100)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

func (m *timelineModel) helpView() string {
	return m.help.View() + "\n" + m.th.footer.Render("scroll with up/down, any other key closes")
}
