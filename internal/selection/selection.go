// Package selection tracks which clips are selected and which one is
// primary. The primary clip is the one snapping applies to during a
// multi-clip drag; co-selected clips follow its resolved delta.
package selection

import "montage-cli/internal/model"

// PanelIntent is the UI-routing side effect of selecting certain clip types:
// subtitle and text clips open their matching edit panel. The core only
// emits the intent; the chrome decides what to do with it.
type PanelIntent string

const (
	PanelNone     PanelIntent = ""
	PanelSubtitle PanelIntent = "subtitle"
	PanelText     PanelIntent = "text"
)

type Selection struct {
	ids     map[string]struct{}
	primary string
}

func New() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// Click applies plain-click semantics: replace the selection unless the
// additive modifier is held, in which case the clip toggles. The clicked
// clip becomes primary while selected.
func (s *Selection) Click(c model.Clip, additive bool) PanelIntent {
	if !additive {
		s.ids = map[string]struct{}{c.ID: {}}
		s.primary = c.ID
		return panelFor(c.Type)
	}
	if _, ok := s.ids[c.ID]; ok {
		delete(s.ids, c.ID)
		if s.primary == c.ID {
			s.primary = ""
			for id := range s.ids {
				s.primary = id
				break
			}
		}
		return PanelNone
	}
	s.ids[c.ID] = struct{}{}
	s.primary = c.ID
	return panelFor(c.Type)
}

// Replace sets the selection to exactly the given ids; the first becomes
// primary. Used by marquee select.
func (s *Selection) Replace(ids []string) {
	s.ids = make(map[string]struct{}, len(ids))
	s.primary = ""
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	if len(ids) > 0 {
		s.primary = ids[0]
	}
}

// Ensure makes the clip part of the selection without disturbing an existing
// multi-selection that already contains it. A grab of an unselected clip
// collapses to single-selection, matching drag-start semantics.
func (s *Selection) Ensure(c model.Clip) {
	if _, ok := s.ids[c.ID]; ok {
		s.primary = c.ID
		return
	}
	s.ids = map[string]struct{}{c.ID: {}}
	s.primary = c.ID
}

func (s *Selection) Clear() {
	s.ids = map[string]struct{}{}
	s.primary = ""
}

// Drop removes ids that no longer exist (e.g. after a cascade delete).
func (s *Selection) Drop(gone []string) {
	for _, id := range gone {
		delete(s.ids, id)
		if s.primary == id {
			s.primary = ""
		}
	}
	if s.primary == "" {
		for id := range s.ids {
			s.primary = id
			break
		}
	}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Primary() string { return s.primary }

func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids; order is unspecified.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

func panelFor(t model.ClipType) PanelIntent {
	switch t {
	case model.ClipSubtitle:
		return PanelSubtitle
	case model.ClipText:
		return PanelText
	default:
		return PanelNone
	}
}
