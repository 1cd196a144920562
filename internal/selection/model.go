// Package selection tracks which canvas elements are selected and the
// in-progress marquee drag. Intersection reuses the placement package's
// AABB primitive so marquee hits and placement collisions can never
// disagree.
package selection

import (
	"sort"

	"studio/internal/placement"
)

// Mode distinguishes a single click-selection from a multi selection.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

// Modifiers carries the keyboard state of a selection gesture.
type Modifiers struct {
	Combine  bool `json:"combine"`
	Subtract bool `json:"subtract"`
}

// Box pairs an element id with its bounds for marquee intersection.
type Box struct {
	ID     string
	Bounds placement.Rect
}

// Marquee is the live drag rectangle. Start and End may be any pair of
// opposite corners.
type Marquee struct {
	Start     placement.Point `json:"start"`
	End       placement.Point `json:"end"`
	Modifiers Modifiers       `json:"modifiers"`
}

// Rect normalizes the drag corners into an axis-aligned rectangle.
func (m Marquee) Rect() placement.Rect {
	x0, x1 := m.Start.X, m.End.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := m.Start.Y, m.End.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return placement.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Model is the selection state for one canvas.
type Model struct {
	ids         map[string]struct{}
	mode        Mode
	lastTouched string
	marquee     *Marquee
	base        map[string]struct{} // selection when the marquee began
}

func NewModel() *Model {
	return &Model{ids: map[string]struct{}{}}
}

// Select replaces the selection with id, unless the combine modifier is
// set, in which case id toggles in and out of the current set. The
// last-touched id always updates for later range operations.
func (m *Model) Select(id string, mods Modifiers) {
	if mods.Combine {
		if _, ok := m.ids[id]; ok {
			delete(m.ids, id)
		} else {
			m.ids[id] = struct{}{}
		}
		m.mode = ModeMulti
	} else {
		m.ids = map[string]struct{}{id: {}}
		m.mode = ModeSingle
	}
	m.lastTouched = id
}

// Clear empties the selection and any marquee state.
func (m *Model) Clear() {
	m.ids = map[string]struct{}{}
	m.mode = ModeSingle
	m.marquee = nil
	m.base = nil
}

// Selected returns the selected ids in stable order.
func (m *Model) Selected() []string {
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Model) IsSelected(id string) bool {
	_, ok := m.ids[id]
	return ok
}

func (m *Model) Count() int          { return len(m.ids) }
func (m *Model) Mode() Mode          { return m.mode }
func (m *Model) LastTouched() string { return m.lastTouched }

// BeginMarquee starts a drag at p, capturing the current selection as the
// base set that combine/subtract operate against.
func (m *Model) BeginMarquee(p placement.Point, mods Modifiers) {
	m.marquee = &Marquee{Start: p, End: p, Modifiers: mods}
	m.base = make(map[string]struct{}, len(m.ids))
	for id := range m.ids {
		m.base[id] = struct{}{}
	}
}

// UpdateMarquee extends the drag to p and recomputes the live selection
// from the visible element boxes: intersecting ids, combined with or
// subtracted from the base set per the drag modifiers.
func (m *Model) UpdateMarquee(p placement.Point, visible []Box) {
	if m.marquee == nil {
		return
	}
	m.marquee.End = p
	rect := m.marquee.Rect()

	next := make(map[string]struct{})
	switch {
	case m.marquee.Modifiers.Subtract:
		for id := range m.base {
			next[id] = struct{}{}
		}
		for _, b := range visible {
			if placement.Overlaps(rect, b.Bounds) {
				delete(next, b.ID)
			}
		}
	case m.marquee.Modifiers.Combine:
		for id := range m.base {
			next[id] = struct{}{}
		}
		for _, b := range visible {
			if placement.Overlaps(rect, b.Bounds) {
				next[b.ID] = struct{}{}
			}
		}
	default:
		for _, b := range visible {
			if placement.Overlaps(rect, b.Bounds) {
				next[b.ID] = struct{}{}
			}
		}
	}

	m.ids = next
	if len(next) > 1 {
		m.mode = ModeMulti
	}
}

// ClearMarquee ends the drag, keeping whatever selection it produced.
func (m *Model) ClearMarquee() {
	m.marquee = nil
	m.base = nil
}

// ActiveMarquee returns the live drag state, if any.
func (m *Model) ActiveMarquee() (Marquee, bool) {
	if m.marquee == nil {
		return Marquee{}, false
	}
	return *m.marquee, true
}

// DeleteRequest is phase one of a delete: the candidate ids that would be
// removed. Phase two (the actual mutation) only happens on explicit
// confirmation, so an accidental multi-delete is recoverable.
func (m *Model) DeleteRequest() ([]string, bool) {
	if len(m.ids) == 0 {
		return nil, false
	}
	return m.Selected(), true
}

// Remove drops ids from the selection after a confirmed delete.
func (m *Model) Remove(ids []string) {
	for _, id := range ids {
		delete(m.ids, id)
		if m.lastTouched == id {
			m.lastTouched = ""
		}
	}
}
