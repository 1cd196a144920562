package app

import (
	"studio/internal/domain"
	"studio/internal/placement"
	"studio/internal/selection"
)

// ============================================================
// Canvas (elements, selection, marquee)
// ============================================================

// AddElementInput carries everything the placement engine needs: the
// strategy, the visible viewport as bounds, and the proximity anchor when
// the strategy wants one.
type AddElementInput struct {
	Type      string         `json:"type"`
	Strategy  string         `json:"strategy"`
	Bounds    placement.Rect `json:"bounds"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	TargetX   float64        `json:"targetX"`
	TargetY   float64        `json:"targetY"`
	HasTarget bool           `json:"hasTarget"`
	Label     string         `json:"label"`
}

func (a *App) AddElement(input AddElementInput) (*domain.Element, error) {
	size := placement.Size{W: input.Width, H: input.Height}
	if size.W <= 0 {
		size.W = a.settings.ElementW
	}
	if size.H <= 0 {
		size.H = a.settings.ElementH
	}

	var target *placement.Point
	if input.HasTarget {
		target = &placement.Point{X: input.TargetX, Y: input.TargetY}
	}

	return a.canvas.AddElement(a.ctx, input.Type, parseStrategy(input.Strategy), input.Bounds, size, target, input.Label)
}

func (a *App) ListElements() ([]domain.Element, error) {
	return a.canvas.ListElements()
}

func (a *App) GetElement(id string) (*domain.Element, error) {
	return a.canvas.GetElement(id)
}

// MoveElement repositions an element; zero width/height keep the current size.
func (a *App) MoveElement(id string, x, y, width, height float64) error {
	return a.canvas.MoveElement(a.ctx, id, x, y, width, height)
}

// ArrangeSelected packs the selected elements row-major from the given
// start point, wrapping at maxWidth.
func (a *App) ArrangeSelected(startX, startY, maxWidth float64) error {
	return a.canvas.ArrangeSelected(a.ctx, placement.Point{X: startX, Y: startY}, maxWidth)
}

// ── Selection ──────────────────────────────────────────────

func (a *App) SelectElement(id string, combine, subtract bool) {
	a.canvas.Select(a.ctx, id, selection.Modifiers{Combine: combine, Subtract: subtract})
}

func (a *App) ClearSelection() {
	a.canvas.ClearSelection(a.ctx)
}

func (a *App) SelectedElements() []string {
	return a.canvas.Selected()
}

func (a *App) LastTouchedElement() string {
	return a.canvas.LastTouched()
}

// ── Marquee ────────────────────────────────────────────────

func (a *App) BeginMarquee(x, y float64, combine, subtract bool) {
	a.canvas.BeginMarquee(placement.Point{X: x, Y: y}, selection.Modifiers{Combine: combine, Subtract: subtract})
}

func (a *App) UpdateMarquee(x, y float64) error {
	return a.canvas.UpdateMarquee(a.ctx, placement.Point{X: x, Y: y})
}

func (a *App) EndMarquee() {
	a.canvas.ClearMarquee()
}

// ── Deletion (two-phase) ───────────────────────────────────

// RequestDeleteSelected starts phase one: it emits a confirmation request
// for the current selection and mutates nothing.
func (a *App) RequestDeleteSelected() []string {
	return a.canvas.RequestDeleteSelected(a.ctx)
}

// ConfirmDelete is phase two: the user accepted, so the ids are removed
// from storage and from the selection.
func (a *App) ConfirmDelete(ids []string) error {
	return a.canvas.ConfirmDelete(a.ctx, ids)
}

func parseStrategy(s string) placement.Strategy {
	switch s {
	case "proximity":
		return placement.StrategyProximity
	case "grid":
		return placement.StrategyGrid
	default:
		return placement.StrategySpiral
	}
}
