package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studio/internal/domain"
	"studio/internal/placement"
	"studio/internal/selection"
)

// ─────────────────────────────────────────────────────────────
// Canvas Service — element lifecycle, placement, selection
// ─────────────────────────────────────────────────────────────

// CanvasService owns canvas elements. PlacementEngine positions new ones;
// SelectionModel tracks which are selected. Deletion is two-phase: a
// request event first, mutation only on explicit confirmation.
type CanvasService struct {
	store   domain.ElementStore
	engine  *placement.Engine
	sel     *selection.Model
	emitter EventEmitter
}

// NewCanvasService creates a CanvasService.
func NewCanvasService(store domain.ElementStore, engine *placement.Engine, emitter EventEmitter) *CanvasService {
	return &CanvasService{
		store:   store,
		engine:  engine,
		sel:     selection.NewModel(),
		emitter: emitter,
	}
}

// AddElement computes a collision-free position with the requested strategy
// and persists a new element there. bounds comes from the caller's
// viewport; target anchors the proximity strategy.
func (s *CanvasService) AddElement(ctx context.Context, elementType string, strategy placement.Strategy, bounds placement.Rect, size placement.Size, target *placement.Point, label string) (*domain.Element, error) {
	existing, err := s.store.ListElements()
	if err != nil {
		return nil, fmt.Errorf("list elements: %w", err)
	}

	pos := s.engine.Compute(strategy, bounds, elementRects(existing), placement.Options{
		Size:   size,
		Target: target,
	})

	e := &domain.Element{
		ID:        uuid.NewString(),
		Type:      domain.ElementType(elementType),
		X:         pos.X,
		Y:         pos.Y,
		Width:     size.W,
		Height:    size.H,
		Label:     label,
		StyleJSON: "{}",
	}
	if e.Width <= 0 {
		e.Width = s.engine.GridSize()
	}
	if e.Height <= 0 {
		e.Height = s.engine.GridSize()
	}
	if err := s.store.CreateElement(e); err != nil {
		return nil, fmt.Errorf("create element: %w", err)
	}
	s.emit(ctx, "canvas:element-added", e)
	return e, nil
}

// ListElements returns all elements in creation order.
func (s *CanvasService) ListElements() ([]domain.Element, error) {
	return s.store.ListElements()
}

// GetElement returns one element by ID.
func (s *CanvasService) GetElement(id string) (*domain.Element, error) {
	return s.store.GetElement(id)
}

// MoveElement updates position and size of an element.
func (s *CanvasService) MoveElement(ctx context.Context, id string, x, y, width, height float64) error {
	e, err := s.store.GetElement(id)
	if err != nil {
		return err
	}
	e.X, e.Y = x, y
	if width > 0 {
		e.Width = width
	}
	if height > 0 {
		e.Height = height
	}
	if err := s.store.UpdateElement(e); err != nil {
		return err
	}
	s.emit(ctx, "canvas:element-moved", e)
	return nil
}

// ArrangeSelected lays the selected elements out row-major from start.
func (s *CanvasService) ArrangeSelected(ctx context.Context, start placement.Point, maxWidth float64) error {
	ids := s.sel.Selected()
	if len(ids) == 0 {
		return nil
	}
	var picked []*domain.Element
	sizes := make([]placement.Size, 0, len(ids))
	for _, id := range ids {
		e, err := s.store.GetElement(id)
		if err != nil {
			return err
		}
		picked = append(picked, e)
		sizes = append(sizes, placement.Size{W: e.Width, H: e.Height})
	}

	points := s.engine.Arrange(sizes, start, maxWidth)
	for i, e := range picked {
		e.X, e.Y = points[i].X, points[i].Y
		if err := s.store.UpdateElement(e); err != nil {
			return err
		}
	}
	s.emit(ctx, "canvas:elements-arranged", ids)
	return nil
}

// Select applies a click-selection with modifiers.
func (s *CanvasService) Select(ctx context.Context, id string, mods selection.Modifiers) {
	s.sel.Select(id, mods)
	s.emitSelection(ctx)
}

// ClearSelection empties the selection.
func (s *CanvasService) ClearSelection(ctx context.Context) {
	s.sel.Clear()
	s.emitSelection(ctx)
}

// Selected returns the selected ids in stable order.
func (s *CanvasService) Selected() []string { return s.sel.Selected() }

// LastTouched returns the most recently clicked id.
func (s *CanvasService) LastTouched() string { return s.sel.LastTouched() }

// BeginMarquee starts a marquee drag.
func (s *CanvasService) BeginMarquee(p placement.Point, mods selection.Modifiers) {
	s.sel.BeginMarquee(p, mods)
}

// UpdateMarquee extends the drag and recomputes the live selection against
// current element geometry.
func (s *CanvasService) UpdateMarquee(ctx context.Context, p placement.Point) error {
	elements, err := s.store.ListElements()
	if err != nil {
		return fmt.Errorf("list elements: %w", err)
	}
	boxes := make([]selection.Box, len(elements))
	for i, e := range elements {
		boxes[i] = selection.Box{ID: e.ID, Bounds: placement.Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}}
	}
	s.sel.UpdateMarquee(p, boxes)
	s.emitSelection(ctx)
	return nil
}

// ClearMarquee ends the drag, keeping the selection it produced.
func (s *CanvasService) ClearMarquee() {
	s.sel.ClearMarquee()
}

// RequestDeleteSelected is phase one of deletion: it emits the candidate
// ids for the frontend to confirm and mutates nothing.
func (s *CanvasService) RequestDeleteSelected(ctx context.Context) []string {
	ids, ok := s.sel.DeleteRequest()
	if !ok {
		return nil
	}
	s.emit(ctx, "canvas:confirm-delete", ids)
	return ids
}

// ConfirmDelete is phase two: the explicit confirmation that actually
// removes elements.
func (s *CanvasService) ConfirmDelete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := s.store.DeleteElement(id); err != nil {
			return fmt.Errorf("delete element %s: %w", id, err)
		}
	}
	s.sel.Remove(ids)
	s.emit(ctx, "canvas:elements-deleted", ids)
	return nil
}

func (s *CanvasService) emit(ctx context.Context, event string, data any) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, event, data)
	}
}

func (s *CanvasService) emitSelection(ctx context.Context) {
	s.emit(ctx, "canvas:selection-changed", s.sel.Selected())
}

func elementRects(elements []domain.Element) []placement.Rect {
	rects := make([]placement.Rect, len(elements))
	for i, e := range elements {
		rects[i] = placement.Rect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}
	}
	return rects
}
