package domain

import "time"

type ElementType string

const (
	ElementTypeFrame ElementType = "frame"
	ElementTypeShape ElementType = "shape"
	ElementTypeText  ElementType = "text"
	ElementTypeImage ElementType = "image"
)

// Element is an axis-aligned box on the canvas. Position and size are in
// canvas units. Lifecycle (create/delete) belongs to the canvas model;
// placement only ever reads this geometry.
type Element struct {
	ID        string      `json:"id"`
	Type      ElementType `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Label     string      `json:"label"`
	StyleJSON string      `json:"styleJson"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ElementStore is the persistence contract for canvas elements.
type ElementStore interface {
	CreateElement(e *Element) error
	GetElement(id string) (*Element, error)
	ListElements() ([]Element, error)
	UpdateElement(e *Element) error
	DeleteElement(id string) error
}
