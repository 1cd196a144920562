package storage

import (
	"fmt"
	"time"

	"studio/internal/domain"
)

// ElementStore implements domain.ElementStore using SQLite.
type ElementStore struct {
	db *DB
}

func NewElementStore(db *DB) *ElementStore {
	return &ElementStore{db: db}
}

func (s *ElementStore) CreateElement(e *domain.Element) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO elements (id, type, x, y, width, height, label, style_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Type, e.X, e.Y, e.Width, e.Height, e.Label, e.StyleJSON, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (s *ElementStore) GetElement(id string) (*domain.Element, error) {
	e := &domain.Element{}
	err := s.db.Conn().QueryRow(
		`SELECT id, type, x, y, width, height, label, style_json, created_at, updated_at FROM elements WHERE id = ?`, id,
	).Scan(&e.ID, &e.Type, &e.X, &e.Y, &e.Width, &e.Height, &e.Label, &e.StyleJSON, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get element: %w", err)
	}
	return e, nil
}

// ListElements returns all elements in creation order, so the last entry is
// the most recently placed one.
func (s *ElementStore) ListElements() ([]domain.Element, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, type, x, y, width, height, label, style_json, created_at, updated_at FROM elements ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elements []domain.Element
	for rows.Next() {
		var e domain.Element
		if err := rows.Scan(&e.ID, &e.Type, &e.X, &e.Y, &e.Width, &e.Height, &e.Label, &e.StyleJSON, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, rows.Err()
}

func (s *ElementStore) UpdateElement(e *domain.Element) error {
	e.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE elements SET type = ?, x = ?, y = ?, width = ?, height = ?, label = ?, style_json = ?, updated_at = ? WHERE id = ?`,
		e.Type, e.X, e.Y, e.Width, e.Height, e.Label, e.StyleJSON, e.UpdatedAt, e.ID,
	)
	return err
}

func (s *ElementStore) DeleteElement(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM elements WHERE id = ?`, id)
	return err
}
