// Package tokens holds the committed design-token state: one generic Store
// per named token set (colors, fonts), each with linear undo/redo history
// and a non-committed live preview.
package tokens

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Injector is what a Store needs from the style injector. Values cross this
// boundary already serialized, so one injector serves every token set.
type Injector interface {
	Inject(vars map[string]string)
	PreviewInject(vars map[string]string)
	RevertPreview()
	Read(name string) (string, bool)
}

// SnapshotStore persists a committed token set under a fixed key with a
// schema version. Load returns (nil, nil) when no usable snapshot exists,
// including on version mismatch — forward-only migration, no downgrade.
type SnapshotStore interface {
	Save(key string, version int, payload []byte) error
	Load(key string, version int) ([]byte, error)
}

// Change records one role's transition inside a history entry.
type Change[V comparable] struct {
	From V `json:"from"`
	To   V `json:"to"`
}

// Entry is a single undo/redo step. Entries are immutable once pushed and
// form a linear stack: a new commit truncates everything past the cursor.
type Entry[R comparable, V comparable] struct {
	At          time.Time       `json:"at"`
	Description string          `json:"description"`
	Changes     map[R]Change[V] `json:"changes"`
}

// RoleChange is one requested change in a batch commit.
type RoleChange[R comparable, V comparable] struct {
	Role  R
	Value V
}

// Config wires a Store to its role domain and collaborators.
type Config[R comparable, V comparable] struct {
	// Name labels the set ("colors", "fonts") and scopes the snapshot key.
	Name string
	// Roles is the closed role domain. Every role has a value at all times.
	Roles []R
	// Defaults supply values when neither snapshot nor surface has any.
	Defaults map[R]V
	// Normalize clamps out-of-domain values instead of rejecting them.
	Normalize func(R, V) V
	// VarName maps a role to its custom property on the surface.
	VarName func(R) string
	// Format serializes a value for the surface.
	Format func(V) string
	// Parse reads a surface-resolved value back, for cold start.
	Parse func(string) (V, error)
	// HistoryLimit caps the undo stack; oldest entries are evicted.
	// Non-positive means the stock limit of 100.
	HistoryLimit int
	// SchemaVersion gates snapshot loads.
	SchemaVersion int

	Injector  Injector
	Snapshots SnapshotStore
}

const defaultHistoryLimit = 100

type previewState[R comparable, V comparable] struct {
	role  R
	value V
}

// Store is the single source of truth for one token set. It is not
// goroutine safe; like the rest of the app core it is driven from the
// binding layer one call at a time.
type Store[R comparable, V comparable] struct {
	cfg       Config[R, V]
	committed map[R]V
	history   []Entry[R, V]
	cursor    int // entries [0, cursor) are applied
	preview   *previewState[R, V]
}

// NewStore builds a store and makes its committed set observable on the
// surface. Committed values come from the snapshot when one matches the
// schema version, else from values already resolved on the surface (cold
// start from pre-rendered defaults), else from Config.Defaults.
func NewStore[R comparable, V comparable](cfg Config[R, V]) (*Store[R, V], error) {
	if cfg.Injector == nil {
		return nil, fmt.Errorf("tokens: %s store needs an injector", cfg.Name)
	}
	for _, r := range cfg.Roles {
		if _, ok := cfg.Defaults[r]; !ok {
			return nil, fmt.Errorf("tokens: %s store has no default for role %v", cfg.Name, r)
		}
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	s := &Store[R, V]{cfg: cfg}
	s.committed = s.bootstrap()
	s.injectAll()
	return s, nil
}

func (s *Store[R, V]) bootstrap() map[R]V {
	if set := s.loadSnapshot(); set != nil {
		return set
	}

	// No snapshot: adopt whatever the surface already resolves, falling
	// back per role to the compiled defaults.
	set := make(map[R]V, len(s.cfg.Roles))
	for _, r := range s.cfg.Roles {
		set[r] = s.cfg.Defaults[r]
		if s.cfg.Parse == nil {
			continue
		}
		raw, ok := s.cfg.Injector.Read(s.cfg.VarName(r))
		if !ok {
			continue
		}
		v, err := s.cfg.Parse(raw)
		if err != nil {
			log.Printf("tokens: %s ignoring unparseable surface value for %v: %v", s.cfg.Name, r, err)
			continue
		}
		set[r] = s.cfg.Normalize(r, v)
	}
	return set
}

func (s *Store[R, V]) loadSnapshot() map[R]V {
	if s.cfg.Snapshots == nil {
		return nil
	}
	payload, err := s.cfg.Snapshots.Load(s.snapshotKey(), s.cfg.SchemaVersion)
	if err != nil {
		log.Printf("tokens: %s snapshot load failed, using defaults: %v", s.cfg.Name, err)
		return nil
	}
	if payload == nil {
		return nil
	}
	var raw map[R]V
	if err := json.Unmarshal(payload, &raw); err != nil {
		log.Printf("tokens: %s snapshot is corrupt, using defaults: %v", s.cfg.Name, err)
		return nil
	}
	// The snapshot must cover the whole role domain; holes invalidate it.
	set := make(map[R]V, len(s.cfg.Roles))
	for _, r := range s.cfg.Roles {
		v, ok := raw[r]
		if !ok {
			return nil
		}
		set[r] = s.cfg.Normalize(r, v)
	}
	return set
}

// Update commits value for role. Repeated commits of the current value are
// idempotent: no history entry, no injection. Any active preview for the
// role is cleared first so it cannot outlive the commit.
func (s *Store[R, V]) Update(role R, value V, description string) bool {
	if s.preview != nil && s.preview.role == role {
		s.ClearPreview()
	}
	v := s.cfg.Normalize(role, value)
	current := s.committed[role]
	if v == current {
		return false
	}
	if description == "" {
		description = fmt.Sprintf("Set %v", role)
	}
	s.push(Entry[R, V]{
		At:          time.Now(),
		Description: description,
		Changes:     map[R]Change[V]{role: {From: current, To: v}},
	})
	s.committed[role] = v
	s.inject(map[R]V{role: v})
	s.persist()
	return true
}

// BatchUpdate applies several role changes as one history entry — a single
// undo step. Changes equal to the committed value are dropped; an empty net
// change set pushes nothing.
func (s *Store[R, V]) BatchUpdate(changes []RoleChange[R, V], description string) bool {
	entryChanges := make(map[R]Change[V])
	applied := make(map[R]V)
	for _, c := range changes {
		v := s.cfg.Normalize(c.Role, c.Value)
		from := s.committed[c.Role]
		if prior, seen := entryChanges[c.Role]; seen {
			// Last write per role wins within the batch.
			from = prior.From
		}
		if v == from {
			delete(entryChanges, c.Role)
			delete(applied, c.Role)
			continue
		}
		entryChanges[c.Role] = Change[V]{From: from, To: v}
		applied[c.Role] = v
	}
	if len(entryChanges) == 0 {
		return false
	}
	if s.preview != nil {
		if _, touched := entryChanges[s.preview.role]; touched {
			s.ClearPreview()
		}
	}
	s.push(Entry[R, V]{At: time.Now(), Description: description, Changes: entryChanges})
	for r, v := range applied {
		s.committed[r] = v
	}
	s.inject(applied)
	s.persist()
	return true
}

// Preview shadows one role's effective value without touching history or
// the committed set. A new preview silently replaces any prior one.
func (s *Store[R, V]) Preview(role R, value V) {
	v := s.cfg.Normalize(role, value)
	s.preview = &previewState[R, V]{role: role, value: v}
	s.cfg.Injector.PreviewInject(map[string]string{s.cfg.VarName(role): s.cfg.Format(v)})
}

// DropPreview forgets the shadow value without touching the surface
// overlay. One overlay is live at a time across every store, so when
// another store is about to replace it wholesale, this store's shadow must
// go too — otherwise Effective would keep serving a value the surface no
// longer shows.
func (s *Store[R, V]) DropPreview() {
	s.preview = nil
}

// ClearPreview drops the shadow value and reverts the surface overlay.
// Idempotent when no preview is active.
func (s *Store[R, V]) ClearPreview() {
	if s.preview == nil {
		return
	}
	s.preview = nil
	s.cfg.Injector.RevertPreview()
}

// Revert commits the most recent historical "from" value for role as a new
// forward entry. History is regenerated, never rewound, so the audit trail
// stays intact.
func (s *Store[R, V]) Revert(role R) bool {
	for i := s.cursor - 1; i >= 0; i-- {
		if ch, ok := s.history[i].Changes[role]; ok {
			return s.Update(role, ch.From, fmt.Sprintf("Revert %v", role))
		}
	}
	return false
}

// Undo steps the cursor back one entry, restoring every "from" value in it
// atomically. Returns false at the bottom of the stack.
func (s *Store[R, V]) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.ClearPreview()
	s.cursor--
	entry := s.history[s.cursor]
	applied := make(map[R]V, len(entry.Changes))
	for r, ch := range entry.Changes {
		s.committed[r] = ch.From
		applied[r] = ch.From
	}
	s.inject(applied)
	s.persist()
	return true
}

// Redo steps the cursor forward one entry. Returns false at the top.
func (s *Store[R, V]) Redo() bool {
	if s.cursor >= len(s.history) {
		return false
	}
	s.ClearPreview()
	entry := s.history[s.cursor]
	s.cursor++
	applied := make(map[R]V, len(entry.Changes))
	for r, ch := range entry.Changes {
		s.committed[r] = ch.To
		applied[r] = ch.To
	}
	s.inject(applied)
	s.persist()
	return true
}

// Effective is the sole read path for consumers: the preview value when one
// shadows the role, otherwise the committed value. Total over the role
// domain.
func (s *Store[R, V]) Effective(role R) V {
	if s.preview != nil && s.preview.role == role {
		return s.preview.value
	}
	return s.committed[role]
}

// Committed returns the committed value, ignoring any preview.
func (s *Store[R, V]) Committed(role R) V {
	return s.committed[role]
}

// Snapshot returns a copy of the whole committed set.
func (s *Store[R, V]) Snapshot() map[R]V {
	out := make(map[R]V, len(s.committed))
	for r, v := range s.committed {
		out[r] = v
	}
	return out
}

// History returns the entries up to the cursor (the applied prefix).
func (s *Store[R, V]) History() []Entry[R, V] {
	out := make([]Entry[R, V], s.cursor)
	copy(out, s.history[:s.cursor])
	return out
}

// HistoryLen reports applied and total entry counts.
func (s *Store[R, V]) HistoryLen() (applied, total int) {
	return s.cursor, len(s.history)
}

func (s *Store[R, V]) CanUndo() bool { return s.cursor > 0 }
func (s *Store[R, V]) CanRedo() bool { return s.cursor < len(s.history) }

// push truncates redo entries at the cursor, appends, and evicts the oldest
// entries past the cap.
func (s *Store[R, V]) push(e Entry[R, V]) {
	s.history = append(s.history[:s.cursor], e)
	if over := len(s.history) - s.cfg.HistoryLimit; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
	s.cursor = len(s.history)
}

func (s *Store[R, V]) inject(set map[R]V) {
	vars := make(map[string]string, len(set))
	for r, v := range set {
		vars[s.cfg.VarName(r)] = s.cfg.Format(v)
	}
	s.cfg.Injector.Inject(vars)
}

func (s *Store[R, V]) injectAll() {
	s.inject(s.committed)
}

// Persist saves the committed set now, for periodic autosave and shutdown.
func (s *Store[R, V]) Persist() {
	s.persist()
}

// persist saves the committed set. Failures degrade to "no snapshot": the
// in-memory set stays authoritative and editing is never interrupted.
func (s *Store[R, V]) persist() {
	if s.cfg.Snapshots == nil {
		return
	}
	payload, err := json.Marshal(s.committed)
	if err != nil {
		log.Printf("tokens: %s snapshot encode failed: %v", s.cfg.Name, err)
		return
	}
	if err := s.cfg.Snapshots.Save(s.snapshotKey(), s.cfg.SchemaVersion, payload); err != nil {
		log.Printf("tokens: %s snapshot save failed: %v", s.cfg.Name, err)
	}
}

func (s *Store[R, V]) snapshotKey() string {
	return "theme:" + s.cfg.Name
}
