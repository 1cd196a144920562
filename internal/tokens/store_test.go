package tokens_test

import (
	"errors"
	"testing"

	"studio/internal/domain"
	"studio/internal/tokens"
)

// fakeInjector records every call so tests can assert injection behavior
// without a live surface.
type fakeInjector struct {
	applied  map[string]string
	previews []map[string]string
	reverts  int
	resolved map[string]string
}

func newFakeInjector() *fakeInjector {
	return &fakeInjector{applied: map[string]string{}, resolved: map[string]string{}}
}

func (f *fakeInjector) Inject(vars map[string]string) {
	for k, v := range vars {
		f.applied[k] = v
	}
}

func (f *fakeInjector) PreviewInject(vars map[string]string) {
	f.previews = append(f.previews, vars)
}

func (f *fakeInjector) RevertPreview() { f.reverts++ }

func (f *fakeInjector) Read(name string) (string, bool) {
	v, ok := f.resolved[name]
	return v, ok
}

// fakeSnapshots is an in-memory SnapshotStore with switchable failure.
type fakeSnapshots struct {
	payloads map[string][]byte
	versions map[string]int
	failing  bool
	saves    int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{payloads: map[string][]byte{}, versions: map[string]int{}}
}

func (f *fakeSnapshots) Save(key string, version int, payload []byte) error {
	if f.failing {
		return errors.New("disk full")
	}
	f.saves++
	f.payloads[key] = payload
	f.versions[key] = version
	return nil
}

func (f *fakeSnapshots) Load(key string, version int) ([]byte, error) {
	if f.failing {
		return nil, errors.New("disk gone")
	}
	if f.versions[key] != version {
		return nil, nil
	}
	return f.payloads[key], nil
}

func newColorStore(t *testing.T, inj tokens.Injector, snaps tokens.SnapshotStore) *tokens.Store[domain.ColorRole, domain.HSL] {
	t.Helper()
	s, err := tokens.NewStore(tokens.Config[domain.ColorRole, domain.HSL]{
		Name:          "colors",
		Roles:         domain.ColorRoles(),
		Defaults:      domain.DefaultColors(),
		Normalize:     func(_ domain.ColorRole, v domain.HSL) domain.HSL { return v.Normalize() },
		VarName:       domain.ColorVar,
		Format:        domain.HSL.CSS,
		Parse:         domain.ParseHSL,
		SchemaVersion: 1,
		Injector:      inj,
		Snapshots:     snaps,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestUpdateUndoScenario(t *testing.T) {
	inj := newFakeInjector()
	s := newColorStore(t, inj, nil)

	def := domain.HSL{H: 240, S: 1, L: 0.99}
	if got := s.Effective(domain.ColorBackground); got != def {
		t.Fatalf("default background = %+v, want %+v", got, def)
	}

	edit := domain.HSL{H: 220, S: 0.5, L: 0.2}
	if !s.Update(domain.ColorBackground, edit, "test") {
		t.Fatal("Update reported no change")
	}
	if got := s.Effective(domain.ColorBackground); got != edit {
		t.Fatalf("effective background = %+v, want %+v", got, edit)
	}
	if got := inj.applied["--color-background"]; got != "hsl(220, 50%, 20%)" {
		t.Fatalf("injected %q, want %q", got, "hsl(220, 50%, 20%)")
	}

	if !s.Undo() {
		t.Fatal("Undo returned false with one entry on the stack")
	}
	if got := s.Effective(domain.ColorBackground); got != def {
		t.Fatalf("after undo background = %+v, want %+v", got, def)
	}
	if s.Undo() {
		t.Fatal("Undo at the bottom of the stack must return false")
	}
}

func TestUpdateIsIdempotentByValue(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	v := domain.HSL{H: 10, S: 0.4, L: 0.4}
	s.Update(domain.ColorAccent, v, "")
	_, before := s.HistoryLen()

	if s.Update(domain.ColorAccent, v, "") {
		t.Fatal("committing the current value must be a no-op")
	}
	if _, after := s.HistoryLen(); after != before {
		t.Fatalf("history grew from %d to %d on an idempotent commit", before, after)
	}
}

func TestPreviewNeverTouchesHistory(t *testing.T) {
	inj := newFakeInjector()
	s := newColorStore(t, inj, nil)

	committed := s.Effective(domain.ColorPrimary)
	s.Preview(domain.ColorPrimary, domain.HSL{H: 1, S: 0.1, L: 0.1})
	if s.Effective(domain.ColorPrimary) == committed {
		t.Fatal("preview value should shadow the committed value")
	}
	if len(inj.previews) != 1 {
		t.Fatalf("expected 1 preview injection, got %d", len(inj.previews))
	}

	s.ClearPreview()
	if got := s.Effective(domain.ColorPrimary); got != committed {
		t.Fatalf("after ClearPreview effective = %+v, want %+v", got, committed)
	}
	if inj.reverts != 1 {
		t.Fatalf("expected 1 overlay revert, got %d", inj.reverts)
	}
	if applied, _ := s.HistoryLen(); applied != 0 {
		t.Fatal("preview must not create history entries")
	}

	// Idempotent with nothing active.
	s.ClearPreview()
	if inj.reverts != 1 {
		t.Fatal("ClearPreview with no active preview must be a no-op")
	}
}

func TestCommitClearsPreviewForRole(t *testing.T) {
	inj := newFakeInjector()
	s := newColorStore(t, inj, nil)

	s.Preview(domain.ColorBorder, domain.HSL{H: 5, S: 0.5, L: 0.5})
	s.Update(domain.ColorBorder, domain.HSL{H: 50, S: 0.5, L: 0.5}, "")
	if inj.reverts != 1 {
		t.Fatal("commit must clear the active preview for its role")
	}
	if got := s.Effective(domain.ColorBorder); got != (domain.HSL{H: 50, S: 0.5, L: 0.5}) {
		t.Fatalf("effective = %+v after commit", got)
	}
}

func TestBatchUpdateDropsNetEmpty(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	current := s.Committed(domain.ColorText)
	if s.BatchUpdate([]tokens.RoleChange[domain.ColorRole, domain.HSL]{
		{Role: domain.ColorText, Value: current},
	}, "suggested palette") {
		t.Fatal("net-empty batch must push nothing")
	}
	if _, total := s.HistoryLen(); total != 0 {
		t.Fatalf("history has %d entries after a net-empty batch", total)
	}
}

func TestBatchUpdateIsOneUndoStep(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	a := domain.HSL{H: 100, S: 0.3, L: 0.3}
	b := domain.HSL{H: 200, S: 0.3, L: 0.3}
	wasPrimary := s.Committed(domain.ColorPrimary)
	wasAccent := s.Committed(domain.ColorAccent)

	if !s.BatchUpdate([]tokens.RoleChange[domain.ColorRole, domain.HSL]{
		{Role: domain.ColorPrimary, Value: a},
		{Role: domain.ColorAccent, Value: b},
		{Role: domain.ColorText, Value: s.Committed(domain.ColorText)}, // dropped
	}, "apply suggestion") {
		t.Fatal("batch with real changes must commit")
	}
	if _, total := s.HistoryLen(); total != 1 {
		t.Fatalf("batch must be a single entry, got %d", total)
	}

	if !s.Undo() {
		t.Fatal("Undo after batch")
	}
	if s.Committed(domain.ColorPrimary) != wasPrimary || s.Committed(domain.ColorAccent) != wasAccent {
		t.Fatal("undo of a batch must restore every role atomically")
	}
	if !s.Redo() {
		t.Fatal("Redo after undo")
	}
	if s.Committed(domain.ColorPrimary) != a || s.Committed(domain.ColorAccent) != b {
		t.Fatal("redo of a batch must reapply every role atomically")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	edits := []struct {
		role  domain.ColorRole
		value domain.HSL
	}{
		{domain.ColorBackground, domain.HSL{H: 10, S: 0.1, L: 0.9}},
		{domain.ColorPrimary, domain.HSL{H: 20, S: 0.2, L: 0.8}},
		{domain.ColorPrimary, domain.HSL{H: 30, S: 0.3, L: 0.7}},
		{domain.ColorMuted, domain.HSL{H: 40, S: 0.4, L: 0.6}},
	}
	for _, e := range edits {
		s.Update(e.role, e.value, "")
	}
	want := s.Snapshot()

	for s.Undo() {
	}
	for s.Redo() {
	}

	got := s.Snapshot()
	for _, r := range domain.ColorRoles() {
		if got[r] != want[r] {
			t.Errorf("round trip changed %s: %+v != %+v", r, got[r], want[r])
		}
	}
}

func TestNewCommitTruncatesRedo(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	s.Update(domain.ColorPrimary, domain.HSL{H: 11, S: 0.5, L: 0.5}, "")
	s.Update(domain.ColorPrimary, domain.HSL{H: 22, S: 0.5, L: 0.5}, "")
	s.Undo()
	if !s.CanRedo() {
		t.Fatal("expected a redoable entry after undo")
	}

	s.Update(domain.ColorPrimary, domain.HSL{H: 33, S: 0.5, L: 0.5}, "")
	if s.CanRedo() {
		t.Fatal("a new commit must invalidate redo entries")
	}
	if _, total := s.HistoryLen(); total != 2 {
		t.Fatalf("history should hold 2 entries after truncation, got %d", total)
	}
}

func TestRevertIsForwardCommit(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	original := s.Committed(domain.ColorSurface)
	s.Update(domain.ColorSurface, domain.HSL{H: 77, S: 0.7, L: 0.7}, "")

	if !s.Revert(domain.ColorSurface) {
		t.Fatal("Revert found no history for a touched role")
	}
	if got := s.Committed(domain.ColorSurface); got != original {
		t.Fatalf("revert restored %+v, want %+v", got, original)
	}
	// Regenerate, don't rewind: the revert is its own entry.
	if _, total := s.HistoryLen(); total != 2 {
		t.Fatalf("revert must append an entry, history = %d", total)
	}
	if s.Revert(domain.ColorMuted) {
		t.Fatal("Revert must return false for an untouched role")
	}
}

func TestOutOfDomainValuesClamp(t *testing.T) {
	s := newColorStore(t, newFakeInjector(), nil)

	s.Update(domain.ColorAccent, domain.HSL{H: 380, S: 1.5, L: -0.25}, "")
	got := s.Committed(domain.ColorAccent)
	if got.H != 20 || got.S != 1 || got.L != 0 {
		t.Fatalf("expected clamped hsl(20, 100%%, 0%%), got %+v", got)
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	s, err := tokens.NewStore(tokens.Config[domain.ColorRole, domain.HSL]{
		Name:         "colors",
		Roles:        domain.ColorRoles(),
		Defaults:     domain.DefaultColors(),
		Normalize:    func(_ domain.ColorRole, v domain.HSL) domain.HSL { return v.Normalize() },
		VarName:      domain.ColorVar,
		Format:       domain.HSL.CSS,
		HistoryLimit: 3,
		Injector:     newFakeInjector(),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	for i := 1; i <= 6; i++ {
		s.Update(domain.ColorPrimary, domain.HSL{H: float64(i * 10), S: 0.5, L: 0.5}, "")
	}
	if _, total := s.HistoryLen(); total != 3 {
		t.Fatalf("history should be capped at 3, got %d", total)
	}

	undos := 0
	for s.Undo() {
		undos++
	}
	if undos != 3 {
		t.Fatalf("expected exactly 3 undo steps after eviction, got %d", undos)
	}
}

func TestSnapshotRestoresOnRestart(t *testing.T) {
	snaps := newFakeSnapshots()
	edit := domain.HSL{H: 123, S: 0.45, L: 0.67}

	s := newColorStore(t, newFakeInjector(), snaps)
	s.Update(domain.ColorBackground, edit, "")
	if snaps.saves == 0 {
		t.Fatal("commit should persist a snapshot")
	}

	restarted := newColorStore(t, newFakeInjector(), snaps)
	if got := restarted.Committed(domain.ColorBackground); got != edit {
		t.Fatalf("restart loaded %+v, want %+v", got, edit)
	}
}

func TestSnapshotVersionMismatchFallsBack(t *testing.T) {
	snaps := newFakeSnapshots()
	s := newColorStore(t, newFakeInjector(), snaps)
	s.Update(domain.ColorBackground, domain.HSL{H: 1, S: 0.1, L: 0.1}, "")

	// Pretend the snapshot was written by an older schema.
	snaps.versions["theme:colors"] = 0

	restarted := newColorStore(t, newFakeInjector(), snaps)
	if got := restarted.Committed(domain.ColorBackground); got != domain.DefaultColors()[domain.ColorBackground] {
		t.Fatalf("version mismatch must fall back to defaults, got %+v", got)
	}
}

func TestPersistenceFailureNeverPropagates(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.failing = true

	s := newColorStore(t, newFakeInjector(), snaps)
	edit := domain.HSL{H: 99, S: 0.9, L: 0.9}
	if !s.Update(domain.ColorText, edit, "") {
		t.Fatal("a failing snapshot store must not block commits")
	}
	if got := s.Committed(domain.ColorText); got != edit {
		t.Fatalf("in-memory state must stay authoritative, got %+v", got)
	}
}

func TestColdStartReadsSurface(t *testing.T) {
	inj := newFakeInjector()
	inj.resolved["--color-background"] = "hsl(10, 50%, 40%)"

	s := newColorStore(t, inj, newFakeSnapshots())
	want := domain.HSL{H: 10, S: 0.5, L: 0.4}
	if got := s.Committed(domain.ColorBackground); got != want {
		t.Fatalf("cold start should adopt the surface value, got %+v want %+v", got, want)
	}
	// Roles absent from the surface keep their defaults.
	if got := s.Committed(domain.ColorMuted); got != domain.DefaultColors()[domain.ColorMuted] {
		t.Fatalf("unresolved role should default, got %+v", got)
	}
}
