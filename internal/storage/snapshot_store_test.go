package storage_test

import (
	"path/filepath"
	"testing"

	"studio/internal/domain"
	"studio/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "studio.db"), dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	s := storage.NewSnapshotStore(openTestDB(t))

	if err := s.Save("theme:colors", 1, []byte(`{"background":{"h":240,"s":1,"l":0.99}}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load("theme:colors", 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"background":{"h":240,"s":1,"l":0.99}}` {
		t.Fatalf("payload mismatch: %s", got)
	}

	// Overwrite wins.
	if err := s.Save("theme:colors", 1, []byte(`{}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}
	got, _ = s.Load("theme:colors", 1)
	if string(got) != `{}` {
		t.Fatalf("expected overwritten payload, got %s", got)
	}
}

func TestSnapshotStoreVersionMismatch(t *testing.T) {
	s := storage.NewSnapshotStore(openTestDB(t))

	if err := s.Save("theme:fonts", 1, []byte(`{"body":"Inter"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load("theme:fonts", 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("version mismatch must read as no snapshot, got %s", got)
	}

	if got, _ := s.Load("theme:absent", 1); got != nil {
		t.Fatalf("missing key must read as no snapshot, got %s", got)
	}
}

func TestElementStoreCRUD(t *testing.T) {
	s := storage.NewElementStore(openTestDB(t))

	e := &domain.Element{ID: "el-1", Type: domain.ElementTypeShape, X: 30, Y: 60, Width: 300, Height: 200}
	if err := s.CreateElement(e); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := s.GetElement("el-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.X != 30 || loaded.Width != 300 || loaded.Type != domain.ElementTypeShape {
		t.Fatalf("loaded element mismatch: %+v", loaded)
	}

	loaded.X = 330
	if err := s.UpdateElement(loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	all, err := s.ListElements()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].X != 330 {
		t.Fatalf("list after update: %+v", all)
	}

	if err := s.DeleteElement("el-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if all, _ := s.ListElements(); len(all) != 0 {
		t.Fatalf("expected empty canvas after delete, got %d", len(all))
	}
}
