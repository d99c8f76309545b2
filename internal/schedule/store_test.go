package schedule

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Create(baseItem())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected a positive assigned id, got %d", created.ID)
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := baseItem()
	want.ID = created.ID
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestStore_CreateIgnoresInputID(t *testing.T) {
	s := newTestStore(t)

	it := baseItem()
	it.ID = 999
	created, err := s.Create(it)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 999 {
		t.Error("store must own id assignment")
	}
	if _, err := s.Get(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("input id must not be honored, got %v", err)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	s := newTestStore(t)
	created, _ := s.Create(baseItem())

	revised := baseItem()
	revised.Title = "Leg Day"
	revised.Urgency = UrgencyCritical
	if _, err := s.Update(created.ID, revised); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(created.ID)
	if got.Title != "Leg Day" || got.Urgency != UrgencyCritical {
		t.Errorf("update not persisted: %+v", got)
	}

	if _, err := s.Update(9999, revised); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)
	created, _ := s.Create(baseItem())

	if err := s.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("item should be gone, got %v", err)
	}
	if err := s.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestStore_ListEmptyIsNonNil(t *testing.T) {
	s := newTestStore(t)
	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items == nil {
		t.Error("empty list must be non-nil so it serializes as []")
	}
	if len(items) != 0 {
		t.Errorf("expected empty store, got %d items", len(items))
	}
}

func TestStore_ListDateFilter(t *testing.T) {
	s := newTestStore(t)

	day := baseItem()
	day.Title = "Same Day"
	day.StartDate, day.EndDate = "2025-08-16", "2025-08-16"
	span := baseItem()
	span.Title = "Spans Days"
	span.StartDate, span.EndDate = "2025-08-15", "2025-08-18"
	other := baseItem()
	other.Title = "Other Day"
	other.StartDate, other.EndDate = "2025-08-20", "2025-08-20"

	for _, it := range []Item{day, span, other} {
		if _, err := s.Create(it); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := s.List("2025-08-16")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	want := []string{"Same Day", "Spans Days"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("filtered titles = %v, want %v", titles, want)
	}

	// Boundary dates are inclusive on both ends.
	if items, _ := s.List("2025-08-18"); len(items) != 1 || items[0].Title != "Spans Days" {
		t.Errorf("endDate boundary should match, got %v", items)
	}

	if all, _ := s.List(""); len(all) != 3 {
		t.Errorf("empty filter should return everything, got %d", len(all))
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	s.Create(baseItem())
	s.Create(baseItem())

	n, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	if items, _ := s.List(""); len(items) != 0 {
		t.Errorf("store should be empty after clear, got %d items", len(items))
	}
}

func TestStore_UpdateAllRollsBackOnMissingID(t *testing.T) {
	s := newTestStore(t)
	created, _ := s.Create(baseItem())

	good := *created
	good.Title = "Changed Title"
	missing := baseItem()
	missing.ID = 9999

	err := s.UpdateAll([]Item{good, missing})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, _ := s.Get(created.ID)
	if got.Title != baseItem().Title {
		t.Errorf("failed batch must not partially apply: %+v", got)
	}
}

func TestStore_UpdateAll(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.Create(baseItem())
	b, _ := s.Create(baseItem())

	ra, rb := *a, *b
	ra.Start, ra.End = "8:00 AM", "9:00 AM"
	rb.Start, rb.End = "9:00 AM", "10:00 AM"
	if err := s.UpdateAll([]Item{ra, rb}); err != nil {
		t.Fatalf("UpdateAll: %v", err)
	}

	got, _ := s.Get(a.ID)
	if got.Start != "8:00 AM" {
		t.Errorf("batch update not persisted: %+v", got)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	s := newTestStore(t)
	s.Create(baseItem())
	s.Create(baseItem())

	fresh := baseItem()
	fresh.Title = "Morning Jog"
	created, err := s.ReplaceAll([]Item{fresh})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if len(created) != 1 || created[0].ID <= 0 {
		t.Fatalf("expected one item with assigned id, got %v", created)
	}

	items, _ := s.List("")
	if len(items) != 1 || items[0].Title != "Morning Jog" {
		t.Errorf("old schedule should be fully replaced, got %v", items)
	}
}
