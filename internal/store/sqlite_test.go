package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rcliao/blk-extract/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testUnits() []model.UnitRecord {
	return []model.UnitRecord{
		{
			ID: "tiger", Name: "Tiger H1", Country: "Germany", Role: "Heavy tank", AmmoAmount: 92,
			Image: "tiger.png", WeaponsDefault: []string{"AP belt", "HE belt", "AP belt"},
			Ammo: []string{"88mm_apcbc", "88mm_he"}, Resolved: true,
		},
		{
			ID: "m4", Name: "m4 (USA)", Country: "USA", Role: "Medium tank", AmmoAmount: 25,
			Image: "m4.png", WeaponsDefault: []string{}, Ammo: []string{"75mm_apcbc", "75mm_he"},
		},
		{
			ID: "panther", Name: "panther (USA)", Country: "USA", Role: "Medium tank", AmmoAmount: 25,
			Image: "panther.png", WeaponsDefault: []string{"Default"}, Ammo: []string{},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.SaveRun(ctx, "/data/tanks", testUnits())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if run.ID == "" {
		t.Error("expected non-empty run ID")
	}
	if run.Units != 3 {
		t.Errorf("expected 3 units, got %d", run.Units)
	}

	got, err := s.GetUnit(ctx, "", "tiger")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := testUnits()[0]
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("expected %+v, got %+v", want, *got)
	}

	m4, err := s.GetUnit(ctx, run.ID, "m4")
	if err != nil {
		t.Fatalf("get m4: %v", err)
	}
	if m4.Resolved {
		t.Error("expected m4 to be unresolved")
	}
	if m4.WeaponsDefault == nil || len(m4.WeaponsDefault) != 0 {
		t.Errorf("expected empty presets, got %#v", m4.WeaponsDefault)
	}

	_, err = s.GetUnit(ctx, "", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.LatestRun(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	s.SaveRun(ctx, "first", testUnits())
	second, _ := s.SaveRun(ctx, "second", testUnits()[:1])

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID || latest.InputDir != "second" {
		t.Errorf("expected second run, got %+v", latest)
	}

	units, err := s.ListUnits(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(units) != 1 {
		t.Errorf("expected 1 unit in latest run, got %d", len(units))
	}
}

func TestListUnitsFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SaveRun(ctx, "dir", testUnits())

	ids := func(units []model.UnitRecord) []string {
		var out []string
		for _, u := range units {
			out = append(out, u.ID)
		}
		return out
	}

	all, err := s.ListUnits(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ids(all); !reflect.DeepEqual(got, []string{"m4", "panther", "tiger"}) {
		t.Errorf("unexpected order %v", got)
	}

	usa, _ := s.ListUnits(ctx, ListParams{Country: "USA"})
	if got := ids(usa); !reflect.DeepEqual(got, []string{"m4", "panther"}) {
		t.Errorf("unexpected country filter %v", got)
	}

	he, _ := s.ListUnits(ctx, ListParams{Ammo: "88mm_he"})
	if got := ids(he); !reflect.DeepEqual(got, []string{"tiger"}) {
		t.Errorf("unexpected ammo filter %v", got)
	}

	limited, _ := s.ListUnits(ctx, ListParams{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2 units, got %d", len(limited))
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	empty, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if empty.Runs != 0 || empty.Units != 0 {
		t.Errorf("expected empty stats, got %+v", empty)
	}

	s.SaveRun(ctx, "dir", testUnits())
	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Runs != 1 || st.Units != 3 || st.Unresolved != 2 {
		t.Errorf("unexpected counts %+v", st)
	}
	if st.Presets != 4 || st.AmmoTypes != 4 {
		t.Errorf("expected 4 presets and 4 ammo types, got %+v", st)
	}
	if len(st.TopAmmo) != 4 || st.TopAmmo[0].Ammo != "75mm_apcbc" {
		t.Errorf("unexpected top ammo %+v", st.TopAmmo)
	}
}

func TestLatestRunBadTimestamp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_dir, created_at, units) VALUES (?, ?, ?, ?)`,
		"01ZZZZZZZZZZZZZZZZZZZZZZZZ", "dir", "yesterday", 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.LatestRun(ctx); err == nil {
		t.Fatal("expected error for unparseable created_at")
	}
}
