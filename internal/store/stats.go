package store

import (
	"context"
	"errors"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	Runs        int         `json:"runs"`
	LatestRun   string      `json:"latest_run,omitempty"`
	Units       int         `json:"units"`
	Unresolved  int         `json:"unresolved_units"`
	Presets     int         `json:"presets"`
	AmmoTypes   int         `json:"ammo_types"`
	TopAmmo     []AmmoStats `json:"top_ammo"`
}

// AmmoStats counts how many units of the latest run carry an ammo type.
type AmmoStats struct {
	Ammo  string `json:"ammo"`
	Units int    `json:"units"`
}

// Stats returns database statistics. Per-unit counts describe the latest run.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, TopAmmo: []AmmoStats{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&st.Runs)

	run, err := s.LatestRun(ctx)
	if errors.Is(err, ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	st.LatestRun = run.ID

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units WHERE run_id = ?`, run.ID).Scan(&st.Units)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM units WHERE run_id = ? AND resolved = 0`, run.ID).Scan(&st.Unresolved)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unit_presets WHERE run_id = ?`, run.ID).Scan(&st.Presets)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT ammo) FROM unit_ammo WHERE run_id = ?`, run.ID).Scan(&st.AmmoTypes)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ammo, COUNT(*) AS cnt
		FROM unit_ammo WHERE run_id = ?
		GROUP BY ammo ORDER BY cnt DESC, ammo
		LIMIT 10`, run.ID)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var a AmmoStats
		rows.Scan(&a.Ammo, &a.Units)
		st.TopAmmo = append(st.TopAmmo, a)
	}

	return st, nil
}
