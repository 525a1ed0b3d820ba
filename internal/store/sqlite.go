package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/blk-extract/internal/model"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	sq      sq.StatementBuilderType
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		sq:      sq.StatementBuilder,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		input_dir   TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		units       INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS units (
		run_id      TEXT NOT NULL REFERENCES runs(id),
		id          TEXT NOT NULL,
		name        TEXT NOT NULL,
		country     TEXT NOT NULL,
		role        TEXT NOT NULL,
		ammo_amount INTEGER NOT NULL DEFAULT 0,
		image       TEXT NOT NULL,
		resolved    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_units_country ON units(run_id, country);

	CREATE TABLE IF NOT EXISTS unit_presets (
		run_id      TEXT NOT NULL,
		unit_id     TEXT NOT NULL,
		seq         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		PRIMARY KEY (run_id, unit_id, seq),
		FOREIGN KEY (run_id, unit_id) REFERENCES units(run_id, id)
	);

	CREATE TABLE IF NOT EXISTS unit_ammo (
		run_id      TEXT NOT NULL,
		unit_id     TEXT NOT NULL,
		ammo        TEXT NOT NULL,
		PRIMARY KEY (run_id, unit_id, ammo),
		FOREIGN KEY (run_id, unit_id) REFERENCES units(run_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_unit_ammo_ammo ON unit_ammo(run_id, ammo);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) SaveRun(ctx context.Context, inputDir string, units []model.UnitRecord) (*model.Run, error) {
	now := time.Now().UTC()
	run := &model.Run{
		ID:        s.newID(),
		InputDir:  inputDir,
		CreatedAt: now.Truncate(time.Second),
		Units:     len(units),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.exec(ctx, tx, s.sq.Insert("runs").
		Columns("id", "input_dir", "created_at", "units").
		Values(run.ID, run.InputDir, now.Format(time.RFC3339), run.Units)); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for _, u := range units {
		if err := s.exec(ctx, tx, s.sq.Insert("units").
			Columns("run_id", "id", "name", "country", "role", "ammo_amount", "image", "resolved").
			Values(run.ID, u.ID, u.Name, u.Country, u.Role, u.AmmoAmount, u.Image, u.Resolved)); err != nil {
			return nil, fmt.Errorf("insert unit %s: %w", u.ID, err)
		}

		if len(u.WeaponsDefault) > 0 {
			q := s.sq.Insert("unit_presets").Columns("run_id", "unit_id", "seq", "name")
			for i, p := range u.WeaponsDefault {
				q = q.Values(run.ID, u.ID, i, p)
			}
			if err := s.exec(ctx, tx, q); err != nil {
				return nil, fmt.Errorf("insert presets %s: %w", u.ID, err)
			}
		}

		if len(u.Ammo) > 0 {
			q := s.sq.Insert("unit_ammo").Columns("run_id", "unit_id", "ammo")
			for _, a := range u.Ammo {
				q = q.Values(run.ID, u.ID, a)
			}
			if err := s.exec(ctx, tx, q); err != nil {
				return nil, fmt.Errorf("insert ammo %s: %w", u.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) exec(ctx context.Context, tx *sql.Tx, b sq.InsertBuilder) error {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*model.Run, error) {
	var run model.Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, input_dir, created_at, units FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&run.ID, &run.InputDir, &createdAt, &run.Units)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no runs recorded: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("run %s created_at: %w", run.ID, err)
	}
	return &run, nil
}

func (s *SQLiteStore) resolveRun(ctx context.Context, runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	run, err := s.LatestRun(ctx)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (s *SQLiteStore) unitQuery(runID string) sq.SelectBuilder {
	return s.sq.Select("u.id", "u.name", "u.country", "u.role", "u.ammo_amount", "u.image", "u.resolved").
		From("units u").
		Where(sq.Eq{"u.run_id": runID})
}

func (s *SQLiteStore) ListUnits(ctx context.Context, p ListParams) ([]model.UnitRecord, error) {
	runID, err := s.resolveRun(ctx, p.RunID)
	if err != nil {
		return nil, err
	}

	q := s.unitQuery(runID).OrderBy("u.id")
	if p.Country != "" {
		q = q.Where(sq.Eq{"u.country": p.Country})
	}
	if p.Ammo != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM unit_ammo a
			WHERE a.run_id = u.run_id AND a.unit_id = u.id AND a.ammo = ?)`, p.Ammo)
	}
	if p.Limit > 0 {
		q = q.Limit(uint64(p.Limit))
	}

	units, err := s.queryUnits(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range units {
		if err := s.loadLists(ctx, runID, &units[i]); err != nil {
			return nil, err
		}
	}
	return units, nil
}

func (s *SQLiteStore) GetUnit(ctx context.Context, runID, id string) (*model.UnitRecord, error) {
	runID, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	units, err := s.queryUnits(ctx, s.unitQuery(runID).Where(sq.Eq{"u.id": id}))
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("unit %s in run %s: %w", id, runID, ErrNotFound)
	}
	u := units[0]
	if err := s.loadLists(ctx, runID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) queryUnits(ctx context.Context, q sq.SelectBuilder) ([]model.UnitRecord, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []model.UnitRecord{}
	for rows.Next() {
		var u model.UnitRecord
		if err := rows.Scan(&u.ID, &u.Name, &u.Country, &u.Role, &u.AmmoAmount, &u.Image, &u.Resolved); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// loadLists fills the preset and ammo slices of u.
func (s *SQLiteStore) loadLists(ctx context.Context, runID string, u *model.UnitRecord) error {
	var err error
	u.WeaponsDefault, err = s.queryStrings(ctx,
		`SELECT name FROM unit_presets WHERE run_id = ? AND unit_id = ? ORDER BY seq`, runID, u.ID)
	if err != nil {
		return fmt.Errorf("load presets %s: %w", u.ID, err)
	}
	u.Ammo, err = s.queryStrings(ctx,
		`SELECT ammo FROM unit_ammo WHERE run_id = ? AND unit_id = ? ORDER BY ammo`, runID, u.ID)
	if err != nil {
		return fmt.Errorf("load ammo %s: %w", u.ID, err)
	}
	return nil
}

func (s *SQLiteStore) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
