// Package pointdb keeps an in-memory SQL index of a point cloud so a run can
// be inspected with ad-hoc queries from the debug pages. Nothing is written
// to disk.
package pointdb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/teschty/binviz/internal/cloud"
)

type DB struct {
	*sql.DB
	name string
}

// Open creates a fresh in-memory database named after name. Distinct names
// give distinct databases. The pool is pinned to one connection because an
// in-memory database lives only as long as the connection holding it.
func Open(name string) (*DB, error) {
	dsn := fmt.Sprintf("file:binviz-%s?mode=memory", name)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open point index: %w", err)
	}
	return &DB{DB: db, name: name}, nil
}

// OpenIndexed opens a database, applies the schema and indexes c.
func OpenIndexed(c *cloud.Cloud) (*DB, error) {
	db, err := Open(c.Source.RunID)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	if err := db.IndexCloud(c); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// IndexCloud records the run and all of its points in one transaction.
func (db *DB) IndexCloud(c *cloud.Cloud) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, source_path, digest, size_bytes, policy, triplets, dropped, unique_points, duplicates)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Source.RunID, c.Source.Path, c.Source.Digest.String(), c.Source.Size,
		c.Policy.String(), c.Triplets, c.Dropped, len(c.Points), c.Duplicates,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO points (run_id, idx, packed_key, b0, b1, b2, x, y, z, r, g, b, dup_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range c.Points {
		b0, b1, b2 := p.Key.Bytes()
		var r, g, b sql.NullFloat64
		if p.HasColor {
			r = sql.NullFloat64{Float64: float64(p.Color[0]), Valid: true}
			g = sql.NullFloat64{Float64: float64(p.Color[1]), Valid: true}
			b = sql.NullFloat64{Float64: float64(p.Color[2]), Valid: true}
		}
		_, err := stmt.Exec(
			c.Source.RunID, i, int64(p.Key), int(b0), int(b1), int(b2),
			float64(p.Position[0]), float64(p.Position[1]), float64(p.Position[2]),
			r, g, b, int64(p.DuplicateCount),
		)
		if err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit point index: %w", err)
	}
	return nil
}

// RunStats is the per-run aggregate as seen through SQL.
type RunStats struct {
	UniquePoints int
	Consumed     int
	MaxDupCount  int
}

// Stats aggregates the indexed points of runID.
func (db *DB) Stats(runID string) (RunStats, error) {
	var s RunStats
	err := db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(dup_count + 1), 0), COALESCE(MAX(dup_count), 0)
		FROM points WHERE run_id = ?`, runID,
	).Scan(&s.UniquePoints, &s.Consumed, &s.MaxDupCount)
	if err != nil {
		return RunStats{}, fmt.Errorf("failed to query run stats: %w", err)
	}
	return s, nil
}

// Hotspot is one row of the hotspots view.
type Hotspot struct {
	Index       int    `json:"idx"`
	Triplet     string `json:"triplet"`
	Occurrences int    `json:"occurrences"`
}

// TopHotspots returns up to limit of the most repeated triplets of runID.
func (db *DB) TopHotspots(runID string, limit int) ([]Hotspot, error) {
	rows, err := db.Query(`
		SELECT idx, triplet, occurrences FROM hotspots
		WHERE run_id = ?
		ORDER BY occurrences DESC, idx ASC
		LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hotspot
	for rows.Next() {
		var h Hotspot
		if err := rows.Scan(&h.Index, &h.Triplet, &h.Occurrences); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
