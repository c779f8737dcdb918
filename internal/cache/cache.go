package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Madan2468/resqLink-frontend/internal/model"
)

// Cache persists the most recent case snapshot locally so the UI has
// content to show before the first fetch of a session resolves. It is
// a convenience mirror, not a source of truth: every successful fetch
// replaces it wholesale.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// ReplaceSnapshot overwrites the cached snapshot with the given cases.
func (c *Cache) ReplaceSnapshot(ctx context.Context, cs []model.Case) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cases"); err != nil {
		return fmt.Errorf("clearing cached cases: %w", err)
	}

	const query = `
		INSERT INTO cases (
			id, user_id, title, description, photo,
			lat, lng, address, urgency, status,
			created_at, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, cs := range cs {
		var lat, lng sql.NullFloat64
		var address sql.NullString
		if cs.Location != nil {
			lat = sql.NullFloat64{Float64: cs.Location.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: cs.Location.Lng, Valid: true}
			if cs.Location.Address != "" {
				address = sql.NullString{String: cs.Location.Address, Valid: true}
			}
		}

		_, err = stmt.ExecContext(ctx,
			cs.ID, cs.UserID, cs.Title, cs.Description, cs.Photo,
			lat, lng, address, string(cs.Urgency), string(cs.Status),
			cs.CreatedAt.UTC(), now,
		)
		if err != nil {
			return fmt.Errorf("caching case %s: %w", cs.ID, err)
		}
	}

	return tx.Commit()
}

// LoadSnapshot returns the cached snapshot in insertion order. An empty
// cache yields an empty slice.
func (c *Cache) LoadSnapshot(ctx context.Context) ([]model.Case, error) {
	rows, err := c.db.QueryxContext(ctx, "SELECT * FROM cases ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying cached cases: %w", err)
	}
	defer rows.Close()

	var cs []model.Case
	for rows.Next() {
		one, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, one)
	}

	return cs, rows.Err()
}

// scanCase scans a case row from a sqlx.Rows result set.
func scanCase(rows *sqlx.Rows) (model.Case, error) {
	var (
		c         model.Case
		urgency   string
		status    string
		lat       sql.NullFloat64
		lng       sql.NullFloat64
		address   sql.NullString
		createdAt time.Time
		cachedAt  time.Time
	)

	err := rows.Scan(
		&c.ID, &c.UserID, &c.Title, &c.Description, &c.Photo,
		&lat, &lng, &address, &urgency, &status,
		&createdAt, &cachedAt,
	)
	if err != nil {
		return model.Case{}, fmt.Errorf("scanning case row: %w", err)
	}

	c.Urgency = model.Urgency(urgency)
	c.Status = model.Status(status)
	c.CreatedAt = createdAt

	if lat.Valid && lng.Valid {
		loc := &model.Location{Lat: lat.Float64, Lng: lng.Float64}
		if address.Valid {
			loc.Address = address.String
		}
		c.Location = loc
	}

	return c, nil
}
