package protocol

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benchflow/benchflow-core/internal/apparatus"
	"github.com/benchflow/benchflow-core/internal/component"
)

// Persistence sentinels.
var (
	// ErrProtocolNotFound indicates no stored protocol matched the query.
	ErrProtocolNotFound = errors.New("protocol: not found")

	// ErrProtocolExists indicates a stored protocol with the same name
	// already exists.
	ErrProtocolExists = errors.New("protocol: already exists")
)

// StoredProtocol is the persistent form of a protocol: its identity plus
// its records in serialisable form. The apparatus itself is not
// persisted; Rehydrate re-binds the records to a live apparatus.
type StoredProtocol struct {
	ID          uuid.UUID
	Name        string
	Description string
	Apparatus   string
	Records     []ExportRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot captures the protocol's current records for persistence under
// a fresh identity. Taking a snapshot seals the protocol against Clear.
func (p *Protocol) Snapshot() *StoredProtocol {
	p.sealed = true
	now := time.Now().UTC()
	return &StoredProtocol{
		ID:          uuid.New(),
		Name:        p.name,
		Description: p.description,
		Apparatus:   p.apparatus.Name(),
		Records:     p.Export(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Rehydrate rebuilds a live protocol from a stored snapshot against the
// given apparatus. Every record passes through full builder validation
// again, so a snapshot that no longer matches the apparatus (renamed
// components, changed schemas) is rejected rather than silently loaded.
func Rehydrate(stored *StoredProtocol, a *apparatus.Apparatus) (*Protocol, error) {
	p, err := New(stored.Name, a)
	if err != nil {
		return nil, err
	}
	p.description = stored.Description

	for _, rec := range stored.Records {
		target := findComponent(a, rec.Component)
		if target == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, rec.Component)
		}
		timing := Timing{}
		if rec.Start != nil {
			timing.Start = *rec.Start
		}
		if rec.Stop != nil {
			timing.Stop = *rec.Stop
		}
		if err := p.Add(target, timing, rec.Params); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func findComponent(a *apparatus.Apparatus, name string) *component.Component {
	for _, c := range a.Components() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Repository defines protocol persistence. The SQLite implementation is
// the production one; tests may substitute their own.
type Repository interface {
	// Create inserts a new stored protocol with its records.
	// Returns ErrProtocolExists if the name is already taken.
	Create(ctx context.Context, stored *StoredProtocol) error

	// GetByID retrieves a stored protocol and its records.
	// Returns ErrProtocolNotFound if no such protocol exists.
	GetByID(ctx context.Context, id uuid.UUID) (*StoredProtocol, error)

	// GetByName retrieves a stored protocol and its records by name.
	// Returns ErrProtocolNotFound if no such protocol exists.
	GetByName(ctx context.Context, name string) (*StoredProtocol, error)

	// List retrieves all stored protocols, newest first, without their
	// records.
	List(ctx context.Context) ([]StoredProtocol, error)

	// Delete removes a stored protocol and its records.
	// Returns ErrProtocolNotFound if no such protocol exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository. The db
// parameter should be an open connection with migrations applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new stored protocol with its records.
func (r *SQLiteRepository) Create(ctx context.Context, stored *StoredProtocol) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM protocols WHERE name = ?`, stored.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking protocol name: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %q", ErrProtocolExists, stored.Name)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO protocols (id, name, description, apparatus, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		stored.ID.String(), stored.Name, stored.Description, stored.Apparatus,
		stored.CreatedAt.Format(time.RFC3339Nano), stored.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting protocol: %w", err)
	}

	for position, rec := range stored.Records {
		params, err := json.Marshal(rec.Params)
		if err != nil {
			return fmt.Errorf("marshalling params: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO procedures (id, protocol_id, position, component, start_seconds, stop_seconds, params, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), stored.ID.String(), position, rec.Component,
			nullableFloat(rec.Start), nullableFloat(rec.Stop), string(params),
			stored.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("inserting procedure %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a stored protocol and its records.
func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*StoredProtocol, error) {
	return r.get(ctx, `WHERE id = ?`, id.String())
}

// GetByName retrieves a stored protocol and its records by name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*StoredProtocol, error) {
	return r.get(ctx, `WHERE name = ?`, name)
}

func (r *SQLiteRepository) get(ctx context.Context, where string, arg any) (*StoredProtocol, error) {
	query := `
		SELECT id, name, description, apparatus, created_at, updated_at
		FROM protocols ` + where

	stored, err := scanProtocol(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProtocolNotFound
		}
		return nil, fmt.Errorf("querying protocol: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT component, start_seconds, stop_seconds, params
		FROM procedures
		WHERE protocol_id = ?
		ORDER BY position`, stored.ID.String())
	if err != nil {
		return nil, fmt.Errorf("querying procedures: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var (
			rec         ExportRecord
			start, stop sql.NullFloat64
			params      string
		)
		if err := rows.Scan(&rec.Component, &start, &stop, &params); err != nil {
			return nil, fmt.Errorf("scanning procedure: %w", err)
		}
		if start.Valid {
			rec.Start = &start.Float64
		}
		if stop.Valid {
			rec.Stop = &stop.Float64
		}
		if err := json.Unmarshal([]byte(params), &rec.Params); err != nil {
			return nil, fmt.Errorf("unmarshalling params: %w", err)
		}
		stored.Records = append(stored.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating procedures: %w", err)
	}

	return stored, nil
}

// List retrieves all stored protocols, newest first, without records.
func (r *SQLiteRepository) List(ctx context.Context) ([]StoredProtocol, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, apparatus, created_at, updated_at
		FROM protocols
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying protocols: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var out []StoredProtocol
	for rows.Next() {
		stored, err := scanProtocol(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning protocol: %w", err)
		}
		out = append(out, *stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating protocols: %w", err)
	}
	return out, nil
}

// Delete removes a stored protocol; its records cascade.
func (r *SQLiteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM protocols WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting protocol: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrProtocolNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanProtocol(s scanner) (*StoredProtocol, error) {
	var (
		stored               StoredProtocol
		id                   string
		createdAt, updatedAt string
	)
	if err := s.Scan(&id, &stored.Name, &stored.Description, &stored.Apparatus,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing protocol id: %w", err)
	}
	stored.ID = parsed

	if stored.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if stored.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &stored, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
