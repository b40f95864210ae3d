package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"yahtzee-server/internal/result"
)

// PostgresStore persists games as JSON blobs, one row per record.
// The schema is deliberately narrow: the store owns bytes, not game
// structure.
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS games (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS pending_games (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Games(ctx context.Context) result.Result[[]StoredGame] {
	return listRows[StoredGame](ctx, s.db, `SELECT data FROM games ORDER BY updated_at DESC`)
}

func (s *PostgresStore) Game(ctx context.Context, id string) result.Result[StoredGame] {
	return getRow[StoredGame](ctx, s.db, `SELECT data FROM games WHERE id = $1`, id)
}

func (s *PostgresStore) AddGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	return upsertRow(ctx, s.db, `
		INSERT INTO games (id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		game.ID, game)
}

func (s *PostgresStore) ReplaceGame(ctx context.Context, game StoredGame) result.Result[StoredGame] {
	return replaceRow(ctx, s.db, `UPDATE games SET data = $2, updated_at = $3 WHERE id = $1`,
		game.ID, game)
}

func (s *PostgresStore) PendingGames(ctx context.Context) result.Result[[]PendingGame] {
	return listRows[PendingGame](ctx, s.db, `SELECT data FROM pending_games ORDER BY updated_at DESC`)
}

func (s *PostgresStore) PendingGame(ctx context.Context, id string) result.Result[PendingGame] {
	return getRow[PendingGame](ctx, s.db, `SELECT data FROM pending_games WHERE id = $1`, id)
}

func (s *PostgresStore) AddPending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	pending.ID = uuid.New().String()
	return upsertRow(ctx, s.db, `
		INSERT INTO pending_games (id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		pending.ID, pending)
}

func (s *PostgresStore) ReplacePending(ctx context.Context, pending PendingGame) result.Result[PendingGame] {
	return replaceRow(ctx, s.db, `UPDATE pending_games SET data = $2, updated_at = $3 WHERE id = $1`,
		pending.ID, pending)
}

func (s *PostgresStore) DeletePending(ctx context.Context, id string) result.Result[struct{}] {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pending_games WHERE id = $1`, id)
	if err != nil {
		return result.Err[struct{}](StoreError{Cause: err})
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return result.Err[struct{}](StoreError{Cause: err})
	}
	if affected == 0 {
		return result.Err[struct{}](NotFoundError{Key: id})
	}
	return result.Ok(struct{}{})
}

func listRows[T any](ctx context.Context, db *sql.DB, query string) result.Result[[]T] {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return result.Err[[]T](StoreError{Cause: err})
	}
	defer rows.Close()

	records := make([]T, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return result.Err[[]T](StoreError{Cause: err})
		}
		var record T
		if err := json.Unmarshal(data, &record); err != nil {
			return result.Err[[]T](StoreError{Cause: err})
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return result.Err[[]T](StoreError{Cause: err})
	}
	return result.Ok(records)
}

func getRow[T any](ctx context.Context, db *sql.DB, query, id string) result.Result[T] {
	var data []byte
	err := db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return result.Err[T](NotFoundError{Key: id})
	}
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}

	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	return result.Ok(record)
}

func upsertRow[T any](ctx context.Context, db *sql.DB, query, id string, record T) result.Result[T] {
	data, err := json.Marshal(record)
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	if _, err := db.ExecContext(ctx, query, id, data, time.Now()); err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	return result.Ok(record)
}

func replaceRow[T any](ctx context.Context, db *sql.DB, query, id string, record T) result.Result[T] {
	data, err := json.Marshal(record)
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	res, err := db.ExecContext(ctx, query, id, data, time.Now())
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return result.Err[T](StoreError{Cause: err})
	}
	if affected == 0 {
		return result.Err[T](NotFoundError{Key: id})
	}
	return result.Ok(record)
}
