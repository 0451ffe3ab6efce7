package postgres

import (
	"context"
	"fmt"

	"crafty-bot/internal/adapters/storage/postgres/db"
	"crafty-bot/internal/core/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the audit log of server power actions.
type PostgresStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{
		pool: pool,
		q:    db.New(pool),
	}

	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the server_actions table and its index if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if err := s.q.EnsureServerActionsTable(ctx); err != nil {
		return fmt.Errorf("create server_actions table: %w", err)
	}
	if err := s.q.EnsureServerActionsIndex(ctx); err != nil {
		return fmt.Errorf("create server_actions index: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	err := s.q.InsertServerAction(ctx, db.InsertServerActionParams{
		ServerID:   entry.ServerID,
		ServerName: entry.Server,
		Action:     string(entry.Action),
		UserID:     entry.UserID,
		Username:   entry.Username,
		Source:     entry.Source,
		Success:    entry.Success,
		Error:      pgtype.Text{String: entry.Error, Valid: entry.Error != ""},
		CreatedAt:  pgtype.Timestamptz{Time: entry.CreatedAt, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("record server action: %w", err)
	}
	return nil
}

// RecentActions returns the latest actions for serverID, newest first.
func (s *PostgresStore) RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.q.ListRecentServerActions(ctx, db.ListRecentServerActionsParams{
		ServerID: serverID,
		Limit:    int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list recent server actions: %w", err)
	}

	result := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.AuditEntry{
			ServerID:  row.ServerID,
			Server:    row.ServerName,
			Action:    domain.ServerOperation(row.Action),
			UserID:    row.UserID,
			Username:  row.Username,
			Source:    row.Source,
			Success:   row.Success,
			Error:     row.Error.String,
			CreatedAt: row.CreatedAt.Time,
		})
	}
	return result, nil
}
