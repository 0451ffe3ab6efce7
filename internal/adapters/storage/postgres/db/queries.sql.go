package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const ensureServerActionsIndex = `-- name: EnsureServerActionsIndex :exec
CREATE INDEX IF NOT EXISTS server_actions_server_created_idx
    ON server_actions (server_id, created_at DESC)
`

func (q *Queries) EnsureServerActionsIndex(ctx context.Context) error {
	_, err := q.db.Exec(ctx, ensureServerActionsIndex)
	return err
}

const ensureServerActionsTable = `-- name: EnsureServerActionsTable :exec
CREATE TABLE IF NOT EXISTS server_actions (
    id          BIGSERIAL PRIMARY KEY,
    server_id   TEXT        NOT NULL,
    server_name TEXT        NOT NULL DEFAULT '',
    action      TEXT        NOT NULL,
    user_id     TEXT        NOT NULL,
    username    TEXT        NOT NULL DEFAULT '',
    source      TEXT        NOT NULL,
    success     BOOLEAN     NOT NULL,
    error       TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)
`

func (q *Queries) EnsureServerActionsTable(ctx context.Context) error {
	_, err := q.db.Exec(ctx, ensureServerActionsTable)
	return err
}

const insertServerAction = `-- name: InsertServerAction :exec
INSERT INTO server_actions (server_id, server_name, action, user_id, username, source, success, error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertServerActionParams struct {
	ServerID   string
	ServerName string
	Action     string
	UserID     string
	Username   string
	Source     string
	Success    bool
	Error      pgtype.Text
	CreatedAt  pgtype.Timestamptz
}

func (q *Queries) InsertServerAction(ctx context.Context, arg InsertServerActionParams) error {
	_, err := q.db.Exec(ctx, insertServerAction,
		arg.ServerID,
		arg.ServerName,
		arg.Action,
		arg.UserID,
		arg.Username,
		arg.Source,
		arg.Success,
		arg.Error,
		arg.CreatedAt,
	)
	return err
}

const listRecentServerActions = `-- name: ListRecentServerActions :many
SELECT id, server_id, server_name, action, user_id, username, source, success, error, created_at
FROM server_actions
WHERE server_id = $1
ORDER BY created_at DESC
LIMIT $2
`

type ListRecentServerActionsParams struct {
	ServerID string
	Limit    int32
}

func (q *Queries) ListRecentServerActions(ctx context.Context, arg ListRecentServerActionsParams) ([]ServerAction, error) {
	rows, err := q.db.Query(ctx, listRecentServerActions, arg.ServerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ServerAction
	for rows.Next() {
		var i ServerAction
		if err := rows.Scan(
			&i.ID,
			&i.ServerID,
			&i.ServerName,
			&i.Action,
			&i.UserID,
			&i.Username,
			&i.Source,
			&i.Success,
			&i.Error,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
