package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type ServerAction struct {
	ID         int64
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
