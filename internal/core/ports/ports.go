package ports

import (
	"context"

	"crafty-bot/internal/core/domain"
)

type ServerController interface {
	ListServers(ctx context.Context) ([]domain.Server, error)
	GetServerInfo(ctx context.Context, serverID string) (*domain.Server, error)
	GetServerStats(ctx context.Context, serverID string) (*domain.ServerStats, error)

	StartServer(ctx context.Context, serverID string) error
	StopServer(ctx context.Context, serverID string) error
	RestartServer(ctx context.Context, serverID string) error
	KillServer(ctx context.Context, serverID string) error

	Ping(ctx context.Context) error
}

type ChatPlatform interface {
	// SendReply posts embed in channelID as a reply to replyTo and returns the new message ID.
	SendReply(ctx context.Context, channelID, replyTo string, embed domain.Embed) (string, error)
	AddReactions(ctx context.Context, channelID, messageID string, glyphs []string) error
	RemoveReaction(ctx context.Context, channelID, messageID, glyph, userID string) error
	FetchUser(ctx context.Context, userID string) (*domain.User, error)
}

type AuditRepository interface {
	RecordAction(ctx context.Context, entry domain.AuditEntry) error
	RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error)
	Close()
}
