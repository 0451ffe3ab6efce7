package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crafty-bot/internal/adapters/metrics"
	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

var ErrNoServers = errors.New("no servers configured")

const maxConcurrentStats = 5

// ServerService is the use-case layer over the controller shared by slash
// commands and reaction actions.
type ServerService struct {
	controller ports.ServerController
	audit      ports.AuditRepository
	now        func() time.Time
}

func NewServerService(controller ports.ServerController, audit ports.AuditRepository) *ServerService {
	return &ServerService{
		controller: controller,
		audit:      audit,
		now:        time.Now,
	}
}

func (s *ServerService) Ping(ctx context.Context) error {
	return s.controller.Ping(ctx)
}

func (s *ServerService) List(ctx context.Context) ([]domain.Server, error) {
	servers, err := s.controller.ListServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return servers, nil
}

// Resolve returns the server with the given ID, or the first configured
// server when serverID is empty.
func (s *ServerService) Resolve(ctx context.Context, serverID string) (*domain.Server, error) {
	if serverID != "" {
		server, err := s.controller.GetServerInfo(ctx, serverID)
		if err != nil {
			return nil, fmt.Errorf("get server %s: %w", serverID, err)
		}
		return server, nil
	}

	servers, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, ErrNoServers
	}
	return &servers[0], nil
}

func (s *ServerService) Stats(ctx context.Context, serverID string) (*domain.ServerStats, error) {
	stats, err := s.controller.GetServerStats(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("get stats for server %s: %w", serverID, err)
	}
	return stats, nil
}

// Status resolves the server and fetches its stats.
func (s *ServerService) Status(ctx context.Context, serverID string) (*domain.ServerWithStats, error) {
	server, err := s.Resolve(ctx, serverID)
	if err != nil {
		return nil, err
	}

	stats, err := s.Stats(ctx, server.ID)
	if err != nil {
		return nil, err
	}

	return &domain.ServerWithStats{Server: *server, Stats: stats}, nil
}

// Overview fetches stats for every server concurrently. A server whose stats
// cannot be fetched is returned with nil Stats.
func (s *ServerService) Overview(ctx context.Context, servers []domain.Server) []domain.ServerWithStats {
	result := make([]domain.ServerWithStats, len(servers))

	var g errgroup.Group
	g.SetLimit(maxConcurrentStats)

	for i, server := range servers {
		result[i].Server = server
		g.Go(func() error {
			stats, err := s.controller.GetServerStats(ctx, server.ID)
			if err != nil {
				slog.Warn("Failed to fetch server stats", "server_id", server.ID, "error", err)
				return nil
			}
			result[i].Stats = stats
			return nil
		})
	}

	_ = g.Wait()
	return result
}

func RunningCount(overview []domain.ServerWithStats) int {
	running := 0
	for _, sw := range overview {
		if sw.Stats != nil && sw.Stats.Running {
			running++
		}
	}
	return running
}

// Perform sends a power operation to the controller and records it in the
// audit log. Audit failures are logged and never fail the operation.
func (s *ServerService) Perform(ctx context.Context, op domain.ServerOperation, server domain.Server, user domain.User, source string) error {
	var err error
	switch op {
	case domain.OperationStart:
		err = s.controller.StartServer(ctx, server.ID)
	case domain.OperationStop:
		err = s.controller.StopServer(ctx, server.ID)
	case domain.OperationRestart:
		err = s.controller.RestartServer(ctx, server.ID)
	case domain.OperationKill:
		err = s.controller.KillServer(ctx, server.ID)
	default:
		return fmt.Errorf("unknown server operation %q", op)
	}

	status := "success"
	if err != nil {
		status = "failure"
		err = fmt.Errorf("%s server %s: %w", op, server.ID, err)
	}
	metrics.ServerOperations.WithLabelValues(string(op), source, status).Inc()

	entry := domain.AuditEntry{
		ServerID:  server.ID,
		Server:    server.Name,
		Action:    op,
		UserID:    user.ID,
		Username:  user.Username,
		Source:    source,
		Success:   err == nil,
		CreatedAt: s.now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if auditErr := s.audit.RecordAction(ctx, entry); auditErr != nil {
		slog.Warn("Failed to record server action", "server_id", server.ID, "action", op, "error", auditErr)
	}

	if err != nil {
		return err
	}

	slog.Info("Server action executed", "server_id", server.ID, "server", server.Name, "action", op, "user", user.Username, "source", source)
	return nil
}

func (s *ServerService) RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	return s.audit.RecentActions(ctx, serverID, limit)
}
