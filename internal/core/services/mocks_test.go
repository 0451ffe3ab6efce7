package services

import (
	"context"
	"sync"

	"crafty-bot/internal/core/domain"
)

type mockController struct {
	listServersFunc   func(ctx context.Context) ([]domain.Server, error)
	getServerInfoFunc func(ctx context.Context, serverID string) (*domain.Server, error)
	getStatsFunc      func(ctx context.Context, serverID string) (*domain.ServerStats, error)
	actionFunc        func(ctx context.Context, op domain.ServerOperation, serverID string) error
	pingFunc          func(ctx context.Context) error
}

func (m *mockController) ListServers(ctx context.Context) ([]domain.Server, error) {
	if m.listServersFunc != nil {
		return m.listServersFunc(ctx)
	}
	return nil, nil
}

func (m *mockController) GetServerInfo(ctx context.Context, serverID string) (*domain.Server, error) {
	if m.getServerInfoFunc != nil {
		return m.getServerInfoFunc(ctx, serverID)
	}
	return &domain.Server{ID: serverID, Name: "Server " + serverID}, nil
}

func (m *mockController) GetServerStats(ctx context.Context, serverID string) (*domain.ServerStats, error) {
	if m.getStatsFunc != nil {
		return m.getStatsFunc(ctx, serverID)
	}
	return &domain.ServerStats{}, nil
}

func (m *mockController) StartServer(ctx context.Context, serverID string) error {
	return m.action(ctx, domain.OperationStart, serverID)
}

func (m *mockController) StopServer(ctx context.Context, serverID string) error {
	return m.action(ctx, domain.OperationStop, serverID)
}

func (m *mockController) RestartServer(ctx context.Context, serverID string) error {
	return m.action(ctx, domain.OperationRestart, serverID)
}

func (m *mockController) KillServer(ctx context.Context, serverID string) error {
	return m.action(ctx, domain.OperationKill, serverID)
}

func (m *mockController) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockController) action(ctx context.Context, op domain.ServerOperation, serverID string) error {
	if m.actionFunc != nil {
		return m.actionFunc(ctx, op, serverID)
	}
	return nil
}

type mockAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (m *mockAudit) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockAudit) RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, nil
}

func (m *mockAudit) Close() {}
