package crafty

import (
	"context"
	"fmt"

	"crafty-bot/internal/adapters/crafty/api"
	"crafty-bot/internal/core/domain"
)

// Adapter exposes the Crafty API client as a ports.ServerController.
type Adapter struct {
	client *api.Client
}

func NewAdapter(client *api.Client) *Adapter {
	return &Adapter{client: client}
}

func (a *Adapter) ListServers(ctx context.Context) ([]domain.Server, error) {
	servers, err := a.client.ListServers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Server, 0, len(servers))
	for _, s := range servers {
		result = append(result, mapServer(s))
	}
	return result, nil
}

func (a *Adapter) GetServerInfo(ctx context.Context, serverID string) (*domain.Server, error) {
	server, err := a.client.GetServer(ctx, serverID)
	if err != nil {
		return nil, err
	}

	mapped := mapServer(*server)
	if mapped.ID == "" {
		mapped.ID = serverID
	}
	return &mapped, nil
}

func (a *Adapter) GetServerStats(ctx context.Context, serverID string) (*domain.ServerStats, error) {
	stats, err := a.client.GetStats(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return mapStats(*stats), nil
}

func (a *Adapter) StartServer(ctx context.Context, serverID string) error {
	return a.client.SendAction(ctx, serverID, api.ActionStart)
}

func (a *Adapter) StopServer(ctx context.Context, serverID string) error {
	return a.client.SendAction(ctx, serverID, api.ActionStop)
}

func (a *Adapter) RestartServer(ctx context.Context, serverID string) error {
	return a.client.SendAction(ctx, serverID, api.ActionRestart)
}

func (a *Adapter) KillServer(ctx context.Context, serverID string) error {
	return a.client.SendAction(ctx, serverID, api.ActionKill)
}

func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.client.ListServers(ctx); err != nil {
		return fmt.Errorf("ping crafty: %w", err)
	}
	return nil
}
