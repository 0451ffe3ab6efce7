package commands

import (
	"context"
	"errors"
	"time"

	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/services"
	"crafty-bot/internal/core/services/reactions"

	"github.com/bwmarrin/discordgo"
)

type mockDiscordSession struct {
	interactionRespondFunc func(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	responseEditFunc       func(interaction *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error)
	latency                time.Duration

	responses               []*discordgo.InteractionResponse
	lastInteractionResponse *discordgo.InteractionResponse
	edits                   []*discordgo.WebhookEdit
}

func (m *mockDiscordSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error {
	m.responses = append(m.responses, resp)
	m.lastInteractionResponse = resp
	if m.interactionRespondFunc != nil {
		return m.interactionRespondFunc(interaction, resp)
	}
	return nil
}

func (m *mockDiscordSession) InteractionResponseEdit(interaction *discordgo.Interaction, edit *discordgo.WebhookEdit, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.edits = append(m.edits, edit)
	if m.responseEditFunc != nil {
		return m.responseEditFunc(interaction, edit)
	}
	return &discordgo.Message{ID: "response-msg"}, nil
}

func (m *mockDiscordSession) HeartbeatLatency() time.Duration {
	return m.latency
}

// lastEmbed returns the embed of the most recent response edit.
func (m *mockDiscordSession) lastEmbed() *discordgo.MessageEmbed {
	if len(m.edits) == 0 {
		return nil
	}
	edit := m.edits[len(m.edits)-1]
	if edit.Embeds == nil || len(*edit.Embeds) == 0 {
		return nil
	}
	return (*edit.Embeds)[0]
}

type mockController struct {
	servers   []domain.Server
	stats     map[string]*domain.ServerStats
	pingErr   error
	listErr   error
	actionErr error

	actions []string
}

func (m *mockController) ListServers(ctx context.Context) ([]domain.Server, error) {
	return m.servers, m.listErr
}

func (m *mockController) GetServerInfo(ctx context.Context, serverID string) (*domain.Server, error) {
	for _, s := range m.servers {
		if s.ID == serverID {
			return &s, nil
		}
	}
	return nil, errors.New("server not found")
}

func (m *mockController) GetServerStats(ctx context.Context, serverID string) (*domain.ServerStats, error) {
	if st, ok := m.stats[serverID]; ok {
		return st, nil
	}
	return nil, errors.New("stats unavailable")
}

func (m *mockController) action(op, serverID string) error {
	m.actions = append(m.actions, op+":"+serverID)
	return m.actionErr
}

func (m *mockController) StartServer(ctx context.Context, serverID string) error {
	return m.action("start", serverID)
}

func (m *mockController) StopServer(ctx context.Context, serverID string) error {
	return m.action("stop", serverID)
}

func (m *mockController) RestartServer(ctx context.Context, serverID string) error {
	return m.action("restart", serverID)
}

func (m *mockController) KillServer(ctx context.Context, serverID string) error {
	return m.action("kill", serverID)
}

func (m *mockController) Ping(ctx context.Context) error {
	return m.pingErr
}

type mockAudit struct {
	recorded []domain.AuditEntry
	recent   []domain.AuditEntry
}

func (m *mockAudit) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	m.recorded = append(m.recorded, entry)
	return nil
}

func (m *mockAudit) RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	return m.recent, nil
}

func (m *mockAudit) Close() {}

type mockSessions struct {
	attachFunc func(req reactions.AttachRequest) error

	attached  []reactions.AttachRequest
	confirmed []reactions.ConfirmationRequest
}

func (m *mockSessions) Attach(ctx context.Context, req reactions.AttachRequest) error {
	m.attached = append(m.attached, req)
	if m.attachFunc != nil {
		return m.attachFunc(req)
	}
	return nil
}

func (m *mockSessions) RequestConfirmation(ctx context.Context, req reactions.ConfirmationRequest) error {
	m.confirmed = append(m.confirmed, req)
	return nil
}

func (m *mockSessions) ConfirmationTTL() time.Duration {
	return 30 * time.Second
}

func newMockController() *mockController {
	return &mockController{
		servers: []domain.Server{
			{ID: "srv-42", Name: "Survival", IP: "127.0.0.1", Port: 25565},
			{ID: "srv-7", Name: "Creative", IP: "127.0.0.1", Port: 25566},
		},
		stats: map[string]*domain.ServerStats{
			"srv-42": {Running: true, Online: 3, Max: 20},
			"srv-7":  {Running: false, Max: 10},
		},
	}
}

type handlerFixture struct {
	handler    *BotHandler
	controller *mockController
	audit      *mockAudit
	sessions   *mockSessions
	session    *mockDiscordSession
}

func newFixture() *handlerFixture {
	f := &handlerFixture{
		controller: newMockController(),
		audit:      &mockAudit{},
		sessions:   &mockSessions{},
		session:    &mockDiscordSession{},
	}
	f.handler = &BotHandler{
		Config:   &config.Config{MenuTTL: 15 * time.Minute},
		Service:  services.NewServerService(f.controller, f.audit),
		Sessions: f.sessions,
	}
	return f
}

func commandInteraction(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   "guild-1",
			ChannelID: "chan-1",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "user-1", Username: "steve"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func serverOption(id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  serverOptionName,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: id,
	}
}

func subcommandOption(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}
