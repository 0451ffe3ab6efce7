package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crafty-bot/internal/adapters/discord/formatting"
	"crafty-bot/internal/adapters/metrics"
	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/render"
	"crafty-bot/internal/core/services"
	"crafty-bot/internal/core/services/reactions"

	"github.com/bwmarrin/discordgo"
)

const (
	commandTimeout    = 30 * time.Second
	historyLimit      = 10
	maxAutocomplete   = 25
	statusSuccess     = "success"
	statusFailure     = "failure"
	statusUnavailable = "unavailable"
)

type BotHandler struct {
	Config   *config.Config
	Service  *services.ServerService
	Sessions ReactionSessions
}

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Crafty bot is online!", "user", ready.User.Username, "guilds", len(ready.Guilds))
}

func (h *BotHandler) Ping(s DiscordSession, i *discordgo.InteractionCreate) {
	if err := respondEmbed(s, i, render.Pong(s.HeartbeatLatency())); err != nil {
		slog.Error("Failed to respond to ping", "error", err)
		metrics.CommandsHandled.WithLabelValues(CommandPing, statusFailure).Inc()
		return
	}
	metrics.CommandsHandled.WithLabelValues(CommandPing, statusSuccess).Inc()
}

func (h *BotHandler) Status(s DiscordSession, i *discordgo.InteractionCreate) {
	opts := i.ApplicationCommandData().Options
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.autocompleteServers(s, i, opts)
		return
	}

	ctx, cancel, ok := h.begin(s, i, CommandStatus)
	if !ok {
		return
	}
	defer cancel()

	user := interactionUser(i)
	status, err := h.Service.Status(ctx, getStringOption(opts, serverOptionName))
	if err != nil {
		h.fail(s, i, CommandStatus, "get server status", err)
		return
	}

	embed := render.ServerStatus("", status.Server, *status.Stats, "Requested by "+user.Username)
	msg := h.finish(s, i, CommandStatus, embed, statusSuccess)
	if msg == nil {
		return
	}

	h.attach(ctx, reactions.AttachRequest{
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
		UserID:    user.ID,
		ServerID:  status.Server.ID,
		Actions:   reactions.ServerActions(status.Stats.Running),
	})
}

func (h *BotHandler) Server(s DiscordSession, i *discordgo.InteractionCreate) {
	sub := getSubcommand(i.ApplicationCommandData().Options)
	if sub == nil {
		deny(s, i, formatting.MsgUnknownSubcommand)
		return
	}

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.autocompleteServers(s, i, sub.Options)
		return
	}

	serverID := getStringOption(sub.Options, serverOptionName)

	switch sub.Name {
	case SubcommandStart:
		h.power(s, i, domain.OperationStart, serverID)
	case SubcommandStop:
		h.power(s, i, domain.OperationStop, serverID)
	case SubcommandRestart:
		h.askConfirmation(s, i, domain.ConfirmRestart, serverID)
	case SubcommandKill:
		h.askConfirmation(s, i, domain.ConfirmKill, serverID)
	case SubcommandHistory:
		h.history(s, i, serverID)
	default:
		deny(s, i, formatting.MsgUnknownSubcommand)
	}
}

func (h *BotHandler) power(s DiscordSession, i *discordgo.InteractionCreate, op domain.ServerOperation, serverID string) {
	name := CommandServer + " " + string(op)

	ctx, cancel, ok := h.begin(s, i, name)
	if !ok {
		return
	}
	defer cancel()

	user := interactionUser(i)
	server, err := h.Service.Resolve(ctx, serverID)
	if err != nil {
		h.fail(s, i, name, "find server", err)
		return
	}

	if err := h.Service.Perform(ctx, op, *server, user, domain.AuditSourceCommand); err != nil {
		h.fail(s, i, name, string(op)+" server", err)
		return
	}

	msg := h.finish(s, i, name, render.ActionSucceeded(op, *server, user), statusSuccess)
	if msg == nil {
		return
	}

	stats, err := h.Service.Stats(ctx, server.ID)
	if err != nil {
		slog.Warn("Failed to fetch stats after server action", "server_id", server.ID, "error", err)
		return
	}

	h.attach(ctx, reactions.AttachRequest{
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
		UserID:    user.ID,
		ServerID:  server.ID,
		Actions:   reactions.ServerActions(stats.Running),
	})
}

func (h *BotHandler) askConfirmation(s DiscordSession, i *discordgo.InteractionCreate, kind domain.ConfirmKind, serverID string) {
	name := CommandServer + " " + kind.String()

	ctx, cancel, ok := h.begin(s, i, name)
	if !ok {
		return
	}
	defer cancel()

	user := interactionUser(i)
	server, err := h.Service.Resolve(ctx, serverID)
	if err != nil {
		h.fail(s, i, name, "find server", err)
		return
	}

	action := domain.ConfirmableAction{Kind: kind, ServerID: server.ID, ServerName: server.Name}
	msg := h.finish(s, i, name, render.ConfirmationPrompt(action, h.Sessions.ConfirmationTTL(), user), statusSuccess)
	if msg == nil {
		return
	}

	err = h.Sessions.RequestConfirmation(ctx, reactions.ConfirmationRequest{
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
		UserID:    user.ID,
		Action:    action,
	})
	if err != nil {
		slog.Error("Failed to attach confirmation", "message_id", msg.ID, "error", err)
	}
}

func (h *BotHandler) history(s DiscordSession, i *discordgo.InteractionCreate, serverID string) {
	name := CommandServer + " " + SubcommandHistory

	ctx, cancel, ok := h.begin(s, i, name)
	if !ok {
		return
	}
	defer cancel()

	server, err := h.Service.Resolve(ctx, serverID)
	if err != nil {
		h.fail(s, i, name, "find server", err)
		return
	}

	entries, err := h.Service.RecentActions(ctx, server.ID, historyLimit)
	if err != nil {
		h.fail(s, i, name, "load action history", err)
		return
	}

	h.finish(s, i, name, render.History(*server, entries), statusSuccess)
}

func (h *BotHandler) Servers(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx, cancel, ok := h.begin(s, i, CommandServers)
	if !ok {
		return
	}
	defer cancel()

	user := interactionUser(i)
	servers, err := h.Service.List(ctx)
	if err != nil {
		h.fail(s, i, CommandServers, "list servers", err)
		return
	}
	if len(servers) == 0 {
		h.finish(s, i, CommandServers, render.NoServers(), statusSuccess)
		return
	}

	msg := h.finish(s, i, CommandServers, render.ServerList(h.Service.Overview(ctx, servers), user), statusSuccess)
	if msg == nil {
		return
	}

	h.attach(ctx, reactions.AttachRequest{
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
		UserID:    user.ID,
		Actions:   reactions.ServersListActions(),
	})
}

func (h *BotHandler) Menu(s DiscordSession, i *discordgo.InteractionCreate) {
	ctx, cancel, ok := h.begin(s, i, CommandMenu)
	if !ok {
		return
	}
	defer cancel()

	user := interactionUser(i)
	servers, err := h.Service.List(ctx)
	if err != nil {
		h.fail(s, i, CommandMenu, "list servers", err)
		return
	}

	sample := servers
	if len(sample) > render.SummaryLimit {
		sample = sample[:render.SummaryLimit]
	}
	running := services.RunningCount(h.Service.Overview(ctx, sample))

	msg := h.finish(s, i, CommandMenu, render.Menu(len(servers), running, h.Config.MenuTTL, user), statusSuccess)
	if msg == nil {
		return
	}

	h.attach(ctx, reactions.AttachRequest{
		ChannelID: i.ChannelID,
		MessageID: msg.ID,
		UserID:    user.ID,
		Actions:   reactions.MenuActions(),
		TTL:       h.Config.MenuTTL,
	})
}

// begin defers the interaction and checks that Crafty Controller is reachable.
// On failure the interaction has already been answered.
func (h *BotHandler) begin(s DiscordSession, i *discordgo.InteractionCreate, command string) (context.Context, context.CancelFunc, bool) {
	if err := deferReply(s, i); err != nil {
		slog.Error("Failed to defer interaction", "command", command, "error", err)
		metrics.CommandsHandled.WithLabelValues(command, statusFailure).Inc()
		return nil, nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)

	if err := h.Service.Ping(ctx); err != nil {
		slog.Error("Crafty Controller unreachable", "command", command, "error", err)
		h.finish(s, i, command, render.ConnectionError(), statusUnavailable)
		cancel()
		return nil, nil, false
	}

	return ctx, cancel, true
}

func (h *BotHandler) fail(s DiscordSession, i *discordgo.InteractionCreate, command, what string, err error) {
	if errors.Is(err, services.ErrNoServers) {
		h.finish(s, i, command, render.NoServers(), statusSuccess)
		return
	}

	slog.Error("Command failed", "command", command, "error", err)
	h.finish(s, i, command, render.CommandFailed(what, err), statusFailure)
}

// finish replaces the deferred response with embed and returns the sent
// message, or nil when the edit failed.
func (h *BotHandler) finish(s DiscordSession, i *discordgo.InteractionCreate, command string, embed domain.Embed, status string) *discordgo.Message {
	msg, err := editEmbed(s, i, embed)
	if err != nil {
		slog.Error("Failed to edit interaction response", "command", command, "error", err)
		metrics.CommandsHandled.WithLabelValues(command, statusFailure).Inc()
		return nil
	}

	metrics.CommandsHandled.WithLabelValues(command, status).Inc()
	return msg
}

func (h *BotHandler) attach(ctx context.Context, req reactions.AttachRequest) {
	if err := h.Sessions.Attach(ctx, req); err != nil {
		slog.Error("Failed to attach reaction controls", "message_id", req.MessageID, "error", err)
	}
}

func (h *BotHandler) autocompleteServers(s DiscordSession, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	servers, err := h.Service.List(ctx)
	if err != nil {
		slog.Error("Failed to list servers for autocomplete", "error", err)
		servers = nil
	}

	choices := buildServerChoices(servers, getFocusedOption(opts))
	if err := respondAutocomplete(s, i, choices); err != nil {
		slog.Error("Failed to respond to autocomplete", "error", err)
	}
}

func buildServerChoices(servers []domain.Server, query string) []*discordgo.ApplicationCommandOptionChoice {
	query = strings.ToLower(query)
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, min(len(servers), maxAutocomplete))

	for _, server := range servers {
		if len(choices) == maxAutocomplete {
			break
		}
		if query != "" && !strings.Contains(strings.ToLower(server.Name), query) && !strings.Contains(strings.ToLower(server.ID), query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s (%s)", server.Name, server.ID),
			Value: server.ID,
		})
	}

	return choices
}
