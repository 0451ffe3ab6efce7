package commands

import (
	"context"
	"time"

	"crafty-bot/internal/core/services/reactions"

	"github.com/bwmarrin/discordgo"
)

type DiscordSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	HeartbeatLatency() time.Duration
}

type CommandSession interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// ReactionSessions attaches reaction controls to command responses.
type ReactionSessions interface {
	Attach(ctx context.Context, req reactions.AttachRequest) error
	RequestConfirmation(ctx context.Context, req reactions.ConfirmationRequest) error
	ConfirmationTTL() time.Duration
}
