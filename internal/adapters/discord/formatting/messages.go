package formatting

import (
	"time"

	"crafty-bot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

const (
	MsgPermissionRequired = "You need the Manage Server permission or the configured admin role to control servers."
	MsgWrongChannel       = "Server commands are not available in this channel."
	MsgGuildOnly          = "This command can only be used inside a server."
	MsgUnknownSubcommand  = "Unknown subcommand."
	MsgAttachFailed       = "Reaction controls could not be attached to this message."
)

// ToDiscordEmbed converts a rendered embed into its discordgo form.
func ToDiscordEmbed(e domain.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}

	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}

	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}

	return out
}
