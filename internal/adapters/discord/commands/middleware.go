package commands

import (
	"slices"

	"crafty-bot/internal/adapters/discord/formatting"

	"github.com/bwmarrin/discordgo"
)

// Manage Server permission bit.
const manageGuildPermission int64 = 1 << 5

type Middleware func(CommandHandler) CommandHandler

// WithServerPermission lets through members with Manage Server, Administrator
// or, when adminRoleID is set, that role.
func WithServerPermission(adminRoleID string) Middleware {
	return func(next CommandHandler) CommandHandler {
		return func(s DiscordSession, i *discordgo.InteractionCreate) {
			if !canManageServers(i.Member, adminRoleID) {
				deny(s, i, formatting.MsgPermissionRequired)
				return
			}
			next(s, i)
		}
	}
}

// WithAllowedChannel restricts commands to channelID. An empty channelID allows all channels.
func WithAllowedChannel(channelID string) Middleware {
	return func(next CommandHandler) CommandHandler {
		if channelID == "" {
			return next
		}
		return func(s DiscordSession, i *discordgo.InteractionCreate) {
			if i.ChannelID != channelID {
				deny(s, i, formatting.MsgWrongChannel)
				return
			}
			next(s, i)
		}
	}
}

func canManageServers(m *discordgo.Member, adminRoleID string) bool {
	if m == nil {
		return false
	}
	if m.Permissions&(manageGuildPermission|discordgo.PermissionAdministrator) != 0 {
		return true
	}
	return adminRoleID != "" && slices.Contains(m.Roles, adminRoleID)
}

// deny answers a rejected command. Autocomplete requests cannot carry a
// message and are dropped.
func deny(s DiscordSession, i *discordgo.InteractionCreate, msg string) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	respond(s, i, msg, true)
}
