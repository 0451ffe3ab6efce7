package commands

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

const (
	CommandPing    = "ping"
	CommandStatus  = "status"
	CommandServer  = "server"
	CommandServers = "servers"
	CommandMenu    = "menu"

	SubcommandStart   = "start"
	SubcommandStop    = "stop"
	SubcommandRestart = "restart"
	SubcommandKill    = "kill"
	SubcommandHistory = "history"

	serverOptionName = "server"
)

var serverControlPerms = manageGuildPermission

func GetApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandPing,
			Description: "Check the bot's gateway latency",
		},
		{
			Name:        CommandStatus,
			Description: "Show a Minecraft server's status with reaction controls",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption(serverOptionName, "Server ID (defaults to the first server)", false, true),
			},
		},
		{
			Name:                     CommandServer,
			Description:              "Control a Minecraft server",
			DefaultMemberPermissions: &serverControlPerms,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand(SubcommandStart, "Start the server"),
				subcommand(SubcommandStop, "Stop the server"),
				subcommand(SubcommandRestart, "Restart the server (asks for confirmation)"),
				subcommand(SubcommandKill, "Force kill the server (asks for confirmation)"),
				subcommand(SubcommandHistory, "Show recent power actions for the server"),
			},
		},
		{
			Name:        CommandServers,
			Description: "List all Minecraft servers grouped by state",
		},
		{
			Name:        CommandMenu,
			Description: "Open the interactive control menu",
		},
	}
}

func subcommand(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			stringOption(serverOptionName, "Server ID (defaults to the first server)", false, true),
		},
	}
}

func stringOption(name, description string, required, autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         name,
		Description:  description,
		Required:     required,
		Autocomplete: autocomplete,
	}
}

func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) []*discordgo.ApplicationCommand {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		result, err := session.ApplicationCommandCreate(userID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered[i] = result
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(userID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
		}
	}
}
