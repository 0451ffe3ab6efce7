// Package render builds the platform-neutral embeds shown by commands and
// reaction actions.
package render

import (
	"fmt"
	"strings"
	"time"

	"crafty-bot/internal/core/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SummaryLimit = 5
	ListLimit    = 10
)

// Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

type State string

const (
	StateRunning  State = "running"
	StateStarting State = "starting"
	StateCrashed  State = "crashed"
	StateStopped  State = "stopped"
	StateUnknown  State = "unknown"
)

func StateOf(stats *domain.ServerStats) State {
	switch {
	case stats == nil:
		return StateUnknown
	case stats.Running:
		return StateRunning
	case stats.Crashed:
		return StateCrashed
	case stats.WaitingToStart:
		return StateStarting
	default:
		return StateStopped
	}
}

func (s State) Emoji() string {
	switch s {
	case StateRunning:
		return "🟢"
	case StateStarting:
		return "🟡"
	case StateCrashed:
		return "💥"
	case StateStopped:
		return "🔴"
	default:
		return "❓"
	}
}

func (s State) color() int {
	switch s {
	case StateRunning:
		return domain.ColorSuccess
	case StateStarting, StateUnknown:
		return domain.ColorWarning
	default:
		return domain.ColorError
	}
}

func requestedBy(user domain.User) string {
	return "Requested by " + user.Username
}

func players(stats *domain.ServerStats) string {
	if stats == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d/%d", stats.Online, stats.Max)
}

func resources(stats *domain.ServerStats) (cpu, mem string) {
	if stats == nil {
		return "N/A", "N/A"
	}
	return fmt.Sprintf("%.1f%%", stats.CPUPercent), fmt.Sprintf("%.1f%%", stats.MemPercent)
}

func uptime(stats *domain.ServerStats) string {
	if stats == nil || !stats.Running {
		return "Not running"
	}
	if stats.StartedAt.IsZero() {
		return "Running"
	}
	return fmt.Sprintf("Since <t:%d:R>", stats.StartedAt.Unix())
}

func ServerStatus(prefix string, server domain.Server, stats domain.ServerStats, footer string) domain.Embed {
	state := StateOf(&stats)
	cpu, mem := resources(&stats)

	heading := fmt.Sprintf("%s %s", state.Emoji(), server.Name)
	if prefix != "" {
		heading = fmt.Sprintf("%s - %s", prefix, server.Name)
	}

	e := domain.Embed{
		Title:       heading,
		Description: fmt.Sprintf("**Status:** %s %s", state.Emoji(), strings.ToUpper(string(state))),
		Color:       state.color(),
		Footer:      footer,
		Timestamp:   time.Now(),
	}
	e.AddField("👥 Players", players(&stats), true).
		AddField("💾 CPU", cpu, true).
		AddField("🧠 Memory", mem, true).
		AddField("⏱️ Uptime", uptime(&stats), true)
	if addr := server.Address(); addr != "" {
		e.AddField("🌐 Address", addr, true)
	}
	e.AddField("🆔 Server ID", server.ID, true)
	return e
}

func Players(server domain.Server, stats domain.ServerStats, user domain.User) domain.Embed {
	e := domain.Embed{
		Title:       "👥 Online Players - " + server.Name,
		Description: fmt.Sprintf("**%d/%d** players connected", stats.Online, stats.Max),
		Color:       domain.ColorInfo,
		Footer:      requestedBy(user),
		Timestamp:   time.Now(),
	}
	e.AddField("🌐 Server Address", server.Address(), true).
		AddField("⏱️ Uptime", uptime(&stats), true)
	return e
}

// ServerList groups servers by state, one field per state.
func ServerList(overview []domain.ServerWithStats, user domain.User) domain.Embed {
	e := domain.Embed{
		Title:       "🖥️ Crafty Controller Servers",
		Description: fmt.Sprintf("**Total servers:** %d", len(overview)),
		Color:       domain.ColorSuccess,
		Footer:      requestedBy(user),
		Timestamp:   time.Now(),
	}

	order := []State{StateRunning, StateStarting, StateCrashed, StateStopped, StateUnknown}
	groups := make(map[State][]string)
	for _, sw := range overview {
		state := StateOf(sw.Stats)
		line := fmt.Sprintf("• **%s** (ID: `%s`)\n  🌐 %s | 👥 %s players", sw.Server.Name, sw.Server.ID, sw.Server.Address(), players(sw.Stats))
		groups[state] = append(groups[state], line)
	}

	for _, state := range order {
		lines := groups[state]
		if len(lines) == 0 {
			continue
		}
		e.AddField(fmt.Sprintf("%s %s (%d)", state.Emoji(), titleCase(string(state)), len(lines)), strings.Join(lines, "\n"), false)
	}

	running := len(groups[StateRunning])
	stopped := len(groups[StateStopped])
	e.AddField("📊 Summary", fmt.Sprintf("🟢 **Running:** %d | 🔴 **Stopped:** %d | 🟡 **Other:** %d", running, stopped, len(overview)-running-stopped), false)
	return e
}

// CompactList lists at most ListLimit servers with an overflow note.
func CompactList(servers []domain.Server) domain.Embed {
	e := domain.Embed{
		Title:       "📋 Server List",
		Description: fmt.Sprintf("**Total:** %d servers found", len(servers)),
		Color:       domain.ColorSuccess,
		Timestamp:   time.Now(),
	}

	for i, server := range servers {
		if i == ListLimit {
			break
		}
		e.AddField(fmt.Sprintf("%d. %s", i+1, server.Name), fmt.Sprintf("**ID:** `%s`\n**IP:** %s", server.ID, server.Address()), true)
	}

	if len(servers) > ListLimit {
		e.AddField("⚠️ More servers", fmt.Sprintf("And %d more servers... Use /servers to see all of them.", len(servers)-ListLimit), false)
	}
	return e
}

// Summary renders the per-server overview of the first SummaryLimit servers
// together with totals computed over all total servers.
func Summary(overview []domain.ServerWithStats, total int, user domain.User) domain.Embed {
	e := domain.Embed{
		Title:       "📊 Detailed Server Summary",
		Description: "Current status of all servers:",
		Color:       domain.ColorInfo,
		Footer:      requestedBy(user),
		Timestamp:   time.Now(),
	}

	running, playerCount := 0, 0
	for _, sw := range overview {
		state := StateOf(sw.Stats)
		if state == StateRunning {
			running++
			playerCount += sw.Stats.Online
		}
		cpu, mem := resources(sw.Stats)
		e.AddField(sw.Server.Name, strings.Join([]string{
			fmt.Sprintf("**Status:** %s %s", state.Emoji(), titleCase(string(state))),
			fmt.Sprintf("**Players:** %s", players(sw.Stats)),
			fmt.Sprintf("**CPU:** %s | **Mem:** %s", cpu, mem),
			fmt.Sprintf("**ID:** `%s`", sw.Server.ID),
		}, "\n"), true)
	}

	usage := 0.0
	if total > 0 {
		usage = float64(running) / float64(total) * 100
	}
	e.AddField("📈 Overall", strings.Join([]string{
		fmt.Sprintf("🖥️ **Servers Online:** %d/%d", running, total),
		fmt.Sprintf("👥 **Total Players:** %d", playerCount),
		fmt.Sprintf("📊 **Usage Rate:** %.1f%%", usage),
	}, "\n"), false)

	if total > len(overview) {
		e.AddField("⚠️ Notice", fmt.Sprintf("Showing only the first %d of %d servers.", len(overview), total), false)
	}
	return e
}

func Menu(total, running int, ttl time.Duration, user domain.User) domain.Embed {
	e := domain.Embed{
		Title:       "🎮 Crafty Controller Interactive Menu",
		Description: "Use the reactions below to browse and control your servers:",
		Color:       domain.ColorInfo,
		Footer:      "Menu requested by " + user.Username,
		Timestamp:   time.Now(),
	}
	e.AddField("📊 Current Status", counts(total, running), false).
		AddField("🎛️ Controls", strings.Join([]string{
			"📋 **Server List** - See every server",
			"📊 **Detailed Summary** - Full status of all servers",
			"⚡ **Quick Status** - Status of the first server",
			"🔄 **Refresh Menu** - Reload information",
			"❓ **Help** - Command guide",
		}, "\n"), false).
		AddField("⏱️ Information", strings.Join([]string{
			fmt.Sprintf("• Reactions expire after %s", humanDuration(ttl)),
			"• Only the user who ran the command can use them",
			"• Use `/status [server]` for server controls",
			"• Use `/server [action] [server]` for direct actions",
		}, "\n"), false)
	return e
}

func MenuRefreshed(total, running int, user domain.User, now time.Time) domain.Embed {
	e := domain.Embed{
		Title:       "🔄 Menu Refreshed",
		Description: "Information updated successfully!",
		Color:       domain.ColorSuccess,
		Footer:      "Refreshed by " + user.Username,
		Timestamp:   now,
	}
	e.AddField("📊 Updated Status", counts(total, running)+fmt.Sprintf("\n⏱️ **Last Update:** <t:%d:T>", now.Unix()), false)
	return e
}

func counts(total, running int) string {
	return strings.Join([]string{
		fmt.Sprintf("🖥️ **Total Servers:** %d", total),
		fmt.Sprintf("🟢 **Servers Online:** %d", running),
		fmt.Sprintf("🔴 **Servers Offline:** %d", total-running),
	}, "\n")
}

func Help(user domain.User) domain.Embed {
	e := domain.Embed{
		Title:       "❓ Help - Interactive Reactions",
		Description: "How to control servers with reactions:",
		Color:       domain.ColorInfo,
		Footer:      "Help requested by " + user.Username,
		Timestamp:   time.Now(),
	}
	e.AddField("🎮 Main Commands", strings.Join([]string{
		"`/menu` - Main interactive menu",
		"`/status [server]` - Status with controls",
		"`/servers` - List with interactive summary",
		"`/server [action] [server]` - Direct actions",
	}, "\n"), false).
		AddField("🎯 Common Reactions", strings.Join([]string{
			"🔄 - Refresh",
			"▶️ - Start server",
			"⏹️ - Stop server",
			"🔁 - Restart server",
			"👥 - Online players",
			"📊 - Detailed summary",
			"✅❌ - Confirm/Cancel actions",
		}, "\n"), false).
		AddField("⚠️ Tips", strings.Join([]string{
			"• Only the user who ran the command can use its reactions",
			"• Reactions expire automatically",
			"• Critical actions ask for confirmation",
		}, "\n"), false).
		AddField("🔐 Safety", strings.Join([]string{
			"• Restart and kill ask for confirmation",
			"• Cooldown between actions",
			"• Every server action is logged",
		}, "\n"), false)
	return e
}

func operationEmoji(op domain.ServerOperation) string {
	switch op {
	case domain.OperationStart:
		return "▶️"
	case domain.OperationStop:
		return "⏹️"
	case domain.OperationRestart:
		return "🔁"
	case domain.OperationKill:
		return "💀"
	default:
		return "⚡"
	}
}

func ActionSucceeded(op domain.ServerOperation, server domain.Server, user domain.User) domain.Embed {
	done := op.PastTense()
	e := domain.Embed{
		Title:       fmt.Sprintf("%s Server %s", operationEmoji(op), titleCase(done)),
		Description: fmt.Sprintf("**%s** has been %s successfully.", server.Name, done),
		Color:       domain.ColorSuccess,
		Footer:      "Server action completed",
		Timestamp:   time.Now(),
	}
	e.AddField("🆔 Server ID", server.ID, true).
		AddField("👤 Executed by", user.Username, true).
		AddField("⚡ Action", strings.ToUpper(string(op)), true)
	return e
}

func ConfirmationPrompt(action domain.ConfirmableAction, ttl time.Duration, user domain.User) domain.Embed {
	op := action.Kind.Operation()
	e := domain.Embed{
		Title:       fmt.Sprintf("⚠️ Confirm %s", titleCase(string(op))),
		Description: fmt.Sprintf("Do you really want to **%s** server **%s**?", op, action.ServerName),
		Color:       domain.ColorWarning,
		Footer:      fmt.Sprintf("React with ✅ to confirm or ❌ to cancel within %s", humanDuration(ttl)),
		Timestamp:   time.Now(),
	}
	e.AddField("🆔 Server ID", action.ServerID, true).
		AddField("👤 Requested by", user.Username, true)
	if action.Kind == domain.ConfirmKill {
		e.AddField("💀 Warning", "Killing a server does not save the world. Use only in emergencies.", false)
	}
	return e
}

func Cancelled(user domain.User) domain.Embed {
	return domain.Embed{
		Title:       "❌ Action Cancelled",
		Description: "Action cancelled by " + user.Username,
		Color:       domain.ColorWarning,
		Timestamp:   time.Now(),
	}
}

func ActionFailed(err error) domain.Embed {
	return domain.Embed{
		Title:       "❌ Action Failed",
		Description: "Failed to execute action: " + err.Error(),
		Color:       domain.ColorError,
		Timestamp:   time.Now(),
	}
}

func CommandFailed(what string, err error) domain.Embed {
	e := domain.Embed{
		Title:       "❌ Error",
		Description: fmt.Sprintf("Failed to %s: %s", what, err.Error()),
		Color:       domain.ColorError,
		Timestamp:   time.Now(),
	}
	e.AddField("🔧 Possible Solutions", strings.Join([]string{
		"• Check the Crafty Controller connection",
		"• Verify the server ID is correct",
		"• Check the server logs for more details",
	}, "\n"), false)
	return e
}

func ConnectionError() domain.Embed {
	return domain.Embed{
		Title:       "❌ Connection Error",
		Description: "Unable to connect to Crafty Controller. Please check the configuration.",
		Color:       domain.ColorError,
		Timestamp:   time.Now(),
	}
}

func NoServers() domain.Embed {
	return domain.Embed{
		Title:       "⚠️ No Servers Found",
		Description: "No Minecraft servers are configured in Crafty Controller.",
		Color:       domain.ColorWarning,
		Timestamp:   time.Now(),
	}
}

func Pong(latency time.Duration) domain.Embed {
	e := domain.Embed{
		Title:     "🏓 Pong!",
		Color:     domain.ColorInfo,
		Timestamp: time.Now(),
	}
	e.AddField("Gateway latency", fmt.Sprintf("%dms", latency.Milliseconds()), true)
	return e
}

func History(server domain.Server, entries []domain.AuditEntry) domain.Embed {
	e := domain.Embed{
		Title:     "📜 Recent Actions - " + server.Name,
		Color:     domain.ColorInfo,
		Timestamp: time.Now(),
	}
	if len(entries) == 0 {
		e.Description = "No actions recorded yet."
		return e
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		mark := "✅"
		if !entry.Success {
			mark = "❌"
		}
		lines = append(lines, fmt.Sprintf("%s <t:%d:f> **%s** by %s via %s", mark, entry.CreatedAt.Unix(), strings.ToUpper(string(entry.Action)), entry.Username, entry.Source))
	}
	e.Description = strings.Join(lines, "\n")
	return e
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Minute && d%time.Minute == 0:
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	default:
		return fmt.Sprintf("%d seconds", int(d/time.Second))
	}
}
