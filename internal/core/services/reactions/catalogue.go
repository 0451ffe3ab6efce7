package reactions

import (
	"errors"
	"fmt"
	"time"

	"crafty-bot/internal/core/domain"
)

const (
	GlyphRefresh = "🔄"
	GlyphStart   = "▶️"
	GlyphStop    = "⏹️"
	GlyphRestart = "🔁"
	GlyphPlayers = "👥"
	GlyphSummary = "📊"
	GlyphList    = "📋"
	GlyphQuick   = "⚡"
	GlyphHelp    = "❓"
	GlyphConfirm = "✅"
	GlyphCancel  = "❌"
)

const DefaultCooldown = 5 * time.Second

var ErrDuplicateGlyph = errors.New("duplicate glyph in action set")

// ServerActions are the controls attached to a single-server message.
func ServerActions(running bool) []domain.Action {
	actions := []domain.Action{
		{Glyph: GlyphRefresh, Name: domain.ActionRefreshStatus, Description: "Refresh status"},
	}
	if running {
		return append(actions,
			domain.Action{Glyph: GlyphStop, Name: domain.ActionStopServer, Description: "Stop server"},
			domain.Action{Glyph: GlyphRestart, Name: domain.ActionRestartServer, Description: "Restart server"},
			domain.Action{Glyph: GlyphPlayers, Name: domain.ActionShowPlayers, Description: "Show players"},
		)
	}
	return append(actions,
		domain.Action{Glyph: GlyphStart, Name: domain.ActionStartServer, Description: "Start server"},
	)
}

func PlayersActions() []domain.Action {
	return []domain.Action{
		{Glyph: GlyphRefresh, Name: domain.ActionRefreshStatus, Description: "Refresh status"},
		{Glyph: GlyphStop, Name: domain.ActionStopServer, Description: "Stop server"},
	}
}

func ServersListActions() []domain.Action {
	return []domain.Action{
		{Glyph: GlyphRefresh, Name: domain.ActionRefreshStatus, Description: "Refresh server list"},
		{Glyph: GlyphSummary, Name: domain.ActionShowSummary, Description: "Detailed summary"},
	}
}

func MenuActions() []domain.Action {
	return []domain.Action{
		{Glyph: GlyphList, Name: domain.ActionShowServersList, Description: "Server list"},
		{Glyph: GlyphSummary, Name: domain.ActionShowSummary, Description: "Detailed summary"},
		{Glyph: GlyphQuick, Name: domain.ActionQuickStatus, Description: "Quick status"},
		{Glyph: GlyphRefresh, Name: domain.ActionRefreshMenu, Description: "Refresh menu"},
		{Glyph: GlyphHelp, Name: domain.ActionShowHelp, Description: "Help"},
	}
}

func ConfirmationActions() []domain.Action {
	return []domain.Action{
		{Glyph: GlyphConfirm, Name: domain.ActionConfirm, Description: "Confirm"},
		{Glyph: GlyphCancel, Name: domain.ActionCancel, Description: "Cancel"},
	}
}

func validateGlyphs(actions []domain.Action) error {
	seen := make(map[string]domain.ActionName, len(actions))
	for _, a := range actions {
		if prev, ok := seen[a.Glyph]; ok {
			return fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateGlyph, a.Glyph, prev, a.Name)
		}
		seen[a.Glyph] = a.Name
	}
	return nil
}

func glyphs(actions []domain.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Glyph
	}
	return out
}
