package domain

import (
	"fmt"
	"time"
)

type ActionName string

const (
	ActionStartServer     ActionName = "start_server"
	ActionStopServer      ActionName = "stop_server"
	ActionRestartServer   ActionName = "restart_server"
	ActionRefreshStatus   ActionName = "refresh_status"
	ActionShowPlayers     ActionName = "show_players"
	ActionShowSummary     ActionName = "show_summary"
	ActionShowServersList ActionName = "show_servers_list"
	ActionQuickStatus     ActionName = "quick_status"
	ActionRefreshMenu     ActionName = "refresh_menu"
	ActionShowHelp        ActionName = "show_help"
	ActionConfirm         ActionName = "confirm_action"
	ActionCancel          ActionName = "cancel_action"
)

// Action is one reaction control: the glyph is both the affordance and the selector.
type Action struct {
	Glyph       string
	Name        ActionName
	Description string
	Cooldown    time.Duration
}

// Session is the interactive state attached to a single message.
type Session struct {
	MessageID string
	ChannelID string
	UserID    string
	ServerID  string
	Actions   []Action
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s Session) ActionFor(glyph string) (Action, bool) {
	for _, a := range s.Actions {
		if a.Glyph == glyph {
			return a, true
		}
	}
	return Action{}, false
}

type ConfirmKind int

const (
	ConfirmRestart ConfirmKind = iota + 1
	ConfirmKill
)

func (k ConfirmKind) String() string {
	switch k {
	case ConfirmRestart:
		return "restart"
	case ConfirmKill:
		return "kill"
	default:
		return fmt.Sprintf("ConfirmKind(%d)", int(k))
	}
}

func (k ConfirmKind) Operation() ServerOperation {
	if k == ConfirmKill {
		return OperationKill
	}
	return OperationRestart
}

// ConfirmableAction is a destructive action waiting for an explicit yes/no.
type ConfirmableAction struct {
	Kind       ConfirmKind
	ServerID   string
	ServerName string
}

type PendingConfirmation struct {
	MessageID string
	UserID    string
	Action    ConfirmableAction
	ExpiresAt time.Time
}

// ReactionEvent is a reaction notification from the chat platform. User may be
// partial (only ID set) in which case Resolved is false.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	Glyph     string
	User      User
	Resolved  bool
	Removed   bool
}
