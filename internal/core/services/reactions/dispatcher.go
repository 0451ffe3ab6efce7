package reactions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"crafty-bot/internal/adapters/metrics"
	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/ports"
	"crafty-bot/internal/core/render"
)

type Dependencies struct {
	Config   *config.Config
	Platform ports.ChatPlatform
	Executor ActionExecutor
}

type AttachRequest struct {
	ChannelID string
	MessageID string
	UserID    string
	ServerID  string
	Actions   []domain.Action
	// TTL defaults to the configured session lifetime when zero.
	TTL time.Duration
}

type ConfirmationRequest struct {
	ChannelID string
	MessageID string
	UserID    string
	Action    domain.ConfirmableAction
}

// Dispatcher turns reaction events on tracked messages into actions.
type Dispatcher struct {
	platform  ports.ChatPlatform
	executor  ActionExecutor
	sessions  *SessionStore
	cooldowns *CooldownTracker
	pending   *PendingStore

	sessionTTL      time.Duration
	confirmationTTL time.Duration
	defaultCooldown time.Duration
	sweepInterval   time.Duration
	now             func() time.Time

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

func NewDispatcher(deps Dependencies) *Dispatcher {
	return newDispatcher(deps, time.Now)
}

func newDispatcher(deps Dependencies, now func() time.Time) *Dispatcher {
	cooldown := deps.Config.DefaultCooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}

	return &Dispatcher{
		platform:        deps.Platform,
		executor:        deps.Executor,
		sessions:        newSessionStore(now),
		cooldowns:       newCooldownTracker(now),
		pending:         newPendingStore(now),
		sessionTTL:      deps.Config.SessionTTL,
		confirmationTTL: deps.Config.ConfirmationTTL,
		defaultCooldown: cooldown,
		sweepInterval:   deps.Config.SessionSweepInterval,
		now:             now,
		inflight:        make(map[string]struct{}),
	}
}

// Attach creates a session for an already sent message and adds its glyphs.
// The session exists before the first glyph appears.
func (d *Dispatcher) Attach(ctx context.Context, req AttachRequest) error {
	if len(req.Actions) == 0 {
		return errors.New("attach session: no actions")
	}
	if err := validateGlyphs(req.Actions); err != nil {
		return fmt.Errorf("attach session: %w", err)
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = d.sessionTTL
	}

	d.sessions.Create(domain.Session{
		MessageID: req.MessageID,
		ChannelID: req.ChannelID,
		UserID:    req.UserID,
		ServerID:  req.ServerID,
		Actions:   req.Actions,
		ExpiresAt: d.now().Add(ttl),
	})
	metrics.ActiveSessions.Set(float64(d.sessions.Len()))

	slog.Debug("Session attached", "message_id", req.MessageID, "user_id", req.UserID, "server_id", req.ServerID, "actions", len(req.Actions), "ttl", ttl)

	if err := d.platform.AddReactions(ctx, req.ChannelID, req.MessageID, glyphs(req.Actions)); err != nil {
		return fmt.Errorf("add reactions to %s: %w", req.MessageID, err)
	}
	return nil
}

// RequestConfirmation turns an already sent prompt into a confirm/cancel
// session that only req.UserID can answer.
func (d *Dispatcher) RequestConfirmation(ctx context.Context, req ConfirmationRequest) error {
	d.pending.Put(domain.PendingConfirmation{
		MessageID: req.MessageID,
		UserID:    req.UserID,
		Action:    req.Action,
		ExpiresAt: d.now().Add(d.confirmationTTL),
	})

	return d.Attach(ctx, AttachRequest{
		ChannelID: req.ChannelID,
		MessageID: req.MessageID,
		UserID:    req.UserID,
		ServerID:  req.Action.ServerID,
		Actions:   ConfirmationActions(),
		TTL:       d.confirmationTTL,
	})
}

// Remove forgets everything attached to a message, e.g. after it was deleted.
func (d *Dispatcher) Remove(messageID string) {
	d.sessions.Remove(messageID)
	d.pending.Remove(messageID)
	metrics.ActiveSessions.Set(float64(d.sessions.Len()))
}

func (d *Dispatcher) ConfirmationTTL() time.Duration {
	return d.confirmationTTL
}

// HandleReaction processes one reaction event. Failures are logged and, for
// action errors, rendered as a reply; nothing is returned to the caller.
func (d *Dispatcher) HandleReaction(ctx context.Context, evt domain.ReactionEvent) {
	if evt.Removed {
		metrics.ReactionEvents.WithLabelValues("removed").Inc()
		return
	}

	user := evt.User
	if !evt.Resolved {
		fetched, err := d.platform.FetchUser(ctx, evt.User.ID)
		if err != nil {
			slog.Error("Failed to fetch reaction user", "user_id", evt.User.ID, "message_id", evt.MessageID, "error", err)
			metrics.ReactionEvents.WithLabelValues("fetch_failed").Inc()
			return
		}
		user = *fetched
	}

	if user.Bot {
		metrics.ReactionEvents.WithLabelValues("bot").Inc()
		return
	}

	session, ok := d.sessions.Get(evt.MessageID)
	if !ok {
		metrics.ReactionEvents.WithLabelValues("no_session").Inc()
		return
	}

	if user.ID != session.UserID {
		slog.Debug("Reaction from unauthorized user", "user_id", user.ID, "message_id", evt.MessageID)
		metrics.ReactionEvents.WithLabelValues("unauthorized").Inc()
		d.retract(ctx, evt, user.ID)
		return
	}

	action, ok := session.ActionFor(evt.Glyph)
	if !ok {
		metrics.ReactionEvents.WithLabelValues("unknown_glyph").Inc()
		return
	}

	if !d.begin(evt.MessageID) {
		slog.Debug("Reaction dropped, message busy", "message_id", evt.MessageID, "action", action.Name)
		metrics.ReactionEvents.WithLabelValues("busy").Inc()
		d.retract(ctx, evt, user.ID)
		return
	}
	defer d.end(evt.MessageID)

	cooldown := action.Cooldown
	if cooldown <= 0 {
		cooldown = d.defaultCooldown
	}
	if allowed, remaining := d.cooldowns.TryAcquire(user.ID, action.Name, cooldown); !allowed {
		slog.Debug("Reaction on cooldown", "user_id", user.ID, "action", action.Name, "remaining", remaining)
		metrics.ReactionEvents.WithLabelValues("cooldown").Inc()
		d.retract(ctx, evt, user.ID)
		return
	}

	d.dispatch(ctx, evt, session, user, action)
	d.retract(ctx, evt, user.ID)
}

func (d *Dispatcher) dispatch(ctx context.Context, evt domain.ReactionEvent, session domain.Session, user domain.User, action domain.Action) {
	req := Request{Action: action, Session: session, User: user}

	resolvesPrompt := action.Name == domain.ActionConfirm || action.Name == domain.ActionCancel
	if resolvesPrompt {
		if pc, ok := d.pending.Take(evt.MessageID); ok {
			req.Pending = &pc
		}
		defer d.Remove(evt.MessageID)
	}

	slog.Info("Executing reaction action", "action", action.Name, "user", user.Username, "message_id", evt.MessageID, "server_id", session.ServerID)

	out, err := d.executor.Execute(ctx, req)
	switch {
	case errors.Is(err, ErrUnknownAction):
		slog.Warn("Unknown reaction action", "action", action.Name, "message_id", evt.MessageID)
		metrics.ReactionEvents.WithLabelValues("unknown_action").Inc()
		return
	case err != nil:
		slog.Error("Failed to execute reaction action", "action", action.Name, "user_id", user.ID, "server_id", session.ServerID, "message_id", evt.MessageID, "error", err)
		metrics.ReactionEvents.WithLabelValues("failed").Inc()
		metrics.ActionsExecuted.WithLabelValues(string(action.Name), "failure").Inc()
		out = Outcome{Reply: render.ActionFailed(err)}
	default:
		metrics.ReactionEvents.WithLabelValues("executed").Inc()
		metrics.ActionsExecuted.WithLabelValues(string(action.Name), "success").Inc()
	}

	d.deliver(ctx, session, user, out)
}

func (d *Dispatcher) deliver(ctx context.Context, session domain.Session, user domain.User, out Outcome) {
	replyID, err := d.platform.SendReply(ctx, session.ChannelID, session.MessageID, out.Reply)
	if err != nil {
		slog.Error("Failed to send reaction reply", "channel_id", session.ChannelID, "message_id", session.MessageID, "error", err)
		return
	}

	if out.Controls == nil {
		return
	}

	err = d.Attach(ctx, AttachRequest{
		ChannelID: session.ChannelID,
		MessageID: replyID,
		UserID:    user.ID,
		ServerID:  out.Controls.ServerID,
		Actions:   out.Controls.Actions,
		TTL:       out.Controls.TTL,
	})
	if err != nil {
		slog.Error("Failed to attach follow-up controls", "message_id", replyID, "error", err)
	}
}

func (d *Dispatcher) retract(ctx context.Context, evt domain.ReactionEvent, userID string) {
	if err := d.platform.RemoveReaction(ctx, evt.ChannelID, evt.MessageID, evt.Glyph, userID); err != nil {
		slog.Debug("Failed to remove reaction", "message_id", evt.MessageID, "glyph", evt.Glyph, "error", err)
	}
}

func (d *Dispatcher) begin(messageID string) bool {
	d.inflightMu.Lock()
	defer d.inflightMu.Unlock()

	if _, busy := d.inflight[messageID]; busy {
		return false
	}
	d.inflight[messageID] = struct{}{}
	return true
}

func (d *Dispatcher) end(messageID string) {
	d.inflightMu.Lock()
	defer d.inflightMu.Unlock()
	delete(d.inflight, messageID)
}

// Run sweeps expired sessions, cooldowns and confirmations until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	slog.Info("Session sweeper started", "interval", d.sweepInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep()
		}
	}
}

func (d *Dispatcher) sweep() {
	sessions := d.sessions.Sweep()
	cooldowns := d.cooldowns.Sweep()
	pending := d.pending.Sweep()

	metrics.ActiveSessions.Set(float64(d.sessions.Len()))

	if sessions+cooldowns+pending > 0 {
		slog.Debug("Swept expired interaction state", "sessions", sessions, "cooldowns", cooldowns, "confirmations", pending)
	}
}
