package discord

import (
	"context"

	"crafty-bot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

// ReactionHandler receives reaction events and message deletions.
type ReactionHandler interface {
	HandleReaction(ctx context.Context, evt domain.ReactionEvent)
	Remove(messageID string)
}

// Events bridges discordgo gateway events to a ReactionHandler.
type Events struct {
	ctx     context.Context
	handler ReactionHandler
}

func NewEvents(ctx context.Context, handler ReactionHandler) *Events {
	return &Events{ctx: ctx, handler: handler}
}

func (e *Events) OnReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r == nil || r.MessageReaction == nil || isSelf(s, r.UserID) {
		return
	}
	e.handler.HandleReaction(e.ctx, reactionAdded(r))
}

func (e *Events) OnReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r == nil || r.MessageReaction == nil || isSelf(s, r.UserID) {
		return
	}
	evt := reactionEvent(r.MessageReaction)
	evt.Removed = true
	e.handler.HandleReaction(e.ctx, evt)
}

func (e *Events) OnMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	if m == nil || m.Message == nil {
		return
	}
	e.handler.Remove(m.ID)
}

func reactionAdded(r *discordgo.MessageReactionAdd) domain.ReactionEvent {
	evt := reactionEvent(r.MessageReaction)
	if r.Member != nil && r.Member.User != nil {
		evt.User = toDomainUser(r.Member.User)
		evt.Resolved = true
	}
	return evt
}

func reactionEvent(r *discordgo.MessageReaction) domain.ReactionEvent {
	return domain.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		Glyph:     r.Emoji.APIName(),
		User:      domain.User{ID: r.UserID},
	}
}

func isSelf(s *discordgo.Session, userID string) bool {
	return s != nil && s.State != nil && s.State.User != nil && s.State.User.ID == userID
}
