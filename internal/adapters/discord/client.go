package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crafty-bot/internal/adapters/discord/formatting"
	"crafty-bot/internal/adapters/metrics"
	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

type DiscordSession interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// Adapter implements ports.ChatPlatform on top of a Discord session.
type Adapter struct {
	session DiscordSession
	config  *config.Config
	users   *userCache
	pacer   *rate.Limiter
}

func NewAdapter(session DiscordSession, cfg *config.Config) *Adapter {
	return &Adapter{
		session: session,
		config:  cfg,
		users:   newUserCache(userCacheTTL, time.Now),
		pacer:   newPacer(cfg.ReactionPacing),
	}
}

// newPacer spaces out reaction additions across all messages.
func newPacer(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

func (a *Adapter) SendReply(ctx context.Context, channelID, replyTo string, embed domain.Embed) (string, error) {
	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{formatting.ToDiscordEmbed(embed)},
	}
	if replyTo != "" {
		msg.Reference = &discordgo.MessageReference{MessageID: replyTo, ChannelID: channelID}
	}

	sent, err := a.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		slog.Error("Failed to send message", "channel_id", channelID, "reply_to", replyTo, "error", err)
		metrics.DiscordMessagesSent.WithLabelValues("reply", "failure").Inc()
		return "", fmt.Errorf("send reply in %s: %w", channelID, err)
	}

	metrics.DiscordMessagesSent.WithLabelValues("reply", "success").Inc()
	return sent.ID, nil
}

// AddReactions adds glyphs in order. It stops at the first failure.
func (a *Adapter) AddReactions(ctx context.Context, channelID, messageID string, glyphs []string) error {
	for _, glyph := range glyphs {
		if err := a.pacer.Wait(ctx); err != nil {
			return fmt.Errorf("wait to add %s: %w", glyph, err)
		}

		if err := a.session.MessageReactionAdd(channelID, messageID, glyph, discordgo.WithContext(ctx)); err != nil {
			slog.Error("Failed to add reaction", "channel_id", channelID, "message_id", messageID, "glyph", glyph, "error", err)
			metrics.DiscordMessagesSent.WithLabelValues("reaction", "failure").Inc()
			return fmt.Errorf("add reaction %s: %w", glyph, err)
		}
		metrics.DiscordMessagesSent.WithLabelValues("reaction", "success").Inc()
	}
	return nil
}

func (a *Adapter) RemoveReaction(ctx context.Context, channelID, messageID, glyph, userID string) error {
	if err := a.session.MessageReactionRemove(channelID, messageID, glyph, userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("remove reaction %s: %w", glyph, err)
	}
	return nil
}

func (a *Adapter) FetchUser(ctx context.Context, userID string) (*domain.User, error) {
	if user, ok := a.users.Get(userID); ok {
		return &user, nil
	}

	u, err := a.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	if u == nil {
		return nil, errors.New("fetch user: empty response")
	}

	user := toDomainUser(u)
	a.users.Set(user)
	return &user, nil
}

func toDomainUser(u *discordgo.User) domain.User {
	return domain.User{ID: u.ID, Username: u.Username, Bot: u.Bot}
}
