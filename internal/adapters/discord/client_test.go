package discord

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type mockDiscordSession struct {
	mu sync.Mutex

	sendComplexFunc    func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	reactionAddFunc    func(channelID, messageID, emojiID string) error
	reactionRemoveFunc func(channelID, messageID, emojiID, userID string) error
	userFunc           func(userID string) (*discordgo.User, error)

	added     []string
	userCalls int
}

func (m *mockDiscordSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.sendComplexFunc != nil {
		return m.sendComplexFunc(channelID, data)
	}
	return &discordgo.Message{ID: "msg-1"}, nil
}

func (m *mockDiscordSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	m.added = append(m.added, emojiID)
	m.mu.Unlock()
	if m.reactionAddFunc != nil {
		return m.reactionAddFunc(channelID, messageID, emojiID)
	}
	return nil
}

func (m *mockDiscordSession) MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error {
	if m.reactionRemoveFunc != nil {
		return m.reactionRemoveFunc(channelID, messageID, emojiID, userID)
	}
	return nil
}

func (m *mockDiscordSession) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	m.mu.Lock()
	m.userCalls++
	m.mu.Unlock()
	if m.userFunc != nil {
		return m.userFunc(userID)
	}
	return &discordgo.User{ID: userID, Username: "steve"}, nil
}

var testConfig = &config.Config{
	ReactionPacing: 0,
}

func TestNewAdapter(t *testing.T) {
	adapter := NewAdapter(&mockDiscordSession{}, testConfig)

	if adapter == nil {
		t.Fatal("Expected non-nil adapter")
	}
	if adapter.users == nil {
		t.Error("Expected user cache to be initialized")
	}
	if adapter.pacer == nil {
		t.Error("Expected reaction pacer to be initialized")
	}
}

func TestAdapter_SendReply(t *testing.T) {
	var gotChannel string
	var gotData *discordgo.MessageSend

	session := &mockDiscordSession{
		sendComplexFunc: func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
			gotChannel = channelID
			gotData = data
			return &discordgo.Message{ID: "reply-9"}, nil
		},
	}
	adapter := NewAdapter(session, testConfig)

	id, err := adapter.SendReply(context.Background(), "chan-1", "orig-1", domain.Embed{Title: "hello"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if id != "reply-9" {
		t.Errorf("Expected message ID 'reply-9', got %q", id)
	}
	if gotChannel != "chan-1" {
		t.Errorf("Expected channel 'chan-1', got %q", gotChannel)
	}
	if len(gotData.Embeds) != 1 || gotData.Embeds[0].Title != "hello" {
		t.Errorf("Unexpected embeds: %+v", gotData.Embeds)
	}
	if gotData.Reference == nil || gotData.Reference.MessageID != "orig-1" || gotData.Reference.ChannelID != "chan-1" {
		t.Errorf("Expected reply reference to orig-1, got %+v", gotData.Reference)
	}
}

func TestAdapter_SendReply_NoReference(t *testing.T) {
	var gotData *discordgo.MessageSend
	session := &mockDiscordSession{
		sendComplexFunc: func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
			gotData = data
			return &discordgo.Message{ID: "m"}, nil
		},
	}

	if _, err := NewAdapter(session, testConfig).SendReply(context.Background(), "chan-1", "", domain.Embed{}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotData.Reference != nil {
		t.Error("Expected no message reference")
	}
}

func TestAdapter_SendReply_Error(t *testing.T) {
	sendErr := errors.New("missing access")
	session := &mockDiscordSession{
		sendComplexFunc: func(string, *discordgo.MessageSend) (*discordgo.Message, error) {
			return nil, sendErr
		},
	}

	_, err := NewAdapter(session, testConfig).SendReply(context.Background(), "chan-1", "orig", domain.Embed{})
	if !errors.Is(err, sendErr) {
		t.Errorf("Expected wrapped send error, got %v", err)
	}
}

func TestAdapter_AddReactions_InOrder(t *testing.T) {
	session := &mockDiscordSession{}
	adapter := NewAdapter(session, testConfig)

	glyphs := []string{"🔄", "⏹️", "🔁", "👥"}
	if err := adapter.AddReactions(context.Background(), "chan", "msg", glyphs); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(session.added) != len(glyphs) {
		t.Fatalf("Expected %d reactions, got %d", len(glyphs), len(session.added))
	}
	for i, g := range glyphs {
		if session.added[i] != g {
			t.Errorf("reaction %d: expected %s, got %s", i, g, session.added[i])
		}
	}
}

func TestAdapter_AddReactions_StopsOnError(t *testing.T) {
	session := &mockDiscordSession{
		reactionAddFunc: func(_, _, emojiID string) error {
			if emojiID == "⏹️" {
				return errors.New("unknown emoji")
			}
			return nil
		},
	}
	adapter := NewAdapter(session, testConfig)

	err := adapter.AddReactions(context.Background(), "chan", "msg", []string{"🔄", "⏹️", "🔁"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if len(session.added) != 2 {
		t.Errorf("Expected to stop after the failing glyph, got %v", session.added)
	}
}

func TestAdapter_AddReactions_Paced(t *testing.T) {
	session := &mockDiscordSession{}
	adapter := NewAdapter(session, &config.Config{ReactionPacing: 20 * time.Millisecond})

	start := time.Now()
	if err := adapter.AddReactions(context.Background(), "chan", "msg", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// First glyph uses the burst, the next two wait one interval each.
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("Expected paced additions, finished in %v", elapsed)
	}
}

func TestAdapter_AddReactions_ContextCancelled(t *testing.T) {
	session := &mockDiscordSession{}
	adapter := NewAdapter(session, &config.Config{ReactionPacing: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := adapter.AddReactions(ctx, "chan", "msg", []string{"a", "b"}); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
	if len(session.added) != 0 {
		t.Errorf("Expected no reactions, got %v", session.added)
	}
}

func TestAdapter_RemoveReaction(t *testing.T) {
	var got [4]string
	session := &mockDiscordSession{
		reactionRemoveFunc: func(channelID, messageID, emojiID, userID string) error {
			got = [4]string{channelID, messageID, emojiID, userID}
			return nil
		},
	}

	if err := NewAdapter(session, testConfig).RemoveReaction(context.Background(), "c", "m", "✅", "u"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != [4]string{"c", "m", "✅", "u"} {
		t.Errorf("Unexpected arguments %v", got)
	}
}

func TestAdapter_FetchUser_Cached(t *testing.T) {
	session := &mockDiscordSession{
		userFunc: func(userID string) (*discordgo.User, error) {
			return &discordgo.User{ID: userID, Username: "alex", Bot: true}, nil
		},
	}
	adapter := NewAdapter(session, testConfig)

	for range 3 {
		user, err := adapter.FetchUser(context.Background(), "u-1")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if user.ID != "u-1" || user.Username != "alex" || !user.Bot {
			t.Errorf("Unexpected user %+v", user)
		}
	}

	if session.userCalls != 1 {
		t.Errorf("Expected 1 API call, got %d", session.userCalls)
	}
}

func TestAdapter_FetchUser_Error(t *testing.T) {
	session := &mockDiscordSession{
		userFunc: func(string) (*discordgo.User, error) {
			return nil, errors.New("404 Not Found")
		},
	}

	if _, err := NewAdapter(session, testConfig).FetchUser(context.Background(), "u-1"); err == nil {
		t.Fatal("Expected error")
	}
}

func TestUserCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newUserCache(time.Minute, func() time.Time { return now })

	cache.Set(domain.User{ID: "u-1", Username: "steve"})
	if _, ok := cache.Get("u-1"); !ok {
		t.Fatal("Expected cached user")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("u-1"); ok {
		t.Error("Expected user to expire")
	}

}

func TestUserCache_SetEvictsExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newUserCache(time.Minute, func() time.Time { return now })

	cache.Set(domain.User{ID: "u-1"})
	cache.Set(domain.User{ID: "u-2"})
	if cache.Len() != 2 {
		t.Fatalf("Expected 2 cached users, got %d", cache.Len())
	}

	now = now.Add(2 * time.Minute)
	cache.Set(domain.User{ID: "u-3"})

	if cache.Len() != 1 {
		t.Errorf("Expected expired users to be evicted, got %d entries", cache.Len())
	}
	if _, ok := cache.Get("u-3"); !ok {
		t.Error("Expected fresh user to be cached")
	}
}
