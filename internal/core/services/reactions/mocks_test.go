package reactions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crafty-bot/internal/config"
	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/services"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentReply struct {
	channelID string
	replyTo   string
	messageID string
	embed     domain.Embed
}

type removedReaction struct {
	messageID string
	glyph     string
	userID    string
}

type mockPlatform struct {
	mu        sync.Mutex
	replies   []sentReply
	reactions map[string][]string
	removed   []removedReaction

	sendErr     error
	fetchUserFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *mockPlatform) SendReply(ctx context.Context, channelID, replyTo string, embed domain.Embed) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return "", m.sendErr
	}
	id := fmt.Sprintf("reply-%d", len(m.replies)+1)
	m.replies = append(m.replies, sentReply{channelID: channelID, replyTo: replyTo, messageID: id, embed: embed})
	return id, nil
}

func (m *mockPlatform) AddReactions(ctx context.Context, channelID, messageID string, glyphs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reactions == nil {
		m.reactions = make(map[string][]string)
	}
	m.reactions[messageID] = append(m.reactions[messageID], glyphs...)
	return nil
}

func (m *mockPlatform) RemoveReaction(ctx context.Context, channelID, messageID, glyph, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, removedReaction{messageID: messageID, glyph: glyph, userID: userID})
	return nil
}

func (m *mockPlatform) FetchUser(ctx context.Context, userID string) (*domain.User, error) {
	if m.fetchUserFn != nil {
		return m.fetchUserFn(ctx, userID)
	}
	return &domain.User{ID: userID, Username: "user-" + userID}, nil
}

func (m *mockPlatform) replyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

func (m *mockPlatform) lastReply() sentReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.replies) == 0 {
		return sentReply{}
	}
	return m.replies[len(m.replies)-1]
}

func (m *mockPlatform) removedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.removed)
}

func (m *mockPlatform) glyphsOn(messageID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reactions[messageID]
}

type mockController struct {
	mu      sync.Mutex
	servers []domain.Server
	stats   map[string]*domain.ServerStats
	calls   []string
	failOn  map[string]error
}

func newMockController() *mockController {
	return &mockController{
		servers: []domain.Server{
			{ID: "srv-42", Name: "Survival", IP: "10.0.0.5", Port: 25565},
			{ID: "srv-7", Name: "Creative", IP: "10.0.0.6", Port: 25566},
		},
		stats: map[string]*domain.ServerStats{
			"srv-42": {Running: true, Online: 3, Max: 20},
			"srv-7":  {Online: 0, Max: 10},
		},
		failOn: make(map[string]error),
	}
}

func (m *mockController) record(call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.failOn[call]
}

func (m *mockController) count(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockController) ListServers(ctx context.Context) ([]domain.Server, error) {
	if err := m.record("list"); err != nil {
		return nil, err
	}
	return m.servers, nil
}

func (m *mockController) GetServerInfo(ctx context.Context, serverID string) (*domain.Server, error) {
	if err := m.record("info:" + serverID); err != nil {
		return nil, err
	}
	for _, s := range m.servers {
		if s.ID == serverID {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("server %s not found", serverID)
}

func (m *mockController) GetServerStats(ctx context.Context, serverID string) (*domain.ServerStats, error) {
	if err := m.record("stats:" + serverID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stats[serverID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, fmt.Errorf("no stats for %s", serverID)
}

func (m *mockController) StartServer(ctx context.Context, serverID string) error {
	return m.record("start:" + serverID)
}

func (m *mockController) StopServer(ctx context.Context, serverID string) error {
	return m.record("stop:" + serverID)
}

func (m *mockController) RestartServer(ctx context.Context, serverID string) error {
	return m.record("restart:" + serverID)
}

func (m *mockController) KillServer(ctx context.Context, serverID string) error {
	return m.record("kill:" + serverID)
}

func (m *mockController) Ping(ctx context.Context) error {
	return m.record("ping")
}

type mockAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (m *mockAudit) RecordAction(ctx context.Context, entry domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAudit) RecentActions(ctx context.Context, serverID string, limit int) ([]domain.AuditEntry, error) {
	return nil, nil
}

func (m *mockAudit) Close() {}

type executorFunc func(ctx context.Context, req Request) (Outcome, error)

func (f executorFunc) Execute(ctx context.Context, req Request) (Outcome, error) {
	return f(ctx, req)
}

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:           10 * time.Minute,
		MenuTTL:              15 * time.Minute,
		ConfirmationTTL:      30 * time.Second,
		SessionSweepInterval: time.Minute,
		DefaultCooldown:      5 * time.Second,
	}
}

type harness struct {
	dispatcher *Dispatcher
	platform   *mockPlatform
	controller *mockController
	audit      *mockAudit
	clock      *fakeClock
}

func newHarness() *harness {
	h := &harness{
		platform:   &mockPlatform{},
		controller: newMockController(),
		audit:      &mockAudit{},
		clock:      newFakeClock(),
	}

	cfg := testConfig()
	executor := NewExecutor(services.NewServerService(h.controller, h.audit))
	executor.now = h.clock.Now

	h.dispatcher = newDispatcher(Dependencies{
		Config:   cfg,
		Platform: h.platform,
		Executor: executor,
	}, h.clock.Now)
	return h
}

func newStubHarness(exec ActionExecutor) *harness {
	h := &harness{
		platform: &mockPlatform{},
		clock:    newFakeClock(),
	}
	h.dispatcher = newDispatcher(Dependencies{
		Config:   testConfig(),
		Platform: h.platform,
		Executor: exec,
	}, h.clock.Now)
	return h
}

func reaction(messageID, glyph, userID string) domain.ReactionEvent {
	return domain.ReactionEvent{
		ChannelID: "chan-1",
		MessageID: messageID,
		Glyph:     glyph,
		User:      domain.User{ID: userID, Username: "user-" + userID},
		Resolved:  true,
	}
}
