package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"crafty-bot/internal/adapters/crafty"
	"crafty-bot/internal/adapters/crafty/api"
	"crafty-bot/internal/adapters/discord"
	"crafty-bot/internal/adapters/discord/commands"
	"crafty-bot/internal/adapters/storage/memory"
	"crafty-bot/internal/adapters/storage/postgres"
	"crafty-bot/internal/config"
	"crafty-bot/internal/core/ports"
	"crafty-bot/internal/core/services"
	"crafty-bot/internal/core/services/reactions"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config             *config.Config
	audit              ports.AuditRepository
	discord            *discordgo.Session
	dispatcher         *reactions.Dispatcher
	router             *commands.Router
	metricsServer      *http.Server
	runCtx             context.Context
	runCancel          context.CancelFunc
	workers            *errgroup.Group
	registeredCommands []*discordgo.ApplicationCommand
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	audit, err := newAuditRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session, err := discord.NewSession(cfg)
	if err != nil {
		audit.Close()
		return nil, err
	}

	controller := crafty.NewAdapter(api.NewClient(cfg))
	service := services.NewServerService(controller, audit)

	dispatcher := reactions.NewDispatcher(reactions.Dependencies{
		Config:   cfg,
		Platform: discord.NewAdapter(session, cfg),
		Executor: reactions.NewExecutor(service),
	})

	bot := &commands.BotHandler{Config: cfg, Service: service, Sessions: dispatcher}
	router := commands.NewRouter()
	router.Use(commands.WithAllowedChannel(cfg.AllowedChannelID))
	router.Register(commands.CommandPing, bot.Ping)
	router.Register(commands.CommandStatus, bot.Status)
	router.Register(commands.CommandServer, commands.WithServerPermission(cfg.AdminRoleID)(bot.Server))
	router.Register(commands.CommandServers, bot.Servers)
	router.Register(commands.CommandMenu, bot.Menu)

	runCtx, runCancel := context.WithCancel(context.Background())
	events := discord.NewEvents(runCtx, dispatcher)

	session.AddHandler(commands.ReadyHandler)
	session.AddHandler(router.HandleFunc())
	session.AddHandler(events.OnReactionAdd)
	session.AddHandler(events.OnReactionRemove)
	session.AddHandler(events.OnMessageDelete)

	return &App{
		config:     cfg,
		audit:      audit,
		discord:    session,
		dispatcher: dispatcher,
		router:     router,
		runCtx:     runCtx,
		runCancel:  runCancel,
	}, nil
}

func newAuditRepository(ctx context.Context, cfg *config.Config) (ports.AuditRepository, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set, keeping the action history in memory")
		return memory.NewAuditLog(memory.DefaultCapacity), nil
	}

	store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to storage: %w", err)
	}
	return store, nil
}

func (a *App) Run() error {
	if err := a.discord.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	botID := a.discord.State.User.ID
	a.registeredCommands = commands.RegisterCommands(a.discord, commands.GetApplicationCommands(), botID, a.config.DiscordGuildID)

	a.startMetricsServer()

	a.workers = &errgroup.Group{}
	a.workers.Go(func() error {
		a.dispatcher.Run(a.runCtx)
		return nil
	})

	slog.Info("Crafty bot started", "guild", a.config.DiscordGuildID, "crafty_host", a.config.CraftyHost)
	return nil
}

func (a *App) startMetricsServer() {
	if a.config.MetricsAddr == "" {
		slog.Info("Metrics server disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	a.metricsServer = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics server listening", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	var errs []error

	if a.runCancel != nil {
		a.runCancel()
	}

	if a.discord != nil {
		if a.discord.State != nil && a.discord.State.User != nil {
			commands.CleanupCommands(a.discord, a.registeredCommands, a.discord.State.User.ID, a.config.DiscordGuildID)
		}
		if err := a.discord.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close discord session: %w", err))
		}
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
	}

	if a.workers != nil {
		_ = a.workers.Wait()
	}

	if a.audit != nil {
		a.audit.Close()
	}

	return errors.Join(errs...)
}
