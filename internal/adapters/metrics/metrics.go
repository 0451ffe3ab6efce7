package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReactionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crafty_bot_reaction_events_total",
		Help: "Reaction events received, by outcome",
	}, []string{"outcome"})

	ActionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crafty_bot_actions_executed_total",
		Help: "Reaction actions executed, by action and status",
	}, []string{"action", "status"})

	ServerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crafty_bot_server_operations_total",
		Help: "Server power operations sent to Crafty Controller",
	}, []string{"operation", "source", "status"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crafty_bot_active_sessions",
		Help: "Interaction sessions currently tracked",
	})

	CraftyRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crafty_request_duration_seconds",
		Help:    "Duration of Crafty Controller API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	CraftyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crafty_requests_total",
		Help: "Total number of Crafty Controller API requests",
	}, []string{"endpoint", "status"})

	DiscordMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_messages_sent_total",
		Help: "Total number of Discord messages sent",
	}, []string{"kind", "status"})

	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crafty_bot_commands_total",
		Help: "Slash commands handled, by command and status",
	}, []string{"command", "status"})
)
