package crafty

import (
	"time"

	"crafty-bot/internal/adapters/crafty/api"
	"crafty-bot/internal/core/domain"
)

const startedLayout = "2006-01-02 15:04:05"

func mapServer(s api.Server) domain.Server {
	return domain.Server{
		ID:   string(s.ServerID),
		Name: s.ServerName,
		IP:   s.ServerIP,
		Port: s.ServerPort,
		Type: s.Type,
	}
}

func mapStats(s api.Stats) *domain.ServerStats {
	stats := &domain.ServerStats{
		Running:        s.Running,
		Crashed:        s.Crashed,
		WaitingToStart: s.WaitingStart,
		Online:         int(s.Online),
		Max:            int(s.Max),
		CPUPercent:     s.CPU,
		MemPercent:     s.MemPercent,
	}

	if started, err := time.ParseInLocation(startedLayout, s.Started, time.Local); err == nil {
		stats.StartedAt = started
	}
	return stats
}
