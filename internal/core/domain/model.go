package domain

import (
	"strconv"
	"time"
)

type Server struct {
	ID   string
	Name string
	IP   string
	Port int
	Type string
}

func (s Server) Address() string {
	if s.Port == 0 {
		return s.IP
	}
	return s.IP + ":" + strconv.Itoa(s.Port)
}

type ServerStats struct {
	Running        bool
	Crashed        bool
	WaitingToStart bool
	Online         int
	Max            int
	CPUPercent     float64
	MemPercent     float64
	StartedAt      time.Time
}

// ServerWithStats pairs a server with its stats; Stats is nil when they could not be fetched.
type ServerWithStats struct {
	Server Server
	Stats  *ServerStats
}

type User struct {
	ID       string
	Username string
	Bot      bool
}

// ServerOperation is a power action sent to the controller.
type ServerOperation string

const (
	OperationStart   ServerOperation = "start"
	OperationStop    ServerOperation = "stop"
	OperationRestart ServerOperation = "restart"
	OperationKill    ServerOperation = "kill"
)

// PastTense is the human form used in replies, e.g. "restarted".
func (o ServerOperation) PastTense() string {
	switch o {
	case OperationStart:
		return "started"
	case OperationStop:
		return "stopped"
	case OperationRestart:
		return "restarted"
	case OperationKill:
		return "force killed"
	default:
		return string(o)
	}
}

type AuditEntry struct {
	ServerID  string
	Server    string
	Action    ServerOperation
	UserID    string
	Username  string
	Source    string
	Success   bool
	Error     string
	CreatedAt time.Time
}

const (
	AuditSourceCommand  = "command"
	AuditSourceReaction = "reaction"
)
