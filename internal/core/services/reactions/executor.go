package reactions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crafty-bot/internal/core/domain"
	"crafty-bot/internal/core/render"
	"crafty-bot/internal/core/services"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	errNoServer      = errors.New("this message is not bound to a server")
)

type Request struct {
	Action  domain.Action
	Session domain.Session
	User    domain.User
	// Pending is the confirmation taken for confirm_action, nil when none was
	// waiting.
	Pending *domain.PendingConfirmation
}

// Controls is a follow-up session to attach to the reply. A zero TTL uses the
// default session lifetime.
type Controls struct {
	Actions  []domain.Action
	ServerID string
	TTL      time.Duration
}

// Outcome is what an action produced.
type Outcome struct {
	Reply    domain.Embed
	Controls *Controls
}

type ActionExecutor interface {
	Execute(ctx context.Context, req Request) (Outcome, error)
}

type Executor struct {
	servers *services.ServerService
	now     func() time.Time
}

func NewExecutor(servers *services.ServerService) *Executor {
	return &Executor{
		servers: servers,
		now:     time.Now,
	}
}

func (e *Executor) Execute(ctx context.Context, req Request) (Outcome, error) {
	switch req.Action.Name {
	case domain.ActionStartServer:
		return e.power(ctx, req, domain.OperationStart)
	case domain.ActionStopServer:
		return e.power(ctx, req, domain.OperationStop)
	case domain.ActionRestartServer:
		return e.power(ctx, req, domain.OperationRestart)
	case domain.ActionRefreshStatus:
		return e.refreshStatus(ctx, req)
	case domain.ActionShowPlayers:
		return e.showPlayers(ctx, req)
	case domain.ActionShowSummary:
		return e.showSummary(ctx, req)
	case domain.ActionShowServersList:
		return e.showServersList(ctx)
	case domain.ActionQuickStatus:
		return e.quickStatus(ctx, req)
	case domain.ActionRefreshMenu:
		return e.refreshMenu(ctx, req)
	case domain.ActionShowHelp:
		return Outcome{Reply: render.Help(req.User)}, nil
	case domain.ActionConfirm:
		return e.confirm(ctx, req)
	case domain.ActionCancel:
		return Outcome{Reply: render.Cancelled(req.User)}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.Action.Name)
	}
}

func (e *Executor) boundServer(ctx context.Context, req Request) (*domain.Server, error) {
	if req.Session.ServerID == "" {
		return nil, errNoServer
	}
	return e.servers.Resolve(ctx, req.Session.ServerID)
}

func (e *Executor) power(ctx context.Context, req Request, op domain.ServerOperation) (Outcome, error) {
	server, err := e.boundServer(ctx, req)
	if err != nil {
		return Outcome{}, err
	}

	if err := e.servers.Perform(ctx, op, *server, req.User, domain.AuditSourceReaction); err != nil {
		return Outcome{}, err
	}

	return Outcome{Reply: render.ActionSucceeded(op, *server, req.User)}, nil
}

func (e *Executor) refreshStatus(ctx context.Context, req Request) (Outcome, error) {
	if req.Session.ServerID == "" {
		servers, err := e.servers.List(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if len(servers) == 0 {
			return Outcome{Reply: render.NoServers()}, nil
		}
		return Outcome{Reply: render.ServerList(e.servers.Overview(ctx, servers), req.User)}, nil
	}

	status, err := e.servers.Status(ctx, req.Session.ServerID)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Reply: render.ServerStatus("🔄 Status Updated", status.Server, *status.Stats, "Refreshed by "+req.User.Username),
	}, nil
}

func (e *Executor) showPlayers(ctx context.Context, req Request) (Outcome, error) {
	if req.Session.ServerID == "" {
		return Outcome{}, errNoServer
	}

	status, err := e.servers.Status(ctx, req.Session.ServerID)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Reply: render.Players(status.Server, *status.Stats, req.User)}
	if status.Stats.Running {
		out.Controls = &Controls{Actions: PlayersActions(), ServerID: status.Server.ID}
	}
	return out, nil
}

func (e *Executor) showSummary(ctx context.Context, req Request) (Outcome, error) {
	servers, err := e.servers.List(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if len(servers) == 0 {
		return Outcome{Reply: render.NoServers()}, nil
	}

	overview := e.servers.Overview(ctx, head(servers, render.SummaryLimit))
	return Outcome{Reply: render.Summary(overview, len(servers), req.User)}, nil
}

func (e *Executor) showServersList(ctx context.Context) (Outcome, error) {
	servers, err := e.servers.List(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if len(servers) == 0 {
		return Outcome{Reply: render.NoServers()}, nil
	}
	return Outcome{Reply: render.CompactList(servers)}, nil
}

func (e *Executor) quickStatus(ctx context.Context, req Request) (Outcome, error) {
	status, err := e.servers.Status(ctx, "")
	if errors.Is(err, services.ErrNoServers) {
		return Outcome{Reply: render.NoServers()}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Reply:    render.ServerStatus("⚡ Quick Status", status.Server, *status.Stats, "Status requested by "+req.User.Username),
		Controls: &Controls{Actions: ServerActions(status.Stats.Running), ServerID: status.Server.ID},
	}, nil
}

func (e *Executor) refreshMenu(ctx context.Context, req Request) (Outcome, error) {
	servers, err := e.servers.List(ctx)
	if err != nil {
		return Outcome{}, err
	}

	running := services.RunningCount(e.servers.Overview(ctx, head(servers, render.SummaryLimit)))
	return Outcome{Reply: render.MenuRefreshed(len(servers), running, req.User, e.now())}, nil
}

func (e *Executor) confirm(ctx context.Context, req Request) (Outcome, error) {
	if req.Pending == nil {
		return Outcome{Reply: render.Cancelled(req.User)}, nil
	}

	action := req.Pending.Action
	op := action.Kind.Operation()
	server := domain.Server{ID: action.ServerID, Name: action.ServerName}

	if err := e.servers.Perform(ctx, op, server, req.User, domain.AuditSourceReaction); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Reply: render.ActionSucceeded(op, server, req.User)}

	stats, err := e.servers.Stats(ctx, server.ID)
	if err != nil {
		slog.Warn("Failed to fetch stats after confirmed action", "server_id", server.ID, "error", err)
		return out, nil
	}
	out.Controls = &Controls{Actions: ServerActions(stats.Running), ServerID: server.ID}
	return out, nil
}

func head(servers []domain.Server, n int) []domain.Server {
	if len(servers) > n {
		return servers[:n]
	}
	return servers
}
