package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/service/session"
	"bazaar/internal/domain/value"
	"bazaar/pkg/httpx/reply"
	"bazaar/pkg/httpx/req"
	"bazaar/pkg/logx"
	"bazaar/pkg/lox"
	"bazaar/pkg/rest"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

type sessionService interface {
	Create(ctx context.Context, seed *uint64) (session.View, error)
	Get(ctx context.Context, id string) (session.View, error)
	Do(ctx context.Context, id string, action value.Action) ([]entity.Event, session.View, error)
	Subscribe(ctx context.Context, id string) (<-chan entity.Event, func(), error)
	Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	Runs(ctx context.Context, limit, offset int) ([]entity.Run, error)
	Delete(ctx context.Context, id string) error
}

type SessionServer struct {
	sessionService sessionService
	upgrader       websocket.Upgrader
}

func NewSessionServer(sessionService sessionService) SessionServer {
	return SessionServer{
		sessionService: sessionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (s SessionServer) postV1Sessions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateSessionRequest

	if r.ContentLength != 0 {
		if err := req.Read(r, &request); err != nil {
			return fmt.Errorf("req.Read: %w", err)
		}
	}

	view, err := s.sessionService.Create(ctx, request.Seed)
	if err != nil {
		return fmt.Errorf("sessionService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSession(view))

	return nil
}

func (s SessionServer) getV1Session(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.sessionService.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("sessionService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(view))

	return nil
}

// deleteV1Session завершает сессию досрочно, подписчики получают закрытие потока.
func (s SessionServer) deleteV1Session(w http.ResponseWriter, r *http.Request) error {
	if err := s.sessionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		return fmt.Errorf("sessionService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s SessionServer) postV1SessionAction(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ActionRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	action, err := newDomainAction(request)
	if err != nil {
		return fmt.Errorf("newDomainAction: %w", err)
	}

	events, view, err := s.sessionService.Do(ctx, chi.URLParam(r, "id"), action)
	if err != nil {
		return fmt.Errorf("sessionService.Do: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ActionResult{
		Events:  lox.Map(events, newRESTEvent),
		Session: newRESTSession(view),
	})

	return nil
}

// getV1SessionEvents отдаёт события сессии по websocket, пока клиент на связи
// или пока сессия жива.
func (s SessionServer) getV1SessionEvents(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	events, unsubscribe, err := s.sessionService.Subscribe(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return fmt.Errorf("sessionService.Subscribe: %w", err)
	}
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger(ctx).Warn("websocket upgrade failed", logx.Error(err))
		return nil
	}
	defer conn.Close()

	logger(ctx).Info("event stream opened")

	closed := make(chan struct{})

	go func() {
		defer close(closed)

		conn.SetReadLimit(512) //nolint:mnd // клиент ничего не присылает
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))

			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				_ = conn.WriteMessage(websocket.CloseMessage, msg)

				return nil
			}

			if err := conn.WriteJSON(newRESTEvent(ev)); err != nil {
				logger(ctx).Warn("event stream write failed", logx.Error(err))
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return nil
			}
		}
	}
}

func (s SessionServer) getV1Leaderboard(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, _, err := parsePaging(r)
	if err != nil {
		return fmt.Errorf("parsePaging: %w", err)
	}

	entries, err := s.sessionService.Leaderboard(ctx, limit)
	if err != nil {
		return fmt.Errorf("sessionService.Leaderboard: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(entries, newRESTLeaderboardEntry))

	return nil
}

func (s SessionServer) getV1Runs(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, offset, err := parsePaging(r)
	if err != nil {
		return fmt.Errorf("parsePaging: %w", err)
	}

	runs, err := s.sessionService.Runs(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("sessionService.Runs: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lox.Map(runs, newRESTRun))

	return nil
}
