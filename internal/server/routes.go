package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"bazaar/internal/domain"
	"bazaar/pkg/contextx"
	"bazaar/pkg/errcodes"
	"bazaar/pkg/httpx/reply"
	"bazaar/pkg/logx"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", handler(s.postV1Sessions))
				r.Route("/{id}", func(r chi.Router) {
					r.Use(sessionContext)
					r.Get("/", handler(s.getV1Session))
					r.Delete("/", handler(s.deleteV1Session))
					r.Post("/actions", handler(s.postV1SessionAction))
					r.Get("/events", handler(s.getV1SessionEvents))
				})
			})
			r.Get("/leaderboard", handler(s.getV1Leaderboard))
			r.Get("/runs", handler(s.getV1Runs))
		})
	})
}

// sessionContext кладёт id сессии в контекст и в логгер запроса.
func sessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx := contextx.WithSessionID(r.Context(), contextx.SessionID(id))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldSessionID, id)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(r.Context(), w, err)
		}
	}
}

//nolint:gochecknoglobals
var statusByCode = map[failure.ErrorCode]int{
	errcodes.NotFound:            http.StatusNotFound,
	errcodes.SessionNotFound:     http.StatusNotFound,
	errcodes.InvalidSessionID:    http.StatusBadRequest,
	errcodes.InvalidAction:       http.StatusBadRequest,
	errcodes.InvalidPaging:       http.StatusBadRequest,
	errcodes.ActionInapplicable:  http.StatusConflict,
	errcodes.LeaderboardDisabled: http.StatusServiceUnavailable,
	errcodes.RunNotRecorded:      http.StatusServiceUnavailable,
}

// writeError отдаёт доменные ошибки по их коду, остальное: через failure.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			reply.Fail(ctx, w, status, appErr.Code, appErr.Message, err)
			return
		}
	}

	reply.Error(ctx, w, err)
}
