package middlewarex

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"bazaar/pkg/contextx"
	"bazaar/pkg/logx"
)

const headerNameTraceID = "X-Trace-Id"

func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if traceID == "" {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))
		ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, traceID)))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
