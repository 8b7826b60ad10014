package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"bazaar/pkg/contextx"
	"bazaar/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{name: "generated", header: ""},
		{name: "propagated", header: "cr5q3l6c0dpqk4eg1d8g"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var seen contextx.TraceID

			h := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)

				seen = traceID
			}))

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("X-Trace-Id", tc.header)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			rq.NotEmpty(seen)
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tc.header != "" {
				rq.Equal(tc.header, seen.String())
			}
		})
	}
}
