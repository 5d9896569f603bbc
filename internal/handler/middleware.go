package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/metrics"
)

// ctxKey is the private type for request-context values.
type ctxKey int

const ctxKeyUser ctxKey = iota

// userFrom returns the authenticated user stored by the auth middleware.
func userFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(ctxKeyUser).(*domain.User)
	return user
}

// authenticate resolves the Bearer session token and stores the user
// in the request context. Requests without a valid session get 401.
func (rt *Router) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing credentials"})
			return
		}
		user, err := rt.accounts.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, rt.logger, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// instrument records request count and duration per route.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The route pattern is known only after routing has run.
		pattern := chiRoutePattern(r)
		metrics.HTTPRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

func chiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
