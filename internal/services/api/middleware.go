package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Role is the caller capability asserted by the authentication layer in
// front of this service. The layer itself is an external collaborator; this
// middleware only reads its verdict from the X-Role header.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RolePowerUser Role = "POWER_USER"
	RoleGuest     Role = "GUEST"
)

func roleFrom(r *http.Request) Role {
	switch Role(r.Header.Get("X-Role")) {
	case RoleAdmin:
		return RoleAdmin
	case RolePowerUser:
		return RolePowerUser
	default:
		return RoleGuest
	}
}

// requireRole rejects callers whose role is not in the allow list.
func requireRole(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := roleFrom(r)
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

// requestLogger logs one line per request after it completes.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.code),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
