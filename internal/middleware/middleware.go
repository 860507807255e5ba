package middleware

import (
	"net/http"
	"strings"
	"time"

	handlers "discussx/internal/handler"
	"discussx/internal/logger"
	"discussx/internal/models"
)

type Middleware func(http.Handler) http.Handler

// TokenParser turns a bearer token into the caller it was issued to.
type TokenParser interface {
	GetUserFromToken(tokenString string) (*models.AuthenticatedUser, error)
}

// AuthMiddleware attaches the authenticated caller to the request context.
// A request without an Authorization header passes through as anonymous;
// a header that is present but malformed or invalid is rejected.
func AuthMiddleware(tokens TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				handlers.WriteError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			user, err := tokens.GetUserFromToken(parts[1])
			if err != nil {
				handlers.WriteError(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := models.WithAuthenticatedUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		logger.Infof("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// RecoverMiddleware turns a panicking handler into a 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				handlers.WriteError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Chain wraps h so that the last middleware listed runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
