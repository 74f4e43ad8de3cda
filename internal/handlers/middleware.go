package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"spellquiz/internal/security"
	"spellquiz/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const TeacherContextKey ContextKey = "teacher"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: security.NewRateLimiter(10, time.Minute),
	}
}

// RequireTeacher requires a valid dashboard token in the Authorization
// header
func (m *Middleware) RequireTeacher(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
			return
		}

		subject, err := m.authService.VerifyToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token", err)
			return
		}

		ctx := context.WithValue(r.Context(), TeacherContextKey, subject)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit limits login attempts per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.rateLimiter.Allow(security.ClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests, please try again later", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// TeacherFromContext retrieves the authenticated teacher subject from the
// request context
func TeacherFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(TeacherContextKey).(string)
	return subject
}
