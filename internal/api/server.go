package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"innkeeper/internal/auth"
	"innkeeper/internal/booking"
	"innkeeper/internal/database"
	"innkeeper/internal/metrics"
	"innkeeper/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer serves the hotel operations API.
type HTTPServer struct {
	db      *database.DB
	engine  *booking.Engine
	auth    *auth.Service
	logger  zerolog.Logger
	limiter *loginLimiter
}

// New builds the server. loginPerMinute/loginBurst throttle the login
// endpoint per client IP.
func New(db *database.DB, engine *booking.Engine, authSvc *auth.Service, loginPerMinute, loginBurst int, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{
		db:      db,
		engine:  engine,
		auth:    authSvc,
		logger:  logger.With().Str("component", "api").Logger(),
		limiter: newLoginLimiter(loginPerMinute, loginBurst),
	}
}

// Routes wires all endpoints. Everything except login requires a valid
// credential; the core assumes every invocation it receives has already
// been authorized.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.Handle("POST /api/logout", s.requireAuth(s.handleLogout))

	mux.Handle("GET /api/clients", s.requireAuth(s.handleListClients))
	mux.Handle("POST /api/clients", s.requireAuth(s.handleCreateClient))
	mux.Handle("GET /api/clients/{id}", s.requireAuth(s.handleGetClient))
	mux.Handle("PUT /api/clients/{id}", s.requireAuth(s.handleUpdateClient))
	mux.Handle("DELETE /api/clients/{id}", s.requireAuth(s.handleDeleteClient))

	mux.Handle("GET /api/rooms", s.requireAuth(s.handleListRooms))
	mux.Handle("POST /api/rooms", s.requireAuth(s.handleCreateRoom))
	mux.Handle("GET /api/rooms/{id}", s.requireAuth(s.handleGetRoom))
	mux.Handle("PUT /api/rooms/{id}", s.requireAuth(s.handleUpdateRoom))
	mux.Handle("DELETE /api/rooms/{id}", s.requireAuth(s.handleDeleteRoom))

	mux.Handle("GET /api/bookings", s.requireAuth(s.handleListBookings))
	mux.Handle("POST /api/bookings", s.requireAuth(s.handleCreateBooking))
	mux.Handle("GET /api/bookings/{id}", s.requireAuth(s.handleGetBooking))
	mux.Handle("PUT /api/bookings/{id}", s.requireAuth(s.handleModifyBooking))
	mux.Handle("DELETE /api/bookings/{id}", s.requireAuth(s.handleCancelBooking))

	mux.Handle("GET /api/users", s.requireAuth(s.requireAdmin(s.handleListUsers)))
	mux.Handle("POST /api/users", s.requireAuth(s.requireAdmin(s.handleCreateUser)))
	mux.Handle("GET /api/users/{id}", s.requireAuth(s.requireAdmin(s.handleGetUser)))
	mux.Handle("PUT /api/users/{id}", s.requireAuth(s.requireAdmin(s.handleUpdateUser)))
	mux.Handle("DELETE /api/users/{id}", s.requireAuth(s.requireAdmin(s.handleDeleteUser)))

	mux.Handle("GET /api/recipes", s.requireAuth(s.handleListRecipes))
	mux.Handle("POST /api/recipes", s.requireAuth(s.handleCreateRecipe))
	mux.Handle("GET /api/recipes/{id}", s.requireAuth(s.handleGetRecipe))
	mux.Handle("PUT /api/recipes/{id}", s.requireAuth(s.handleUpdateRecipe))
	mux.Handle("DELETE /api/recipes/{id}", s.requireAuth(s.handleDeleteRecipe))

	mux.Handle("GET /api/categories", s.requireAuth(s.handleListCategories))
	mux.Handle("POST /api/categories", s.requireAuth(s.handleCreateCategory))
	mux.Handle("DELETE /api/categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.Handle("GET /api/reports/bookings", s.requireAuth(s.handleBookingsReport))

	return s.instrument(mux)
}

// instrument counts and logs requests per endpoint. The label keeps the
// collection prefix only, so path ids do not blow up the cardinality.
func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.IncHTTP(endpointLabel(r.URL.Path))
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request received")
		next.ServeHTTP(w, r)
	})
}

func endpointLabel(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return path
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// pathID extracts the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// writeDomainError maps domain errors to HTTP statuses.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, models.ErrInvalidRange.Error())
	case errors.Is(err, models.ErrRoomUnavailable):
		writeError(w, http.StatusConflict, models.ErrRoomUnavailable.Error())
	case errors.Is(err, models.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvariantViolation):
		s.logger.Error().Err(err).Msg("Calendar invariant violation reported to client")
		writeError(w, http.StatusInternalServerError, "internal inconsistency detected")
	default:
		s.logger.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type contextKey string

const claimsKey contextKey = "auth-claims"

// requireAuth validates the bearer credential and stores its claims in
// the request context.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing credentials")
			return
		}
		claims, err := s.auth.VerifyToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired credentials")
			return
		}
		ctx := contextWithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates user management behind the admin role.
func (s *HTTPServer) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims == nil || claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func contextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// loginLimiter throttles login attempts per client IP.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	return &loginLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

func (l *loginLimiter) allow(remoteAddr string) bool {
	ip, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		ip = remoteAddr
	}
	l.mu.Lock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
