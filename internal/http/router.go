package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Justin322322/Ecotracker/internal/domain"
	"github.com/Justin322322/Ecotracker/internal/service/auth"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	auth          auth.Service
	limiter       RateLimiter
	secureCookies bool
	dbHealth      func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitRegister  = 5
	rateLimitLogin     = 12
	healthCheckTimeout = 2 * time.Second
)

// NewRouter assembles routes with dependencies. secureCookies sets the
// Secure flag on every cookie the router issues.
func NewRouter(logger *slog.Logger, authSvc auth.Service, limiter RateLimiter, secureCookies bool, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		logger:        logger,
		auth:          authSvc,
		limiter:       limiter,
		secureCookies: secureCookies,
		dbHealth:      dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/api/register", r.audit(r.withRateLimit("register", rateLimitRegister, rateWindowDefault, rateLimitKeyIP, r.handleRegister)))
	r.mux.HandleFunc("/api/login", r.audit(r.withRateLimit("login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))
	r.mux.HandleFunc("/api/logout", r.audit(r.handleLogout))
	r.mux.HandleFunc("/api/me", r.audit(r.handleMe))
	r.mux.HandleFunc("/api/dashboard/", r.audit(r.requireSessionAPI(r.handleDashboardAPI)))
	r.mux.HandleFunc("/dashboard", r.audit(r.requireSessionPage(r.handleDashboardPage)))
	r.mux.HandleFunc("/dashboard/", r.audit(r.requireSessionPage(r.handleDashboardPage)))
	r.mux.HandleFunc("/", r.audit(r.handleLanding))
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload auth.RegisterInput
	if !decodeStrict(w, req, &payload) {
		return
	}
	user, err := r.auth.Register(req.Context(), payload)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Validation failed",
				"details": verr.Fields,
			})
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email is already registered")
		default:
			r.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, identityPayload(user))
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload auth.LoginInput
	if !decodeStrict(w, req, &payload) {
		return
	}
	user, err := r.auth.Login(req.Context(), payload)
	if err != nil {
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":   "Validation failed",
				"details": verr.Fields,
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Same body and status for unknown email and wrong password.
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			r.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	cookie, err := newSessionCookie(domain.SessionFor(user), r.secureCookies)
	if err != nil {
		r.logger.Error("session cookie encoding failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, identityPayload(user))
}

// handleLogout clears the session and legacy token cookies. Calling it
// without an active session is not an error.
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	http.SetCookie(w, expireCookie(SessionCookieName, r.secureCookies))
	http.SetCookie(w, expireCookie(legacyTokenCookie, r.secureCookies))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// handleMe reports the identity carried by the session cookie. It never
// errors to the caller; any parse failure degrades to a null user.
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	session, err := sessionFromRequest(req)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": session})
}

// handleDashboardAPI sits behind the session gate. All dashboard figures
// are produced client-side, so no data endpoints exist under the prefix.
func (r *Router) handleDashboardAPI(w http.ResponseWriter, req *http.Request) {
	r.notFound(w)
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// decodeStrict decodes a JSON body rejecting unknown fields. On failure it
// writes a 400 and returns false.
func decodeStrict(w http.ResponseWriter, req *http.Request, dst any) bool {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func identityPayload(u *domain.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		reqID := strings.TrimSpace(req.Header.Get("X-Request-ID"))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, req.URL.Path, status, duration)

		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
			"request_id", reqID,
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		r.logger.Info("http request", fields...)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func clientIP(req *http.Request) string {
	if fwd := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); fwd != "" {
		if idx := strings.IndexRune(fwd, ','); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
