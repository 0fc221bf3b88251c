// Package http exposes the REST API. Routing uses method-and-path
// patterns on the standard mux; every data route requires a user identity
// and operates only on that user's records.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"spendtrack/internal/advisor"
	"spendtrack/internal/charts"
	"spendtrack/internal/core"
	"spendtrack/internal/export"
	"spendtrack/internal/services"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyRequestID
)

type Server struct {
	http.Server

	expenses *services.ExpenseService
	budgets  *services.BudgetService
	goals    *services.GoalService

	predictor *core.Predictor
	scanner   *advisor.Scanner
	exporter  *export.SheetsExporter
	charts    *charts.Generator

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Deps carries everything the server serves. Exporter may be nil; the
// export endpoint then reports the feature unavailable.
type Deps struct {
	Expenses  *services.ExpenseService
	Budgets   *services.BudgetService
	Goals     *services.GoalService
	Predictor *core.Predictor
	Scanner   *advisor.Scanner
	Exporter  *export.SheetsExporter
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:    deps.Expenses,
		budgets:     deps.Budgets,
		goals:       deps.Goals,
		predictor:   deps.Predictor,
		scanner:     deps.Scanner,
		exporter:    deps.Exporter,
		charts:      charts.NewGenerator(),
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	routes := map[string]http.HandlerFunc{
		"POST /expenses":              s.handleCreateExpense,
		"GET /expenses":               s.handleListExpenses,
		"GET /expenses/stats":         s.handleStats,
		"GET /expenses/insights":      s.handleInsights,
		"GET /expenses/predict":       s.handlePredict,
		"POST /expenses/scan-receipt": s.handleScanReceipt,
		"POST /expenses/voice":        s.handleVoice,
		"POST /expenses/export":       s.handleExport,
		"GET /expenses/chart":         s.handleChart,
		"GET /expenses/{id}":          s.handleGetExpense,
		"PUT /expenses/{id}":          s.handleUpdateExpense,
		"DELETE /expenses/{id}":       s.handleDeleteExpense,

		"POST /budget/set":   s.handleSetBudget,
		"GET /budget":        s.handleListBudgets,
		"GET /budget/alerts": s.handleBudgetAlerts,
		"GET /notifications": s.handleNotifications,

		"POST /goals":               s.handleCreateGoal,
		"GET /goals":                s.handleListGoals,
		"PUT /goals/{id}":           s.handleUpdateGoal,
		"DELETE /goals/{id}":        s.handleDeleteGoal,
		"PUT /goals/{id}/progress":  s.handleGoalProgress,

		"POST /advisor/chat": s.handleAdvisorChat,
	}
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, s.withMiddleware(s.requireUser(handler)))
	}

	return s
}

// Shutdown stops the HTTP server and the rate limiter's cleanup
// goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request IDs, security headers, write rate limiting,
// and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := clientAddr(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate limit writes only; reads are cheap.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// requireUser resolves the caller's identity from the X-User-ID header.
// Upstream authentication is expected to have validated it; without the
// header the request is rejected.
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		next(w, r.WithContext(ctx))
	}
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUserID).(string)
	return id
}

func clientAddr(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter, 60 write requests per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
