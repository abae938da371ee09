package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/rinkwatch/internal/agent"
	"go.uber.org/zap"
)

// Server is the one-shot trigger surface: an external scheduler (cron, a
// cloud event rule) can POST /api/check instead of waiting for the internal
// ticker. It shares the Agent with the scheduler; the daemon is the only
// writer and the stores reload from disk on every call, so an out-of-band
// trigger and a scheduled cycle never see stale state.
type Server struct {
	Agent  *agent.Agent
	Logger *zap.Logger
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/api/check", s.handleCheck)
	mux.HandleFunc("/api/sessions", s.handleSessions)

	return mux
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Agent.CheckAllSites(r.Context()); err != nil {
		s.Logger.Error("triggered check failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"message": "error checking sessions",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "session check completed successfully",
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.Agent.Status.All()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}
