package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/legendiguess/gemini-dca-bot/domain"
	"github.com/legendiguess/gemini-dca-bot/services"
)

const defaultOrdersLimit = 20

type orderTracker interface {
	Snapshot() (services.OrderSnapshot, bool)
}

type orderJournal interface {
	RecentOrders(ctx context.Context, limit int) ([]domain.OrderRecord, error)
}

type serverLogger interface {
	Errorf(format string, args ...interface{})
}

type Server struct {
	tracker orderTracker
	journal orderJournal
	logger  serverLogger
}

// NewServer builds the read-only status API. journal may be nil.
func NewServer(tracker orderTracker, journal orderJournal, serverLogger serverLogger) *Server {
	return &Server{tracker: tracker, journal: journal, logger: serverLogger}
}

func (server *Server) Routes() chi.Router {
	root := chi.NewRouter()

	root.Use(middleware.Logger)
	root.Use(middleware.Recoverer)
	root.Get("/order", server.currentOrder)
	root.Get("/orders", server.recentOrders)

	return root
}

// ListenAndServe blocks; run it in its own goroutine.
func (server *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, server.Routes())
}

func (server *Server) currentOrder(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := server.tracker.Snapshot()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	server.writeJSON(w, snapshot)
}

func (server *Server) recentOrders(w http.ResponseWriter, r *http.Request) {
	if server.journal == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	limit := defaultOrdersLimit
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := server.journal.RecentOrders(r.Context(), limit)
	if err != nil {
		server.logger.Errorf("read journal: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	server.writeJSON(w, records)
}

func (server *Server) writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		server.logger.Errorf("write answer: %v", err)
	}
}
