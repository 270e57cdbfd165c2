package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/maroso-log/devtrack/internal/buildinfo"
	"github.com/maroso-log/devtrack/internal/middleware"
	"github.com/maroso-log/devtrack/internal/services/auth"
	"github.com/maroso-log/devtrack/internal/services/process"
	"github.com/maroso-log/devtrack/internal/services/stock"
	"github.com/maroso-log/devtrack/internal/services/upload"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	ws "github.com/maroso-log/devtrack/internal/websocket"
)

// Router wraps the mux router and the service layer
type Router struct {
	*mux.Router
	store     *sheetdb.Store
	processes *process.Service
	stock     *stock.Service
	auth      *auth.Service
	uploads   *upload.Client
	hub       *ws.Hub
}

// Deps carries everything the router needs.
type Deps struct {
	Store     *sheetdb.Store
	Processes *process.Service
	Stock     *stock.Service
	Auth      *auth.Service
	Uploads   *upload.Client
	Hub       *ws.Hub
	JWTSecret string
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(deps Deps) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		store:     deps.Store,
		processes: deps.Processes,
		stock:     deps.Stock,
		auth:      deps.Auth,
		uploads:   deps.Uploads,
		hub:       deps.Hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	r.HandleFunc("/auth/login", r.login).Methods("POST")

	// Live event stream
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(r.hub, w, req)
	}).Methods("GET")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(deps.JWTSecret))

	api.HandleFunc("/processes", r.listProcesses).Methods("GET")
	api.HandleFunc("/processes", r.createProcess).Methods("POST")
	api.HandleFunc("/processes/{id}", r.getProcess).Methods("GET")
	api.HandleFunc("/processes/{id}", r.updateProcess).Methods("PUT")
	api.HandleFunc("/processes/{id}", r.deleteProcess).Methods("DELETE")
	api.HandleFunc("/processes/{id}/status", r.setProcessStatus).Methods("PUT")
	api.HandleFunc("/processes/{id}/items", r.listItems).Methods("GET")
	api.HandleFunc("/processes/{id}/items", r.addItems).Methods("POST")
	api.HandleFunc("/processes/{id}/messages", r.listMessages).Methods("GET")
	api.HandleFunc("/processes/{id}/messages", r.addMessage).Methods("POST")
	api.HandleFunc("/processes/{id}/label", r.processLabel).Methods("GET")
	api.HandleFunc("/lookup/{nf}", r.lookupNF).Methods("GET")
	api.HandleFunc("/stock", r.stockView).Methods("GET")
	api.HandleFunc("/stock/destinations", r.stockByDestination).Methods("GET")
	api.HandleFunc("/stock/top", r.stockTop).Methods("GET")
	api.HandleFunc("/dashboard", r.dashboard).Methods("GET")
	api.HandleFunc("/uploads", r.uploadAttachment).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"writable": r.store.Mutator.Writable(),
		"started":  buildinfo.StartTime,
		"commit":   buildinfo.CommitHash,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
