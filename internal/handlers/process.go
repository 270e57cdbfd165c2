package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/maroso-log/devtrack/internal/middleware"
	"github.com/maroso-log/devtrack/internal/models"
	"github.com/maroso-log/devtrack/internal/services/printer"
	"github.com/maroso-log/devtrack/internal/services/process"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	ws "github.com/maroso-log/devtrack/internal/websocket"
)

// CreateProcessRequest is the registration payload: the process header
// plus its item batch, saved together.
type CreateProcessRequest struct {
	Process models.Process `json:"process"`
	Items   []models.Item  `json:"items"`
}

// listProcesses returns all registered processes
func (r *Router) listProcesses(w http.ResponseWriter, req *http.Request) {
	list := r.processes.List()

	// Optional ?nf= filter for the registration search flow.
	if nf := req.URL.Query().Get("nf"); nf != "" {
		if p, ok := r.processes.FindByNF(nf); ok {
			respondJSON(w, http.StatusOK, []models.Process{p})
			return
		}
		respondJSON(w, http.StatusOK, []models.Process{})
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// getProcess returns a single process with its age classification
func (r *Router) getProcess(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	p, ok := r.processes.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Process not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"process": p,
		"age":     r.processes.Age(p.IssueDate),
	})
}

// createProcess registers a new process with its items
func (r *Router) createProcess(w http.ResponseWriter, req *http.Request) {
	var createReq CreateProcessRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if createReq.Process.Responsible == "" {
		createReq.Process.Responsible = middleware.Username(req)
	}

	id, err := r.processes.Create(createReq.Process)
	if err != nil {
		respondWriteError(w, err, "Failed to create process")
		return
	}

	if err := r.processes.AddItems(id, createReq.Items); err != nil {
		// The process row is already in; report the partial save.
		respondError(w, http.StatusInternalServerError,
			fmt.Sprintf("Process %s created but items failed to save", id))
		return
	}

	r.hub.Broadcast(ws.Event{Type: "PROCESS_CREATED", ProcessID: id})
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// updateProcess applies the full treatment form
func (r *Router) updateProcess(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var upd process.TreatmentUpdate
	if err := json.NewDecoder(req.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.processes.UpdateTreatment(id, upd); err != nil {
		if errors.Is(err, sheetdb.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Process not found")
			return
		}
		respondWriteError(w, err, "Failed to update process")
		return
	}

	r.hub.Broadcast(ws.Event{Type: "STATUS_CHANGED", ProcessID: id, Payload: upd.Status})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Process updated"})
}

// setProcessStatus moves a process on the board
func (r *Router) setProcessStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil || payload.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.processes.SetStatus(id, payload.Status); err != nil {
		if errors.Is(err, sheetdb.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Process not found")
			return
		}
		respondWriteError(w, err, "Failed to update status")
		return
	}

	r.hub.Broadcast(ws.Event{Type: "STATUS_CHANGED", ProcessID: id, Payload: payload.Status})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// deleteProcess removes a process and everything referencing it
func (r *Router) deleteProcess(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	if err := r.processes.Delete(id); err != nil {
		respondWriteError(w, err, "Failed to delete process completely")
		return
	}

	r.hub.Broadcast(ws.Event{Type: "PROCESS_DELETED", ProcessID: id})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Process deleted"})
}

// listItems returns the items of a process
func (r *Router) listItems(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	respondJSON(w, http.StatusOK, r.processes.Items(id))
}

// addItems appends an item batch to an existing process
func (r *Router) addItems(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var items []models.Item
	if err := json.NewDecoder(req.Body).Decode(&items); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.processes.AddItems(id, items); err != nil {
		respondWriteError(w, err, "Failed to save items")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "Items saved"})
}

// processLabel renders the printable summary sheet
func (r *Router) processLabel(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	p, ok := r.processes.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Process not found")
		return
	}

	pdf, err := printer.GenerateProcessLabel(p, r.processes.Items(id))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate label")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".pdf"))
	w.Write(pdf)
}

// lookupNF prefills registration data from the reference tables
func (r *Router) lookupNF(w http.ResponseWriter, req *http.Request) {
	nf := mux.Vars(req)["nf"]

	// A process already registered for the invoice takes precedence
	// over the reference tables.
	if p, ok := r.processes.FindByNF(nf); ok {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"existing": p,
		})
		return
	}

	ref, found := r.processes.LookupReference(nf)
	if !found {
		respondError(w, http.StatusNotFound, "NF not found in reference tables")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reference": ref,
	})
}

// respondWriteError distinguishes a missing credential from a backend
// failure: the former is a deployment problem worth its own status.
func respondWriteError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, sheetdb.ErrNoCredential) {
		respondError(w, http.StatusServiceUnavailable, "Write path disabled: no sheet credential configured")
		return
	}
	respondError(w, http.StatusInternalServerError, message)
}
