package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/maroso-log/devtrack/internal/middleware"
	ws "github.com/maroso-log/devtrack/internal/websocket"
)

// AddMessageRequest is one chat entry to append
type AddMessageRequest struct {
	Text       string `json:"text"`
	Attachment string `json:"attachment,omitempty"`
}

// listMessages returns the chat feed of a process, oldest first
func (r *Router) listMessages(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	respondJSON(w, http.StatusOK, r.processes.Messages(id))
}

// addMessage appends a chat entry and notifies subscribed sessions
func (r *Router) addMessage(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var msgReq AddMessageRequest
	if err := json.NewDecoder(req.Body).Decode(&msgReq); err != nil || msgReq.Text == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	author := middleware.Username(req)
	if author == "" {
		author = "anon"
	}

	msg, err := r.processes.AddMessage(id, author, msgReq.Text, msgReq.Attachment)
	if err != nil {
		respondWriteError(w, err, "Failed to save message")
		return
	}

	r.hub.Broadcast(ws.Event{Type: "MESSAGE_NEW", ProcessID: id, Payload: msg})
	respondJSON(w, http.StatusCreated, msg)
}
