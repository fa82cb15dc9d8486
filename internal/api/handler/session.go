package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mcg-platform/componentgen/internal/api/response"
	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/mcg-platform/componentgen/internal/service"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessions *service.SessionService
	validate *validator.Validate
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		validate: validator.New(),
	}
}

func sessionID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// List returns all sessions, newest first
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list sessions")
		return
	}

	response.OK(w, sessions)
}

// Create creates a new session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft domain.SessionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(draft); err != nil {
		response.BadRequest(w, "Prompt is required")
		return
	}

	session, err := h.sessions.Create(r.Context(), draft)
	if err != nil {
		response.InternalError(w, "Failed to create session")
		return
	}

	response.Created(w, session)
}

// Get returns a single session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.InternalError(w, "Failed to get session")
		return
	}

	response.OK(w, session)
}

// Update overwrites the carried fields on a session
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	var update domain.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.sessions.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.InternalError(w, "Failed to update session")
		return
	}

	response.OK(w, session)
}

// AddMessage appends a user/assistant turn pair and the generated artifact
func (h *SessionHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	var input domain.AddTurnInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	session, err := h.sessions.AppendTurn(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.InternalError(w, "Failed to add message")
		return
	}

	response.OK(w, session)
}

// Delete removes a session and returns the deleted document
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.sessions.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "Session not found")
			return
		}
		response.InternalError(w, "Failed to delete session")
		return
	}

	response.OK(w, session)
}
