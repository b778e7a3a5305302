package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/NuggetBot_Go/internal/domain"
	"github.com/osse101/NuggetBot_Go/internal/logger"
	"github.com/osse101/NuggetBot_Go/internal/session"
)

// SessionHandler serves wagering session endpoints
type SessionHandler struct {
	sessionSvc session.Service
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionSvc session.Service) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// ProposeSessionRequest opens a new wager awaiting confirmation
type ProposeSessionRequest struct {
	OwnerID string `json:"owner_id" validate:"required,max=64"`
	Game    string `json:"game" validate:"required,game"`
	Wager   int    `json:"wager" validate:"required,gt=0"`
}

// ActSessionRequest routes one player action to a session
type ActSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	ActorID   string `json:"actor_id" validate:"required,max=64"`
	Action    string `json:"action" validate:"required,wager_action"`
}

// HandleProposeSession opens a new wagering session
func (h *SessionHandler) HandleProposeSession(w http.ResponseWriter, r *http.Request) {
	var req ProposeSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Propose session"); err != nil {
		return
	}

	log := logger.FromContext(r.Context())
	log.Info("Session proposal requested", "ownerID", req.OwnerID, "game", req.Game, "wager", req.Wager)

	snap, err := h.sessionSvc.Propose(r.Context(),
		domain.AccountID(req.OwnerID),
		domain.GameKind(strings.ToLower(req.Game)),
		req.Wager)
	if err != nil {
		respondServiceError(w, r, "Propose session", err)
		return
	}

	respondJSON(w, http.StatusCreated, snap)
}

// HandleActSession advances a session with one player action
func (h *SessionHandler) HandleActSession(w http.ResponseWriter, r *http.Request) {
	var req ActSessionRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Session action"); err != nil {
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
		return
	}

	snap, err := h.sessionSvc.Act(r.Context(),
		sessionID,
		domain.AccountID(req.ActorID),
		domain.SessionAction(strings.ToLower(req.Action)))
	if err != nil {
		respondServiceError(w, r, "Session action", err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// HandleGetSession returns the presentation snapshot for a session
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	rawID, ok := GetQueryParam(r, w, "session_id")
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(rawID)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
		return
	}

	snap, err := h.sessionSvc.Get(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, r, "Get session", err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}
