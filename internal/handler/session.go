package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

// SessionHandler serves play sessions, their holes and statistics.
type SessionHandler struct {
	sessions *service.SessionService
	stats    *service.StatsService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService, stats *service.StatsService) *SessionHandler {
	return &SessionHandler{sessions: sessions, stats: stats}
}

// HandleList returns the user's sessions without holes, newest first.
// GET /api/sessions
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	sessions, err := h.sessions.List(r.Context(), user.ID)
	if err != nil {
		handleSessionError(w, r, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": toSessionSummaryDTOs(sessions),
	})
}

// HandleCreate starts a new session.
// POST /api/sessions
// Response: 201 {"session": {...}}
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	session, err := h.sessions.Start(r.Context(), user.ID)
	if err != nil {
		handleSessionError(w, r, "start session", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session": toSessionDTO(session),
	})
}

// HandleGet returns one session with its holes.
// GET /api/sessions/{id}
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), user.ID, sessionID)
	if err != nil {
		handleSessionError(w, r, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": toSessionDTO(session),
	})
}

// HandleEnd ends an active session.
// POST /api/sessions/{id}/end
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	ended, err := h.sessions.End(r.Context(), user.ID, sessionID)
	if err != nil {
		handleSessionError(w, r, "end session", err)
		return
	}

	if isDatastarRequest(r) {
		var current *domain.Hole
		if ended.CurrentHoleID != nil {
			current, err = h.sessions.GetHole(r.Context(), user.ID, *ended.CurrentHoleID)
			if err != nil {
				slog.Warn("load current hole for scoreboard", "error", err, "session_id", ended.ID)
			}
		}
		patchScoreboard(w, r, ended, current)
		return
	}

	full, err := h.sessions.Get(r.Context(), user.ID, ended.ID)
	if err != nil {
		handleSessionError(w, r, "end session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": toSessionDTO(full),
	})
}

// HandleAdvanceHole completes the current hole and opens the next one.
// POST /api/sessions/{id}/advance-hole
// Response: {"currentHole": {...}, "session": {...}}
func (h *SessionHandler) HandleAdvanceHole(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	hole, session, err := h.sessions.AdvanceHole(r.Context(), user.ID, sessionID)
	if err != nil {
		handleSessionError(w, r, "advance hole", err)
		return
	}
	h.writePlay(w, r, "advance hole", hole, session)
}

// HandleBallDrop records a ball drop on the current hole.
// POST /api/sessions/{id}/ball-drop
// Response: {"currentHole": {...}, "session": {...}}
func (h *SessionHandler) HandleBallDrop(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	hole, session, err := h.sessions.RecordBallDrop(r.Context(), user.ID, sessionID)
	if err != nil {
		handleSessionError(w, r, "record ball drop", err)
		return
	}
	h.writePlay(w, r, "record ball drop", hole, session)
}

// HandleStats returns the user's aggregate statistics.
// GET /api/sessions/stats
func (h *SessionHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	st, err := h.stats.Get(r.Context(), user.ID)
	if err != nil {
		handleSessionError(w, r, "get stats", err)
		return
	}
	if !st.HasData {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "No completed sessions found",
			"stats":   map[string]any{},
		})
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(st))
}

// HandleListHoles returns every hole the user has played.
// GET /api/holes
func (h *SessionHandler) HandleListHoles(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	holes, err := h.sessions.ListHoles(r.Context(), user.ID)
	if err != nil {
		handleSessionError(w, r, "list holes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"holes": toHoleDTOs(holes),
	})
}

// HandleGetHole returns one of the user's holes.
// GET /api/holes/{id}
func (h *SessionHandler) HandleGetHole(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	holeID, ok := pathID(w, r)
	if !ok {
		return
	}

	hole, err := h.sessions.GetHole(r.Context(), user.ID, holeID)
	if err != nil {
		handleSessionError(w, r, "get hole", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hole": toHoleDTO(hole),
	})
}

// writePlay answers a play action with the current hole and the full
// session, holes included.
func (h *SessionHandler) writePlay(w http.ResponseWriter, r *http.Request, op string, hole *domain.Hole, session *domain.Session) {
	if isDatastarRequest(r) {
		patchScoreboard(w, r, session, hole)
		return
	}
	full, err := h.sessions.Get(r.Context(), session.UserID, session.ID)
	if err != nil {
		handleSessionError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currentHole": toHoleDTO(hole),
		"session":     toSessionDTO(full),
	})
}

// patchScoreboard sends the scoreboard state as a datastar signal patch.
func patchScoreboard(w http.ResponseWriter, r *http.Request, session *domain.Session, current *domain.Hole) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(toScoreboardSignals(session, current)); err != nil {
		slog.Error("patch scoreboard", "error", err, "session_id", session.ID)
	}
}

func isDatastarRequest(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// pathID parses the {id} path value, writing 400 when it is not numeric.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return id, true
}

func handleSessionError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrAlreadyEnded):
		writeError(w, http.StatusBadRequest, "Session is already ended.")
	case errors.Is(err, domain.ErrSessionEnded):
		writeError(w, http.StatusBadRequest, "Session has ended.")
	case errors.Is(err, domain.ErrNoActiveHole):
		writeError(w, http.StatusBadRequest, "No active hole.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Bad request.")
	default:
		slog.Error(op, "error", err, "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
