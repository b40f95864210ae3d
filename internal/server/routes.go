package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yahtzee-server/internal/result"
	"yahtzee-server/internal/yahtzee"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /websocket", s.websocketHandler)

	mux.HandleFunc("POST /pending-games", s.createPendingHandler)
	mux.HandleFunc("GET /pending-games", s.listPendingHandler)
	mux.HandleFunc("GET /pending-games/{id}", s.getPendingHandler)
	mux.HandleFunc("POST /pending-games/{id}/players", s.joinHandler)

	mux.HandleFunc("GET /games", s.listGamesHandler)
	mux.HandleFunc("GET /games/{id}", s.getGameHandler)
	mux.HandleFunc("POST /games/{id}/actions", s.actionHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "up", Store: s.storeKind})
}

// websocketHandler attaches a broadcast subscriber. Subscribers only
// listen; the read loop exists to notice the disconnect.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}

	id := uuid.New().String()
	s.hub.Subscribe(id, conn)
	s.logger.Info("subscriber connected", zap.String("subscriber", id))
	defer func() {
		s.hub.Unsubscribe(id)
		s.logger.Info("subscriber disconnected", zap.String("subscriber", id))
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		if _, _, err := conn.Read(r.Context()); err != nil {
			return
		}
	}
}

func (s *Server) createPendingHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid create payload")
		return
	}
	if req.Creator == "" {
		s.badRequest(w, "creator is required")
		return
	}

	sendResult(s, w, s.coordinator.Create(r.Context(), req.Creator, req.NumberOfPlayers))
}

func (s *Server) listPendingHandler(w http.ResponseWriter, r *http.Request) {
	sendResult(s, w, s.coordinator.PendingGames(r.Context()))
}

func (s *Server) getPendingHandler(w http.ResponseWriter, r *http.Request) {
	sendResult(s, w, s.coordinator.PendingGame(r.Context(), r.PathValue("id")))
}

func (s *Server) joinHandler(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid join payload")
		return
	}
	if req.Player == "" {
		s.badRequest(w, "player is required")
		return
	}

	sendResult(s, w, s.coordinator.Join(r.Context(), r.PathValue("id"), req.Player))
}

func (s *Server) listGamesHandler(w http.ResponseWriter, r *http.Request) {
	sendResult(s, w, s.coordinator.Games(r.Context()))
}

func (s *Server) getGameHandler(w http.ResponseWriter, r *http.Request) {
	sendResult(s, w, s.coordinator.Game(r.Context(), r.PathValue("id")))
}

func (s *Server) actionHandler(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, "invalid action payload")
		return
	}
	if req.Player == "" {
		s.badRequest(w, "player is required")
		return
	}

	id := r.PathValue("id")
	switch req.Type {
	case "reroll":
		sendResult(s, w, s.coordinator.Reroll(r.Context(), id, req.Held, req.Player))
	case "register":
		sendResult(s, w, s.coordinator.Register(r.Context(), id, req.Slot, req.Player))
	default:
		s.badRequest(w, "unknown action type: "+req.Type)
	}
}

// sendResult resolves a pipeline outcome into a response: the value
// as JSON on success, an error body with the matching status code
// otherwise.
func sendResult[T any](s *Server, w http.ResponseWriter, r result.Result[T]) {
	result.Resolve(r,
		func(value T) int {
			writeJSON(w, http.StatusOK, value)
			return http.StatusOK
		},
		func(err error) int {
			return s.writeError(w, err)
		},
	)
}

func (s *Server) writeError(w http.ResponseWriter, err error) int {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, ErrorMessage{Message: err.Error(), Code: code})
	return status
}

// statusForError maps every failure kind in the taxonomy to a
// distinct response.
func statusForError(err error) (int, string) {
	var notFound NotFoundError
	var storeErr StoreError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, yahtzee.ErrNoRerollsLeft):
		return http.StatusConflict, "NO_REROLLS_LEFT"
	case errors.Is(err, yahtzee.ErrAlreadyRegistered):
		return http.StatusConflict, "ALREADY_REGISTERED"
	case errors.Is(err, yahtzee.ErrWrongPlayerCount):
		return http.StatusBadRequest, "WRONG_PLAYER_COUNT"
	case errors.Is(err, yahtzee.ErrUnknownCategory):
		return http.StatusBadRequest, "UNKNOWN_CATEGORY"
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "STORE_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorMessage{Message: message, Code: "INVALID_PAYLOAD"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
