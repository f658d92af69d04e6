package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// SeatFunc and UnseatFunc are the membership half of the table.Mediator
// contract; LobbyHandler routes plain JSON HTTP requests to them. Betting
// actions travel over the WebSocket instead, since they need a live
// subscription for published views; seating a player is a one-shot request
// that doesn't.
type SeatFunc func(ctx context.Context, tableID, playerID string, stack int64) error
type UnseatFunc func(ctx context.Context, tableID, playerID string) error

// LobbyHandler exposes join/leave over plain HTTP.
type LobbyHandler struct {
	seat   SeatFunc
	unseat UnseatFunc
}

func NewLobbyHandler(seat SeatFunc, unseat UnseatFunc) *LobbyHandler {
	return &LobbyHandler{seat: seat, unseat: unseat}
}

type seatRequest struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
	Stack    int64  `json:"stack"`
}

// RegisterRoutes wires /api/tables/join and /api/tables/leave onto mux.
func (h *LobbyHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/tables/join", h.handleJoin)
	mux.HandleFunc("/api/tables/leave", h.handleLeave)
}

func (h *LobbyHandler) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req seatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.TableID) == "" || strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "tableId and playerId are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.seat(ctx, req.TableID, req.PlayerID, req.Stack); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *LobbyHandler) handleLeave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req seatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.TableID) == "" || strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, "tableId and playerId are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.unseat(ctx, req.TableID, req.PlayerID); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
