package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
	"breakthrough/internal/server/session"
	"breakthrough/internal/store"
)

// RecordLister reads stored games. *store.Store implements it.
type RecordLister interface {
	List(ctx context.Context, limit int) ([]store.Record, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// Handler serves /api/*.
type Handler struct {
	games   *session.Manager
	records RecordLister
	eng     *engine.Engine
	delayMS int
}

// NewHandler wires the API to a session manager. records may be nil when
// storage is off.
func NewHandler(games *session.Manager, records RecordLister, attackerDelayMS int) *Handler {
	return &Handler{games: games, records: records, eng: engine.NewEngine(), delayMS: attackerDelayMS}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/new_game":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handleNewGame(w, r)
	case "/api/play":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handlePlay(w, r)
	case "/api/advance":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handleAdvance(w, r)
	case "/api/restart":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handleRestart(w, r)
	case "/api/state":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handleState(w, r)
	case "/api/analysis":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		h.handleAnalysis(w, r)
	case "/api/games":
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		h.handleGames(w, r)
	case "/api/events":
		if !requireMethod(w, r, http.MethodGet) {
			return
		}
		h.handleEvents(w, r)
	default:
		http.NotFound(w, r)
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s := h.games.NewGame()
	writeJSON(w, stateToDTO(s.ID, s.State(), h.delayMS))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	// Illegal and out-of-turn moves come back as accepted=false.
	res := s.Play(r.Context(), req.To)
	h.writeResult(w, s, res)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	h.writeResult(w, s, s.Advance(r.Context()))
}

func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	h.writeResult(w, s, s.Restart(r.Context()))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s, ok := h.lookup(w, req.GameID)
	if !ok {
		return
	}
	writeJSON(w, stateToDTO(s.ID, s.State(), h.delayMS))
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	b, err := bt.Decode(req.Board)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d := h.eng.Decide(b, 0)
	resp := AnalysisResponse{Board: b.Encode(), Analysis: d.Analysis}
	if d.Moved {
		m := d.Move
		resp.Move = &m
	}
	writeJSON(w, resp)
}

func (h *Handler) handleGames(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		http.Error(w, "game storage disabled", http.StatusServiceUnavailable)
		return
	}
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}
	recs, err := h.records.List(r.Context(), limit)
	if err != nil {
		log.Printf("list games: %v", err)
		http.Error(w, "list games failed", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, recs)
}

func (h *Handler) lookup(w http.ResponseWriter, id string) (*session.Session, bool) {
	s, err := h.games.Get(id)
	if errors.Is(err, session.ErrGameNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func (h *Handler) writeResult(w http.ResponseWriter, s *session.Session, res session.Result) {
	writeJSON(w, MoveResponse{
		Accepted:      res.Accepted,
		StateResponse: stateToDTO(s.ID, res.State, h.delayMS),
		Events:        res.Events,
		Decision:      decisionToDTO(res.Decision),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}
