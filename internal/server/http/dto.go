package httpserver

import (
	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
	"breakthrough/internal/game"
)

// GameRequest addresses an existing game (advance / restart / state).
type GameRequest struct {
	GameID string `json:"game_id"`
}

// PlayRequest submits the Defender's destination.
type PlayRequest struct {
	GameID string      `json:"game_id"`
	To     bt.Position `json:"to"`
}

type AnalysisRequest struct {
	Board string `json:"board"` // board notation, e.g. 1a1a1a1a/8/8/8/8/8/8/4D3
}

// StateResponse is the board snapshot the frontend renders from.
type StateResponse struct {
	GameID          string        `json:"game_id"`
	Board           string        `json:"board"`
	Pieces          *bt.Board     `json:"pieces"`
	Phase           game.Phase    `json:"phase"`
	Turn            bt.Side       `json:"turn"`
	Status          string        `json:"status"` // "ongoing" / "win" / "loss"
	Outcome         *game.Outcome `json:"outcome,omitempty"`
	DefenderMoves   []bt.Position `json:"defender_moves"`
	Plies           int           `json:"plies"`
	AttackerDelayMS int           `json:"attacker_delay_ms"`
}

// DecisionDTO summarises the Attacker turn that was played.
type DecisionDTO struct {
	Strategy engine.Strategy `json:"strategy"`
	Moved    bool            `json:"moved"`
	Move     *bt.Move        `json:"move,omitempty"`
	PieceID  int             `json:"piece_id"`
	Attempts int             `json:"attempts"`
}

// MoveResponse answers play / advance / restart.
type MoveResponse struct {
	Accepted bool `json:"accepted"`
	StateResponse
	Events   []game.Event `json:"events"`
	Decision *DecisionDTO `json:"decision,omitempty"`
}

type AnalysisResponse struct {
	Board    string          `json:"board"`
	Analysis engine.Analysis `json:"analysis"`
	Move     *bt.Move        `json:"move,omitempty"` // what the Attackers would play from attacker 0
}

func statusOf(st game.State) string {
	if st.Outcome == nil {
		return "ongoing"
	}
	return string(st.Outcome.Result)
}

func stateToDTO(id string, st game.State, delayMS int) StateResponse {
	return StateResponse{
		GameID:          id,
		Board:           st.Board.Encode(),
		Pieces:          st.Board,
		Phase:           st.Phase,
		Turn:            st.Turn,
		Status:          statusOf(st),
		Outcome:         st.Outcome,
		DefenderMoves:   st.DefenderMoves,
		Plies:           len(st.Plies),
		AttackerDelayMS: delayMS,
	}
}

func decisionToDTO(d *engine.Decision) *DecisionDTO {
	if d == nil {
		return nil
	}
	out := &DecisionDTO{
		Strategy: d.Strategy,
		Moved:    d.Moved,
		PieceID:  -1,
		Attempts: d.Attempts,
	}
	if d.Moved {
		m := d.Move
		out.Move = &m
		out.PieceID = d.Piece.ID
	}
	return out
}
