package game

import (
	"fmt"
	"time"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
)

// Phase is the turn state of a Controller.
type Phase uint8

const (
	DefenderTurn Phase = iota
	AttackerTurn
	GameOver
)

var phaseNames = [...]string{
	DefenderTurn: "defender_turn",
	AttackerTurn: "attacker_turn",
	GameOver:     "game_over",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, n := range phaseNames {
		if n == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Turn is the side to move, NoSide once the game is over.
func (p Phase) Turn() bt.Side {
	switch p {
	case DefenderTurn:
		return bt.Defender
	case AttackerTurn:
		return bt.Attacker
	}
	return bt.NoSide
}

type Result string

const (
	Win  Result = "win"
	Loss Result = "loss"
)

type Reason string

const (
	ReachedGoal Reason = "reached_goal"
	Captured    Reason = "captured"
	Immobilized Reason = "immobilized"
)

// Outcome is reported from the Defender's point of view.
type Outcome struct {
	Result Result `json:"result"`
	Reason Reason `json:"reason"`
}

// Ply is one entry of the move history.
type Ply struct {
	Number   int              `json:"number"`
	Side     bt.Side          `json:"side"`
	PieceID  int              `json:"piece_id"`
	From     bt.Position      `json:"from"`
	To       bt.Position      `json:"to"`
	Captured *bt.PieceRef    `json:"captured,omitempty"`
	Strategy *engine.Strategy `json:"strategy,omitempty"` // Attacker plies only
}

// State is a read-only view of a Controller.
type State struct {
	Board         *bt.Board     `json:"board"`
	Phase         Phase         `json:"phase"`
	Turn          bt.Side       `json:"turn"`
	Outcome       *Outcome      `json:"outcome,omitempty"`
	DefenderMoves []bt.Position `json:"defender_moves"`
	Plies         []Ply         `json:"plies"`
	Cursor        int           `json:"cursor"`
	StartedAt     time.Time     `json:"started_at"`
}

// terminal decides whether b ends the game. moves are the Defender's legal
// destinations on b.
func terminal(b *bt.Board, moves []bt.Position) (Outcome, bool) {
	if b.Captured {
		return Outcome{Result: Loss, Reason: Captured}, true
	}
	if _, hit := b.AttackerAt(b.Defender.Pos); hit {
		return Outcome{Result: Loss, Reason: Captured}, true
	}
	if b.Defender.Pos.Rank == bt.GoalRank {
		return Outcome{Result: Win, Reason: ReachedGoal}, true
	}
	if len(moves) == 0 {
		return Outcome{Result: Loss, Reason: Immobilized}, true
	}
	return Outcome{}, false
}
