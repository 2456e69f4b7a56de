package breakthrough

import (
	"encoding/json"
	"fmt"
)

type Side int8

const (
	NoSide   Side = -1
	Defender Side = 0 // human piece, heads for rank 0
	Attacker Side = 1 // engine pieces, forward = increasing rank
)

func (s Side) String() string {
	switch s {
	case Defender:
		return "defender"
	case Attacker:
		return "attacker"
	default:
		return "none"
	}
}

func (s Side) Opponent() Side {
	switch s {
	case Defender:
		return Attacker
	case Attacker:
		return Defender
	default:
		return NoSide
	}
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "defender":
		*s = Defender
	case "attacker":
		*s = Attacker
	case "none":
		*s = NoSide
	default:
		return fmt.Errorf("unknown side %q", name)
	}
	return nil
}

// Position is a (file, rank) square. Rank 0 is the Defender's goal row.
type Position struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

func Pos(file, rank int) Position { return Position{File: file, Rank: rank} }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.File, p.Rank) }

func (p Position) Add(df, dr int) Position {
	return Position{File: p.File + df, Rank: p.Rank + dr}
}

// Piece is a single man on the board. ID is stable for the life of a game:
// 0 for the Defender, 0..3 for Attackers (left to right at setup).
type Piece struct {
	ID   int      `json:"id"`
	Side Side     `json:"side"`
	Pos  Position `json:"pos"`
}

// PieceRef identifies a piece without its position.
type PieceRef struct {
	Side Side `json:"side"`
	ID   int  `json:"id"`
}

func (p Piece) Ref() PieceRef { return PieceRef{Side: p.Side, ID: p.ID} }

type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
