package breakthrough

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Files = 8
	Ranks = 8

	GoalRank     = 0 // Defender wins on arrival
	MaxAttackers = 4
)

var (
	defenderStart      = Position{File: 4, Rank: 7}
	attackerStartFiles = [MaxAttackers]int{1, 3, 5, 7}
)

var ErrInvalidBoard = errors.New("invalid board")

// Board is the canonical BoardState. Boards are treated as values: ApplyMove
// returns a fresh board and never touches the receiver.
type Board struct {
	Defender  Piece   `json:"defender"`
	Captured  bool    `json:"captured"` // Defender was taken; an Attacker sits on Defender.Pos
	Attackers []Piece `json:"attackers"`
}

func OnBoard(p Position) bool {
	return p.File >= 0 && p.File < Files && p.Rank >= 0 && p.Rank < Ranks
}

// IsDarkSquare reports whether (file+rank) is odd. Only dark squares hold pieces.
func IsDarkSquare(p Position) bool {
	return (p.File+p.Rank)%2 == 1
}

func NewInitialBoard() *Board {
	b := &Board{
		Defender:  Piece{ID: 0, Side: Defender, Pos: defenderStart},
		Attackers: make([]Piece, 0, MaxAttackers),
	}
	for i, f := range attackerStartFiles {
		b.Attackers = append(b.Attackers, Piece{ID: i, Side: Attacker, Pos: Position{File: f, Rank: 0}})
	}
	return b
}

func (b *Board) Clone() *Board {
	nb := *b
	nb.Attackers = make([]Piece, len(b.Attackers))
	copy(nb.Attackers, b.Attackers)
	return &nb
}

// Equal compares layouts, including attacker order and ids.
func (b *Board) Equal(o *Board) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Defender != o.Defender || b.Captured != o.Captured || len(b.Attackers) != len(o.Attackers) {
		return false
	}
	for i := range b.Attackers {
		if b.Attackers[i] != o.Attackers[i] {
			return false
		}
	}
	return true
}

// AttackerAt returns the slice index of the Attacker standing on p.
func (b *Board) AttackerAt(p Position) (int, bool) {
	for i, a := range b.Attackers {
		if a.Pos == p {
			return i, true
		}
	}
	return -1, false
}

func (b *Board) DefenderAt(p Position) bool {
	return !b.Captured && b.Defender.Pos == p
}

func (b *Board) Occupied(p Position) bool {
	if b.DefenderAt(p) {
		return true
	}
	_, ok := b.AttackerAt(p)
	return ok
}

// OccupiedBy reports whether a piece of side stands on p.
func (b *Board) OccupiedBy(p Position, side Side) bool {
	switch side {
	case Defender:
		return b.DefenderAt(p)
	case Attacker:
		_, ok := b.AttackerAt(p)
		return ok
	}
	return false
}

// PieceAt looks up whichever piece stands on p.
func (b *Board) PieceAt(p Position) (Piece, bool) {
	if b.DefenderAt(p) {
		return b.Defender, true
	}
	if i, ok := b.AttackerAt(p); ok {
		return b.Attackers[i], true
	}
	return Piece{}, false
}

func (b *Board) AttackerPositions() []Position {
	out := make([]Position, len(b.Attackers))
	for i, a := range b.Attackers {
		out[i] = a.Pos
	}
	return out
}

// Validate checks the BoardState invariants: every piece on a dark in-bounds
// square, no shared squares, at most MaxAttackers attackers.
func (b *Board) Validate() error {
	if len(b.Attackers) > MaxAttackers {
		return fmt.Errorf("%w: %d attackers", ErrInvalidBoard, len(b.Attackers))
	}
	seen := make(map[Position]bool, len(b.Attackers)+1)
	if !b.Captured {
		if err := checkSquare(b.Defender.Pos); err != nil {
			return err
		}
		seen[b.Defender.Pos] = true
	}
	ids := make(map[int]bool, len(b.Attackers))
	for _, a := range b.Attackers {
		if a.Side != Attacker {
			return fmt.Errorf("%w: attacker %d has side %s", ErrInvalidBoard, a.ID, a.Side)
		}
		if err := checkSquare(a.Pos); err != nil {
			return err
		}
		if seen[a.Pos] {
			return fmt.Errorf("%w: square %v occupied twice", ErrInvalidBoard, a.Pos)
		}
		if ids[a.ID] {
			return fmt.Errorf("%w: duplicate attacker id %d", ErrInvalidBoard, a.ID)
		}
		seen[a.Pos] = true
		ids[a.ID] = true
	}
	return nil
}

func checkSquare(p Position) error {
	if !OnBoard(p) {
		return fmt.Errorf("%w: %v off board", ErrInvalidBoard, p)
	}
	if !IsDarkSquare(p) {
		return fmt.Errorf("%w: %v is a light square", ErrInvalidBoard, p)
	}
	return nil
}

// String draws the board rank 0 first; D = Defender, a = Attacker, # = empty dark.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Ranks; r++ {
		for f := 0; f < Files; f++ {
			p := Position{File: f, Rank: r}
			switch {
			case b.DefenderAt(p):
				sb.WriteByte('D')
			case b.OccupiedBy(p, Attacker):
				sb.WriteByte('a')
			case IsDarkSquare(p):
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
