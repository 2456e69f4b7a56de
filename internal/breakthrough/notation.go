package breakthrough

import (
	"errors"
	"fmt"
	"strings"
)

// Encode writes the board as eight rank rows (rank 0 first) separated by "/".
// D = Defender, a = Attacker, digits compress runs of empty squares.
// A captured Defender is omitted.
func (b *Board) Encode() string {
	var sb strings.Builder
	for r := 0; r < Ranks; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < Files; f++ {
			p := Position{File: f, Rank: r}
			var ch byte
			switch {
			case b.DefenderAt(p):
				ch = 'D'
			case b.OccupiedBy(p, Attacker):
				ch = 'a'
			default:
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

var ErrInvalidNotation = errors.New("invalid board notation")

// Decode parses Encode output. Attackers get ids in scan order, which matches
// the setup ids for the initial layout. The result satisfies Validate.
func Decode(s string) (*Board, error) {
	rows := strings.Split(strings.TrimSpace(s), "/")
	if len(rows) != Ranks {
		return nil, fmt.Errorf("%w: want %d ranks, got %d", ErrInvalidNotation, Ranks, len(rows))
	}
	b := &Board{Attackers: make([]Piece, 0, MaxAttackers)}
	defenders := 0
	for r, row := range rows {
		f := 0
		for _, ch := range row {
			if f >= Files {
				return nil, fmt.Errorf("%w: rank %d too long", ErrInvalidNotation, r)
			}
			switch {
			case ch >= '1' && ch <= '8':
				f += int(ch - '0')
				continue
			case ch == '.':
				f++
				continue
			case ch == 'D':
				defenders++
				b.Defender = Piece{ID: 0, Side: Defender, Pos: Position{File: f, Rank: r}}
			case ch == 'a':
				b.Attackers = append(b.Attackers, Piece{ID: len(b.Attackers), Side: Attacker, Pos: Position{File: f, Rank: r}})
			default:
				return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidNotation, ch)
			}
			f++
		}
		if f != Files {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidNotation, r, f)
		}
	}
	if defenders != 1 {
		return nil, fmt.Errorf("%w: want one defender, got %d", ErrInvalidNotation, defenders)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
	}
	return b, nil
}

// MustDecode is Decode for fixed literals; it panics on error.
func MustDecode(s string) *Board {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}
