package breakthrough

import (
	"errors"
	"math/rand"
	"testing"
)

func TestIsDarkSquareMatchesParity(t *testing.T) {
	for f := 0; f < Files; f++ {
		for r := 0; r < Ranks; r++ {
			p := Pos(f, r)
			want := (f+r)%2 == 1
			if got := IsDarkSquare(p); got != want {
				t.Fatalf("IsDarkSquare(%v)=%v want %v", p, got, want)
			}
		}
	}
}

func TestInitialBoardLayout(t *testing.T) {
	b := NewInitialBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("initial board invalid: %v", err)
	}
	if b.Defender.Pos != Pos(4, 7) {
		t.Fatalf("defender at %v, want (4,7)", b.Defender.Pos)
	}
	want := []Position{Pos(1, 0), Pos(3, 0), Pos(5, 0), Pos(7, 0)}
	if len(b.Attackers) != len(want) {
		t.Fatalf("got %d attackers, want %d", len(b.Attackers), len(want))
	}
	for i, p := range want {
		if b.Attackers[i].Pos != p || b.Attackers[i].ID != i {
			t.Fatalf("attacker %d = %+v, want id %d at %v", i, b.Attackers[i], i, p)
		}
	}
	if got := b.Encode(); got != "1a1a1a1a/8/8/8/8/8/8/4D3" {
		t.Fatalf("Encode() = %q", got)
	}
}

func TestDecodeInitialMatchesNewInitialBoard(t *testing.T) {
	b, err := Decode(NewInitialBoard().Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !b.Equal(NewInitialBoard()) {
		t.Fatalf("decoded board differs:\n%s", b)
	}
}

func TestDecodeRejectsBrokenBoards(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"too few ranks", "1a1a1a1a/8/8/8/8/8/4D3"},
		{"long rank", "1a1a1a1a1/8/8/8/8/8/8/4D3"},
		{"short rank", "1a1a1a1/8/8/8/8/8/8/4D3"},
		{"no defender", "1a1a1a1a/8/8/8/8/8/8/8"},
		{"two defenders", "1a1a1a1a/8/8/8/8/8/8/D2D4"},
		{"light square", "a7/8/8/8/8/8/8/4D3"},
		{"five attackers", "1a1a1a1a/a7/8/8/8/8/8/4D3"},
		{"bad char", "1a1a1a1x/8/8/8/8/8/8/4D3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.in); !errors.Is(err, ErrInvalidNotation) {
				t.Fatalf("Decode(%q) err = %v, want ErrInvalidNotation", tt.in, err)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewInitialBoard()
	c := b.Clone()
	c.Attackers[0].Pos = Pos(2, 1)
	c.Defender.Pos = Pos(3, 6)
	if !b.Equal(NewInitialBoard()) {
		t.Fatalf("mutating the clone changed the original")
	}
}

func TestDefenderNeverImmobileOnEmptyBoard(t *testing.T) {
	for f := 0; f < Files; f++ {
		for r := 1; r < Ranks; r++ {
			p := Pos(f, r)
			if !IsDarkSquare(p) {
				continue
			}
			b := &Board{Defender: Piece{Side: Defender, Pos: p}}
			if len(b.DefenderMoves()) == 0 {
				t.Fatalf("defender at %v has no moves", p)
			}
		}
	}
}

// Random play keeps the board valid and never moves an attacker backwards.
func TestRandomPlayPreservesInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 50; game++ {
		b := NewInitialBoard()
		for ply := 0; ply < 40 && !b.Captured; ply++ {
			side := Defender
			if ply%2 == 1 {
				side = Attacker
			}
			moves := b.LegalMoves(side)
			if len(moves) == 0 {
				continue
			}
			m := moves[rng.Intn(len(moves))]
			before := len(b.Attackers)
			res, ok := b.ApplyMove(m)
			if !ok {
				t.Fatalf("generated move %+v rejected", m)
			}
			if side == Attacker && res.Moved.Pos.Rank != m.From.Rank+1 {
				t.Fatalf("attacker moved %v -> %v, rank must grow by one", m.From, res.Moved.Pos)
			}
			if side == Defender && res.Captured != nil && len(res.Board.Attackers) != before-1 {
				t.Fatalf("capture removed %d attackers", before-len(res.Board.Attackers))
			}
			if err := res.Board.Validate(); err != nil && !res.Board.Captured {
				t.Fatalf("game %d ply %d: %v\n%s", game, ply, err, res.Board)
			}
			b = res.Board
			if b.Defender.Pos.Rank == GoalRank {
				break
			}
		}
	}
}
