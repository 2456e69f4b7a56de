package breakthrough

import "testing"

func TestCanMove(t *testing.T) {
	// Defender (3,4); attackers at (1,0), (2,3), (4,5) and (7,6).
	b := MustDecode("1a6/8/8/2a5/3D4/4a3/7a/8")
	def := b.Defender
	atk := func(p Position) Piece {
		i, ok := b.AttackerAt(p)
		if !ok {
			t.Fatalf("no attacker at %v", p)
		}
		return b.Attackers[i]
	}

	tests := []struct {
		name   string
		pc     Piece
		target Position
		want   bool
	}{
		{"defender forward left is a capture", def, Pos(2, 3), true},
		{"defender forward right", def, Pos(4, 3), true},
		{"defender backward left", def, Pos(2, 5), true},
		{"defender backward right captures", def, Pos(4, 5), true},
		{"defender straight", def, Pos(3, 3), false},
		{"defender two steps", def, Pos(5, 2), false},
		{"defender sideways", def, Pos(4, 4), false},
		{"defender stays", def, Pos(3, 4), false},
		{"attacker forward", atk(Pos(1, 0)), Pos(0, 1), true},
		{"attacker backward", atk(Pos(4, 5)), Pos(3, 4), false},
		{"attacker backward empty", atk(Pos(4, 5)), Pos(5, 4), false},
		{"attacker forward capture", atk(Pos(2, 3)), Pos(3, 4), true},
		{"attacker forward left", atk(Pos(2, 3)), Pos(1, 4), true},
		{"attacker off board", atk(Pos(7, 6)), Pos(8, 7), false},
		{"attacker light square", atk(Pos(1, 0)), Pos(1, 1), false},
		{"ghost piece", Piece{Side: Attacker, Pos: Pos(0, 7)}, Pos(1, 8), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMove(b, tt.pc, tt.target); got != tt.want {
				t.Fatalf("CanMove(%v -> %v) = %v, want %v", tt.pc.Pos, tt.target, got, tt.want)
			}
		})
	}
}

func TestCanMoveRejectsSameSideSquare(t *testing.T) {
	b := MustDecode("1a6/2a5/8/8/8/8/8/4D3")
	if CanMove(b, b.Attackers[0], Pos(2, 1)) {
		t.Fatalf("attacker may not land on another attacker")
	}
	if !CanMove(b, b.Attackers[0], Pos(0, 1)) {
		t.Fatalf("free forward square rejected")
	}
}

func TestApplyMoveDefenderCapturesAttacker(t *testing.T) {
	b := MustDecode("1a1a1a2/8/8/8/8/8/3a4/4D3")
	res, ok := b.ApplyMove(Move{From: Pos(4, 7), To: Pos(3, 6)})
	if !ok {
		t.Fatalf("capture rejected")
	}
	if res.Captured == nil || res.Captured.Pos != Pos(3, 6) {
		t.Fatalf("captured = %+v", res.Captured)
	}
	if len(res.Board.Attackers) != 3 {
		t.Fatalf("attackers = %d, want 3", len(res.Board.Attackers))
	}
	if len(b.Attackers) != 4 {
		t.Fatalf("receiver mutated")
	}
	if res.Board.Defender.Pos != Pos(3, 6) {
		t.Fatalf("defender at %v", res.Board.Defender.Pos)
	}
	if err := res.Board.Validate(); err != nil {
		t.Fatalf("invalid after capture: %v", err)
	}
}

func TestApplyMoveAttackerCapturesDefender(t *testing.T) {
	b := MustDecode("1a1a1a2/8/8/8/8/8/3a4/4D3")
	i, _ := b.AttackerAt(Pos(3, 6))
	res, ok := b.ApplyMove(Move{From: Pos(3, 6), To: Pos(4, 7)})
	if !ok {
		t.Fatalf("attacker capture rejected")
	}
	if !res.Board.Captured || res.Captured == nil || res.Captured.Side != Defender {
		t.Fatalf("defender not captured: %+v", res)
	}
	if res.Board.Attackers[i].Pos != Pos(4, 7) {
		t.Fatalf("attacker at %v", res.Board.Attackers[i].Pos)
	}
	if b.Captured {
		t.Fatalf("receiver mutated")
	}
	if len(res.Board.DefenderMoves()) != 0 {
		t.Fatalf("captured defender still has moves")
	}
}

func TestApplyMoveRejectsIllegal(t *testing.T) {
	b := NewInitialBoard()
	for _, m := range []Move{
		{From: Pos(4, 7), To: Pos(4, 6)},
		{From: Pos(4, 7), To: Pos(2, 5)},
		{From: Pos(0, 0), To: Pos(1, 1)},
		{From: Pos(3, 0), To: Pos(2, -1)},
	} {
		if _, ok := b.ApplyMove(m); ok {
			t.Fatalf("move %+v accepted", m)
		}
	}
	if !b.Equal(NewInitialBoard()) {
		t.Fatalf("rejected moves mutated the board")
	}
}
