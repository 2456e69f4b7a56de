package breakthrough

// DefenderMoves returns every legal Defender destination, toward-goal squares
// first. Squares holding an Attacker are included: they are captures.
func (b *Board) DefenderMoves() []Position {
	if b.Captured {
		return nil
	}
	out := make([]Position, 0, 4)
	for _, to := range DiagonalSteps(b.Defender.Pos) {
		if CanMove(b, b.Defender, to) {
			out = append(out, to)
		}
	}
	return out
}

// AttackerMoves returns the legal forward steps of the Attacker at slice index i.
func (b *Board) AttackerMoves(i int) []Position {
	if i < 0 || i >= len(b.Attackers) {
		return nil
	}
	pc := b.Attackers[i]
	out := make([]Position, 0, 2)
	for _, to := range ForwardSteps(pc.Pos) {
		if CanMove(b, pc, to) {
			out = append(out, to)
		}
	}
	return out
}

// LegalMoves lists all legal moves for side.
func (b *Board) LegalMoves(side Side) []Move {
	var moves []Move
	switch side {
	case Defender:
		for _, to := range b.DefenderMoves() {
			moves = append(moves, Move{From: b.Defender.Pos, To: to})
		}
	case Attacker:
		for i, a := range b.Attackers {
			for _, to := range b.AttackerMoves(i) {
				moves = append(moves, Move{From: a.Pos, To: to})
			}
		}
	}
	return moves
}

// Applied describes the result of ApplyMove.
type Applied struct {
	Board    *Board
	Moved    Piece  // the moving piece at its destination
	Captured *Piece // nil when nothing was taken
}

// ApplyMove validates m and returns the resulting board. The receiver is left
// untouched; an illegal move reports ok=false.
func (b *Board) ApplyMove(m Move) (Applied, bool) {
	pc, ok := b.PieceAt(m.From)
	if !ok || !CanMove(b, pc, m.To) {
		return Applied{}, false
	}

	nb := b.Clone()
	res := Applied{Board: nb}

	switch pc.Side {
	case Defender:
		if i, hit := nb.AttackerAt(m.To); hit {
			taken := nb.Attackers[i]
			res.Captured = &taken
			nb.Attackers = append(nb.Attackers[:i], nb.Attackers[i+1:]...)
		}
		nb.Defender.Pos = m.To
		res.Moved = nb.Defender
	case Attacker:
		i, _ := nb.AttackerAt(m.From)
		if nb.DefenderAt(m.To) {
			taken := nb.Defender
			res.Captured = &taken
			nb.Captured = true
		}
		nb.Attackers[i].Pos = m.To
		res.Moved = nb.Attackers[i]
	}
	return res, true
}
