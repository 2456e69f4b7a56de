package breakthrough

// CanMove is the move validator for a single step of pc to target:
// in bounds, dark square, one diagonal step, not onto a piece of the same side,
// and forward only for Attackers. Landing on an opposing piece is a capture and
// is always allowed. pc must actually stand on the board at pc.Pos.
func CanMove(b *Board, pc Piece, target Position) bool {
	if b == nil {
		return false
	}
	cur, ok := b.PieceAt(pc.Pos)
	if !ok || cur.Side != pc.Side {
		return false
	}
	if !OnBoard(target) || !IsDarkSquare(target) {
		return false
	}
	df := target.File - pc.Pos.File
	dr := target.Rank - pc.Pos.Rank
	if Abs(df) != 1 || Abs(dr) != 1 {
		return false
	}
	if pc.Side == Attacker && dr != +1 {
		return false
	}
	if b.OccupiedBy(target, pc.Side) {
		return false
	}
	return true
}
