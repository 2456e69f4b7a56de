package engine

import (
	bt "breakthrough/internal/breakthrough"
)

// Engine chooses the Attacker move for a turn. It holds no game state and is
// safe to share between games.
type Engine struct {
	exec [numStrategies]Executor
}

func NewEngine() *Engine {
	e := &Engine{}
	for _, s := range Strategies() {
		e.exec[s] = ExecutorFor(s)
	}
	return e
}

// Decision is what the engine settled on for one Attacker turn.
type Decision struct {
	Analysis Analysis
	Strategy Strategy
	Index    int      // slice index of the mover, -1 if nobody moved
	Piece    bt.Piece // mover before the move
	Move     bt.Move
	Moved    bool
	Attempts int
	Next     int // round-robin cursor for the following turn
}

// Decide analyses b, picks the strategy and walks the attackers round-robin
// from cursor until one of them produces a move, giving up after one attempt
// per attacker. b is not modified; the caller applies Decision.Move.
func (e *Engine) Decide(b *bt.Board, cursor int) Decision {
	a := Analyze(b)
	d := Decision{Analysis: a, Strategy: a.Strategy, Index: -1, Next: cursor}

	n := len(b.Attackers)
	if n == 0 || b.Captured {
		return d
	}
	exec := e.exec[a.Strategy]

	idx := cursor
	for d.Attempts < n && !d.Moved {
		if idx < 0 || idx >= n {
			idx = 0
		}
		if to, ok := exec(b, idx); ok {
			pc := b.Attackers[idx]
			d.Index = idx
			d.Piece = pc
			d.Move = bt.Move{From: pc.Pos, To: to}
			d.Moved = true
		}
		idx++
		d.Attempts++
	}
	d.Next = idx
	return d
}
