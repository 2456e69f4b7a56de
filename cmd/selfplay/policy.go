package main

import (
	"fmt"
	"math/rand"

	bt "breakthrough/internal/breakthrough"
)

// Policy picks the Defender's destination from its legal moves (never empty).
type Policy func(b *bt.Board, moves []bt.Position, rng *rand.Rand) bt.Position

func policyByName(name string) (Policy, error) {
	switch name {
	case "random":
		return randomPolicy, nil
	case "greedy":
		return greedyPolicy, nil
	}
	return nil, fmt.Errorf("unknown policy %q (want random or greedy)", name)
}

func randomPolicy(_ *bt.Board, moves []bt.Position, rng *rand.Rand) bt.Position {
	return moves[rng.Intn(len(moves))]
}

// greedyPolicy heads for the goal on squares no Attacker can take next turn.
// Preference: safe forward, safe backward, then the first forward move.
func greedyPolicy(b *bt.Board, moves []bt.Position, _ *rand.Rand) bt.Position {
	from := b.Defender.Pos
	var safeBack *bt.Position
	for i, to := range moves {
		if !safeAfter(b, to) {
			continue
		}
		if to.Rank < from.Rank {
			return to
		}
		if safeBack == nil {
			safeBack = &moves[i]
		}
	}
	if safeBack != nil {
		return *safeBack
	}
	return moves[0]
}

// safeAfter reports whether the Defender on `to` would be out of reach of
// every Attacker left after the move.
func safeAfter(b *bt.Board, to bt.Position) bool {
	res, ok := b.ApplyMove(bt.Move{From: b.Defender.Pos, To: to})
	if !ok {
		return false
	}
	for _, a := range res.Board.Attackers {
		for _, step := range bt.ForwardSteps(a.Pos) {
			if step == to {
				return false
			}
		}
	}
	return true
}
