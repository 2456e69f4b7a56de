package engine

import (
	bt "breakthrough/internal/breakthrough"
)

// Executor picks the destination of the Attacker at slice index i, or reports
// that it has no move under its strategy. Executors never modify b.
type Executor func(b *bt.Board, i int) (bt.Position, bool)

type scoreFunc func(b *bt.Board, i int, to bt.Position) int

// executors is the strategy dispatch table.
var executors = [numStrategies]Executor{
	InstantCapture:   captureDefender,
	LastStand:        closestToDefender,
	WallOfDeath:      bestScored(scoreWall),
	TotalSurround:    bestScored(scoreSurround),
	CoordinatedNet:   bestScored(scoreNet),
	ForceTrap:        bestScored(scoreTrap),
	CutEscape:        bestScored(scoreCut),
	TerritoryControl: bestScored(scoreTerritory),
}

// ExecutorFor returns the executor of s, wrapped with the shared advance
// fallback where the strategy allows it. InstantCapture never falls back.
func ExecutorFor(s Strategy) Executor {
	if s >= numStrategies {
		return advance
	}
	exec := executors[s]
	if s == InstantCapture {
		return exec
	}
	return func(b *bt.Board, i int) (bt.Position, bool) {
		if to, ok := exec(b, i); ok {
			return to, true
		}
		return advance(b, i)
	}
}

func captureDefender(b *bt.Board, i int) (bt.Position, bool) {
	return captureStep(b, i)
}

func closestToDefender(b *bt.Board, i int) (bt.Position, bool) {
	var best bt.Position
	found := false
	shortest := 0
	for _, to := range b.AttackerMoves(i) {
		d := bt.Manhattan(to, b.Defender.Pos)
		if !found || d < shortest {
			best, shortest, found = to, d, true
		}
	}
	return best, found
}

// minAcceptedScore: candidates must score above this to be chosen by a scored
// executor; anything lower is left to the advance fallback.
const minAcceptedScore = -1

func bestScored(score scoreFunc) Executor {
	return func(b *bt.Board, i int) (bt.Position, bool) {
		var best bt.Position
		bestScore := minAcceptedScore
		found := false
		for _, to := range b.AttackerMoves(i) {
			if s := score(b, i, to); s > bestScore {
				best, bestScore, found = to, s, true
			}
		}
		return best, found
	}
}

// advance takes the first legal forward-diagonal step.
func advance(b *bt.Board, i int) (bt.Position, bool) {
	moves := b.AttackerMoves(i)
	if len(moves) == 0 {
		return bt.Position{}, false
	}
	return moves[0], true
}
