package main

import (
	"context"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"breakthrough/internal/engine"
	"breakthrough/internal/game"
)

// maxTurns stops a game whose Defender wanders after the Attackers are stuck.
const maxTurns = 400

type gameResult struct {
	Outcome    game.Outcome
	Finished   bool
	Plies      int
	Strategies map[string]int
}

func playGame(eng *engine.Engine, policy Policy, seed int64) gameResult {
	rng := rand.New(rand.NewSource(seed))
	c := game.NewController(eng, nil)
	for turn := 0; turn < maxTurns && c.Phase() != game.GameOver; turn++ {
		switch c.Phase() {
		case game.DefenderTurn:
			to := policy(c.Snapshot(), c.DefenderMoves(), rng)
			c.SubmitDefenderMove(to)
		case game.AttackerTurn:
			c.AdvanceAttacker()
		}
	}
	return finish(c)
}

func finish(c *game.Controller) gameResult {
	r := gameResult{Plies: len(c.History()), Strategies: map[string]int{}}
	r.Outcome, r.Finished = c.Outcome()
	for _, p := range c.History() {
		if p.Strategy != nil {
			r.Strategies[p.Strategy.String()]++
		}
	}
	return r
}

// runGames plays n games on `workers` goroutines. Game i uses seed+i, so the
// results do not depend on scheduling.
func runGames(ctx context.Context, n, workers int, policy Policy, seed int64) ([]gameResult, error) {
	eng := engine.NewEngine()
	results := make([]gameResult, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = playGame(eng, policy, seed+int64(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Wait cancels gctx; only the caller's context tells an interrupt apart.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

type stats struct {
	Games      int
	Wins       int
	Losses     map[game.Reason]int
	Unfinished int
	TotalPlies int
	Strategies map[string]int
}

func summarize(results []gameResult) stats {
	s := stats{Games: len(results), Losses: map[game.Reason]int{}, Strategies: map[string]int{}}
	for _, r := range results {
		s.TotalPlies += r.Plies
		for k, v := range r.Strategies {
			s.Strategies[k] += v
		}
		switch {
		case !r.Finished:
			s.Unfinished++
		case r.Outcome.Result == game.Win:
			s.Wins++
		default:
			s.Losses[r.Outcome.Reason]++
		}
	}
	return s
}

func (s stats) winRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

func (s stats) avgPlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.Games)
}

// strategyNames returns the used strategies, most used first.
func (s stats) strategyNames() []string {
	names := make([]string, 0, len(s.Strategies))
	for k := range s.Strategies {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Strategies[names[i]] != s.Strategies[names[j]] {
			return s.Strategies[names[i]] > s.Strategies[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
