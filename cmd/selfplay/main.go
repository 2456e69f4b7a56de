package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"
)

func main() {
	games := flag.Int("games", 100, "number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel games")
	policyName := flag.String("policy", "greedy", "defender policy: random or greedy")
	seed := flag.Int64("seed", 1, "base random seed; game i uses seed+i")
	flag.Parse()

	policy, err := policyByName(*policyName)
	if err != nil {
		log.Fatal(err)
	}
	if *games <= 0 || *workers <= 0 {
		log.Fatalf("games and workers must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := runGames(ctx, *games, *workers, policy, *seed)
	if err != nil {
		log.Fatalf("selfplay interrupted: %v", err)
	}
	s := summarize(results)

	fmt.Printf("=== %d games, policy %s, seed %d, %v ===\n", s.Games, *policyName, *seed, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Defender wins: %d (%.1f%%)\n", s.Wins, 100*s.winRate())
	for reason, n := range s.Losses {
		fmt.Printf("Defender losses (%s): %d\n", reason, n)
	}
	if s.Unfinished > 0 {
		fmt.Printf("Unfinished after %d turns: %d\n", maxTurns, s.Unfinished)
	}
	fmt.Printf("Average plies: %.1f\n", s.avgPlies())
	fmt.Println("Strategy usage:")
	for _, name := range s.strategyNames() {
		fmt.Printf("  %-18s %d\n", name, s.Strategies[name])
	}
}
