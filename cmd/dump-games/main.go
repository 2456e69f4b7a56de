package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"breakthrough/internal/store"
)

func main() {
	dbPath := flag.String("db", "data/games.db", "path to SQLite database")
	limit := flag.Int("limit", 0, "show at most this many games (0 = all)")
	moves := flag.Bool("moves", true, "print the move log")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatalf("database not found at %s", *dbPath)
	}
	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer s.Close()

	recs, err := s.List(context.Background(), *limit)
	if err != nil {
		log.Fatalf("list games: %v", err)
	}
	for _, r := range recs {
		fmt.Printf("Game ID: %s\n", r.ID)
		fmt.Printf("Time: %s - %s (%s)\n", r.StartedAt.Format(time.RFC822), r.EndedAt.Format(time.RFC822),
			r.EndedAt.Sub(r.StartedAt).Round(time.Second))
		fmt.Printf("Result: %s (%s) after %d plies\n", r.Result, r.Reason, r.Plies)
		fmt.Printf("Final board: %s\n", r.FinalBoard)
		if *moves {
			formatted, err := json.MarshalIndent(r.Moves, "", "  ")
			if err != nil {
				log.Fatalf("format moves of %s: %v", r.ID, err)
			}
			fmt.Println(string(formatted))
		}
		fmt.Println("--------------------------------------------------")
	}
	fmt.Printf("Total games found: %d\n", len(recs))
}
