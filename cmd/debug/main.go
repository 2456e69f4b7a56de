package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	bt "breakthrough/internal/breakthrough"
	"breakthrough/internal/engine"
)

func main() {
	board := flag.String("board", bt.NewInitialBoard().Encode(), "board notation, rank 0 first")
	cursor := flag.Int("cursor", 0, "round-robin attacker index")
	asJSON := flag.Bool("json", false, "print the analysis as JSON")
	flag.Parse()

	b, err := bt.Decode(*board)
	if err != nil {
		log.Fatalf("decode board: %v", err)
	}

	d := engine.NewEngine().Decide(b, *cursor)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.Analysis); err != nil {
			log.Fatal(err)
		}
		return
	}

	a := d.Analysis
	fmt.Println("Board:", b.Encode())
	fmt.Print(b.String())
	fmt.Println("Defender:", a.DefenderPosition, "threats:", a.DefenderThreats)
	fmt.Println("Formation gaps:", a.FormationGaps, "center:", a.FormationCenter)
	fmt.Println("Capture opportunities:", a.CaptureOpportunities)
	for i, bp := range a.BlockingPositions {
		if i == 5 {
			fmt.Printf("  ... %d more\n", len(a.BlockingPositions)-i)
			break
		}
		fmt.Printf("  block %v from %v  priority %.1f\n", bp.BlocksSquare, bp.Position, bp.Priority)
	}
	fmt.Println("Strategy:", d.Strategy)
	if d.Moved {
		fmt.Printf("Attacker %d (id %d): %v -> %v after %d attempt(s), next cursor %d\n",
			d.Index, d.Piece.ID, d.Move.From, d.Move.To, d.Attempts, d.Next)
	} else {
		fmt.Printf("No attacker can move (%d attempts)\n", d.Attempts)
	}
}
