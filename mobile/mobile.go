package mobile

import (
	"context"
	"log"
	"net/http"

	"breakthrough/internal/config"
	"breakthrough/internal/engine"
	httpserver "breakthrough/internal/server/http"
	"breakthrough/internal/server/session"
	"breakthrough/internal/store"
)

// StartServer starts the local game server for an app shell.
// webDir: physical path to the extracted web assets
// dbPath: SQLite file for finished games, "" to keep none
// port: port to listen on, e.g. "2888"
func StartServer(webDir string, dbPath string, port string) {
	opts := session.Options{AutoAdvance: true}
	var records httpserver.RecordLister
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			log.Printf("Failed to open game store: %v", err)
		} else {
			opts.Recorder = st
			records = st
		}
	}

	games := session.NewManager(engine.NewEngine(), opts)
	defaults := config.Default()
	h := httpserver.NewHandler(games, records, defaults.Play.AttackerDelayMS)
	go games.RunSweeper(context.Background(), defaults.Server.SessionTTL)

	// Run in background so it doesn't block the app's UI thread
	go func() {
		if err := http.ListenAndServe("127.0.0.1:"+port, httpserver.NewMux(h, webDir)); err != nil {
			log.Printf("Server Error: %v", err)
		}
	}()
}
