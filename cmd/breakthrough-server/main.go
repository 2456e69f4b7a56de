package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"breakthrough/internal/config"
	"breakthrough/internal/engine"
	httpserver "breakthrough/internal/server/http"
	"breakthrough/internal/server/session"
	"breakthrough/internal/store"
)

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	// Headless hosts have no browser; ignore the error.
	_ = cmd.Start()
}

func main() {
	cfgPath := flag.String("config", "", "optional YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	webDir := flag.String("web", "", "directory with index.html / js (overrides config)")
	dbPath := flag.String("db", "", "SQLite file for finished games (overrides config)")
	noStore := flag.Bool("no-store", false, "do not record finished games")
	browser := flag.Bool("open", false, "open the default browser once listening")
	trace := flag.Bool("trace", false, "log every move")
	ttl := flag.Duration("session-ttl", -1, "drop games idle this long, 0 keeps them (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *webDir != "" {
		cfg.Server.WebDir = *webDir
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if *noStore {
		cfg.Store.Enabled = false
	}
	if *ttl >= 0 {
		cfg.Server.SessionTTL = *ttl
	}
	cfg.Server.OpenBrowser = cfg.Server.OpenBrowser || *browser
	cfg.Play.Trace = cfg.Play.Trace || *trace
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	opts := session.Options{Trace: cfg.Play.Trace, AutoAdvance: cfg.Play.AutoAdvance}
	var records httpserver.RecordLister
	if cfg.Store.Enabled {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		defer st.Close()
		log.Printf("recording finished games in %s", cfg.Store.Path)
		opts.Recorder = st
		records = st
	}

	games := session.NewManager(engine.NewEngine(), opts)
	h := httpserver.NewHandler(games, records, cfg.Play.AttackerDelayMS)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpserver.NewMux(h, cfg.Server.WebDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Hijacked websocket connections are not tracked by Shutdown.
	srv.RegisterOnShutdown(games.Close)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s, serving static from %s", cfg.Server.Addr, cfg.Server.WebDir)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		games.RunSweeper(ctx, cfg.Server.SessionTTL)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Server.OpenBrowser {
		go func() {
			// give the listener a moment before the browser connects
			time.Sleep(100 * time.Millisecond)
			openBrowser(localURL(cfg.Server.Addr))
		}()
	}

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}

func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
