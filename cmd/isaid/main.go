// Package main is the entry point for the Isai music daemon.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vinoth-46/isai-backend/internal/config"
	"github.com/Vinoth-46/isai-backend/internal/domain/artwork"
	"github.com/Vinoth-46/isai-backend/internal/domain/history"
	"github.com/Vinoth-46/isai-backend/internal/domain/library"
	"github.com/Vinoth-46/isai-backend/internal/domain/player"
	"github.com/Vinoth-46/isai-backend/internal/domain/playlist"
	"github.com/Vinoth-46/isai-backend/internal/domain/theme"
	"github.com/Vinoth-46/isai-backend/internal/infra/engine"
	"github.com/Vinoth-46/isai-backend/internal/infra/scanner"
	"github.com/Vinoth-46/isai-backend/internal/infra/storage"
	"github.com/Vinoth-46/isai-backend/internal/infra/watcher"
	"github.com/Vinoth-46/isai-backend/internal/transport/socketio"
	"github.com/Vinoth-46/isai-backend/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogging(cfg, *debug)

	versionInfo := version.GetInfo()
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msgf("  %s", versionInfo.String())
	log.Info().Msg("  Local Music Player Backend")
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().
		Str("addr", cfg.Server.Addr()).
		Str("mpd_host", cfg.MPD.Host).
		Int("mpd_port", cfg.MPD.Port).
		Strs("roots", cfg.Library.Roots).
		Str("db", cfg.Storage.DBPath).
		Msg("Configuration")

	// Persistence
	store := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err := store.Open(); err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	// Playback engine
	mpdClient := engine.NewClient(cfg.MPD.Host, cfg.MPD.Port, cfg.MPD.Password)
	if err := mpdClient.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MPD")
	}
	defer mpdClient.Close()
	log.Info().Msg("MPD connection verified")

	// Catalog: walk the configured roots when present, otherwise use
	// MPD's own database.
	var mediaScanner library.Scanner
	if len(cfg.Library.Roots) > 0 {
		mediaScanner = scanner.NewFSScanner(cfg.Library.Roots)
	} else {
		mediaScanner = scanner.NewMPDScanner(mpdClient)
	}

	lib := library.NewService(store, mediaScanner, nil, cfg.Library.MinDuration)
	if err := lib.Load(); err != nil {
		log.Warn().Err(err).Msg("Failed to restore catalog, a fresh scan will rebuild it")
	}

	tracker := history.NewTracker(store, cfg.History.RecentCap)
	playlists := playlist.NewManager(store)
	themes := theme.NewStore(store)
	art := artwork.NewResolver(mpdClient, filepath.Join(filepath.Dir(cfg.Storage.DBPath), "artwork"))

	playbackEngine := engine.NewMPDEngine(mpdClient)
	controller := player.NewController(playbackEngine, tracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := playbackEngine.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start playback engine")
	}
	controller.Start(ctx)

	// Transport
	rescans := &rescanner{ctx: ctx, lib: lib}
	server := socketio.NewServer(controller, lib, tracker, playlists, themes, rescans)
	defer server.Close()
	rescans.notify = server.BroadcastLibrary

	// Initial scan when nothing was restored.
	if lib.Empty() {
		go rescans.Rescan()
	}

	// Rescan automatically when the music directories change.
	if cfg.Library.Watch && len(cfg.Library.Roots) > 0 {
		w := watcher.New(cfg.Library.Roots, cfg.Library.SettleDuration(), rescans.Rescan)
		if err := w.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to start directory watcher")
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := mpdClient.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"error","mpd":"disconnected"}`))
			return
		}
		w.Write([]byte(`{"status":"ok","mpd":"connected"}`))
	})

	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(version.GetInfo())
	})

	mux.HandleFunc("/albumart", func(w http.ResponseWriter, r *http.Request) {
		songID, err := artwork.CacheKey(r.URL.Query().Get("songId"))
		if err != nil {
			http.Error(w, "songId parameter required", http.StatusBadRequest)
			return
		}
		track, ok := lib.TrackByID(songID)
		if !ok {
			http.Error(w, "unknown song", http.StatusNotFound)
			return
		}
		result, err := art.Resolve(track.ID, track.URI)
		if err != nil {
			log.Debug().Err(err).Str("song", songID).Msg("Album art not found")
			http.Error(w, "album art not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", result.MimeType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write(result.Data)
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP shutdown failed")
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}

	log.Info().Msg("Goodbye")
}

// setupLogging configures the global logger.
func setupLogging(cfg *config.Config, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		level = parsed
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty || debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// rescanner rebuilds the catalog and notifies connected clients. At
// most one scan runs at a time; overlapping requests are dropped.
type rescanner struct {
	ctx     context.Context
	lib     *library.Service
	notify  func()
	running atomic.Bool
}

func (r *rescanner) Rescan() {
	if !r.running.CompareAndSwap(false, true) {
		log.Debug().Msg("Scan already in progress, skipping")
		return
	}
	defer r.running.Store(false)

	tracks, err := r.lib.Scan(r.ctx)
	if err != nil {
		log.Error().Err(err).Msg("Catalog scan failed")
		return
	}
	log.Info().Int("tracks", len(tracks)).Msg("Catalog scan complete")
	if r.notify != nil {
		r.notify()
	}
}
