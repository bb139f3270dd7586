package main

import (
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/strategy-masters/config"
	"github.com/user/strategy-masters/internal/game"
	"github.com/user/strategy-masters/internal/types"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Set up logger
	logger := setupLogger()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Open storage backend
	storage, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}

	// Initialize game manager
	gameManager := game.NewGameManager(cfg, storage)
	gameManager.SetLogger(logger)

	// Set up HTTP server
	server := setupHTTPServer(cfg, gameManager, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	waitForShutdown(logger)
}

func setupLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

func openStorage(cfg config.Config) (game.Storage, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return game.NewMemoryStorage(), nil
	case "sqlite":
		return game.NewSQLiteStorage(cfg.Storage.DSN)
	default:
		return game.NewFileStorage(cfg.Storage.Dir)
	}
}

func setupHTTPServer(cfg config.Config, gameManager *game.GameManager, logger *zap.Logger) *http.Server {
	// Create router
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Create a new game
	router.Post("/api/games", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NumTeams  int `json:"num_teams"`
			NumRounds int `json:"num_rounds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.NumTeams == 0 {
			req.NumTeams = cfg.Game.DefaultTeams
		}
		if req.NumRounds == 0 {
			req.NumRounds = cfg.Game.DefaultRounds
		}

		creds, err := gameManager.CreateGame(req.NumTeams, req.NumRounds)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, creds)
	})

	// List games
	router.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		ids, err := gameManager.ListGames()
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, map[string][]string{"games": ids})
	})

	// Submit decisions for a team
	router.Post("/api/games/{gameID}/teams/{teamID}/decisions", func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		teamID := chi.URLParam(r, "teamID")
		teamCode := r.URL.Query().Get("team_code")

		var decisions types.Decisions
		if err := json.NewDecoder(r.Body).Decode(&decisions); err != nil {
			http.Error(w, "Invalid decisions payload", http.StatusBadRequest)
			return
		}

		result, err := gameManager.SubmitDecisions(gameID, teamID, teamCode, &decisions)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, result)
	})

	// Advance the round (admin)
	router.Post("/api/games/{gameID}/advance", func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")
		adminCode := r.URL.Query().Get("admin_code")

		var req struct {
			Force bool `json:"force"`
		}
		// Empty body means force=false
		json.NewDecoder(r.Body).Decode(&req)

		result, err := gameManager.AdvanceRound(gameID, adminCode, req.Force)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, result)
	})

	// Team view
	router.Get("/api/games/{gameID}/teams/{teamID}", func(w http.ResponseWriter, r *http.Request) {
		view, err := gameManager.TeamView(
			chi.URLParam(r, "gameID"),
			chi.URLParam(r, "teamID"),
			r.URL.Query().Get("team_code"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, view)
	})

	// Admin view
	router.Get("/api/games/{gameID}/admin", func(w http.ResponseWriter, r *http.Request) {
		view, err := gameManager.AdminView(
			chi.URLParam(r, "gameID"),
			r.URL.Query().Get("admin_code"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, view)
	})

	// Rankings
	router.Get("/api/games/{gameID}/rankings", func(w http.ResponseWriter, r *http.Request) {
		rankings, err := gameManager.Rankings(
			chi.URLParam(r, "gameID"),
			r.URL.Query().Get("admin_code"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, map[string]interface{}{"rankings": rankings})
	})

	// Join by code: resolve a bare team code to its team id
	router.Post("/api/games/{gameID}/join", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		teamID, err := gameManager.ResolveTeamCode(chi.URLParam(r, "gameID"), req.Code)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, map[string]string{"team_id": teamID})
	})

	// Delete a game (admin)
	router.Delete("/api/games/{gameID}", func(w http.ResponseWriter, r *http.Request) {
		err := gameManager.DeleteGame(
			chi.URLParam(r, "gameID"),
			r.URL.Query().Get("admin_code"))
		if err != nil {
			writeError(w, logger, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP status codes.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrGameNotFound), errors.Is(err, game.ErrTeamNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrAlreadySubmitted),
		errors.Is(err, game.ErrRoundFinalized),
		errors.Is(err, game.ErrRoundIncomplete):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInvalidGameSetup):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("Shutting down")
}
