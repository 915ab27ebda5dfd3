package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"squares-app-go/config"
	"squares-app-go/database"
	"squares-app-go/handlers"
	"squares-app-go/logging"
	"squares-app-go/middleware"
	"squares-app-go/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(cfg.ToLoggingConfig())
	cfg.LogConfiguration()

	// Connect to MongoDB
	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	if err := db.TestConnection(); err != nil {
		logging.Fatalf("Database ping failed: %v", err)
	}

	// Repositories
	userRepo := database.NewMongoUserRepository(db)
	poolRepo := database.NewMongoPoolRepository(db)
	gameStateRepo := database.NewMongoGameStateRepository(db)
	winEventRepo := database.NewMongoWinEventRepository(db)
	ledgerRepo := database.NewMongoScoreChangeRepository(db)

	// Score source: deterministic mock in development, live provider otherwise
	var scoreSource services.ScoreSource
	if cfg.IsMockProviderEnabled() {
		logging.Warn("Using mock score provider")
		scoreSource = services.NewMockScoreSource()
	} else {
		scoreSource = services.NewESPNService(cfg.Provider.BaseURL)
	}

	// Services
	scoringService := services.NewScoringService(poolRepo, gameStateRepo, winEventRepo, ledgerRepo)
	syncService := services.NewGameSyncService(scoreSource, scoringService)
	adminScoring := services.NewAdminScoringService(scoringService)
	aggregator := services.NewAggregatorService(scoringService)
	poolService := services.NewPoolService(poolRepo)
	pollManager := services.NewPollManager(syncService, cfg.Provider.PollInterval)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)

	// Seed the commissioner account in development
	if cfg.App.IsDevelopment && cfg.Auth.CommissionerPassword != "" {
		seeder := services.NewUserSeeder(userRepo)
		if err := seeder.SeedCommissioner(cfg.Auth.CommissionerEmail, cfg.Auth.CommissionerPassword); err != nil {
			logging.Errorf("Commissioner seeding failed: %v", err)
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	syncHandler := handlers.NewSyncHandler(syncService)
	adminHandler := handlers.NewAdminHandler(adminScoring, pollManager, poolService)
	boardHandler := handlers.NewBoardHandler(aggregator, poolService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Routes
	r := mux.NewRouter()
	r.Use(middleware.SecurityMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.Handle("/auth/me", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// Game sync and state
	api.HandleFunc("/games/{gameID}/sync", syncHandler.SyncGame).Methods("POST")
	api.HandleFunc("/games/{gameID}", syncHandler.GameState).Methods("GET")

	// Pool read side
	api.HandleFunc("/pools/{poolID}", boardHandler.GetPool).Methods("GET")
	api.HandleFunc("/pools/{poolID}/board", boardHandler.Board).Methods("GET")
	api.HandleFunc("/pools/{poolID}/leaderboard", boardHandler.Leaderboard).Methods("GET")

	// Commissioner endpoints
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware.RequireAuth)
	admin.HandleFunc("/scoring", adminHandler.ApplyScoring).Methods("POST")
	admin.HandleFunc("/games/{gameID}/recompute", adminHandler.Recompute).Methods("POST")
	admin.HandleFunc("/games/{gameID}/poll/start", adminHandler.StartPoll).Methods("POST")
	admin.HandleFunc("/games/{gameID}/poll/stop", adminHandler.StopPoll).Methods("POST")
	admin.HandleFunc("/pools", adminHandler.CreatePool).Methods("POST")
	admin.HandleFunc("/pools/{poolID}/squares", adminHandler.ClaimSquare).Methods("POST")
	admin.HandleFunc("/pools/{poolID}/games", adminHandler.AttachGame).Methods("POST")
	admin.HandleFunc("/pools/{poolID}/lock", adminHandler.LockGrid).Methods("POST")

	// Health
	api.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		status := "ok"
		code := http.StatusOK
		if !syncService.HealthCheck() {
			status = "provider unreachable"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"status":"` + status + `"}`))
	}).Methods("GET")

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logging.Infof("Server starting on %s", cfg.GetServerAddress())
		var serveErr error
		if cfg.Server.UseTLS && !cfg.Server.BehindProxy {
			serveErr = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			logging.Fatalf("Server failed: %v", serveErr)
		}
	}()

	<-done
	logging.Info("Shutdown signal received")

	pollManager.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Errorf("Server shutdown failed: %v", err)
	}
	logging.Info("Server stopped")
}
