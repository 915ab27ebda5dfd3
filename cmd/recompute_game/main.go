package main

import (
	"context"
	"flag"
	"time"

	"squares-app-go/config"
	"squares-app-go/database"
	"squares-app-go/logging"
	"squares-app-go/services"
)

// Operator tool: wipe and regenerate all win events for one game after the
// provider corrects a score. Same pipeline as the admin recompute endpoint.
func main() {
	gameID := flag.String("game", "", "game id to recompute")
	flag.Parse()

	if *gameID == "" {
		logging.Fatal("usage: recompute_game -game <gameID>")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logging.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	poolRepo := database.NewMongoPoolRepository(db)
	gameStateRepo := database.NewMongoGameStateRepository(db)
	winEventRepo := database.NewMongoWinEventRepository(db)
	ledgerRepo := database.NewMongoScoreChangeRepository(db)

	scoringService := services.NewScoringService(poolRepo, gameStateRepo, winEventRepo, ledgerRepo)
	adminScoring := services.NewAdminScoringService(scoringService)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	outcome, err := adminScoring.Recompute(ctx, *gameID)
	if err != nil {
		logging.Fatalf("Recompute failed for game %s: %v", *gameID, err)
	}

	logging.Infof("Recomputed game %s: %d win events, %d ledger entries, completed=%t",
		*gameID, outcome.EventsInserted, outcome.LedgerAppends, outcome.Completed)
}
