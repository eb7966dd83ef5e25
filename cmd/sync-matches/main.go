package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"curvas/internal/config"
	"curvas/internal/database"
	"curvas/internal/logger"
	"curvas/internal/repository"
	"curvas/internal/search"
)

func main() {
	var pageSize int
	flag.IntVar(&pageSize, "page-size", 100, "Matches fetched per database page")
	flag.Parse()

	logger.Init("info", "json")
	slog.Info("Starting match index synchronization")

	cfg := config.Load()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	matchRepo := repository.NewMatchRepository(db)
	searchRepo := repository.NewMatchSearchRepository(esClient)

	if err := syncMatches(context.Background(), matchRepo, searchRepo, pageSize); err != nil {
		log.Fatalf("Match synchronization failed: %v", err)
	}

	slog.Info("Match synchronization completed successfully")
}

// syncMatches pages through Postgres and reindexes every match. The
// index write is idempotent, rerunning the sync is always safe.
func syncMatches(ctx context.Context, matchRepo *repository.MatchRepository, searchRepo *repository.MatchSearchRepository, pageSize int) error {
	start := time.Now()
	indexed := 0

	for page := 1; ; page++ {
		matches, err := matchRepo.List(ctx, page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to list matches page %d: %w", page, err)
		}
		if len(matches) == 0 {
			break
		}

		for i := range matches {
			if err := searchRepo.Index(ctx, &matches[i]); err != nil {
				return fmt.Errorf("failed to index match %d: %w", matches[i].ID, err)
			}
			indexed++
		}

		slog.Info("Indexed match page", "page", page, "count", len(matches))

		if len(matches) < pageSize {
			break
		}
	}

	slog.Info("Reindex finished", "matches", indexed, "elapsed", time.Since(start).String())
	return nil
}
