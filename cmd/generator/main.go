package main

import (
	"context"
	"crypto/sha256"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"curvas/internal/config"
	"curvas/internal/database"
	"curvas/internal/models"
	"curvas/internal/repository"
)

var (
	matchCount  = flag.Int("matches", 10, "Number of matches to generate")
	sellerCount = flag.Int("sellers", 5, "Number of seller accounts to generate")
	dryRun      = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

var teams = []string{
	"Junior", "Nacional", "Medellin", "Millonarios", "Santa Fe",
	"America", "Cali", "Tolima", "Once Caldas", "Bucaramanga",
}

type Generator struct {
	repos *repository.Repositories
}

func main() {
	flag.Parse()

	slog.Info("Starting data generator...")

	cfg := config.Load()
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	g := &Generator{repos: repository.NewRepositories(db)}

	if err := g.GenerateSellers(); err != nil {
		slog.Error("Failed to generate sellers", "error", err)
		os.Exit(1)
	}
	if err := g.GenerateMatches(); err != nil {
		slog.Error("Failed to generate matches", "error", err)
		os.Exit(1)
	}

	slog.Info("Data generation completed successfully!")
}

func (g *Generator) GenerateSellers() error {
	ctx := context.Background()

	for i := 1; i <= *sellerCount; i++ {
		email := fmt.Sprintf("seller%d@curvas.local", i)

		existing, err := g.repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		if *dryRun {
			slog.Info("Would create seller", "email", email)
			continue
		}

		hash := sha256.Sum256([]byte(fmt.Sprintf("seller%d", i)))
		user := &models.User{
			Email:        email,
			PasswordHash: fmt.Sprintf("%x", hash),
			FirstName:    fmt.Sprintf("Seller %d", i),
			Surname:      "POS",
			IsActive:     true,
		}
		if err := g.repos.Users.Create(ctx, user); err != nil {
			return err
		}
		slog.Info("Created seller", "email", email, "user_id", user.UserID)
	}

	return nil
}

func (g *Generator) GenerateMatches() error {
	ctx := context.Background()

	for i := 0; i < *matchCount; i++ {
		home := teams[rand.Intn(len(teams))]
		away := teams[rand.Intn(len(teams))]
		for away == home {
			away = teams[rand.Intn(len(teams))]
		}

		match := &models.Match{
			HomeTeam:     home,
			AwayTeam:     away,
			Tournament:   "Liga BetPlay",
			StartsAt:     time.Now().Add(time.Duration(24+rand.Intn(14*24)) * time.Hour),
			RewardAmount: int64(100000 * (1 + rand.Intn(10))),
			Status:       models.MatchPending,
		}

		if *dryRun {
			slog.Info("Would create match", "home", home, "away", away, "starts_at", match.StartsAt)
			continue
		}

		if err := g.repos.Matches.Create(ctx, match); err != nil {
			return err
		}
		if _, err := g.repos.Curvas.Open(ctx, match.ID); err != nil {
			return err
		}
		slog.Info("Created match", "match_id", match.ID, "home", home, "away", away)
	}

	return nil
}
