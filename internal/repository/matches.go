package repository

import (
	"context"
	"database/sql"

	"curvas/internal/database"
	"curvas/internal/models"
)

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (home_team, away_team, tournament, starts_at, reward_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, home_score, away_score, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		match.HomeTeam,
		match.AwayTeam,
		match.Tournament,
		match.StartsAt,
		match.RewardAmount,
		match.Status,
	).Scan(&match.ID, &match.HomeScore, &match.AwayScore, &match.CreatedAt, &match.UpdatedAt)

	return err
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (*models.Match, error) {
	match := &models.Match{}
	query := `
		SELECT id, home_team, away_team, tournament, starts_at, reward_amount,
		       home_score, away_score, status, created_at, updated_at
		FROM matches
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.HomeTeam,
		&match.AwayTeam,
		&match.Tournament,
		&match.StartsAt,
		&match.RewardAmount,
		&match.HomeScore,
		&match.AwayScore,
		&match.Status,
		&match.CreatedAt,
		&match.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return match, err
}

func (r *MatchRepository) List(ctx context.Context, page, pageSize int) ([]models.Match, error) {
	var matches []models.Match
	query := `
		SELECT id, home_team, away_team, tournament, starts_at, reward_amount,
		       home_score, away_score, status, created_at, updated_at
		FROM matches
		ORDER BY starts_at DESC`

	var args []interface{}
	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		query += " LIMIT $1 OFFSET $2"
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID,
			&match.HomeTeam,
			&match.AwayTeam,
			&match.Tournament,
			&match.StartsAt,
			&match.RewardAmount,
			&match.HomeScore,
			&match.AwayScore,
			&match.Status,
			&match.CreatedAt,
			&match.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}

// UpdateStatus sets only the status column. Other match fields are not
// touched so concurrent score updates are never clobbered.
func (r *MatchRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE matches SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// UpdateScore sets only the score columns.
func (r *MatchRepository) UpdateScore(ctx context.Context, id int64, homeScore, awayScore int) error {
	query := `UPDATE matches SET home_score = $1, away_score = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, homeScore, awayScore, id)
	return err
}
