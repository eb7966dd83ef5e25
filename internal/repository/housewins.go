package repository

import (
	"context"

	"curvas/internal/database"
	"curvas/internal/models"
)

type HouseWinsRepository struct {
	db *database.DB
}

func NewHouseWinsRepository(db *database.DB) *HouseWinsRepository {
	return &HouseWinsRepository{db: db}
}

// Create appends an audit record. Rows are never updated or deleted.
func (r *HouseWinsRepository) Create(ctx context.Context, record *models.HouseWinsHistory) error {
	query := `
		INSERT INTO house_wins_history (match_id, reason, home_score, away_score, tickets_count, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		record.MatchID,
		record.Reason,
		record.HomeScore,
		record.AwayScore,
		record.TicketsCount,
		record.TotalAmount,
	).Scan(&record.ID, &record.CreatedAt)

	return err
}

func (r *HouseWinsRepository) GetByMatchID(ctx context.Context, matchID int64) ([]models.HouseWinsHistory, error) {
	var records []models.HouseWinsHistory
	query := `
		SELECT id, match_id, reason, home_score, away_score, tickets_count, total_amount, created_at
		FROM house_wins_history
		WHERE match_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.HouseWinsHistory
		err := rows.Scan(
			&rec.ID,
			&rec.MatchID,
			&rec.Reason,
			&rec.HomeScore,
			&rec.AwayScore,
			&rec.TicketsCount,
			&rec.TotalAmount,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
