package repository

import (
	"context"
	"database/sql"
	"fmt"

	"curvas/internal/curva"
	"curvas/internal/database"
	apperrors "curvas/internal/errors"
	"curvas/internal/models"

	"github.com/lib/pq"
)

type CurvaRepository struct {
	db *database.DB
}

func NewCurvaRepository(db *database.DB) *CurvaRepository {
	return &CurvaRepository{db: db}
}

// Open generates a fresh 64-slot curva and appends it to the match at
// the next position.
func (r *CurvaRepository) Open(ctx context.Context, matchID int64) (*models.Curva, error) {
	c := &models.Curva{
		MatchID:          matchID,
		AvailableResults: curva.GeneratePool(),
		SoldResults:      []string{},
		Status:           models.CurvaOpen,
	}

	query := `
		INSERT INTO curvas (match_id, position, available_results, sold_results, status)
		VALUES ($1, (SELECT COALESCE(MAX(position), 0) + 1 FROM curvas WHERE match_id = $1), $2, $3, $4)
		RETURNING id, position, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		matchID,
		pq.Array(c.AvailableResults),
		pq.Array(c.SoldResults),
		c.Status,
	).Scan(&c.ID, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *CurvaRepository) GetByID(ctx context.Context, id string) (*models.Curva, error) {
	c := &models.Curva{}
	query := `
		SELECT id, match_id, position, available_results, sold_results, status, created_at, updated_at
		FROM curvas
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.MatchID,
		&c.Position,
		pq.Array(&c.AvailableResults),
		pq.Array(&c.SoldResults),
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return c, err
}

func (r *CurvaRepository) GetByMatchID(ctx context.Context, matchID int64) ([]models.Curva, error) {
	var curvas []models.Curva
	query := `
		SELECT id, match_id, position, available_results, sold_results, status, created_at, updated_at
		FROM curvas
		WHERE match_id = $1
		ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Curva
		err := rows.Scan(
			&c.ID,
			&c.MatchID,
			&c.Position,
			pq.Array(&c.AvailableResults),
			pq.Array(&c.SoldResults),
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		curvas = append(curvas, c)
	}

	return curvas, rows.Err()
}

// TakeSlots draws up to quantity random slots from one open curva of the
// match, moving them from available_results to sold_results in a single
// targeted row update. The curva row is locked FOR UPDATE for the span
// of the transaction, so concurrent purchases against the same curva
// serialize instead of losing updates.
//
// When preferredID is non-empty that curva is tried first; otherwise the
// lowest-position open curva with availability is used. Returns an empty
// curva id when no open curva has availability.
func (r *CurvaRepository) TakeSlots(ctx context.Context, matchID int64, quantity int, preferredID string) (curvaID string, drawn []string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, err
	}
	defer tx.Rollback()

	var (
		id        string
		available []string
		sold      []string
	)

	lockQuery := `
		SELECT id, available_results, sold_results
		FROM curvas
		WHERE match_id = $1 AND status = 'OPEN' AND cardinality(available_results) > 0`
	if preferredID != "" {
		lockQuery += ` ORDER BY (id::text = $2) DESC, position LIMIT 1 FOR UPDATE`
		err = tx.QueryRowContext(ctx, lockQuery, matchID, preferredID).Scan(&id, pq.Array(&available), pq.Array(&sold))
	} else {
		lockQuery += ` ORDER BY position LIMIT 1 FOR UPDATE`
		err = tx.QueryRowContext(ctx, lockQuery, matchID).Scan(&id, pq.Array(&available), pq.Array(&sold))
	}
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, nil
		}
		return "", nil, err
	}

	if len(available)+len(sold) != curva.PoolSize {
		return "", nil, fmt.Errorf("curva %s holds %d slots: %w",
			id, len(available)+len(sold), apperrors.ErrMalformedCurva)
	}

	// Full per-curva batch is computed in memory before any write.
	drawn, remaining := curva.Draw(available, quantity)
	sold = append(sold, drawn...)

	status := models.CurvaOpen
	if len(remaining) == 0 {
		status = models.CurvaSoldOut
	}

	updateQuery := `
		UPDATE curvas
		SET available_results = $1, sold_results = $2, status = $3, updated_at = NOW()
		WHERE id = $4`
	if _, err := tx.ExecContext(ctx, updateQuery, pq.Array(remaining), pq.Array(sold), status, id); err != nil {
		return "", nil, fmt.Errorf("failed to update curva %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return "", nil, err
	}

	return id, drawn, nil
}

// CloseAllForMatch forces every curva of the match to CLOSED regardless
// of fill state. No allocation is possible afterwards.
func (r *CurvaRepository) CloseAllForMatch(ctx context.Context, matchID int64) error {
	query := `UPDATE curvas SET status = $1, updated_at = NOW() WHERE match_id = $2`
	_, err := r.db.ExecContext(ctx, query, models.CurvaClosed, matchID)
	return err
}
