package repository

import (
	"context"

	"curvas/internal/models"
	"curvas/internal/search"
)

// MatchSearchRepository wraps the Elasticsearch client behind the same
// shape the services use for Postgres repositories.
type MatchSearchRepository struct {
	es *search.ElasticsearchClient
}

func NewMatchSearchRepository(es *search.ElasticsearchClient) *MatchSearchRepository {
	return &MatchSearchRepository{es: es}
}

func (r *MatchSearchRepository) Search(ctx context.Context, query, date string, page, pageSize int) ([]models.Match, error) {
	return r.es.Search(ctx, query, date, page, pageSize)
}

func (r *MatchSearchRepository) Index(ctx context.Context, match *models.Match) error {
	return r.es.IndexMatch(ctx, match)
}

func (r *MatchSearchRepository) Count(ctx context.Context, query, date string) (int64, error) {
	return r.es.Count(ctx, query, date)
}
