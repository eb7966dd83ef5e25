package repository

import (
	"curvas/internal/database"
	"curvas/internal/search"
)

type Repositories struct {
	Matches   *MatchRepository
	Curvas    *CurvaRepository
	Tickets   *TicketRepository
	HouseWins *HouseWinsRepository
	Users     *UserRepository
	Search    *MatchSearchRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Matches:   NewMatchRepository(db),
		Curvas:    NewCurvaRepository(db),
		Tickets:   NewTicketRepository(db),
		HouseWins: NewHouseWinsRepository(db),
		Users:     NewUserRepository(db),
	}
}

func NewRepositoriesWithElasticsearch(db *database.DB, es *search.ElasticsearchClient) *Repositories {
	repos := NewRepositories(db)
	repos.Search = NewMatchSearchRepository(es)
	return repos
}
