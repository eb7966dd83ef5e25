package service

import (
	"context"
	"fmt"
	"sync"

	"curvas/internal/curva"
	"curvas/internal/models"
)

// In-memory stores backing the service tests.

type fakeMatchStore struct {
	mu      sync.Mutex
	nextID  int64
	matches map[int64]*models.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{matches: make(map[int64]*models.Match)}
}

func (f *fakeMatchStore) Create(_ context.Context, match *models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	match.ID = f.nextID
	stored := *match
	f.matches[match.ID] = &stored
	return nil
}

func (f *fakeMatchStore) GetByID(_ context.Context, id int64) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatchStore) List(_ context.Context, _, _ int) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Match, 0, len(f.matches))
	for _, m := range f.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMatchStore) UpdateStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return fmt.Errorf("match %d not found", id)
	}
	m.Status = status
	return nil
}

func (f *fakeMatchStore) UpdateScore(_ context.Context, id int64, homeScore, awayScore int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return fmt.Errorf("match %d not found", id)
	}
	m.HomeScore = homeScore
	m.AwayScore = awayScore
	return nil
}

type fakeCurvaStore struct {
	mu     sync.Mutex
	nextID int
	order  []string
	curvas map[string]*models.Curva
}

func newFakeCurvaStore() *fakeCurvaStore {
	return &fakeCurvaStore{curvas: make(map[string]*models.Curva)}
}

func (f *fakeCurvaStore) Open(_ context.Context, matchID int64) (*models.Curva, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	position := 0
	for _, c := range f.curvas {
		if c.MatchID == matchID && c.Position > position {
			position = c.Position
		}
	}
	c := &models.Curva{
		ID:               fmt.Sprintf("curva-%d", f.nextID),
		MatchID:          matchID,
		Position:         position + 1,
		AvailableResults: curva.GeneratePool(),
		SoldResults:      []string{},
		Status:           models.CurvaOpen,
	}
	f.curvas[c.ID] = c
	f.order = append(f.order, c.ID)
	copied := *c
	return &copied, nil
}

func (f *fakeCurvaStore) GetByID(_ context.Context, id string) (*models.Curva, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.curvas[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCurvaStore) GetByMatchID(_ context.Context, matchID int64) ([]models.Curva, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Curva, 0)
	for _, id := range f.order {
		if f.curvas[id].MatchID == matchID {
			out = append(out, *f.curvas[id])
		}
	}
	return out, nil
}

func (f *fakeCurvaStore) TakeSlots(_ context.Context, matchID int64, quantity int, preferredID string) (string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := make([]string, 0, len(f.order))
	if preferredID != "" {
		candidates = append(candidates, preferredID)
	}
	candidates = append(candidates, f.order...)

	for _, id := range candidates {
		c, ok := f.curvas[id]
		if !ok || c.MatchID != matchID || c.Status != models.CurvaOpen || len(c.AvailableResults) == 0 {
			continue
		}
		drawn, remaining := curva.Draw(c.AvailableResults, quantity)
		c.AvailableResults = remaining
		c.SoldResults = append(c.SoldResults, drawn...)
		if len(remaining) == 0 {
			c.Status = models.CurvaSoldOut
		}
		return id, drawn, nil
	}
	return "", nil, nil
}

func (f *fakeCurvaStore) CloseAllForMatch(_ context.Context, matchID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.curvas {
		if c.MatchID == matchID && c.Status != models.CurvaClosed {
			c.Status = models.CurvaClosed
		}
	}
	return nil
}

type fakeTicketStore struct {
	mu      sync.Mutex
	nextID  int64
	tickets map[int64]*models.Ticket
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[int64]*models.Ticket)}
}

func (f *fakeTicketStore) Create(_ context.Context, ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ticket.ID = f.nextID
	ticket.TicketNumber = f.nextID
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, id int64) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketStore) GetByUserID(_ context.Context, userID int64) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Ticket, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.tickets[id]; ok && t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) GetByMatchID(_ context.Context, matchID int64) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Ticket, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.tickets[id]; ok && t.MatchID == matchID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) GetByCurvaID(_ context.Context, curvaID string) ([]models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Ticket, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if t, ok := f.tickets[id]; ok && t.CurvaID == curvaID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) GetByPaymentID(_ context.Context, paymentID string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.PaymentID != nil && *t.PaymentID == paymentID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketStore) GetByOrderID(_ context.Context, orderID string) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.OrderID != nil && *t.OrderID == orderID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketStore) Settle(_ context.Context, id int64, status string, rewardAmount *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %d not found", id)
	}
	t.Status = status
	t.Closed = true
	t.RewardAmount = rewardAmount
	return nil
}

func (f *fakeTicketStore) UpdatePayment(_ context.Context, id int64, paymentStatus string, paymentID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %d not found", id)
	}
	t.PaymentStatus = paymentStatus
	if paymentID != nil {
		t.PaymentID = paymentID
	}
	return nil
}

type fakeHouseWinsStore struct {
	mu      sync.Mutex
	failErr error
	records []models.HouseWinsHistory
}

func (f *fakeHouseWinsStore) Create(_ context.Context, record *models.HouseWinsHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.records = append(f.records, *record)
	return nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.UserID = f.nextID
	stored := *user
	f.users[user.Email] = &stored
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	subject string
	payload interface{}
}

func (f *fakePublisher) Publish(subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{subject: subject, payload: data})
	return nil
}

func (f *fakePublisher) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.subject)
	}
	return out
}
