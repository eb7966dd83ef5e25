package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createMatchesTable,
		createCurvasTable,
		createTicketNumbersSequence,
		createTicketsTable,
		createHouseWinsHistoryTable,
		createTicketsMatchIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    user_id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL DEFAULT '',
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL DEFAULT '',
    registered_at TIMESTAMP NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_logged_in TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createMatchesTable = `
CREATE TABLE IF NOT EXISTS matches (
    id SERIAL PRIMARY KEY,
    home_team VARCHAR(200) NOT NULL,
    away_team VARCHAR(200) NOT NULL,
    tournament VARCHAR(200) NOT NULL,
    starts_at TIMESTAMP NOT NULL,
    reward_amount BIGINT NOT NULL DEFAULT 0,
    home_score INTEGER NOT NULL DEFAULT 0,
    away_score INTEGER NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('PENDING', 'IN_PROGRESS', 'FINISHED'))
);`

const createCurvasTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS curvas (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    available_results TEXT[] NOT NULL,
    sold_results TEXT[] NOT NULL DEFAULT '{}',
    status VARCHAR(20) NOT NULL DEFAULT 'OPEN',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(match_id, position),
    CHECK (status IN ('OPEN', 'CLOSED', 'SOLD_OUT'))
);`

const createTicketNumbersSequence = `
CREATE SEQUENCE IF NOT EXISTS ticket_numbers START 1;`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    ticket_number BIGINT UNIQUE NOT NULL DEFAULT nextval('ticket_numbers'),
    match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    curva_id UUID NOT NULL REFERENCES curvas(id),
    results_purchased TEXT[] NOT NULL,
    payed_amount BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    closed BOOLEAN NOT NULL DEFAULT FALSE,
    reward_amount BIGINT,
    seller_id INTEGER REFERENCES users(user_id),
    payment_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    payment_id VARCHAR(255),
    order_id VARCHAR(255),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('PENDING', 'WON', 'LOST')),
    CHECK (payment_status IN ('PENDING', 'APPROVED', 'DECLINED'))
);`

const createHouseWinsHistoryTable = `
CREATE TABLE IF NOT EXISTS house_wins_history (
    id SERIAL PRIMARY KEY,
    match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
    reason VARCHAR(20) NOT NULL,
    home_score INTEGER,
    away_score INTEGER,
    tickets_count INTEGER NOT NULL DEFAULT 0,
    total_amount BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (reason IN ('high_score', 'no_winners'))
);`

const createTicketsMatchIndex = `
CREATE INDEX IF NOT EXISTS tickets_match_id_idx ON tickets (match_id);
CREATE INDEX IF NOT EXISTS tickets_user_id_idx ON tickets (user_id);
CREATE INDEX IF NOT EXISTS curvas_match_id_idx ON curvas (match_id);`
