// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is restricted to the dialect shared by PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Questions, with the denormalized aggregate maintained by the store
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    creator_id TEXT,
    author_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    expires_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    yes_count INTEGER NOT NULL DEFAULT 0,
    no_count INTEGER NOT NULL DEFAULT 0,
    unsure_count INTEGER NOT NULL DEFAULT 0,
    total_votes INTEGER NOT NULL DEFAULT 0,
    yes_pct INTEGER NOT NULL DEFAULT 0,
    no_pct INTEGER NOT NULL DEFAULT 0,
    unsure_pct INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_question_creator ON question(creator_id);

-- Current votes: one row per (voter, question, kind); revotes replace,
-- retractions delete
CREATE TABLE IF NOT EXISTS vote (
    voter_id TEXT NOT NULL,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    voter_kind TEXT NOT NULL CHECK (voter_kind IN ('human', 'ai')),
    value TEXT NOT NULL CHECK (value IN ('yes', 'no', 'unsure')),
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    reasoning TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (voter_id, question_id, voter_kind)
);

CREATE INDEX IF NOT EXISTS idx_vote_question ON vote(question_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id, voter_kind);

-- Append-only transition log. No foreign key to question: the audit trail
-- outlives question deletion.
CREATE TABLE IF NOT EXISTS vote_history (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    previous_value TEXT,
    new_value TEXT,
    changed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_vote_history_voter ON vote_history(voter_id, changed_at);

-- Follow graph, used as the fan-out target set for first-vote notifications
CREATE TABLE IF NOT EXISTS follow (
    follower_id TEXT NOT NULL,
    followee_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (follower_id, followee_id)
);

CREATE INDEX IF NOT EXISTS idx_follow_followee ON follow(followee_id);

-- Local projection of the external identity service, consulted when a
-- voter's identity may be disclosed
CREATE TABLE IF NOT EXISTS profile (
    user_id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL
);
`
