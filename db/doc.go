// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is written to the dialect subset shared by PostgreSQL and SQLite, so
the same schema serves production and the in-memory test databases.

# Tables

The schema includes:

  - question: text, authorship, expiry, and the denormalized tally
  - vote: one row per (voter_id, question_id, voter_kind)
  - vote_history: append-only transition log
  - follow: follower → followee edges
  - profile: display names pushed from the identity service

# Relationships

	question 1──* vote
	question 1──* vote_history (no FK; the log outlives the question)

vote rows cascade on question deletion. vote_history deliberately carries no
foreign key so the audit trail survives question removal.

# Indexes

Performance indexes on:

  - question.creator_id
  - vote.question_id
  - vote.(voter_id, voter_kind)
  - vote_history.(voter_id, changed_at)
  - follow.followee_id
*/
package db
