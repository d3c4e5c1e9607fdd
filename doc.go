// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the sayso API server.

sayso is a social opinion service: short yes/no/unsure questions, one vote
per voter per question, live percentage tallies, and pairwise compatibility
scores between voters (including an AI persona that votes with published
reasoning).

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3319 -d "postgres://..." -t postgres

A local SQLite file works for development:

	go run main.go -d "file:sayso.db" -t sqlite

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): server port (default: 3319)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - AI_PERSONA_ID (-ai-id): user id the AI votes under (default: sage)
  - AI_PERSONA_NAME (-ai-name): display name for the persona (default: Sage)
  - NOTIFY_QUEUE_SIZE (-notify-queue): notification buffer (default: 256)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (questions, voting, results, compat, profiles)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response and domain types
  - store: persistence and the vote transition logic
  - vote: orchestration of validation, persistence, and notification
  - visibility: per-viewer disclosure of voter identities
  - compat: pairwise compatibility scoring
  - notify: asynchronous notification fan-out
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
