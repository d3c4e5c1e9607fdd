// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateQuestionRequest: text, creator_id, author_anonymous, expires_at
  - CastVoteRequest: voter_id, voter_kind, value, is_anonymous, reasoning
  - FollowRequest: follower_id
  - UpsertProfileRequest: display_name

# Response Types

Types for JSON responses:

  - CreateQuestionResponse: question_id
  - CastVoteResponse: accepted, retracted, aggregate
  - RetractVoteResponse: aggregate
  - VotersResponse: named_voters, anonymous_counts
  - StatsResponse: mind_changes, streak_days
  - TimelineResponse: entries
  - ErrorResponse: error, code, message

# Domain Types

Internal data structures:

  - Question: question text, authorship, expiry, denormalized aggregate
  - Vote: one voter's current position on one question
  - Aggregate: counts and integer percentages per question
  - HistoryEntry: one vote transition (initial, revote, or retraction)
  - NamedVoter: a disclosed voter as rendered for a viewer
  - CompatibilityResult, CommonGroundItem, DivergenceItem: pairwise analysis

# Constants

Vote values:

	VoteYes    = "yes"
	VoteNo     = "no"
	VoteUnsure = "unsure"

Voter kinds:

	KindHuman = "human"
	KindAI    = "ai"

# Errors

Sentinel errors (ErrExpiredPoll, ErrInvalidValue, ...) and their API codes
(EXPIRED_POLL, INVALID_VALUE, ...) live in errors.go. Handlers translate
sentinels to HTTP status codes; the sentinels themselves carry no transport
concerns.
*/
package models
