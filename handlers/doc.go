// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the sayso API.

# Handler Types

Each handler is a struct created via a constructor that accepts its
dependencies:

  - QuestionHandler: question lifecycle (create, read, delete, reconcile)
  - VotingHandler: casting, toggling, and retracting votes
  - ResultsHandler: aggregates and per-viewer voter lists
  - CompatHandler: pairwise compatibility, common ground, divergence
  - ProfileHandler: timelines, stats, follows, display names

# Voting Flow

	POST   /questions/{id}/votes   → CastVote
	DELETE /questions/{id}/votes   → RetractVote
	GET    /questions/{id}/my-vote → GetMyVote

Casting replaces any previous vote by the same (voter, question, kind).
Resubmitting the value the voter already holds retracts the vote instead;
the response carries retracted: true and the updated aggregate.

# Error Codes

Domain failures map to stable API codes via writeDomainError:

	EXPIRED_POLL                   409  voting window closed
	INVALID_VALUE                  400  malformed vote or question
	VOTER_KIND_ANONYMITY_CONFLICT  400  AI votes cannot be anonymous
	CONFLICT                       503  transient contention, retry

# Identity

Read paths that render other voters take the viewer from the viewer_id
query parameter. Self-scoped operations (my-vote, question deletion) take
the requester from the X-User-ID header set by the session layer upstream
of this service, since their responses may disclose the caller's own
anonymous activity.
*/
package handlers
