// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the sayso API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, dispatcher)

# Endpoints

Health:

	GET /health

Questions:

	POST   /questions                 - Create question
	GET    /questions/{id}            - Question with aggregate
	DELETE /questions/{id}            - Delete (creator only, X-User-ID)
	POST   /questions/{id}/reconcile  - Recount the aggregate from rows

Voting:

	POST   /questions/{id}/votes    - Cast or toggle a vote
	DELETE /questions/{id}/votes    - Retract
	GET    /questions/{id}/my-vote  - Caller's current vote

Results:

	GET /questions/{id}/aggregate - Counts and percentages
	GET /questions/{id}/voters    - Voter list filtered by visibility

Compatibility:

	GET /compat/{a}/{b}               - Score and tallies
	GET /compat/{a}/{b}/common-ground - Shared answers, most divisive first
	GET /compat/{a}/{b}/divergence    - Conflicting answers, newest first

Profiles:

	GET    /profiles/{id}/history - Vote timeline
	GET    /profiles/{id}/stats   - Mind changes and streak
	POST   /profiles/{id}/follow  - Follow
	DELETE /profiles/{id}/follow  - Unfollow
	PUT    /profiles/{id}         - Upsert display name

# Handler Initialization

The router builds the store, visibility resolver, compatibility engine, and
vote service once and injects them into the handlers. The notification
dispatcher is owned by main and passed in so its lifecycle outlives any one
request.
*/
package router
