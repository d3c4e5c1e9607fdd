// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote orchestrates a vote submission end to end: validation, expiry
checks, the store transition, and notification fan-out.

	svc := vote.NewService(st, dispatcher, cfg.AIPersonaID)
	resp, err := svc.Cast(questionID, req)

Validation rejects unknown values and kinds, and the AI persona voting
anonymously (its whole point is a public, reasoned position). Notifications
fire only after the transaction commits, only for a voter's first public
vote on a question, and never block or fail the request.
*/
package vote
