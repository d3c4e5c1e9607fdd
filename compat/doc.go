// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package compat computes pairwise opinion compatibility from current votes.

The engine self-joins the vote table for the questions both users have
answered. Anonymous votes are excluded for distinct users and only counted
when a user is compared against themselves, so anonymity cannot be probed
through score changes.

	engine := compat.NewEngine(db, cfg.AIPersonaID)
	result, err := engine.Compute("alice", "bob")

Compute returns the agreement share as an integer score (agreements divided
by common questions, rounded); no overlap scores 0. CommonGround lists
shared answers ranked by how divisive each question is overall, Divergence
lists conflicting answers newest first. Comparing a user with the AI
persona works the same way; the persona's votes are looked up under the AI
voter kind.
*/
package compat
