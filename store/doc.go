// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer: questions, votes, the transition
log, follows, and profiles, all over database/sql.

# Vote Transitions

ApplyVote is the heart of the package. It runs one transaction that

 1. inserts, replaces, or (on an identical resubmission) deletes the
    vote row,
 2. adjusts the question's denormalized counters by the delta of that
    change and recomputes the integer percentages, and
 3. appends the transition to vote_history.

Either everything commits or nothing does, so the aggregate can never
drift from the rows mid-flight. Transient contention (SQLite busy,
serialization failures, deadlocks) is retried a bounded number of times
before surfacing models.ErrConflict.

# Reconciliation

ReconcileAggregate recounts a question's tally from the vote rows and
overwrites the denormalized counters, for operator use after a crash or a
manual data fix.

# History Projections

ListHistory, MindChanges, and Streak read the append-only vote_history
table. ComputeStreak is exported separately because the day-boundary logic
(consecutive local days, counting from today or yesterday) is worth testing
without a database.
*/
package store
