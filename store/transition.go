// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/sayso/models"
)

// maxTxRetries bounds the internal retry loop for transient commit
// conflicts on the aggregate row.
const maxTxRetries = 3

// VoteOutcome describes what a vote transition did. Previous is nil for an
// initial vote; Current is nil after a retraction. FirstVote is true only
// for the voter's first vote ever on the question, judged against the
// history log, so a retract-and-return never reads as a first vote.
type VoteOutcome struct {
	Aggregate models.Aggregate
	Previous  *string
	Current   *string
	Retracted bool
	FirstVote bool
}

// ApplyVote applies one vote transition for (voterID, questionID, voterKind)
// as a single transaction: the vote row change, the relative counter
// adjustment, the percentage recompute, and the history append all commit
// together or not at all. Resubmitting the value already held retracts the
// vote (idempotent toggle).
func (s *Store) ApplyVote(voterID, questionID, voterKind, value string, isAnonymous bool, reasoning *string) (VoteOutcome, error) {
	var out VoteOutcome
	err := s.withRetry(func(tx *sql.Tx) error {
		out = VoteOutcome{}
		now := time.Now().UTC()

		var prev string
		err := tx.QueryRow(`
			SELECT value FROM vote
			WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
		`, voterID, questionID, voterKind).Scan(&prev)
		switch {
		case err == sql.ErrNoRows:
			// No current vote. "First" means first ever, not first current:
			// a voter who retracted and came back already left history
			// entries, and their return must not look like a first vote.
			var prior int
			if err := tx.QueryRow(`
				SELECT COUNT(*) FROM vote_history
				WHERE voter_id = $1 AND question_id = $2
			`, voterID, questionID).Scan(&prior); err != nil {
				return fmt.Errorf("failed to count prior transitions: %w", err)
			}
			_, err = tx.Exec(`
				INSERT INTO vote (voter_id, question_id, voter_kind, value, is_anonymous, reasoning, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, voterID, questionID, voterKind, value, isAnonymous, reasoning, now)
			if err != nil {
				return fmt.Errorf("failed to insert vote: %w", err)
			}
			out.Current = &value
			out.FirstVote = prior == 0
			if err := appendHistory(tx, voterID, questionID, nil, &value, now); err != nil {
				return err
			}
			return s.adjustAggregate(tx, questionID, nil, &value, &out)

		case err != nil:
			return fmt.Errorf("failed to query current vote: %w", err)

		case prev == value:
			// Toggle: resubmitting the held value retracts the vote
			_, err = tx.Exec(`
				DELETE FROM vote
				WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
			`, voterID, questionID, voterKind)
			if err != nil {
				return fmt.Errorf("failed to delete vote: %w", err)
			}
			out.Previous = &prev
			out.Retracted = true
			if err := appendHistory(tx, voterID, questionID, &prev, nil, now); err != nil {
				return err
			}
			return s.adjustAggregate(tx, questionID, &prev, nil, &out)

		default:
			// Revote with a different value
			_, err = tx.Exec(`
				UPDATE vote SET value = $1, is_anonymous = $2, reasoning = $3, updated_at = $4
				WHERE voter_id = $5 AND question_id = $6 AND voter_kind = $7
			`, value, isAnonymous, reasoning, now, voterID, questionID, voterKind)
			if err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
			out.Previous = &prev
			out.Current = &value
			if err := appendHistory(tx, voterID, questionID, &prev, &value, now); err != nil {
				return err
			}
			return s.adjustAggregate(tx, questionID, &prev, &value, &out)
		}
	})
	return out, err
}

// RetractVote deletes the voter's current vote and decrements the aggregate.
// Retracting a vote that does not exist is a no-op returning the current
// aggregate.
func (s *Store) RetractVote(voterID, questionID, voterKind string) (VoteOutcome, error) {
	var out VoteOutcome
	err := s.withRetry(func(tx *sql.Tx) error {
		out = VoteOutcome{}
		now := time.Now().UTC()

		var prev string
		err := tx.QueryRow(`
			SELECT value FROM vote
			WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
		`, voterID, questionID, voterKind).Scan(&prev)
		if err == sql.ErrNoRows {
			return s.adjustAggregate(tx, questionID, nil, nil, &out)
		}
		if err != nil {
			return fmt.Errorf("failed to query current vote: %w", err)
		}

		_, err = tx.Exec(`
			DELETE FROM vote
			WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
		`, voterID, questionID, voterKind)
		if err != nil {
			return fmt.Errorf("failed to delete vote: %w", err)
		}
		out.Previous = &prev
		out.Retracted = true
		if err := appendHistory(tx, voterID, questionID, &prev, nil, now); err != nil {
			return err
		}
		return s.adjustAggregate(tx, questionID, &prev, nil, &out)
	})
	return out, err
}

// adjustAggregate applies the decrement/increment pair for one transition as
// a relative update, then recomputes percentages from the post-update row.
// Runs inside the transition's transaction, so a half-applied pair is
// impossible. The relative update is the single required critical section:
// the row lock it takes serializes concurrent transitions on one question.
func (s *Store) adjustAggregate(tx *sql.Tx, questionID string, oldValue, newValue *string, out *VoteOutcome) error {
	var dYes, dNo, dUnsure int
	bump := func(v *string, delta int) {
		if v == nil {
			return
		}
		switch *v {
		case models.VoteYes:
			dYes += delta
		case models.VoteNo:
			dNo += delta
		case models.VoteUnsure:
			dUnsure += delta
		}
	}
	bump(oldValue, -1)
	bump(newValue, +1)

	if dYes != 0 || dNo != 0 || dUnsure != 0 {
		res, err := tx.Exec(`
			UPDATE question SET
				yes_count = yes_count + $1,
				no_count = no_count + $2,
				unsure_count = unsure_count + $3,
				total_votes = total_votes + $4
			WHERE id = $5
		`, dYes, dNo, dUnsure, dYes+dNo+dUnsure, questionID)
		if err != nil {
			return fmt.Errorf("failed to adjust aggregate: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrQuestionNotFound
		}
	}

	var a models.Aggregate
	err := tx.QueryRow(`
		SELECT yes_count, no_count, unsure_count, total_votes
		FROM question WHERE id = $1
	`, questionID).Scan(&a.YesCount, &a.NoCount, &a.UnsureCount, &a.TotalVotes)
	if err == sql.ErrNoRows {
		return models.ErrQuestionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read adjusted aggregate: %w", err)
	}

	a.YesPct, a.NoPct, a.UnsurePct = percentages(a.YesCount, a.NoCount, a.TotalVotes)
	_, err = tx.Exec(`
		UPDATE question SET yes_pct = $1, no_pct = $2, unsure_pct = $3 WHERE id = $4
	`, a.YesPct, a.NoPct, a.UnsurePct, questionID)
	if err != nil {
		return fmt.Errorf("failed to update percentages: %w", err)
	}

	out.Aggregate = a
	return nil
}

// ReconcileAggregate recomputes a question's aggregate from the raw vote
// rows and overwrites the denormalized columns, correcting any drift the
// incremental maintenance may have accumulated.
func (s *Store) ReconcileAggregate(questionID string) (models.Aggregate, error) {
	var a models.Aggregate
	err := s.withRetry(func(tx *sql.Tx) error {
		a = models.Aggregate{}
		rows, err := tx.Query(`
			SELECT value, COUNT(*) FROM vote WHERE question_id = $1 GROUP BY value
		`, questionID)
		if err != nil {
			return fmt.Errorf("failed to count votes: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var value string
			var n int
			if err := rows.Scan(&value, &n); err != nil {
				return fmt.Errorf("failed to scan vote count: %w", err)
			}
			switch value {
			case models.VoteYes:
				a.YesCount = n
			case models.VoteNo:
				a.NoCount = n
			case models.VoteUnsure:
				a.UnsureCount = n
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}

		a.TotalVotes = a.YesCount + a.NoCount + a.UnsureCount
		a.YesPct, a.NoPct, a.UnsurePct = percentages(a.YesCount, a.NoCount, a.TotalVotes)

		res, err := tx.Exec(`
			UPDATE question SET
				yes_count = $1, no_count = $2, unsure_count = $3, total_votes = $4,
				yes_pct = $5, no_pct = $6, unsure_pct = $7
			WHERE id = $8
		`, a.YesCount, a.NoCount, a.UnsureCount, a.TotalVotes, a.YesPct, a.NoPct, a.UnsurePct, questionID)
		if err != nil {
			return fmt.Errorf("failed to write reconciled aggregate: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ErrQuestionNotFound
		}
		return nil
	})
	return a, err
}

// percentages rounds yes and no independently and assigns the remainder to
// unsure so the three always sum to exactly 100 when total > 0. Rounding can
// overshoot when the unsure bucket is empty; the excess comes out of the
// larger of the other two.
func percentages(yes, no, total int) (yesPct, noPct, unsurePct int) {
	if total == 0 {
		return 0, 0, 0
	}
	yesPct = int(math.Round(float64(yes) / float64(total) * 100))
	noPct = int(math.Round(float64(no) / float64(total) * 100))
	unsurePct = 100 - yesPct - noPct
	if unsurePct < 0 {
		if yesPct >= noPct {
			yesPct += unsurePct
		} else {
			noPct += unsurePct
		}
		unsurePct = 0
	}
	return yesPct, noPct, unsurePct
}

// appendHistory writes one immutable transition record inside the
// transition's transaction.
func appendHistory(tx *sql.Tx, voterID, questionID string, previous, next *string, at time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO vote_history (id, voter_id, question_id, previous_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), voterID, questionID, previous, next, at)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// withRetry runs fn in a transaction, retrying a bounded number of times on
// transient lock or serialization failures. Validation and not-found errors
// pass through untouched.
func (s *Store) withRetry(fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		err = s.runTx(fn)
		if err == nil || !isTransient(err) {
			return err
		}
		slog.Warn("transient conflict on vote transition, retrying", "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%w: %v", models.ErrConflict, err)
}

func (s *Store) runTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isTransient matches the lock and serialization failures worth retrying,
// by driver error text the same way constraint violations are matched.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || // sqlite
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "could not serialize access") || // pq
		strings.Contains(msg, "deadlock detected")
}

// isUniqueViolation matches duplicate-key failures across both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // pq
}
