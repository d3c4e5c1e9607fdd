// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package compat

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/sayso/models"
)

// Engine computes pairwise opinion compatibility from current vote rows.
// It is read-only: it never touches the denormalized aggregate except to
// read controversy percentages, so it needs no locking and tolerates
// slightly stale tallies.
type Engine struct {
	db   *sql.DB
	aiID string
}

func NewEngine(db *sql.DB, aiPersonaID string) *Engine {
	return &Engine{db: db, aiID: aiPersonaID}
}

// sharedVote is one question where both compared users hold a current vote.
type sharedVote struct {
	questionID string
	text       string
	valueA     string
	valueB     string
	updatedA   time.Time
	updatedB   time.Time
	yesPct     int
	noPct      int
	unsurePct  int
}

// kindFor maps a compared user id onto the voter kind holding their votes.
// The AI persona's votes live under the ai kind; everyone else is human.
func (e *Engine) kindFor(userID string) string {
	if userID == e.aiID {
		return models.KindAI
	}
	return models.KindHuman
}

// sharedVotes loads the overlap of two users' current votes. For two
// distinct users every anonymous vote is excluded on both sides: anonymity
// that hides a voter's identity from a viewer also hides the vote's
// existence from any compatibility view shown to that viewer. A self
// comparison keeps the user's own anonymous votes.
func (e *Engine) sharedVotes(userA, userB string) ([]sharedVote, error) {
	rows, err := e.db.Query(`
		SELECT va.question_id, q.text, va.value, vb.value, va.updated_at, vb.updated_at,
		       q.yes_pct, q.no_pct, q.unsure_pct
		FROM vote va
		JOIN vote vb ON vb.question_id = va.question_id
		JOIN question q ON q.id = va.question_id
		WHERE va.voter_id = $1 AND va.voter_kind = $2
		  AND vb.voter_id = $3 AND vb.voter_kind = $4
		  AND ($5 OR (va.is_anonymous = FALSE AND vb.is_anonymous = FALSE))
	`, userA, e.kindFor(userA), userB, e.kindFor(userB), userA == userB)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared votes: %w", err)
	}
	defer rows.Close()

	var shared []sharedVote
	for rows.Next() {
		var sv sharedVote
		if err := rows.Scan(&sv.questionID, &sv.text, &sv.valueA, &sv.valueB,
			&sv.updatedA, &sv.updatedB, &sv.yesPct, &sv.noPct, &sv.unsurePct); err != nil {
			return nil, fmt.Errorf("failed to scan shared vote: %w", err)
		}
		shared = append(shared, sv)
	}
	return shared, rows.Err()
}

// Compute returns the agreement rate over the two users' shared questions.
// Symmetric by construction: Compute(a, b) == Compute(b, a).
func (e *Engine) Compute(userA, userB string) (models.CompatibilityResult, error) {
	shared, err := e.sharedVotes(userA, userB)
	if err != nil {
		return models.CompatibilityResult{}, err
	}

	var result models.CompatibilityResult
	for _, sv := range shared {
		if sv.valueA == sv.valueB {
			result.Agreements++
		} else {
			result.Disagreements++
		}
	}
	result.CommonQuestions = len(shared)
	if result.CommonQuestions > 0 {
		result.CompatibilityScore = int(math.Round(
			float64(result.Agreements) / float64(result.CommonQuestions) * 100))
	}
	return result, nil
}

// CommonGround returns up to limit shared-agreement questions ordered by
// controversy descending: agreeing on a divisive question is more
// interesting than agreeing on a near-unanimous one.
func (e *Engine) CommonGround(userA, userB string, limit int) ([]models.CommonGroundItem, error) {
	shared, err := e.sharedVotes(userA, userB)
	if err != nil {
		return nil, err
	}

	items := []models.CommonGroundItem{}
	for _, sv := range shared {
		if sv.valueA != sv.valueB {
			continue
		}
		items = append(items, models.CommonGroundItem{
			QuestionID:  sv.questionID,
			Text:        sv.text,
			SharedVote:  sv.valueA,
			Controversy: controversy(sv.yesPct, sv.noPct, sv.unsurePct),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Controversy != items[j].Controversy {
			return items[i].Controversy > items[j].Controversy
		}
		// Stable tie-breaking by question ID
		return items[i].QuestionID < items[j].QuestionID
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Divergence returns up to limit shared-disagreement questions ordered by
// the recency of the more recent of the two votes.
func (e *Engine) Divergence(userA, userB string, limit int) ([]models.DivergenceItem, error) {
	shared, err := e.sharedVotes(userA, userB)
	if err != nil {
		return nil, err
	}

	type scored struct {
		item   models.DivergenceItem
		latest time.Time
	}
	var disagreements []scored
	for _, sv := range shared {
		if sv.valueA == sv.valueB {
			continue
		}
		latest := sv.updatedA
		if sv.updatedB.After(latest) {
			latest = sv.updatedB
		}
		disagreements = append(disagreements, scored{
			item: models.DivergenceItem{
				QuestionID: sv.questionID,
				Text:       sv.text,
				VoteA:      sv.valueA,
				VoteB:      sv.valueB,
			},
			latest: latest,
		})
	}

	sort.Slice(disagreements, func(i, j int) bool {
		if !disagreements[i].latest.Equal(disagreements[j].latest) {
			return disagreements[i].latest.After(disagreements[j].latest)
		}
		return disagreements[i].item.QuestionID < disagreements[j].item.QuestionID
	})

	items := []models.DivergenceItem{}
	for i, d := range disagreements {
		if limit > 0 && i >= limit {
			break
		}
		items = append(items, d.item)
	}
	return items, nil
}

// controversy measures how far a question's distribution sits from
// unanimity: 0 when one option has every vote, approaching 100 at an even
// three-way split.
func controversy(yesPct, noPct, unsurePct int) int {
	max := yesPct
	if noPct > max {
		max = noPct
	}
	if unsurePct > max {
		max = unsurePct
	}
	return 100 - max
}
