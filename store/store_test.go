// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/store"
	"github.com/danielhkuo/sayso/testutil"
)

func TestVoteLifecycleAggregate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Is cereal a soup?", "carol")

	// A votes YES
	out, err := st.ApplyVote("alice", qid, models.KindHuman, models.VoteYes, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}
	testutil.AssertAggregate(t, out.Aggregate, 1, 0, 0, 1, 100, 0, 0)
	if !out.FirstVote {
		t.Error("Expected FirstVote on initial vote")
	}

	// B votes NO
	out, err = st.ApplyVote("bob", qid, models.KindHuman, models.VoteNo, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}
	testutil.AssertAggregate(t, out.Aggregate, 1, 1, 0, 2, 50, 50, 0)

	// A changes to NO
	out, err = st.ApplyVote("alice", qid, models.KindHuman, models.VoteNo, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}
	testutil.AssertAggregate(t, out.Aggregate, 0, 2, 0, 2, 0, 100, 0)
	if out.FirstVote {
		t.Error("Revote must not count as a first vote")
	}
	if out.Retracted {
		t.Error("Revote with a different value must not retract")
	}

	// A resubmits NO: idempotent toggle retracts
	out, err = st.ApplyVote("alice", qid, models.KindHuman, models.VoteNo, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}
	testutil.AssertAggregate(t, out.Aggregate, 0, 1, 0, 1, 0, 100, 0)
	if !out.Retracted {
		t.Error("Resubmitting the held value must retract")
	}
	if v, _ := st.GetVote("alice", qid, models.KindHuman); v != nil {
		t.Error("Retracted vote row still present")
	}
}

func TestSingleRowPerVoterKey(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Pineapple on pizza?", "carol")

	values := []string{models.VoteYes, models.VoteNo, models.VoteUnsure, models.VoteYes}
	for _, v := range values {
		if _, err := st.ApplyVote("alice", qid, models.KindHuman, v, false, nil); err != nil {
			t.Fatalf("ApplyVote(%s) failed: %v", v, err)
		}

		var rows int
		err := conn.QueryRow(`
			SELECT COUNT(*) FROM vote WHERE voter_id = $1 AND question_id = $2 AND voter_kind = $3
		`, "alice", qid, models.KindHuman).Scan(&rows)
		if err != nil {
			t.Fatalf("Failed to count vote rows: %v", err)
		}
		if rows > 1 {
			t.Fatalf("Expected at most one vote row, got %d", rows)
		}
	}
}

func TestHumanAndAIVotesCoexist(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Will AGI arrive by 2030?", "carol")

	reasoning := "Trend extrapolation is unreliable."
	if _, err := st.ApplyVote("sage", qid, models.KindAI, models.VoteUnsure, false, &reasoning); err != nil {
		t.Fatalf("AI ApplyVote failed: %v", err)
	}
	// Same voter id under the human kind does not collide with the AI row
	if _, err := st.ApplyVote("sage", qid, models.KindHuman, models.VoteYes, false, nil); err != nil {
		t.Fatalf("Human ApplyVote failed: %v", err)
	}

	agg, err := st.GetAggregate(qid)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.TotalVotes != 2 {
		t.Errorf("Expected 2 votes across kinds, got %d", agg.TotalVotes)
	}

	ai, err := st.GetVote("sage", qid, models.KindAI)
	if err != nil || ai == nil {
		t.Fatalf("Expected AI vote row, got %v, %v", ai, err)
	}
	if ai.Reasoning == nil || *ai.Reasoning != reasoning {
		t.Error("AI reasoning not persisted")
	}
}

func TestRetractVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Tabs over spaces?", "carol")

	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteYes, false)

	out, err := st.RetractVote("alice", qid, models.KindHuman)
	if err != nil {
		t.Fatalf("RetractVote failed: %v", err)
	}
	testutil.AssertAggregate(t, out.Aggregate, 0, 0, 0, 0, 0, 0, 0)
	if !out.Retracted {
		t.Error("Expected Retracted outcome")
	}

	// Retracting again is a no-op that still reports the aggregate
	out, err = st.RetractVote("alice", qid, models.KindHuman)
	if err != nil {
		t.Fatalf("No-op RetractVote failed: %v", err)
	}
	if out.Retracted {
		t.Error("No-op retraction must not report Retracted")
	}
	testutil.AssertAggregate(t, out.Aggregate, 0, 0, 0, 0, 0, 0, 0)
}

func TestFirstVoteOutcomeOnlyOnce(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Once only?", "carol")

	out, err := st.ApplyVote("alice", qid, models.KindHuman, models.VoteYes, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote failed: %v", err)
	}
	if !out.FirstVote {
		t.Error("Initial vote must report FirstVote")
	}

	if _, err := st.RetractVote("alice", qid, models.KindHuman); err != nil {
		t.Fatalf("RetractVote failed: %v", err)
	}

	// Coming back after an explicit retraction is not a first vote
	out, err = st.ApplyVote("alice", qid, models.KindHuman, models.VoteNo, false, nil)
	if err != nil {
		t.Fatalf("Return ApplyVote failed: %v", err)
	}
	if out.FirstVote {
		t.Error("A returning voter must not report FirstVote")
	}

	// Same after a toggle retraction
	if _, err := st.ApplyVote("alice", qid, models.KindHuman, models.VoteNo, false, nil); err != nil {
		t.Fatalf("Toggle ApplyVote failed: %v", err)
	}
	out, err = st.ApplyVote("alice", qid, models.KindHuman, models.VoteYes, false, nil)
	if err != nil {
		t.Fatalf("ApplyVote after toggle failed: %v", err)
	}
	if out.FirstVote {
		t.Error("A vote after a toggle retraction must not report FirstVote")
	}
}

func TestHistoryTransitions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Is a hot dog a sandwich?", "carol")

	// initial vote, revote, then toggle retract
	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteNo, false)
	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteNo, false)

	entries, err := st.ListHistory("alice", 10)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 history entries, got %d", len(entries))
	}

	// Newest first: retraction, revote, initial
	if entries[0].NewValue != nil || entries[0].PreviousValue == nil || *entries[0].PreviousValue != models.VoteNo {
		t.Errorf("Retraction entry wrong: %+v", entries[0])
	}
	if entries[1].PreviousValue == nil || *entries[1].PreviousValue != models.VoteYes ||
		entries[1].NewValue == nil || *entries[1].NewValue != models.VoteNo {
		t.Errorf("Revote entry wrong: %+v", entries[1])
	}
	if entries[2].PreviousValue != nil || entries[2].NewValue == nil || *entries[2].NewValue != models.VoteYes {
		t.Errorf("Initial entry wrong: %+v", entries[2])
	}

	// Only the genuine revote counts as a mind change
	changes, err := st.MindChanges("alice")
	if err != nil {
		t.Fatalf("MindChanges failed: %v", err)
	}
	if changes != 1 {
		t.Errorf("Expected 1 mind change, got %d", changes)
	}
}

func TestListHistoryLimit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qids := make([]string, 5)
	for i := range qids {
		qids[i] = testutil.CreateTestQuestion(t, st, "Question "+strings.Repeat("x", i+1), "carol")
		testutil.CastTestVote(t, st, "alice", qids[i], models.KindHuman, models.VoteYes, false)
	}

	entries, err := st.ListHistory("alice", 3)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("Expected limit of 3 entries, got %d", len(entries))
	}
}

func TestReconcileCorrectsDrift(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Should weekends be three days?", "carol")

	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, st, "bob", qid, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, st, "dora", qid, models.KindHuman, models.VoteNo, false)

	// Corrupt the denormalized row behind the maintainer's back
	if _, err := conn.Exec(`
		UPDATE question SET yes_count = 41, total_votes = 99, yes_pct = 7 WHERE id = $1
	`, qid); err != nil {
		t.Fatalf("Failed to corrupt aggregate: %v", err)
	}

	agg, err := st.ReconcileAggregate(qid)
	if err != nil {
		t.Fatalf("ReconcileAggregate failed: %v", err)
	}
	testutil.AssertAggregate(t, agg, 2, 1, 0, 3, 67, 33, 0)

	stored, err := st.GetAggregate(qid)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if stored != agg {
		t.Errorf("Reconciled aggregate not persisted: %+v vs %+v", stored, agg)
	}
}

func TestQuestionTextLimit(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	// 280 code points is fine, 281 is not; multi-byte runes count as one
	ok := strings.Repeat("é", 280)
	if _, err := st.CreateQuestion(models.CreateQuestionRequest{Text: ok}); err != nil {
		t.Errorf("280 code points should be accepted: %v", err)
	}
	long := strings.Repeat("é", 281)
	if _, err := st.CreateQuestion(models.CreateQuestionRequest{Text: long}); err != models.ErrQuestionTooLong {
		t.Errorf("Expected ErrQuestionTooLong, got %v", err)
	}
}

func TestDeleteQuestion(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Delete me?", "carol")
	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteYes, false)

	if err := st.DeleteQuestion(qid, "mallory"); err != models.ErrNotCreator {
		t.Errorf("Expected ErrNotCreator for non-creator, got %v", err)
	}
	if err := st.DeleteQuestion(qid, "carol"); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if _, err := st.GetQuestion(qid); err != models.ErrQuestionNotFound {
		t.Errorf("Expected ErrQuestionNotFound after delete, got %v", err)
	}

	// Votes cascade, the audit trail survives
	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = $1`, qid).Scan(&votes); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if votes != 0 {
		t.Errorf("Expected votes to cascade on delete, found %d", votes)
	}
	var history int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote_history WHERE question_id = $1`, qid).Scan(&history); err != nil {
		t.Fatalf("Failed to count history: %v", err)
	}
	if history == 0 {
		t.Error("History must outlive question deletion")
	}
}

func TestFollowGraph(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	if err := st.AddFollow("alice", "bob"); err != nil {
		t.Fatalf("AddFollow failed: %v", err)
	}
	// Duplicate follow is fine
	if err := st.AddFollow("alice", "bob"); err != nil {
		t.Fatalf("Duplicate AddFollow failed: %v", err)
	}
	if err := st.AddFollow("dora", "bob"); err != nil {
		t.Fatalf("AddFollow failed: %v", err)
	}

	followers, err := st.ListFollowers("bob")
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if len(followers) != 2 {
		t.Errorf("Expected 2 followers, got %d", len(followers))
	}

	if err := st.RemoveFollow("alice", "bob"); err != nil {
		t.Fatalf("RemoveFollow failed: %v", err)
	}
	followers, _ = st.ListFollowers("bob")
	if len(followers) != 1 {
		t.Errorf("Expected 1 follower after unfollow, got %d", len(followers))
	}
}

func TestStreakFromStore(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	qid := testutil.CreateTestQuestion(t, st, "Streak question?", "carol")

	testutil.CastTestVote(t, st, "alice", qid, models.KindHuman, models.VoteYes, false)

	streak, err := st.Streak("alice", time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if streak != 1 {
		t.Errorf("Expected streak of 1 after voting today, got %d", streak)
	}

	streak, err = st.Streak("nobody", time.Now(), time.UTC)
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if streak != 0 {
		t.Errorf("Expected streak of 0 for inactive user, got %d", streak)
	}
}

func TestProfileProjection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	if got := st.DisplayName("ghost"); got != "ghost" {
		t.Errorf("Unknown user should fall back to id, got %q", got)
	}

	testutil.SetProfile(t, st, "alice", "Alice L.")
	if got := st.DisplayName("alice"); got != "Alice L." {
		t.Errorf("DisplayName = %q, want %q", got, "Alice L.")
	}

	testutil.SetProfile(t, st, "alice", "Alice Liddell")
	if got := st.DisplayName("alice"); got != "Alice Liddell" {
		t.Errorf("DisplayName after update = %q, want %q", got, "Alice Liddell")
	}
}
