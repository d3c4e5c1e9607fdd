// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/testutil"
)

func TestGetTimeline(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)
	qid := testutil.CreateTestQuestion(t, env.store, "History?", "carol")

	testutil.CastTestVote(t, env.store, "alice", qid, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, env.store, "alice", qid, models.KindHuman, models.VoteNo, false)

	req := testutil.MakeRequest("GET", "/profiles/alice/history", nil, nil)
	req.SetPathValue("id", "alice")
	w := httptest.NewRecorder()

	handler.GetTimeline(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.TimelineResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Entries) != 2 {
		t.Fatalf("Expected 2 timeline entries, got %d", len(resp.Entries))
	}

	// Newest first: the yes-to-no revote leads
	latest := resp.Entries[0]
	if latest.PreviousValue == nil || *latest.PreviousValue != models.VoteYes {
		t.Errorf("Latest entry previous wrong: %+v", latest)
	}
	if latest.NewValue == nil || *latest.NewValue != models.VoteNo {
		t.Errorf("Latest entry new wrong: %+v", latest)
	}
	if latest.When == "" || latest.ChangedAt == "" {
		t.Errorf("Timestamps missing: %+v", latest)
	}
}

func TestGetTimelineHidesAnonymousVotes(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)
	publicQ := testutil.CreateTestQuestion(t, env.store, "Public?", "carol")
	anonQ := testutil.CreateTestQuestion(t, env.store, "Private?", "carol")

	testutil.CastTestVote(t, env.store, "alice", publicQ, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, env.store, "alice", anonQ, models.KindHuman, models.VoteNo, true)

	get := func(viewer string) models.TimelineResponse {
		path := "/profiles/alice/history"
		if viewer != "" {
			path += "?viewer_id=" + viewer
		}
		req := testutil.MakeRequest("GET", path, nil, nil)
		req.SetPathValue("id", "alice")
		w := httptest.NewRecorder()
		handler.GetTimeline(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.TimelineResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	// A third party sees only the public vote's entry
	resp := get("bob")
	if len(resp.Entries) != 1 || resp.Entries[0].QuestionID != publicQ {
		t.Errorf("Expected only the public entry, got %+v", resp.Entries)
	}

	// The voter sees everything
	resp = get("alice")
	if len(resp.Entries) != 2 {
		t.Errorf("Expected the full timeline for self view, got %+v", resp.Entries)
	}
}

func TestGetTimelineEmpty(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)

	req := testutil.MakeRequest("GET", "/profiles/nobody/history", nil, nil)
	req.SetPathValue("id", "nobody")
	w := httptest.NewRecorder()

	handler.GetTimeline(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.TimelineResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Entries == nil || len(resp.Entries) != 0 {
		t.Errorf("Expected an empty entries array, got %+v", resp.Entries)
	}
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)
	qid := testutil.CreateTestQuestion(t, env.store, "Stats?", "carol")

	// One genuine mind change, one initial vote elsewhere
	testutil.CastTestVote(t, env.store, "alice", qid, models.KindHuman, models.VoteYes, false)
	testutil.CastTestVote(t, env.store, "alice", qid, models.KindHuman, models.VoteUnsure, false)

	req := testutil.MakeRequest("GET", "/profiles/alice/stats", nil, nil)
	req.SetPathValue("id", "alice")
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.StatsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.MindChanges != 1 {
		t.Errorf("Expected 1 mind change, got %d", resp.MindChanges)
	}
	if resp.StreakDays != 1 {
		t.Errorf("Expected a 1-day streak, got %d", resp.StreakDays)
	}
}

func TestGetStatsInvalidTimezone(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)

	req := testutil.MakeRequest("GET", "/profiles/alice/stats?tz=Mars%2FOlympus", nil, nil)
	req.SetPathValue("id", "alice")
	w := httptest.NewRecorder()

	handler.GetStats(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestFollowEndpoints(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)

	follow := func(follower, followee string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/profiles/"+followee+"/follow", models.FollowRequest{
			FollowerID: follower,
		}, nil)
		req.SetPathValue("id", followee)
		w := httptest.NewRecorder()
		handler.Follow(w, req)
		return w
	}

	testutil.AssertStatus(t, follow("alice", "bob"), http.StatusNoContent)
	// Refollowing is idempotent
	testutil.AssertStatus(t, follow("alice", "bob"), http.StatusNoContent)
	// Self-follow rejected
	testutil.AssertStatus(t, follow("alice", "alice"), http.StatusBadRequest)

	followers, err := env.store.ListFollowers("bob")
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if len(followers) != 1 || followers[0] != "alice" {
		t.Errorf("Followers wrong: %v", followers)
	}

	req := testutil.MakeRequest("DELETE", "/profiles/bob/follow?follower_id=alice", nil, nil)
	req.SetPathValue("id", "bob")
	w := httptest.NewRecorder()
	handler.Unfollow(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	followers, _ = env.store.ListFollowers("bob")
	if len(followers) != 0 {
		t.Errorf("Expected no followers after unfollow, got %v", followers)
	}
}

func TestUpsertProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store, env.dispatcher)

	put := func(name string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("PUT", "/profiles/alice", models.UpsertProfileRequest{
			DisplayName: name,
		}, nil)
		req.SetPathValue("id", "alice")
		w := httptest.NewRecorder()
		handler.UpsertProfile(w, req)
		return w
	}

	testutil.AssertStatus(t, put("Alice"), http.StatusNoContent)
	if got := env.store.DisplayName("alice"); got != "Alice" {
		t.Errorf("DisplayName = %q", got)
	}

	// Update replaces
	testutil.AssertStatus(t, put("Alice L."), http.StatusNoContent)
	if got := env.store.DisplayName("alice"); got != "Alice L." {
		t.Errorf("DisplayName after update = %q", got)
	}

	// Empty name rejected
	testutil.AssertStatus(t, put(""), http.StatusBadRequest)
}
