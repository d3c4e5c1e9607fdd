// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/sayso/cliparse"
	"github.com/danielhkuo/sayso/db"
	"github.com/danielhkuo/sayso/models"
	"github.com/danielhkuo/sayso/store"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database; cache=shared keeps it alive
// across the pool's connections, and a single open connection serializes
// writers the way a production store's row locks would.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3319,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		AIPersonaID:     "sage",
		AIPersonaName:   "Sage",
		NotifyQueueSize: 16,
	}
}

// CreateTestQuestion inserts a question and returns its id.
// creatorID may be empty for a system-authored question.
func CreateTestQuestion(t *testing.T, st *store.Store, text, creatorID string) string {
	t.Helper()

	req := models.CreateQuestionRequest{Text: text}
	if creatorID != "" {
		req.CreatorID = &creatorID
	}
	q, err := st.CreateQuestion(req)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q.ID
}

// CreateExpiredQuestion inserts a question whose expiry has already passed.
func CreateExpiredQuestion(t *testing.T, st *store.Store, text, creatorID string) string {
	t.Helper()

	past := time.Now().Add(-time.Hour)
	req := models.CreateQuestionRequest{Text: text, ExpiresAt: &past}
	if creatorID != "" {
		req.CreatorID = &creatorID
	}
	q, err := st.CreateQuestion(req)
	if err != nil {
		t.Fatalf("Failed to create expired test question: %v", err)
	}
	return q.ID
}

// CastTestVote applies a vote through the store so the aggregate and the
// history log stay consistent with the vote rows.
func CastTestVote(t *testing.T, st *store.Store, voterID, questionID, voterKind, value string, anonymous bool) {
	t.Helper()

	if _, err := st.ApplyVote(voterID, questionID, voterKind, value, anonymous, nil); err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
}

// SetProfile records a display name for a user.
func SetProfile(t *testing.T, st *store.Store, userID, displayName string) {
	t.Helper()

	if err := st.UpsertProfile(userID, displayName); err != nil {
		t.Fatalf("Failed to set test profile: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertAggregate compares a full aggregate value.
func AssertAggregate(t *testing.T, got models.Aggregate, yes, no, unsure, total, yesPct, noPct, unsurePct int) {
	t.Helper()
	want := models.Aggregate{
		YesCount: yes, NoCount: no, UnsureCount: unsure, TotalVotes: total,
		YesPct: yesPct, NoPct: noPct, UnsurePct: unsurePct,
	}
	if got != want {
		t.Errorf("Aggregate mismatch:\n  got  %+v\n  want %+v", got, want)
	}
}
