// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/danielhkuo/sayso/notify"
	"github.com/danielhkuo/sayso/store"
	"github.com/danielhkuo/sayso/testutil"
	"github.com/danielhkuo/sayso/visibility"
	"github.com/danielhkuo/sayso/vote"
)

// testEnv wires the core components the way router.NewRouter does, against
// a fresh in-memory database.
type testEnv struct {
	conn       *sql.DB
	store      *store.Store
	dispatcher *notify.Dispatcher
	svc        *vote.Service
	resolver   *visibility.Resolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	dispatcher := notify.NewDispatcher(notify.LogSink{}, cfg.NotifyQueueSize, 1)
	t.Cleanup(dispatcher.Close)

	return &testEnv{
		conn:       conn,
		store:      st,
		dispatcher: dispatcher,
		svc:        vote.NewService(st, dispatcher, cfg.AIPersonaID),
		resolver:   visibility.NewResolver(st, cfg.AIPersonaID, cfg.AIPersonaName),
	}
}
