package service_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"meditrack/internal/model"
	"meditrack/internal/ratelimit"
	"meditrack/internal/service"
	"meditrack/internal/store"
)

var (
	now   = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	today = civil.DateOf(now)
)

// countingStore wraps the real store and counts writes.
type countingStore struct {
	*store.Store
	saves int
}

func (c *countingStore) SaveUser(u *model.User) error {
	c.saves++
	return c.Store.SaveUser(u)
}

// brokenStore fails every write.
type brokenStore struct {
	*store.Store
}

func (brokenStore) SaveUser(*model.User) error {
	return errors.New("disk full")
}

type env struct {
	tr    *service.Tracker
	clock *clockwork.FakeClock
	st    *countingStore
}

func setup(t *testing.T) env {
	t.Helper()
	clk := clockwork.NewFakeClockAt(now)
	lg := zaptest.NewLogger(t)
	st := &countingStore{Store: store.New(filepath.Join(t.TempDir(), "meditrack.json"), clk, lg)}
	tr := service.New(st, service.Options{
		Clock:         clk,
		Limiter:       ratelimit.New(30*time.Second, 3, 10*time.Minute),
		SessionSecret: "test-secret",
		SessionTTL:    15 * time.Minute,
		Logger:        lg,
	})
	return env{tr: tr, clock: clk, st: st}
}

func registerUser(t *testing.T, tr *service.Tracker, username string) *model.User {
	t.Helper()
	u, err := tr.Register(service.Registration{
		Username: username, Name: "Test User", Password: "pw1", ConfirmPassword: "pw1",
	})
	require.NoError(t, err)
	return u
}
