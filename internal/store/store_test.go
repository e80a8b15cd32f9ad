package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('view_state','meta','audit_entries')").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveLocation(context.Background(), "/cases/all", "/cases/all?page=2"))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	loc, err := s.LoadLocation(context.Background(), "/cases/all")
	require.NoError(t, err)
	assert.Equal(t, "/cases/all?page=2", loc)
}

func TestLocations(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	loc, err := s.LoadLocation(ctx, "/cases/running")
	require.NoError(t, err)
	assert.Empty(t, loc)

	require.NoError(t, s.SaveLocation(ctx, "/cases/running", "/cases/running?search=khan"))
	require.NoError(t, s.SaveLocation(ctx, "/cases/all", "/cases/all?page=3"))
	require.NoError(t, s.SaveLocation(ctx, "/cases/running", "/cases/running?page=2&search=khan"))

	loc, err = s.LoadLocation(ctx, "/cases/running")
	require.NoError(t, err)
	assert.Equal(t, "/cases/running?page=2&search=khan", loc)

	last, err := s.LastLocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/cases/running?page=2&search=khan", last)
}

func TestAuditEntries(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddAuditEntry(ctx, AuditEntry{Entity: "case", RecordID: "c1", Action: "delete", CreatedAt: base}))
	require.NoError(t, s.AddAuditEntry(ctx, AuditEntry{Entity: "court", Action: "create", Outcome: OutcomeFailure,
		Details: map[string]string{"error": "duplicate"}, CreatedAt: base.Add(time.Minute)}))

	all, err := s.ListAuditEntries(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "court", all[0].Entity)
	assert.Equal(t, "duplicate", all[0].Details["error"])
	assert.Equal(t, OutcomeSuccess, all[1].Outcome)
	assert.NotEmpty(t, all[1].ID)
	assert.NotEmpty(t, all[1].Actor)
	assert.True(t, all[1].CreatedAt.Equal(base))

	cases, err := s.ListAuditEntries(ctx, "case", 10)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "c1", cases[0].RecordID)

	require.NoError(t, s.Reset(ctx))
	all, err = s.ListAuditEntries(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}
