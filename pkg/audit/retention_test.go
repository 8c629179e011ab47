package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdica/case-governance/pkg/baseline"
)

func TestRetentionCleanupDeletesOldEvents(t *testing.T) {
	store, db := setupAuditStore(t)

	old := &baseline.GovernanceAuditRecord{
		ID:        "old",
		EventType: "baseline.draft.created",
		Actor:     "alice",
		Outcome:   "success",
	}
	require.NoError(t, store.Append(old))
	require.NoError(t, db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -60)).Error)

	recent := &baseline.GovernanceAuditRecord{
		ID:        "recent",
		EventType: "baseline.draft.created",
		Actor:     "alice",
		Outcome:   "success",
	}
	require.NoError(t, store.Append(recent))

	worker := NewRetentionWorker(store, 30, nil)
	worker.cleanup()

	records := listEvents(t, db)
	require.Len(t, records, 1)
	assert.Equal(t, "recent", records[0].ID)
}

func TestRetentionDisabledReturnsImmediately(t *testing.T) {
	store, _ := setupAuditStore(t)

	done := make(chan struct{})
	go func() {
		NewRetentionWorker(store, 0, nil).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled retention worker should return without blocking")
	}
}

func TestRetentionStopsOnContextCancel(t *testing.T) {
	store, _ := setupAuditStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewRetentionWorker(store, 30, nil).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retention worker should stop when context is cancelled")
	}
}
