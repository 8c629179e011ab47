package ha

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestNilDatabaseUsesNoopLock(t *testing.T) {
	locker := NewMigrationLocker(nil)

	called := false
	err := locker.WithLock(context.Background(), func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLockRunsFunction(t *testing.T) {
	locker := NewMigrationLocker(openTestDB(t))

	called := false
	err := locker.WithLock(context.Background(), func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestFallbackLockPropagatesError(t *testing.T) {
	locker := NewMigrationLocker(openTestDB(t))

	wantErr := fmt.Errorf("migration failed")
	err := locker.WithLock(context.Background(), func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestFallbackLockReleasesAfterUse(t *testing.T) {
	db := openTestDB(t)
	locker := NewMigrationLocker(db)

	require.NoError(t, locker.WithLock(context.Background(), func() error { return nil }))

	var count int64
	require.NoError(t, db.Model(&migrationLockRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "lock row must be removed on release")

	// Reacquirable without waiting for stale-lock cleanup.
	require.NoError(t, locker.WithLock(context.Background(), func() error { return nil }))
}

func TestFallbackLockHeldInsideFunction(t *testing.T) {
	db := openTestDB(t)
	locker := NewMigrationLocker(db)

	err := locker.WithLock(context.Background(), func() error {
		var count int64
		if err := db.Model(&migrationLockRecord{}).Count(&count).Error; err != nil {
			return err
		}
		if count != 1 {
			return fmt.Errorf("expected lock row while migrating, found %d", count)
		}
		return nil
	})
	require.NoError(t, err)
}
