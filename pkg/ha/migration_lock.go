// Package ha provides coordination primitives for running multiple
// governance-server replicas against one database.
package ha

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"time"

	"gorm.io/gorm"
)

// lockName seeds the advisory lock id and the fallback lock row key.
const lockName = "governance-baseline-migration"

// MigrationLocker serializes schema migration across replicas so concurrent
// AutoMigrate calls never race each other.
type MigrationLocker interface {
	// WithLock runs fn while holding the migration lock, blocking until the
	// lock is acquired and releasing it after fn returns.
	WithLock(ctx context.Context, fn func() error) error
}

// NewMigrationLocker picks the locking strategy for the database dialect.
// PostgreSQL gets a session advisory lock; SQLite and MySQL get a lock table
// with insert-or-fail semantics. A nil db yields a no-op locker.
func NewMigrationLocker(db *gorm.DB) MigrationLocker {
	switch {
	case db == nil:
		return noopMigrationLock{}
	case db.Dialector.Name() == "postgres":
		return &pgAdvisoryLock{db: db, lockID: int64(crc32.ChecksumIEEE([]byte(lockName)))}
	default:
		// Create the lock table up front so the first WithLock of a fresh
		// replica never fails on a missing table.
		_ = db.AutoMigrate(&migrationLockRecord{})
		return &fallbackMigrationLock{db: db}
	}
}

type noopMigrationLock struct{}

func (noopMigrationLock) WithLock(_ context.Context, fn func() error) error { return fn() }

// pgAdvisoryLock holds a PostgreSQL session advisory lock for the duration
// of the migration.
type pgAdvisoryLock struct {
	db     *gorm.DB
	lockID int64
}

func (l *pgAdvisoryLock) WithLock(ctx context.Context, fn func() error) error {
	if err := l.db.WithContext(ctx).Exec("SELECT pg_advisory_lock(?)", l.lockID).Error; err != nil {
		return fmt.Errorf("acquire migration advisory lock: %w", err)
	}
	defer func() {
		_ = l.db.Exec("SELECT pg_advisory_unlock(?)", l.lockID).Error
	}()
	return fn()
}

// migrationLockRecord is the single lock row used by the table fallback.
type migrationLockRecord struct {
	ID       string    `gorm:"primaryKey;column:id"`
	LockedAt time.Time `gorm:"column:locked_at"`
	LockedBy string    `gorm:"column:locked_by"`
}

func (migrationLockRecord) TableName() string { return "migration_lock" }

// fallbackMigrationLock locks via a unique row insert. A holder that crashed
// without releasing is reaped once its row is older than staleAfter.
type fallbackMigrationLock struct {
	db *gorm.DB
}

const (
	lockAttempts  = 30
	lockRetryWait = time.Second
	staleAfter    = 5 * time.Minute
)

func (l *fallbackMigrationLock) WithLock(ctx context.Context, fn func() error) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}
	defer l.release()
	return fn()
}

func (l *fallbackMigrationLock) acquire(ctx context.Context) error {
	holder, _ := os.Hostname()
	if holder == "" {
		holder = "unknown"
	}

	var lastErr error
	for attempt := 0; attempt < lockAttempts; attempt++ {
		l.db.WithContext(ctx).
			Where("id = ? AND locked_at < ?", lockName, time.Now().Add(-staleAfter)).
			Delete(&migrationLockRecord{})

		row := migrationLockRecord{ID: lockName, LockedAt: time.Now(), LockedBy: holder}
		lastErr = l.db.WithContext(ctx).Create(&row).Error
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
	return fmt.Errorf("acquire migration lock after %d attempts: %w", lockAttempts, lastErr)
}

func (l *fallbackMigrationLock) release() {
	l.db.Where("id = ?", lockName).Delete(&migrationLockRecord{})
}
