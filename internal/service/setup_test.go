package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/helpinghand/internal/db"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

// fakeStore implements ObjectStore in memory. failures makes the next N
// RemoveByPrefix calls return an upstream error.
type fakeStore struct {
	objects     map[string]string
	failures    int
	removeCalls []string
}

func newFakeStore(keys ...string) *fakeStore {
	objects := make(map[string]string, len(keys))
	for _, key := range keys {
		objects[key] = key
	}
	return &fakeStore{objects: objects}
}

func (f *fakeStore) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.objects[key] = key
	return "http://assets.test/helpinghand/" + key, nil
}

func (f *fakeStore) RemoveByPrefix(_ context.Context, prefix string) (int, error) {
	f.removeCalls = append(f.removeCalls, prefix)
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("upstream unavailable")
	}

	removed := 0
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			delete(f.objects, key)
			removed++
		}
	}
	return removed, nil
}

// newTestCleaner returns a cleaner whose backoff sleeps are recorded
// instead of slept.
func newTestCleaner(store ObjectStore) (*AssetCleaner, *[]time.Duration) {
	var slept []time.Duration
	cleaner := &AssetCleaner{
		store:    store,
		attempts: assetDeleteAttempts,
		backoff:  assetDeleteBackoff,
		sleep:    func(d time.Duration) { slept = append(slept, d) },
	}
	return cleaner, &slept
}

func seedUser(t *testing.T, gdb *gorm.DB, username string) *db.User {
	t.Helper()
	user := &db.User{
		Username: username,
		Email:    username + "@example.org",
		Password: "hashed",
		Role:     db.RoleMember,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}
