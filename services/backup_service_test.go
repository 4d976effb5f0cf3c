package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickems-go/database"
)

func newFileTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pickems.db")
	db, err := database.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateAndListBackups(t *testing.T) {
	db := newFileTestDB(t)
	userRepo := database.NewUserRepository(db)
	createTestUser(t, userRepo, "alice", false)

	backupDir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(db, backupDir)

	path, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, path, backups[0].Path)
	assert.Greater(t, backups[0].Size, int64(0))
}

func TestListBackupsEmptyDirectory(t *testing.T) {
	svc := NewBackupService(newFileTestDB(t), filepath.Join(t.TempDir(), "missing"))

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	backupDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, backupPrefix+"20250901_120000.db"), []byte("x"), 0644))

	svc := NewBackupService(newFileTestDB(t), backupDir)
	backups, err := svc.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, backupPrefix+"20250901_120000.db", backups[0].Filename)
}

func TestRestoreBackup(t *testing.T) {
	db := newFileTestDB(t)
	userRepo := database.NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, userRepo, "alice", false)

	backupDir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(db, backupDir)
	backupPath, err := svc.CreateBackup(ctx)
	require.NoError(t, err)

	// Mutate the live store after the snapshot, then roll it back.
	createTestUser(t, userRepo, "bob", false)
	require.NoError(t, svc.RestoreBackup(ctx, backupPath))

	// Reopen the store file to see the restored state.
	require.NoError(t, db.Close())
	restored, err := database.New(db.Path())
	require.NoError(t, err)
	defer restored.Close()

	users, err := database.NewUserRepository(restored).List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestRestoreBackupRejectsMissingFile(t *testing.T) {
	svc := NewBackupService(newFileTestDB(t), t.TempDir())
	err := svc.RestoreBackup(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}

func TestRestoreBackupRejectsInvalidSnapshot(t *testing.T) {
	db := newFileTestDB(t)
	userRepo := database.NewUserRepository(db)
	createTestUser(t, userRepo, "alice", false)

	bogus := filepath.Join(t.TempDir(), backupPrefix+"20250901_120000.db")
	require.NoError(t, os.WriteFile(bogus, []byte("not a database"), 0644))

	svc := NewBackupService(db, filepath.Dir(bogus))
	err := svc.RestoreBackup(context.Background(), bogus)
	assert.Error(t, err)

	// The failed restore must not have touched the live store.
	users, err := userRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestBackupFilenameCarriesTimestamp(t *testing.T) {
	svc := NewBackupService(newFileTestDB(t), t.TempDir())

	before := time.Now()
	path, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)

	name := filepath.Base(path)
	require.True(t, len(name) > len(backupPrefix)+3)
	stamp, err := time.ParseInLocation("20060102_150405", name[len(backupPrefix):len(name)-3], time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, before, stamp, 5*time.Second)
}
