package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"nfl-pickems-go/database"
	"nfl-pickems-go/logging"
)

const backupPrefix = "nfl_pickems_backup_"

// BackupService snapshots the SQLite store file to a backup directory
// and restores verified snapshots over the live file. The WAL is
// checkpointed through the live connection before every copy so the
// snapshot contains all committed writes.
type BackupService struct {
	db        *database.DB
	backupDir string
	logger    *logging.Logger
}

// BackupInfo describes one stored backup file
type BackupInfo struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
	Size      int64  `json:"size"`
}

// NewBackupService creates a new backup service for the given store
func NewBackupService(db *database.DB, backupDir string) *BackupService {
	return &BackupService{
		db:        db,
		backupDir: backupDir,
		logger:    logging.WithPrefix("BackupService"),
	}
}

// CreateBackup copies the store file into the backup directory and
// returns the backup path.
func (bs *BackupService) CreateBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(bs.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := bs.db.Checkpoint(ctx); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(bs.backupDir, fmt.Sprintf("%s%s.db", backupPrefix, timestamp))

	if err := copyFile(bs.db.Path(), backupPath); err != nil {
		return "", fmt.Errorf("failed to copy store file: %w", err)
	}

	bs.logger.Infof("Backup created at %s", backupPath)
	return backupPath, nil
}

// ListBackups returns the stored backups, newest first
func (bs *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bs.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".db") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Filename:  name,
			Path:      filepath.Join(bs.backupDir, name),
			Timestamp: info.ModTime().Format(time.RFC3339),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp > backups[j].Timestamp
	})
	return backups, nil
}

// RestoreBackup verifies the snapshot and copies it over the live store
// file. The WAL is truncated first so no stale frames replay over the
// restored file.
func (bs *BackupService) RestoreBackup(ctx context.Context, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if err := bs.verifyBackup(backupPath); err != nil {
		return fmt.Errorf("backup verification failed: %w", err)
	}

	if err := bs.db.Checkpoint(ctx); err != nil {
		return err
	}

	if err := copyFile(backupPath, bs.db.Path()); err != nil {
		return fmt.Errorf("failed to restore store file: %w", err)
	}

	bs.logger.Infof("Store restored from %s", backupPath)
	return nil
}

// verifyBackup opens the snapshot as SQLite and checks that the expected
// tables exist.
func (bs *BackupService) verifyBackup(backupPath string) error {
	conn, err := sql.Open("sqlite", backupPath)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer conn.Close()

	for _, table := range []string{"users", "games", "picks"} {
		var name string
		err := conn.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			return fmt.Errorf("snapshot is missing table %q: %w", table, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
