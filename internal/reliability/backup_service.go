// Package reliability provides database backup and maintenance services.
package reliability

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/database"
	"github.com/nvasilakis/fintrack/internal/events"
)

// BackupMetadata contains metadata about a backup archive
type BackupMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
}

// BackupInfo describes one archive present in the backup directory
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// BackupService creates local tar.gz backups of the database and prunes
// old archives. Backups are local-only: this is a single-device system.
type BackupService struct {
	db        *database.DB
	backupDir string
	retention int
	bus       *events.Bus
	log       zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, backupDir string, retention int, bus *events.Bus, log zerolog.Logger) *BackupService {
	if retention <= 0 {
		retention = 7
	}
	return &BackupService{
		db:        db,
		backupDir: backupDir,
		retention: retention,
		bus:       bus,
		log:       log.With().Str("service", "backup").Logger(),
	}
}

// CreateBackup checkpoints the WAL, archives the database file with a
// metadata manifest, and prunes archives beyond the retention count.
func (s *BackupService) CreateBackup() (*BackupInfo, error) {
	startTime := time.Now()

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Fold WAL contents into the main file so the copy is complete
	if err := s.db.WALCheckpoint("TRUNCATE"); err != nil {
		return nil, fmt.Errorf("failed to checkpoint before backup: %w", err)
	}

	dbPath := s.db.Path()
	checksum, size, err := fileChecksum(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum database: %w", err)
	}

	metadata := BackupMetadata{
		Timestamp: startTime,
		Database:  s.db.Name(),
		SizeBytes: size,
		Checksum:  checksum,
	}

	filename := fmt.Sprintf("%s-backup-%s.tar.gz", s.db.Name(), startTime.Format("20060102-150405"))
	archivePath := filepath.Join(s.backupDir, filename)

	if err := writeArchive(archivePath, dbPath, metadata); err != nil {
		_ = os.Remove(archivePath)
		return nil, err
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup archive: %w", err)
	}

	if err := s.prune(); err != nil {
		s.log.Warn().Err(err).Msg("Backup pruning failed")
	}

	s.log.Info().
		Str("filename", filename).
		Int64("size_bytes", info.Size()).
		Dur("elapsed", time.Since(startTime)).
		Msg("Backup created")

	s.bus.Publish(events.BackupCompleted, &events.BackupCompletedData{
		Filename:  filename,
		SizeBytes: info.Size(),
	})

	return &BackupInfo{
		Filename:  filename,
		Timestamp: startTime,
		SizeBytes: info.Size(),
	}, nil
}

// ListBackups returns the archives in the backup directory, newest first
func (s *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tar.gz") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Timestamp: info.ModTime(),
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// prune removes archives beyond the retention count, oldest first
func (s *BackupService) prune() error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}

	for i := s.retention; i < len(backups); i++ {
		path := filepath.Join(s.backupDir, backups[i].Filename)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Filename, err)
		}
		s.log.Info().Str("filename", backups[i].Filename).Msg("Old backup pruned")
	}

	return nil
}

// writeArchive writes the database file and a metadata.json into a tar.gz
func writeArchive(archivePath, dbPath string, metadata BackupMetadata) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create backup archive: %w", err)
	}
	defer out.Close()

	gzWriter := gzip.NewWriter(out)
	defer gzWriter.Close()

	tarWriter := tar.NewWriter(gzWriter)
	defer tarWriter.Close()

	// metadata.json first
	metaBytes, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode backup metadata: %w", err)
	}
	if err := tarWriter.WriteHeader(&tar.Header{
		Name:    "metadata.json",
		Mode:    0644,
		Size:    int64(len(metaBytes)),
		ModTime: metadata.Timestamp,
	}); err != nil {
		return fmt.Errorf("failed to write metadata header: %w", err)
	}
	if _, err := tarWriter.Write(metaBytes); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	// then the database file itself
	dbFile, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database file: %w", err)
	}
	defer dbFile.Close()

	dbInfo, err := dbFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat database file: %w", err)
	}
	if err := tarWriter.WriteHeader(&tar.Header{
		Name:    filepath.Base(dbPath),
		Mode:    0644,
		Size:    dbInfo.Size(),
		ModTime: dbInfo.ModTime(),
	}); err != nil {
		return fmt.Errorf("failed to write database header: %w", err)
	}
	if _, err := io.Copy(tarWriter, dbFile); err != nil {
		return fmt.Errorf("failed to write database into archive: %w", err)
	}

	return nil
}

// fileChecksum returns the sha256 hex digest and size of a file
func fileChecksum(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), size, nil
}
