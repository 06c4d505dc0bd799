package reliability

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvasilakis/fintrack/internal/events"
	testutil "github.com/nvasilakis/fintrack/internal/testing"
)

func newTestBackupService(t *testing.T, retention int) (*BackupService, string) {
	t.Helper()
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	backupDir := filepath.Join(t.TempDir(), "backups")
	return NewBackupService(db, backupDir, retention, events.NewBus(log), log), backupDir
}

func TestCreateBackup(t *testing.T) {
	svc, backupDir := newTestBackupService(t, 7)

	info, err := svc.CreateBackup()
	require.NoError(t, err)
	assert.Greater(t, info.SizeBytes, int64(0))

	archivePath := filepath.Join(backupDir, info.Filename)
	_, err = os.Stat(archivePath)
	require.NoError(t, err)

	// The archive carries a metadata manifest plus the database file
	names, metadata := readArchive(t, archivePath)
	require.Len(t, names, 2)
	assert.Equal(t, "metadata.json", names[0])
	assert.True(t, strings.HasSuffix(names[1], ".db"))
	assert.Equal(t, "finance", metadata.Database)
	assert.NotEmpty(t, metadata.Checksum)
	assert.Greater(t, metadata.SizeBytes, int64(0))
}

func TestCreateBackup_PublishesEvent(t *testing.T) {
	db, cleanup := testutil.NewTestDB(t)
	t.Cleanup(cleanup)

	log := zerolog.Nop()
	bus := events.NewBus(log)
	svc := NewBackupService(db, filepath.Join(t.TempDir(), "backups"), 7, bus, log)

	_, ch := bus.Subscribe()

	info, err := svc.CreateBackup()
	require.NoError(t, err)

	evt := <-ch
	assert.Equal(t, events.BackupCompleted, evt.Type)
	data, ok := evt.Data.(*events.BackupCompletedData)
	require.True(t, ok)
	assert.Equal(t, info.Filename, data.Filename)
}

func TestListBackups_EmptyDirectory(t *testing.T) {
	svc, _ := newTestBackupService(t, 7)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestPruneKeepsRetentionCount(t *testing.T) {
	svc, backupDir := newTestBackupService(t, 2)
	require.NoError(t, os.MkdirAll(backupDir, 0755))

	// Pre-seed stale archives; prune runs as part of the next backup
	for _, name := range []string{"finance-backup-a.tar.gz", "finance-backup-b.tar.gz", "finance-backup-c.tar.gz"} {
		require.NoError(t, os.WriteFile(filepath.Join(backupDir, name), []byte("old"), 0644))
	}

	_, err := svc.CreateBackup()
	require.NoError(t, err)

	backups, err := svc.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}

func readArchive(t *testing.T, path string) ([]string, BackupMetadata) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gzReader, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gzReader.Close()

	var names []string
	var metadata BackupMetadata
	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)

		if header.Name == "metadata.json" {
			require.NoError(t, json.NewDecoder(tarReader).Decode(&metadata))
		}
	}

	return names, metadata
}
