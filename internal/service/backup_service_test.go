package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackupServiceSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	payload := []byte("SQLite format 3\x00fake-database-bytes")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	svc := NewBackupService(path, testLogger())

	var buf bytes.Buffer
	written, err := svc.Snapshot(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), written)
	require.Equal(t, payload, buf.Bytes())
}

func TestBackupServiceMissingFile(t *testing.T) {
	svc := NewBackupService(filepath.Join(t.TempDir(), "absent.db"), testLogger())

	var buf bytes.Buffer
	_, err := svc.Snapshot(&buf)
	require.Error(t, err)
	require.Zero(t, buf.Len())
}

func TestBackupServiceSuggestedFilename(t *testing.T) {
	svc := NewBackupService("records.db", testLogger())

	name := svc.SuggestedFilename()
	require.True(t, strings.HasPrefix(name, "student_records_backup_"))
	require.True(t, strings.HasSuffix(name, ".db"))
}
