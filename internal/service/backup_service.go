package service

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// BackupService streams a raw byte-for-byte copy of the database file. No
// compression, no integrity check; the copy is whatever sqlite last flushed.
type BackupService interface {
	Snapshot(w io.Writer) (int64, error)
	SuggestedFilename() string
}

type backupService struct {
	databasePath string
	logger       zerolog.Logger
}

// NewBackupService constructs a backup service for the given database file.
func NewBackupService(databasePath string, logger zerolog.Logger) BackupService {
	return &backupService{
		databasePath: databasePath,
		logger:       logger.With().Str("component", "backup_service").Logger(),
	}
}

func (s *backupService) Snapshot(w io.Writer) (int64, error) {
	source, err := os.Open(s.databasePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database file: %w", err)
	}
	defer source.Close()

	written, err := io.Copy(w, source)
	if err != nil {
		return written, fmt.Errorf("failed to copy database file: %w", err)
	}

	s.logger.Info().Int64("bytes", written).Msg("database backup streamed")

	return written, nil
}

func (s *backupService) SuggestedFilename() string {
	return fmt.Sprintf("student_records_backup_%s.db", time.Now().Format("20060102_150405"))
}
