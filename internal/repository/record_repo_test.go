package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/database"
	"github.com/spc-registrar/records-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedRecord(t *testing.T, repo RecordRepository, ownerID uint, idNumber, first, middle, last string, status models.RecordStatus) models.StudentRecord {
	t.Helper()
	record := models.StudentRecord{
		IDNumber:   idNumber,
		LegacyName: first,
		FirstName:  first,
		MiddleName: middle,
		LastName:   last,
		Status:     status,
		OwnerID:    ownerID,
	}
	record.Title = record.DeriveTitle()
	require.NoError(t, repo.Create(context.Background(), &record))
	return record
}

func TestRecordRepositoryOwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	mine := seedRecord(t, repo, 1, "S001", "John", "", "Smith", models.StatusActive)
	seedRecord(t, repo, 2, "S002", "Jane", "", "Doe", models.StatusActive)

	records, err := repo.List(context.Background(), 1, RecordFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, mine.ID, records[0].ID)
	for _, record := range records {
		require.Equal(t, uint(1), record.OwnerID)
	}

	_, err = repo.GetByID(context.Background(), 1, mine.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), 2, mine.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecordRepositoryListSearchAndFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	seedRecord(t, repo, 1, "S001", "John", "", "Smith", models.StatusActive)
	withMiddle := seedRecord(t, repo, 1, "S003", "Robert", "James", "Johnson", models.StatusGraduate)
	newest := seedRecord(t, repo, 1, "S004", "Anna", "", "Cruz", models.StatusInactive)

	// A substring matching only the middle name must find the record.
	records, err := repo.List(context.Background(), 1, RecordFilter{Search: "jame"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, withMiddle.ID, records[0].ID)

	records, err = repo.List(context.Background(), 1, RecordFilter{Status: models.StatusGraduate})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, withMiddle.ID, records[0].ID)

	// No filter: everything, newest id first.
	records, err = repo.List(context.Background(), 1, RecordFilter{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, newest.ID, records[0].ID)
}

func TestRecordRepositoryUpdatePreservesUnlistedColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	record := seedRecord(t, repo, 1, "S003", "Robert", "James", "Johnson", models.StatusGraduate)
	_, err := repo.Update(context.Background(), 1, record.ID, map[string]interface{}{
		"so_number": "SO-2019-114",
		"lrn":       "109613080021",
	})
	require.NoError(t, err)

	// Status flip that omits the graduate columns must leave them intact.
	updated, err := repo.Update(context.Background(), 1, record.ID, map[string]interface{}{
		"category": models.StatusInactive,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, updated.Status)
	require.Equal(t, "SO-2019-114", updated.SONumber)
	require.Equal(t, "109613080021", updated.LRN)

	updated, err = repo.Update(context.Background(), 1, record.ID, map[string]interface{}{
		"category": models.StatusGraduate,
	})
	require.NoError(t, err)
	require.Equal(t, "SO-2019-114", updated.SONumber)
	require.Equal(t, "109613080021", updated.LRN)
}

func TestRecordRepositoryDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	record := seedRecord(t, repo, 1, "S001", "John", "", "Smith", models.StatusActive)

	require.ErrorIs(t, repo.Delete(context.Background(), 2, record.ID), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(context.Background(), 1, record.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), 1, record.ID), gorm.ErrRecordNotFound)
}

func TestRecordRepositoryAggregates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	seedRecord(t, repo, 1, "S001", "John", "", "Smith", models.StatusActive)
	seedRecord(t, repo, 1, "S002", "Jane", "", "Doe", models.StatusActive)
	seedRecord(t, repo, 1, "S003", "Robert", "James", "Johnson", models.StatusGraduate)
	seedRecord(t, repo, 2, "S009", "Other", "", "Owner", models.StatusActive)

	total, err := repo.Count(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	counts, err := repo.CountByStatus(context.Background(), 1)
	require.NoError(t, err)

	var sum int64
	for _, c := range counts {
		sum += c.Count
	}
	require.Equal(t, total, sum)
	require.Equal(t, models.StatusActive, counts[0].Status, "largest group first")

	months, err := repo.CountByMonth(context.Background(), 1, 6)
	require.NoError(t, err)
	require.Len(t, months, 1)
	require.Equal(t, int64(3), months[0].Count)
}

func TestRecordRepositoryAggregatesEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepository(db)

	total, err := repo.Count(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, total)

	counts, err := repo.CountByStatus(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, counts)
}
