package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/dto"
	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/repository"
)

type recordRepoStub struct {
	records map[uint]models.StudentRecord
	nextID  uint
}

func newRecordRepoStub() *recordRepoStub {
	return &recordRepoStub{records: map[uint]models.StudentRecord{}}
}

func (s *recordRepoStub) Create(ctx context.Context, record *models.StudentRecord) error {
	s.nextID++
	record.ID = s.nextID
	s.records[record.ID] = *record
	return nil
}

func (s *recordRepoStub) GetByID(ctx context.Context, ownerID, id uint) (models.StudentRecord, error) {
	record, ok := s.records[id]
	if !ok || record.OwnerID != ownerID {
		return models.StudentRecord{}, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (s *recordRepoStub) Update(ctx context.Context, ownerID, id uint, updates map[string]interface{}) (models.StudentRecord, error) {
	record, err := s.GetByID(ctx, ownerID, id)
	if err != nil {
		return models.StudentRecord{}, err
	}

	for column, value := range updates {
		switch column {
		case "username":
			record.IDNumber = value.(string)
		case "password":
			record.LegacyName = value.(string)
		case "first_name":
			record.FirstName = value.(string)
		case "middle_name":
			record.MiddleName = value.(string)
		case "last_name":
			record.LastName = value.(string)
		case "category":
			record.Status = value.(models.RecordStatus)
		case "title":
			record.Title = value.(string)
		case "last_school_year":
			record.LastSchoolYear = value.(string)
		case "contact_number":
			record.ContactNumber = value.(string)
		case "so_number":
			record.SONumber = value.(string)
		case "date_issued":
			record.DateIssued = value.(string)
		case "series_year":
			record.SeriesYear = value.(string)
		case "lrn":
			record.LRN = value.(string)
		case "attachments":
			record.Attachments = value.(datatypes.JSONSlice[string])
		}
	}

	s.records[id] = record
	return record, nil
}

func (s *recordRepoStub) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

func (s *recordRepoStub) List(ctx context.Context, ownerID uint, filter repository.RecordFilter) ([]models.StudentRecord, error) {
	var out []models.StudentRecord
	for id := s.nextID; id >= 1; id-- {
		record, ok := s.records[id]
		if !ok || record.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			haystack := strings.ToLower(record.Title + " " + record.IDNumber + " " + record.FullName())
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *recordRepoStub) Count(ctx context.Context, ownerID uint) (int64, error) {
	records, _ := s.List(ctx, ownerID, repository.RecordFilter{})
	return int64(len(records)), nil
}

func (s *recordRepoStub) CountByStatus(ctx context.Context, ownerID uint) ([]repository.StatusCount, error) {
	tally := map[models.RecordStatus]int64{}
	records, _ := s.List(ctx, ownerID, repository.RecordFilter{})
	for _, record := range records {
		tally[record.Status]++
	}

	var counts []repository.StatusCount
	for _, status := range models.Statuses() {
		if tally[status] > 0 {
			counts = append(counts, repository.StatusCount{Status: status, Count: tally[status]})
		}
	}
	return counts, nil
}

func (s *recordRepoStub) CountByMonth(ctx context.Context, ownerID uint, months int) ([]repository.MonthCount, error) {
	tally := map[string]int64{}
	records, _ := s.List(ctx, ownerID, repository.RecordFilter{})
	for _, record := range records {
		tally[record.CreatedAt.Format("2006-01")]++
	}

	var counts []repository.MonthCount
	for month, count := range tally {
		counts = append(counts, repository.MonthCount{Month: month, Count: count})
	}
	return counts, nil
}

func newRecordServiceForTest(t *testing.T, repo *recordRepoStub) (RecordService, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewDiskAttachmentStore(root, testLogger())
	require.NoError(t, err)
	return NewRecordService(repo, store, validator.New(validator.WithRequiredStructEnabled()), testLogger()), root
}

func TestRecordServiceCreateDerivesTitle(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	record, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S100",
		FirstName: "Maria",
		LastName:  "Cruz",
	})
	require.NoError(t, err)
	require.Equal(t, "Maria Cruz (S100)", record.Title)
	require.Equal(t, "Active", record.Status)
	require.Nil(t, record.Graduate)

	stored := repo.records[record.ID]
	require.Equal(t, "Maria", stored.LegacyName)
	require.Equal(t, uint(1), stored.OwnerID)
}

func TestRecordServiceCreateValidation(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	_, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{FirstName: "Maria"})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Empty(t, repo.records)

	_, err = svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S100",
		FirstName: "Maria",
		LastName:  "Cruz",
		Status:    "Enrolled",
	})
	require.ErrorAs(t, err, &validationErrors)
}

func TestRecordServiceCreateGraduate(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	record, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S200",
		FirstName: "Jose",
		LastName:  "Reyes",
		Status:    "Graduate",
		Graduate: dto.GraduateDetails{
			LastSchoolYear: "2023-2024",
			SONumber:       "SO-42",
			LRN:            "123456789012",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, record.Graduate)
	require.Equal(t, "2023-2024", record.Graduate.LastSchoolYear)
	require.Equal(t, "SO-42", record.Graduate.SONumber)
}

func TestRecordServiceCreateIgnoresGraduateDetailsForActive(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	record, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S300",
		FirstName: "Ana",
		LastName:  "Lim",
		Status:    "Active",
		Graduate:  dto.GraduateDetails{LastSchoolYear: "2020-2021"},
	})
	require.NoError(t, err)
	require.Nil(t, record.Graduate)
	require.Empty(t, repo.records[record.ID].LastSchoolYear)
}

func TestRecordServiceListAllFilter(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	for _, status := range []string{"Active", "Graduate", "Inactive"} {
		_, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
			IDNumber:  "S-" + status,
			FirstName: status,
			LastName:  "Test",
			Status:    status,
		})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), 1, dto.ListRecordsQuery{Status: "All"})
	require.NoError(t, err)
	require.Len(t, all, 3)

	graduates, err := svc.List(context.Background(), 1, dto.ListRecordsQuery{Status: "Graduate"})
	require.NoError(t, err)
	require.Len(t, graduates, 1)

	_, err = svc.List(context.Background(), 1, dto.ListRecordsQuery{Status: "Enrolled"})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestRecordServiceStatusFlipPreservesGraduateValues(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	created, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S400",
		FirstName: "Pedro",
		LastName:  "Santos",
		Status:    "Graduate",
		Graduate:  dto.GraduateDetails{LastSchoolYear: "2022-2023", SONumber: "SO-7"},
	})
	require.NoError(t, err)

	// Flip to Active; the request carries no graduate block.
	flipped, err := svc.Update(context.Background(), 1, created.ID, dto.UpdateRecordRequest{
		IDNumber:  "S400",
		FirstName: "Pedro",
		LastName:  "Santos",
		Status:    "Active",
	})
	require.NoError(t, err)
	require.Nil(t, flipped.Graduate)

	// Flip back; stored graduate values survive because the Active update
	// never touched those columns.
	restored, err := svc.Update(context.Background(), 1, created.ID, dto.UpdateRecordRequest{
		IDNumber:  "S400",
		FirstName: "Pedro",
		LastName:  "Santos",
		Status:    "Graduate",
		Graduate:  dto.GraduateDetails{LastSchoolYear: "2022-2023", SONumber: "SO-7"},
	})
	require.NoError(t, err)
	require.NotNil(t, restored.Graduate)
	require.Equal(t, "SO-7", restored.Graduate.SONumber)

	stored := repo.records[created.ID]
	require.Equal(t, "2022-2023", stored.LastSchoolYear)
}

func TestRecordServiceUpdateNotFound(t *testing.T) {
	svc, _ := newRecordServiceForTest(t, newRecordRepoStub())

	_, err := svc.Update(context.Background(), 1, 99, dto.UpdateRecordRequest{
		IDNumber:  "S999",
		FirstName: "Ghost",
		LastName:  "Row",
	})
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordServiceDeleteAggregatesCleanup(t *testing.T) {
	repo := newRecordRepoStub()
	svc, root := newRecordServiceForTest(t, repo)

	present := filepath.Join(root, "student_S500", "20240101_000000_photo.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(present), 0o755))
	require.NoError(t, os.WriteFile(present, []byte("png"), 0o644))

	missing := filepath.Join(root, "student_S500", "20240101_000000_gone.png")
	outside := filepath.Join(t.TempDir(), "escape.png")

	record := models.StudentRecord{
		IDNumber:    "S500",
		FirstName:   "Liza",
		LastName:    "Ong",
		Status:      models.StatusActive,
		OwnerID:     1,
		Attachments: models.AttachmentList([]string{present, missing, outside}),
	}
	require.NoError(t, repo.Create(context.Background(), &record))

	result, err := svc.Delete(context.Background(), 1, record.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.RemovedAttachments)
	require.Equal(t, 1, result.MissingAttachments)
	require.Equal(t, []string{outside}, result.FailedAttachments)

	require.NoFileExists(t, present)
	_, err = svc.Get(context.Background(), 1, record.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordServiceDeleteNotFound(t *testing.T) {
	svc, _ := newRecordServiceForTest(t, newRecordRepoStub())

	_, err := svc.Delete(context.Background(), 1, 12)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordServiceOwnerScoping(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	created, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S600",
		FirstName: "Owner",
		LastName:  "One",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 2, created.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordServiceAddAttachment(t *testing.T) {
	repo := newRecordRepoStub()
	svc, root := newRecordServiceForTest(t, repo)

	created, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S700",
		FirstName: "File",
		LastName:  "Holder",
	})
	require.NoError(t, err)

	header := makeFileHeader(t, "diploma.png", []byte("image-bytes"))
	updated, err := svc.AddAttachment(context.Background(), 1, created.ID, header)
	require.NoError(t, err)
	require.Len(t, updated.Attachments, 1)
	require.True(t, strings.HasPrefix(updated.Attachments[0], filepath.Join(root, "student_S700")))
	require.FileExists(t, updated.Attachments[0])
}

func TestRecordServiceRemoveAttachment(t *testing.T) {
	repo := newRecordRepoStub()
	svc, _ := newRecordServiceForTest(t, repo)

	created, err := svc.Create(context.Background(), 1, dto.CreateRecordRequest{
		IDNumber:  "S800",
		FirstName: "File",
		LastName:  "Holder",
	})
	require.NoError(t, err)

	header := makeFileHeader(t, "card.png", []byte("image-bytes"))
	withFile, err := svc.AddAttachment(context.Background(), 1, created.ID, header)
	require.NoError(t, err)
	stored := withFile.Attachments[0]

	removed, err := svc.RemoveAttachment(context.Background(), 1, created.ID, dto.RemoveAttachmentRequest{Path: stored})
	require.NoError(t, err)
	require.Empty(t, removed.Attachments)
	require.NoFileExists(t, stored)

	_, err = svc.RemoveAttachment(context.Background(), 1, created.ID, dto.RemoveAttachmentRequest{Path: stored})
	require.ErrorIs(t, err, ErrAttachmentNotListed)
}
