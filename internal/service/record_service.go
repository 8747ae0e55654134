package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/dto"
	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/repository"
)

var (
	// ErrRecordNotFound indicates the record does not exist or belongs to a
	// different operator.
	ErrRecordNotFound = errors.New("student record not found")
	// ErrAttachmentNotListed indicates the path is not among the record's
	// attachments.
	ErrAttachmentNotListed = errors.New("attachment is not listed on the record")
)

// RecordService owns the student record lifecycle: validation, persistence
// and the attachment files that ride along with each row.
type RecordService interface {
	Create(ctx context.Context, ownerID uint, req dto.CreateRecordRequest) (dto.RecordResponse, error)
	Get(ctx context.Context, ownerID, id uint) (dto.RecordResponse, error)
	List(ctx context.Context, ownerID uint, query dto.ListRecordsQuery) ([]dto.RecordResponse, error)
	Update(ctx context.Context, ownerID, id uint, req dto.UpdateRecordRequest) (dto.RecordResponse, error)
	Delete(ctx context.Context, ownerID, id uint) (dto.DeleteRecordResponse, error)
	AddAttachment(ctx context.Context, ownerID, id uint, file *multipart.FileHeader) (dto.RecordResponse, error)
	RemoveAttachment(ctx context.Context, ownerID, id uint, req dto.RemoveAttachmentRequest) (dto.RecordResponse, error)
}

type recordService struct {
	records     repository.RecordRepository
	attachments AttachmentStore
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewRecordService constructs the student record service.
func NewRecordService(records repository.RecordRepository, attachments AttachmentStore, validate *validator.Validate, logger zerolog.Logger) RecordService {
	return &recordService{
		records:     records,
		attachments: attachments,
		validator:   validate,
		logger:      logger.With().Str("component", "record_service").Logger(),
		tracer:      otel.Tracer("github.com/spc-registrar/records-api/internal/service/record"),
	}
}

func (s *recordService) Create(ctx context.Context, ownerID uint, req dto.CreateRecordRequest) (dto.RecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "record.create")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.RecordResponse{}, err
	}

	status := normalizeStatus(req.Status)
	record := models.StudentRecord{
		IDNumber:   strings.TrimSpace(req.IDNumber),
		LegacyName: strings.TrimSpace(req.FirstName),
		FirstName:  strings.TrimSpace(req.FirstName),
		MiddleName: strings.TrimSpace(req.MiddleName),
		LastName:   strings.TrimSpace(req.LastName),
		Status:     status,
		OwnerID:    ownerID,
	}
	record.Title = record.DeriveTitle()

	if status == models.StatusGraduate {
		applyGraduateDetails(&record, req.Graduate)
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return dto.RecordResponse{}, err
	}

	span.SetAttributes(attribute.Int("record.id", int(record.ID)))
	s.logger.Info().Uint("record_id", record.ID).Str("id_number", record.IDNumber).Msg("student record created")

	return toRecordResponse(record), nil
}

func (s *recordService) Get(ctx context.Context, ownerID, id uint) (dto.RecordResponse, error) {
	record, err := s.records.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	return toRecordResponse(record), nil
}

func (s *recordService) List(ctx context.Context, ownerID uint, query dto.ListRecordsQuery) ([]dto.RecordResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	filter := repository.RecordFilter{Search: query.Search}
	if query.Status != "" && query.Status != "All" {
		filter.Status = models.RecordStatus(query.Status)
	}

	records, err := s.records.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RecordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toRecordResponse(record))
	}

	return responses, nil
}

func (s *recordService) Update(ctx context.Context, ownerID, id uint, req dto.UpdateRecordRequest) (dto.RecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "record.update")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.RecordResponse{}, err
	}

	status := normalizeStatus(req.Status)
	scratch := models.StudentRecord{
		IDNumber:  strings.TrimSpace(req.IDNumber),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}

	updates := map[string]interface{}{
		"username":    scratch.IDNumber,
		"password":    scratch.FirstName,
		"first_name":  scratch.FirstName,
		"middle_name": strings.TrimSpace(req.MiddleName),
		"last_name":   scratch.LastName,
		"category":    status,
		"title":       scratch.DeriveTitle(),
	}

	// Graduate columns are written only while the status is Graduate, so a
	// status flip never wipes values already stored.
	if status == models.StatusGraduate {
		updates["last_school_year"] = strings.TrimSpace(req.Graduate.LastSchoolYear)
		updates["contact_number"] = strings.TrimSpace(req.Graduate.ContactNumber)
		updates["so_number"] = strings.TrimSpace(req.Graduate.SONumber)
		updates["date_issued"] = strings.TrimSpace(req.Graduate.DateIssued)
		updates["series_year"] = strings.TrimSpace(req.Graduate.SeriesYear)
		updates["lrn"] = strings.TrimSpace(req.Graduate.LRN)
	}

	record, err := s.records.Update(ctx, ownerID, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	span.SetAttributes(attribute.Int("record.id", int(record.ID)))
	s.logger.Info().Uint("record_id", record.ID).Msg("student record updated")

	return toRecordResponse(record), nil
}

func (s *recordService) Delete(ctx context.Context, ownerID, id uint) (dto.DeleteRecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "record.delete")
	defer span.End()

	record, err := s.records.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeleteRecordResponse{}, ErrRecordNotFound
		}
		return dto.DeleteRecordResponse{}, err
	}

	if err := s.records.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DeleteRecordResponse{}, ErrRecordNotFound
		}
		return dto.DeleteRecordResponse{}, err
	}

	// Best-effort file cleanup after the row is gone. Failures never undo
	// the deletion; they surface as one aggregated warning.
	cleanup := s.attachments.RemoveAll(record.Attachments)
	if len(cleanup.Failed) > 0 {
		s.logger.Warn().
			Uint("record_id", id).
			Int("removed", cleanup.Removed).
			Int("missing", cleanup.Missing).
			Strs("failed", cleanup.Failed).
			Msg("attachment cleanup incomplete")
	}

	s.logger.Info().Uint("record_id", id).Msg("student record deleted")

	return dto.DeleteRecordResponse{
		ID:                 id,
		RemovedAttachments: cleanup.Removed,
		MissingAttachments: cleanup.Missing,
		FailedAttachments:  cleanup.Failed,
	}, nil
}

func (s *recordService) AddAttachment(ctx context.Context, ownerID, id uint, file *multipart.FileHeader) (dto.RecordResponse, error) {
	record, err := s.records.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	stored, err := s.attachments.Save(record.IDNumber, file)
	if err != nil {
		return dto.RecordResponse{}, err
	}

	paths := append([]string(record.Attachments), stored)
	updated, err := s.records.Update(ctx, ownerID, id, map[string]interface{}{
		"attachments": models.AttachmentList(paths),
	})
	if err != nil {
		// The row update failed after the copy; remove the orphan file so
		// the directory matches the database.
		if removeErr := s.attachments.Remove(stored); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("path", stored).Msg("failed to remove orphaned attachment")
		}
		return dto.RecordResponse{}, err
	}

	return toRecordResponse(updated), nil
}

func (s *recordService) RemoveAttachment(ctx context.Context, ownerID, id uint, req dto.RemoveAttachmentRequest) (dto.RecordResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RecordResponse{}, err
	}

	record, err := s.records.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	remaining := make([]string, 0, len(record.Attachments))
	found := false
	for _, path := range record.Attachments {
		if path == req.Path {
			found = true
			continue
		}
		remaining = append(remaining, path)
	}
	if !found {
		return dto.RecordResponse{}, ErrAttachmentNotListed
	}

	updated, err := s.records.Update(ctx, ownerID, id, map[string]interface{}{
		"attachments": models.AttachmentList(remaining),
	})
	if err != nil {
		return dto.RecordResponse{}, err
	}

	if err := s.attachments.Remove(req.Path); err != nil {
		s.logger.Warn().Err(err).Str("path", req.Path).Msg("failed to delete attachment file")
	}

	return toRecordResponse(updated), nil
}

func normalizeStatus(status string) models.RecordStatus {
	if strings.TrimSpace(status) == "" {
		return models.StatusActive
	}
	return models.RecordStatus(status)
}

func applyGraduateDetails(record *models.StudentRecord, details dto.GraduateDetails) {
	record.LastSchoolYear = strings.TrimSpace(details.LastSchoolYear)
	record.ContactNumber = strings.TrimSpace(details.ContactNumber)
	record.SONumber = strings.TrimSpace(details.SONumber)
	record.DateIssued = strings.TrimSpace(details.DateIssued)
	record.SeriesYear = strings.TrimSpace(details.SeriesYear)
	record.LRN = strings.TrimSpace(details.LRN)
}

func toRecordResponse(record models.StudentRecord) dto.RecordResponse {
	response := dto.RecordResponse{
		ID:          record.ID,
		Title:       record.Title,
		IDNumber:    record.IDNumber,
		FirstName:   record.FirstName,
		MiddleName:  record.MiddleName,
		LastName:    record.LastName,
		FullName:    record.FullName(),
		Status:      string(record.Status),
		Attachments: append([]string{}, record.Attachments...),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}

	// Graduate-only values stay hidden unless the status says otherwise.
	if record.IsGraduate() {
		response.Graduate = &dto.GraduateDetails{
			LastSchoolYear: record.LastSchoolYear,
			ContactNumber:  record.ContactNumber,
			SONumber:       record.SONumber,
			DateIssued:     record.DateIssued,
			SeriesYear:     record.SeriesYear,
			LRN:            record.LRN,
		}
	}

	return response
}
