package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/spc-registrar/records-api/internal/dto"
	"github.com/spc-registrar/records-api/internal/models"
	"github.com/spc-registrar/records-api/internal/observability"
	"github.com/spc-registrar/records-api/internal/repository"
	"github.com/spc-registrar/records-api/pkg/pdfgen"
)

// ReportService projects an operator's records into paginated PDF documents.
// Every report is a stateless transformation of the rows it reads.
type ReportService interface {
	RecordListing(ctx context.Context, ownerID uint, w io.Writer) error
	RecordSheet(ctx context.Context, ownerID, recordID uint, w io.Writer) (dto.RecordResponse, error)
	Statistics(ctx context.Context, ownerID uint, w io.Writer) (dto.StatisticsReport, error)
	RecordWithImages(ctx context.Context, ownerID, recordID uint, w io.Writer) (dto.RecordResponse, error)
}

type reportService struct {
	records repository.RecordRepository
	logger  zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewReportService constructs the report generator.
func NewReportService(records repository.RecordRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		records: records,
		logger:  logger.With().Str("component", "report_service").Logger(),
		tracer:  otel.Tracer("github.com/spc-registrar/records-api/internal/service/report"),
		now:     time.Now,
	}
}

func (s *reportService) RecordListing(ctx context.Context, ownerID uint, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "report.listing")
	defer span.End()

	start := s.now()
	records, err := s.records.List(ctx, ownerID, repository.RecordFilter{})
	if err != nil {
		return err
	}

	counts, err := s.records.CountByStatus(ctx, ownerID)
	if err != nil {
		return err
	}

	listing := pdfgen.Listing{GeneratedAt: s.now()}
	for _, record := range records {
		listing.Rows = append(listing.Rows, pdfgen.ListingRow{
			ID:       record.ID,
			IDNumber: record.IDNumber,
			FullName: record.FullName(),
			Status:   string(record.Status),
			Created:  record.CreatedAt,
			Updated:  record.UpdatedAt,
		})
	}
	for _, count := range counts {
		listing.Tally = append(listing.Tally, pdfgen.StatusTally{Status: string(count.Status), Count: count.Count})
	}

	if err := pdfgen.WriteListing(w, listing); err != nil {
		return fmt.Errorf("failed to render listing report: %w", err)
	}

	span.SetAttributes(attribute.Int("report.rows", len(records)))
	s.observe("listing", start)

	return nil
}

func (s *reportService) RecordSheet(ctx context.Context, ownerID, recordID uint, w io.Writer) (dto.RecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "report.record_sheet")
	defer span.End()

	start := s.now()
	record, err := s.records.GetByID(ctx, ownerID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	if err := pdfgen.WriteRecordSheet(w, s.buildSheet(record)); err != nil {
		return dto.RecordResponse{}, fmt.Errorf("failed to render record sheet: %w", err)
	}

	s.observe("record_sheet", start)

	return toRecordResponse(record), nil
}

func (s *reportService) Statistics(ctx context.Context, ownerID uint, w io.Writer) (dto.StatisticsReport, error) {
	ctx, span := s.tracer.Start(ctx, "report.statistics")
	defer span.End()

	start := s.now()
	report, err := s.buildStatistics(ctx, ownerID)
	if err != nil {
		return dto.StatisticsReport{}, err
	}

	stats := pdfgen.Statistics{GeneratedAt: s.now(), Total: report.Total}
	for _, breakdown := range report.ByStatus {
		stats.Categories = append(stats.Categories, pdfgen.CategoryStat{
			Name:       breakdown.Status,
			Count:      breakdown.Count,
			Percentage: breakdown.Percentage,
		})
	}
	for _, month := range report.Monthly {
		stats.Monthly = append(stats.Monthly, pdfgen.MonthlyStat{Month: month.Month, Count: month.Count})
	}

	if err := pdfgen.WriteStatistics(w, stats); err != nil {
		return dto.StatisticsReport{}, fmt.Errorf("failed to render statistics report: %w", err)
	}

	span.SetAttributes(attribute.Int64("report.total", report.Total))
	s.observe("statistics", start)

	return report, nil
}

func (s *reportService) RecordWithImages(ctx context.Context, ownerID, recordID uint, w io.Writer) (dto.RecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "report.record_images")
	defer span.End()

	start := s.now()
	record, err := s.records.GetByID(ctx, ownerID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordResponse{}, ErrRecordNotFound
		}
		return dto.RecordResponse{}, err
	}

	if err := pdfgen.WriteRecordWithImages(w, s.buildSheet(record), record.Attachments); err != nil {
		return dto.RecordResponse{}, fmt.Errorf("failed to render image report: %w", err)
	}

	s.observe("record_images", start)

	return toRecordResponse(record), nil
}

// buildStatistics computes the aggregate numbers shared by the PDF and the
// JSON projection. The per-status counts always sum to the total; an empty
// set yields zero percentages, never a division by zero.
func (s *reportService) buildStatistics(ctx context.Context, ownerID uint) (dto.StatisticsReport, error) {
	total, err := s.records.Count(ctx, ownerID)
	if err != nil {
		return dto.StatisticsReport{}, err
	}

	counts, err := s.records.CountByStatus(ctx, ownerID)
	if err != nil {
		return dto.StatisticsReport{}, err
	}

	monthly, err := s.records.CountByMonth(ctx, ownerID, 6)
	if err != nil {
		return dto.StatisticsReport{}, err
	}

	report := dto.StatisticsReport{Total: total}
	for _, count := range counts {
		percentage := 0.0
		if total > 0 {
			percentage = float64(count.Count) / float64(total) * 100
		}
		report.ByStatus = append(report.ByStatus, dto.StatusBreakdown{
			Status:     string(count.Status),
			Count:      count.Count,
			Percentage: percentage,
		})
	}
	for _, month := range monthly {
		report.Monthly = append(report.Monthly, dto.MonthlyCount{Month: month.Month, Count: month.Count})
	}

	return report, nil
}

func (s *reportService) buildSheet(record models.StudentRecord) pdfgen.Sheet {
	fields := []pdfgen.Field{
		{Label: "ID Number", Value: record.IDNumber},
		{Label: "First Name", Value: record.FirstName},
		{Label: "Middle Name", Value: record.MiddleName},
		{Label: "Last Name", Value: record.LastName},
		{Label: "Status", Value: string(record.Status)},
		{Label: "Created Date", Value: formatSheetDate(record.CreatedAt)},
		{Label: "Last Updated", Value: formatSheetDate(record.UpdatedAt)},
	}

	// The graduate block appears only when the status says it is meaningful.
	if record.IsGraduate() {
		fields = append(fields,
			pdfgen.Field{Label: "Last School Year Attended", Value: record.LastSchoolYear},
			pdfgen.Field{Label: "Contact Number", Value: record.ContactNumber},
			pdfgen.Field{Label: "SO Number", Value: record.SONumber},
			pdfgen.Field{Label: "Date Issued", Value: record.DateIssued},
			pdfgen.Field{Label: "Series of Year", Value: record.SeriesYear},
			pdfgen.Field{Label: "LRN", Value: record.LRN},
		)
	}

	return pdfgen.Sheet{
		GeneratedAt: s.now(),
		Title:       record.Title,
		Fields:      fields,
	}
}

func (s *reportService) observe(report string, start time.Time) {
	observability.ReportsGenerated().WithLabelValues(report).Inc()
	observability.ReportLatency().WithLabelValues(report).Observe(time.Since(start).Seconds())
}

func formatSheetDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
