package handler

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spc-registrar/records-api/internal/service"
	"github.com/spc-registrar/records-api/internal/utils"
)

const pdfContentType = "application/pdf"

// ReportHandler serves the four PDF report downloads.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs a report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires the report routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/records", h.listing)
	router.Get("/statistics", h.statistics)
	router.Get("/records/:id", h.recordSheet)
	router.Get("/records/:id/images", h.recordWithImages)
}

func (h *ReportHandler) listing(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.service.RecordListing(c.Context(), operatorIDFromContext(c), &buf); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate listing report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate report")
	}

	filename := fmt.Sprintf("student_records_%s.pdf", time.Now().Format("20060102_150405"))
	return utils.SendFile(c, pdfContentType, filename, buf.Bytes())
}

func (h *ReportHandler) statistics(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := h.service.Statistics(c.Context(), operatorIDFromContext(c), &buf); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate statistics report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate report")
	}

	filename := fmt.Sprintf("student_statistics_%s.pdf", time.Now().Format("20060102"))
	return utils.SendFile(c, pdfContentType, filename, buf.Bytes())
}

func (h *ReportHandler) recordSheet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	var buf bytes.Buffer
	record, err := h.service.RecordSheet(c.Context(), operatorIDFromContext(c), uint(id), &buf)
	if err != nil {
		return h.mapError(c, err)
	}

	filename := fmt.Sprintf("student_%s_%s.pdf", record.IDNumber, time.Now().Format("20060102"))
	return utils.SendFile(c, pdfContentType, filename, buf.Bytes())
}

func (h *ReportHandler) recordWithImages(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	var buf bytes.Buffer
	record, err := h.service.RecordWithImages(c.Context(), operatorIDFromContext(c), uint(id), &buf)
	if err != nil {
		return h.mapError(c, err)
	}

	filename := fmt.Sprintf("student_%s_images_%s.pdf", record.IDNumber, time.Now().Format("20060102"))
	return utils.SendFile(c, pdfContentType, filename, buf.Bytes())
}

func (h *ReportHandler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "student record not found")
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("failed to generate record report")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to generate report")
}
