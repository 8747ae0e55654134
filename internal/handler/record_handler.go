package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spc-registrar/records-api/internal/dto"
	"github.com/spc-registrar/records-api/internal/service"
	"github.com/spc-registrar/records-api/internal/utils"
)

// RecordHandler handles the student record CRUD surface.
type RecordHandler struct {
	service service.RecordService
	logger  zerolog.Logger
}

// NewRecordHandler constructs a record handler.
func NewRecordHandler(service service.RecordService, logger zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		service: service,
		logger:  logger.With().Str("component", "record_handler").Logger(),
	}
}

// Register wires the record routes.
func (h *RecordHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/attachments", h.addAttachment)
	router.Delete("/:id/attachments", h.removeAttachment)
}

func (h *RecordHandler) list(c *fiber.Ctx) error {
	query := dto.ListRecordsQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	records, err := h.service.List(c.Context(), operatorIDFromContext(c), query)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid status filter")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list records")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list student records")
	}

	return utils.SendSuccess(c, "student records", records)
}

func (h *RecordHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Create(c.Context(), operatorIDFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "id number, first name and last name are required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create record")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create student record")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student record created", record)
}

func (h *RecordHandler) get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	record, err := h.service.Get(c.Context(), operatorIDFromContext(c), uint(id))
	if err != nil {
		return h.mapError(c, err, "failed to load student record")
	}

	return utils.SendSuccess(c, "student record", record)
}

func (h *RecordHandler) update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	var payload dto.UpdateRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.Update(c.Context(), operatorIDFromContext(c), uint(id), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "id number, first name and last name are required")
		}
		return h.mapError(c, err, "failed to update student record")
	}

	return utils.SendSuccess(c, "student record updated", record)
}

func (h *RecordHandler) delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	result, err := h.service.Delete(c.Context(), operatorIDFromContext(c), uint(id))
	if err != nil {
		return h.mapError(c, err, "failed to delete student record")
	}

	message := "student record deleted"
	if len(result.FailedAttachments) > 0 {
		message = "student record deleted; some attachment files could not be removed"
	}

	return utils.SendSuccess(c, message, result)
}

func (h *RecordHandler) addAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	record, err := h.service.AddAttachment(c.Context(), operatorIDFromContext(c), uint(id), file)
	if err != nil {
		return h.mapError(c, err, "failed to store attachment")
	}

	return utils.SendSuccess(c, "attachment stored", record)
}

func (h *RecordHandler) removeAttachment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid record id")
	}

	var payload dto.RemoveAttachmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	record, err := h.service.RemoveAttachment(c.Context(), operatorIDFromContext(c), uint(id), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "attachment path is required")
		}
		return h.mapError(c, err, "failed to remove attachment")
	}

	return utils.SendSuccess(c, "attachment removed", record)
}

func (h *RecordHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student record not found")
	case errors.Is(err, service.ErrAttachmentNotListed):
		return utils.SendError(c, fiber.StatusBadRequest, "attachment is not listed on the record")
	case errors.Is(err, service.ErrAttachmentOutsideRoot):
		return utils.SendError(c, fiber.StatusBadRequest, "attachment path is outside the attachments folder")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
