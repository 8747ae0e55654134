package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/spc-registrar/records-api/internal/service"
	"github.com/spc-registrar/records-api/internal/utils"
)

// BackupHandler serves the raw database file download.
type BackupHandler struct {
	service service.BackupService
	logger  zerolog.Logger
}

// NewBackupHandler constructs a backup handler.
func NewBackupHandler(service service.BackupService, logger zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		service: service,
		logger:  logger.With().Str("component", "backup_handler").Logger(),
	}
}

// Register wires the backup route.
func (h *BackupHandler) Register(router fiber.Router) {
	router.Get("", h.download)
}

func (h *BackupHandler) download(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if _, err := h.service.Snapshot(&buf); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create backup")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create backup")
	}

	return utils.SendFile(c, "application/octet-stream", h.service.SuggestedFilename(), buf.Bytes())
}
