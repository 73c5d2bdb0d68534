package upload

import (
	"dealer-sync/core/logger"
	"dealer-sync/core/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler accepts feed uploads over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the upload routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sync", h.HandleSync)
}

// HandleSync runs one synchronisation from an uploaded CSV feed. The feed is
// sent as multipart form file "feed"; the form fields "close_missing" and
// "update_prices" toggle the optional passes. Responds with the detailed
// report. A feed with any unparseable row is rejected with 422 before a
// single remote call; a feed that cannot be read at all yields 400. Remote
// errors of an executed run are reported inside the document.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	file, err := c.FormFile("feed")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart file 'feed' is required",
		})
	}

	feed, err := file.Open()
	if err != nil {
		l.Error("Failed to open uploaded feed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer feed.Close()

	opts := sync.Options{
		CloseMissing: c.FormValue("close_missing") == "true",
		UpdatePrices: c.FormValue("update_prices") == "true",
	}

	result, err := h.service.Run(c.Context(), feed, opts)
	if err != nil {
		l.Error("Sync run failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.Rejected() {
		l.Warn("Feed rejected", zap.Int("row_errors", len(result.RowErrors)))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      "feed rejected, no rows were synchronized",
			"row_errors": result.RowErrorStrings(),
		})
	}

	l.Info("Sync run finished",
		zap.String("report_id", result.ReportID),
		zap.Int("created", result.Report.Created),
		zap.Int("updated", result.Report.Updated),
		zap.Int("closed", result.Report.Closed),
		zap.Int("errors", len(result.Report.Errors)))

	return c.JSON(result.Document())
}
