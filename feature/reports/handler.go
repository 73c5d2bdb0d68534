package reports

import (
	"errors"

	"dealer-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves archived reports over HTTP.
type Handler struct {
	archive Archive
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(archive Archive, logger *zap.Logger) *Handler {
	return &Handler{archive: archive, logger: logger}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Get("/:id", h.HandleGetReport)
}

// HandleGetReport streams one archived report as JSON.
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.logger, c)

	// Report ids are UUIDs; anything else is rejected before touching the
	// archive, which also rules out path traversal in the local backend.
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid report id",
		})
	}

	data, err := h.archive.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "report expired or does not exist",
			})
		}
		l.Error("Report lookup failed", zap.String("report_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="report_`+id+`.json"`)
	return c.Send(data)
}

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the reports feature.
func NewFeature(archive Archive, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(archive, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reports"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
