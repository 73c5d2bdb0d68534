package upload

import (
	"dealer-sync/core/sync"
	"dealer-sync/feature/inventory"
	"dealer-sync/feature/reports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new upload feature.
func NewFeature(locations *inventory.Locations, synchronizer *sync.Synchronizer, archive reports.Archive, logger *zap.Logger) *Feature {
	svc := NewService(locations, synchronizer, archive, logger)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "upload"
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
