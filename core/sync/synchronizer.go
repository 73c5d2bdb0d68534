package sync

import (
	"context"
	"errors"
	"fmt"

	"dealer-sync/core/dealer"
	"dealer-sync/core/state"
	"dealer-sync/feature/inventory/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Gateway is the remote vehicle CRUD capability the synchronizer depends on.
// Implementations must return *dealer.APIError values so failures can be
// classified by kind; in particular, update against a vanished car id must
// surface dealer.KindNotFound or drift recovery never triggers.
type Gateway interface {
	// Create registers the vehicle and returns the platform-assigned car id.
	Create(ctx context.Context, vehicle *models.Vehicle) (string, error)
	// Update replaces the remote vehicle identified by carID.
	Update(ctx context.Context, carID string, vehicle *models.Vehicle) error
	// Delete closes the remote vehicle identified by carID.
	Delete(ctx context.Context, carID string) error
	// Vehicle fetches the remote copy, used for price comparison.
	Vehicle(ctx context.Context, carID string) (*dealer.RemoteVehicle, error)
	// UpdatePrice pushes a new sales price for the vehicle.
	UpdatePrice(ctx context.Context, carID string, price decimal.Decimal, notifyDiscount bool) error
}

// Options controls a synchronisation run.
type Options struct {
	// CloseMissing closes vehicles that are active in the state store but
	// absent from the feed.
	CloseMissing bool
	// UpdatePrices pushes price changes for vehicles that already exist
	// remotely.
	UpdatePrices bool
}

// Synchronizer reconciles a batch of feed vehicles against the dealer
// platform, keeping the state store's VIN ledger in step.
//
// A Synchronizer instance must not run concurrently against the same state
// store; the run is strictly sequential and each vehicle's outcome is fully
// recorded before the next is processed.
type Synchronizer struct {
	gateway Gateway
	store   *state.Store
	logger  *zap.Logger
}

// New creates a synchronizer bound to a gateway and a state store.
func New(gateway Gateway, store *state.Store, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{gateway: gateway, store: store, logger: logger}
}

// Run executes one reconciliation pass and returns the report.
//
// A duplicate VIN in the batch aborts the run before any remote call or
// store mutation; the store is not saved on that path so the on-disk ledger
// stays exactly as it was. Every other failure is terminal for its vehicle
// only: it is recorded in the report and the run continues. No call is
// retried within a run.
//
// Remote mutations that succeeded are counted even when the final state save
// fails; the save failure is recorded as a distinguished error with no VIN,
// leaving operators a signal that the local ledger may lag the platform.
func (s *Synchronizer) Run(ctx context.Context, vehicles []models.Vehicle, opts Options) *Report {
	report := NewReport()

	desired, err := models.UniqueVINs(vehicles)
	if err != nil {
		s.logger.Error("Rejecting feed batch", zap.Error(err))
		var dup *models.DuplicateVINError
		if errors.As(err, &dup) {
			report.addError(dup.VIN, "", err.Error())
		} else {
			report.addError("", "", err.Error())
		}
		return report
	}

	for i := range vehicles {
		s.syncVehicle(ctx, &vehicles[i], opts, report)
	}

	if opts.CloseMissing {
		s.closeMissing(ctx, desired, report)
	}

	if err := s.store.Save(); err != nil {
		s.logger.Error("Failed to persist state", zap.Error(err))
		report.addError("", "", fmt.Sprintf("failed to persist state: %v", err))
	}

	return report
}

// syncVehicle applies the update-else-create decision for one vehicle.
// Exactly one of update-success, create-success or a recorded error results.
func (s *Synchronizer) syncVehicle(ctx context.Context, vehicle *models.Vehicle, opts Options, report *Report) {
	carID, known := s.store.GetCarID(vehicle.VIN)

	if known {
		err := s.gateway.Update(ctx, carID, vehicle)
		switch {
		case err == nil:
			s.store.MarkActive(vehicle.VIN)
			report.addUpdated(vehicle.VIN, carID)
			if opts.UpdatePrices {
				s.updatePrice(ctx, carID, vehicle, report)
			}
			return
		case dealer.IsNotFound(err):
			// The remembered car id is stale: the remote copy disappeared
			// out-of-band. Recreate using the same record.
			s.logger.Warn("Remote vehicle missing, recreating",
				zap.String("vin", vehicle.VIN), zap.String("stale_car_id", carID))
		default:
			s.logger.Error("Failed to update vehicle",
				zap.String("vin", vehicle.VIN), zap.String("car_id", carID), zap.Error(err))
			report.addError(vehicle.VIN, carID, fmt.Sprintf("update failed: %v", err))
			return
		}
	}

	newID, err := s.gateway.Create(ctx, vehicle)
	if err != nil {
		s.logger.Error("Failed to create vehicle",
			zap.String("vin", vehicle.VIN), zap.Error(err))
		report.addError(vehicle.VIN, "", fmt.Sprintf("creation failed: %v", err))
		return
	}

	s.store.Upsert(vehicle.VIN, newID, vehicle.ConfigurationNumber)
	report.addCreated(vehicle.VIN, newID)
}

// closeMissing closes every active VIN that is absent from the desired set.
// A failed close leaves the entry active so the next run retries it.
func (s *Synchronizer) closeMissing(ctx context.Context, desired map[string]models.Vehicle, report *Report) {
	for _, vin := range s.store.KnownVINs() {
		if _, wanted := desired[vin]; wanted {
			continue
		}
		carID, ok := s.store.GetCarID(vin)
		if !ok || carID == "" {
			// Nothing to delete remotely.
			continue
		}

		if err := s.gateway.Delete(ctx, carID); err != nil {
			s.logger.Error("Failed to close vehicle",
				zap.String("vin", vin), zap.String("car_id", carID), zap.Error(err))
			report.addError(vin, carID, fmt.Sprintf("close failed: %v", err))
			continue
		}

		s.store.MarkDeleted(vin)
		report.addClosed(vin, carID)
	}
}

// updatePrice compares the remote sales price with the feed price and pushes
// a change when they differ. A drop below the current remote price is sent
// with the discount notification flag set.
func (s *Synchronizer) updatePrice(ctx context.Context, carID string, vehicle *models.Vehicle, report *Report) {
	remote, err := s.gateway.Vehicle(ctx, carID)
	if err != nil {
		s.logger.Error("Failed to fetch remote price",
			zap.String("vin", vehicle.VIN), zap.String("car_id", carID), zap.Error(err))
		report.addError(vehicle.VIN, carID, fmt.Sprintf("price check failed: %v", err))
		return
	}

	current := remote.Pricing.SalesPrice
	notifyDiscount := current != nil && vehicle.SalesPrice.LessThan(*current)
	if current != nil && current.Equal(vehicle.SalesPrice) {
		return
	}

	if err := s.gateway.UpdatePrice(ctx, carID, vehicle.SalesPrice, notifyDiscount); err != nil {
		s.logger.Error("Failed to update price",
			zap.String("vin", vehicle.VIN), zap.String("car_id", carID), zap.Error(err))
		report.addError(vehicle.VIN, carID, fmt.Sprintf("price update failed: %v", err))
		return
	}
	report.PriceUpdates++
}
