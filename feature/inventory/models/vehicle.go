package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle represents one vehicle from the partner feed, normalized and
// validated. Instances are immutable for the duration of a run.
type Vehicle struct {
	// VIN is the stable domain identity for the vehicle across runs.
	VIN string

	// ConfigurationNumber is a human label from the partner, not an identity key.
	ConfigurationNumber *string

	Category        string
	Make            string
	Model           string
	ManufactureYear int
	Mileage         int
	EngineCode      *string
	CubicCapacity   float64
	Acceleration    *float64
	FuelType        string
	Power           int
	TransmissionType string
	DriveWheels     string
	Type            string
	CarClass        *string
	Doors           *int
	Color           string

	AvailableFrom         *time.Time
	FirstRegistrationDate *time.Time

	Description        *string
	ListPrice          decimal.Decimal
	SalesPrice         decimal.Decimal
	RegistrationNumber *string
	LocationID         *string
}

// APIPayload serialises the vehicle to the body expected by the dealer API.
// Keys with nil values are dropped to keep the payload lean.
func (v *Vehicle) APIPayload() map[string]any {
	payload := map[string]any{
		"vin":              v.VIN,
		"category":         v.Category,
		"make":             v.Make,
		"model":            v.Model,
		"manufactureYear":  v.ManufactureYear,
		"mileage":          v.Mileage,
		"cubicCapacity":    v.CubicCapacity,
		"fuelType":         v.FuelType,
		"power":            v.Power,
		"transmissionType": v.TransmissionType,
		"driveWheels":      v.DriveWheels,
		"type":             v.Type,
		"color":            v.Color,
		"pricing": map[string]string{
			"listPrice":  v.ListPrice.String(),
			"salesPrice": v.SalesPrice.String(),
		},
	}

	setIfPresent(payload, "configurationNumber", v.ConfigurationNumber)
	setIfPresent(payload, "engineCode", v.EngineCode)
	setIfPresent(payload, "carClass", v.CarClass)
	setIfPresent(payload, "description", v.Description)
	setIfPresent(payload, "registrationNumber", v.RegistrationNumber)
	setIfPresent(payload, "locationId", v.LocationID)

	if v.Acceleration != nil {
		payload["acceleration"] = *v.Acceleration
	}
	if v.Doors != nil {
		payload["doors"] = *v.Doors
	}
	if v.AvailableFrom != nil {
		payload["availableFrom"] = v.AvailableFrom.Format("2006-01-02")
	}
	if v.FirstRegistrationDate != nil {
		payload["firstRegistrationDate"] = v.FirstRegistrationDate.Format("2006-01-02")
	}

	return payload
}

func setIfPresent(payload map[string]any, key string, value *string) {
	if value != nil {
		payload[key] = *value
	}
}

// DuplicateVINError identifies the first VIN that appears more than once in
// a batch.
type DuplicateVINError struct {
	VIN string
}

func (e *DuplicateVINError) Error() string {
	return fmt.Sprintf("duplicate vehicle VIN detected: %s", e.VIN)
}

// UniqueVINs returns a VIN-keyed map over vehicles, failing with a
// DuplicateVINError on the first duplicate. Map insertion order is preserved
// separately by the caller when ordering matters.
func UniqueVINs(vehicles []Vehicle) (map[string]Vehicle, error) {
	unique := make(map[string]Vehicle, len(vehicles))
	for _, v := range vehicles {
		if _, exists := unique[v.VIN]; exists {
			return nil, &DuplicateVINError{VIN: v.VIN}
		}
		unique[v.VIN] = v
	}
	return unique, nil
}
