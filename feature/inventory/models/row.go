package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VehicleFromRow builds a Vehicle from a cleaned CSV row. Rows are expected
// to have passed through the feed normalizers first, so values are trimmed
// and enum-mapped; this function only validates and converts.
func VehicleFromRow(row map[string]string) (Vehicle, error) {
	var missing []string

	require := func(key string) string {
		value := row[key]
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	vin := require("vin")
	category := require("category")
	makeName := require("make")
	model := require("model")
	fuelType := require("fuelType")
	transmission := require("transmissionType")
	driveWheels := require("driveWheels")
	vehicleType := require("type")
	color := require("color")

	year, err := parseInt(require("manufactureYear"), "manufactureYear")
	if err != nil {
		return Vehicle{}, err
	}
	mileage, err := parseInt(require("mileage"), "mileage")
	if err != nil {
		return Vehicle{}, err
	}
	power, err := parseInt(require("power"), "power")
	if err != nil {
		return Vehicle{}, err
	}
	cubicCapacity, err := parseFloat(require("cubicCapacity"), "cubicCapacity")
	if err != nil {
		return Vehicle{}, err
	}

	var acceleration *float64
	if raw := row["acceleration"]; raw != "" {
		value, err := parseFloat(raw, "acceleration")
		if err != nil {
			return Vehicle{}, err
		}
		acceleration = &value
	}

	var doors *int
	if raw := row["doors"]; raw != "" {
		value, err := parseInt(raw, "doors")
		if err != nil {
			return Vehicle{}, err
		}
		// Zero means "unknown" in partner feeds.
		if value != 0 {
			doors = &value
		}
	}

	listPrice, err := parseMoney(require("pricing_listPrice"), "pricing_listPrice")
	if err != nil {
		return Vehicle{}, err
	}
	salesPrice, err := parseMoney(require("pricing_salesPrice"), "pricing_salesPrice")
	if err != nil {
		return Vehicle{}, err
	}

	availableFrom, err := parseDate(row["availableFrom"])
	if err != nil {
		return Vehicle{}, err
	}
	firstRegistration, err := parseDate(row["firstRegistrationDate"])
	if err != nil {
		return Vehicle{}, err
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return Vehicle{}, fmt.Errorf("missing required CSV fields: %s", strings.Join(dedupe(missing), ", "))
	}

	return Vehicle{
		VIN:                   vin,
		ConfigurationNumber:   optional(row["configurationNumber"]),
		Category:              category,
		Make:                  makeName,
		Model:                 model,
		ManufactureYear:       year,
		Mileage:               mileage,
		EngineCode:            optional(row["engineCode"]),
		CubicCapacity:         cubicCapacity,
		Acceleration:          acceleration,
		FuelType:              fuelType,
		Power:                 power,
		TransmissionType:      transmission,
		DriveWheels:           driveWheels,
		Type:                  vehicleType,
		CarClass:              optional(row["carClass"]),
		Doors:                 doors,
		Color:                 color,
		AvailableFrom:         availableFrom,
		FirstRegistrationDate: firstRegistration,
		Description:           optional(row["description"]),
		ListPrice:             listPrice,
		SalesPrice:            salesPrice,
		RegistrationNumber:    optional(row["registrationNumber"]),
		LocationID:            optional(row["locationId"]),
	}, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func parseInt(value, field string) (int, error) {
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %q: %s", field, value)
	}
	// Half-up rounding matches how partners quote fractional mileage.
	return int(d.Round(0).IntPart()), nil
}

func parseFloat(value, field string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value for %q: %s", field, value)
	}
	f, _ := d.Float64()
	return f, nil
}

func parseMoney(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid monetary value for %q: %s", field, value)
	}
	return d, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date value: %s", value)
	}
	return &t, nil
}
