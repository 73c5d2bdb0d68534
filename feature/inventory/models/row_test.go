package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() map[string]string {
	return map[string]string{
		"vin":                "VIN1",
		"category":           "PASSENGER",
		"make":               "VW",
		"model":              "Golf",
		"manufactureYear":    "2021",
		"mileage":            "12500",
		"cubicCapacity":      "1.968",
		"fuelType":           "DIESEL",
		"power":              "150",
		"transmissionType":   "MANUAL",
		"driveWheels":        "FRONT",
		"type":               "HATCHBACK",
		"color":              "red",
		"pricing_listPrice":  "120000",
		"pricing_salesPrice": "118500",
	}
}

func TestVehicleFromRow_Valid(t *testing.T) {
	v, err := VehicleFromRow(validRow())
	require.NoError(t, err)

	assert.Equal(t, "VIN1", v.VIN)
	assert.Equal(t, 2021, v.ManufactureYear)
	assert.Equal(t, 12500, v.Mileage)
	assert.InDelta(t, 1.968, v.CubicCapacity, 0.0001)
	assert.Nil(t, v.Doors)
	assert.Nil(t, v.Acceleration)
	assert.Nil(t, v.ConfigurationNumber)
}

func TestVehicleFromRow_MissingRequiredFields(t *testing.T) {
	row := validRow()
	delete(row, "vin")
	delete(row, "color")

	_, err := VehicleFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
	assert.Contains(t, err.Error(), "vin")
}

func TestVehicleFromRow_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"Year", "manufactureYear", "twenty"},
		{"Mileage", "mileage", "1e"},
		{"Price", "pricing_salesPrice", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			row[tt.field] = tt.value

			_, err := VehicleFromRow(row)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestVehicleFromRow_ZeroDoorsMeansUnknown(t *testing.T) {
	row := validRow()
	row["doors"] = "0"

	v, err := VehicleFromRow(row)
	require.NoError(t, err)
	assert.Nil(t, v.Doors)
}

func TestVehicleFromRow_InvalidDate(t *testing.T) {
	row := validRow()
	row["availableFrom"] = "01/05/2024"

	_, err := VehicleFromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestVehicleFromRow_HalfUpRounding(t *testing.T) {
	row := validRow()
	row["mileage"] = "12500.5"

	v, err := VehicleFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, 12501, v.Mileage)
}
