package inventory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const feedHeader = "vin,configurationNumber,category,make,model,manufactureYear,mileage,engineCode,cubicCapacity,acceleration,fuelType,power,transmissionType,driveWheels,type,carClass,doors,color,availableFrom,firstRegistrationDate,description,pricing_listPrice,pricing_salesPrice,registrationNumber,locationId"

func feedRow(vin string) string {
	return vin + ",CFG-1,Osobowy,VW,Golf,2021,12 500,CDL,1.968,8.9,Diesel,150,Manualna,Na przednie koła,Hatchback,Family,5,czerwony,2024-05-01 00:00:00,2021-03-15,Klima | ABS,120000,118500,WZ1234,LOC-7"
}

func TestReadVehicles_ValidFeed(t *testing.T) {
	csv := feedHeader + "\n" + feedRow("VIN0001") + "\n" + feedRow("VIN0002")

	vehicles, rowErrors, err := ReadVehicles(strings.NewReader(csv), nil)
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, vehicles, 2)

	v := vehicles[0]
	assert.Equal(t, "VIN0001", v.VIN)
	assert.Equal(t, "PASSENGER", v.Category)
	assert.Equal(t, "DIESEL", v.FuelType)
	assert.Equal(t, "MANUAL", v.TransmissionType)
	assert.Equal(t, "FRONT", v.DriveWheels)
	assert.Equal(t, "HATCHBACK", v.Type)
	assert.Equal(t, 12500, v.Mileage)
	require.NotNil(t, v.Doors)
	assert.Equal(t, 5, *v.Doors)
	assert.Equal(t, "118500", v.SalesPrice.String())
	require.NotNil(t, v.AvailableFrom)
	assert.Equal(t, "2024-05-01", v.AvailableFrom.Format("2006-01-02"))
	// No locations service configured, so the partner id is dropped.
	assert.Nil(t, v.LocationID)
}

func TestReadVehicles_RowErrorsDoNotPoisonBatch(t *testing.T) {
	bad := strings.Replace(feedRow("VIN0002"), "2021", "", 1) // missing year
	csv := feedHeader + "\n" + feedRow("VIN0001") + "\n" + bad + "\n" + feedRow("VIN0003")

	vehicles, rowErrors, err := ReadVehicles(strings.NewReader(csv), nil)
	require.NoError(t, err)

	require.Len(t, vehicles, 2)
	assert.Equal(t, "VIN0001", vehicles[0].VIN)
	assert.Equal(t, "VIN0003", vehicles[1].VIN)

	require.Len(t, rowErrors, 1)
	assert.Equal(t, 3, rowErrors[0].Line)
	assert.Equal(t, "VIN0002", rowErrors[0].VIN)
	assert.Contains(t, rowErrors[0].Message, "manufactureYear")
}

func TestReadVehicles_EmptyFile(t *testing.T) {
	_, _, err := ReadVehicles(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestReadVehicles_ResolvesLocations(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "locations.json")
	mapping, _ := json.Marshal(map[string]string{"LOC-7": "PLATFORM-99"})
	require.NoError(t, os.WriteFile(mapPath, mapping, 0o644))

	locations := NewLocations(mapPath, zap.NewNop())
	csv := feedHeader + "\n" + feedRow("VIN0001")

	vehicles, rowErrors, err := ReadVehicles(strings.NewReader(csv), locations)
	require.NoError(t, err)
	require.Empty(t, rowErrors)
	require.Len(t, vehicles, 1)

	require.NotNil(t, vehicles[0].LocationID)
	assert.Equal(t, "PLATFORM-99", *vehicles[0].LocationID)
}

func TestLoadVehicles_MissingFile(t *testing.T) {
	_, _, err := LoadVehicles(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestRowError_String(t *testing.T) {
	withVIN := RowError{Line: 3, VIN: "V1", Message: "bad"}
	assert.Equal(t, "row 3 (VIN: V1): bad", withVIN.String())

	without := RowError{Line: 4, Message: "bad"}
	assert.Equal(t, "row 4: bad", without.String())
}
