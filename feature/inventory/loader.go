package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"dealer-sync/feature/inventory/models"
)

// RowError describes a validation failure tied to one CSV row. Rows with
// errors are excluded from the result; the synchronizer never sees them.
type RowError struct {
	// Line is the 1-based line number in the file, counting the header.
	Line int `json:"line"`
	// VIN is the row's VIN when one was present.
	VIN string `json:"vin,omitempty"`
	// Message is the human-readable validation failure.
	Message string `json:"message"`
}

func (e RowError) String() string {
	if e.VIN != "" {
		return fmt.Sprintf("row %d (VIN: %s): %s", e.Line, e.VIN, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

// LoadVehicles reads the partner CSV file and returns the valid vehicles
// plus per-row validation errors. locations may be nil when no location
// mapping is configured.
func LoadVehicles(path string, locations *Locations) ([]models.Vehicle, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()
	return ReadVehicles(f, locations)
}

// ReadVehicles parses CSV content from r. The first record is the header;
// every following record is validated independently so one bad row never
// poisons the batch.
func ReadVehicles(r io.Reader, locations *Locations) ([]models.Vehicle, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var vehicles []models.Vehicle
	var rowErrors []RowError

	line := 1 // header
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: err.Error()})
			continue
		}

		row := make(map[string]string, len(header))
		for i, key := range header {
			if i < len(record) {
				row[key] = record[i]
			}
		}

		cleaned := CleanRow(row)
		if locations != nil {
			cleaned["locationId"] = locations.Resolve(cleaned["locationId"])
		} else {
			cleaned["locationId"] = ""
		}

		vehicle, err := models.VehicleFromRow(cleaned)
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Line:    line,
				VIN:     strings.TrimSpace(row["vin"]),
				Message: err.Error(),
			})
			continue
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rowErrors, nil
}
