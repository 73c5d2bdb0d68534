package sync

// Detail identifies one vehicle outcome in the report.
type Detail struct {
	VIN   string `json:"vin"`
	CarID string `json:"car_id"`
}

// ErrorDetail describes one failed operation. VIN and CarID are empty for
// failures not tied to a single vehicle, such as a state persistence error.
type ErrorDetail struct {
	VIN     string `json:"vin"`
	CarID   string `json:"car_id"`
	Message string `json:"error_message"`
}

// Report is the structured outcome of a synchronisation run. It is write-only
// while the run executes and read-only afterwards.
type Report struct {
	Created      int
	Updated      int
	PriceUpdates int
	Closed       int

	CreatedDetails []Detail
	UpdatedDetails []Detail
	ClosedDetails  []Detail
	Errors         []ErrorDetail
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

func (r *Report) addCreated(vin, carID string) {
	r.Created++
	r.CreatedDetails = append(r.CreatedDetails, Detail{VIN: vin, CarID: carID})
}

func (r *Report) addUpdated(vin, carID string) {
	r.Updated++
	r.UpdatedDetails = append(r.UpdatedDetails, Detail{VIN: vin, CarID: carID})
}

func (r *Report) addClosed(vin, carID string) {
	r.Closed++
	r.ClosedDetails = append(r.ClosedDetails, Detail{VIN: vin, CarID: carID})
}

func (r *Report) addError(vin, carID, message string) {
	r.Errors = append(r.Errors, ErrorDetail{VIN: vin, CarID: carID, Message: message})
}

// HasErrors reports whether any error was recorded during the run.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns the counter view of the report.
func (r *Report) Summary() map[string]int {
	return map[string]int{
		"created":       r.Created,
		"updated":       r.Updated,
		"price_updates": r.PriceUpdates,
		"closed":        r.Closed,
		"errors":        len(r.Errors),
	}
}

// Detailed returns the summary plus per-vehicle outcome lists, in the order
// the outcomes were recorded.
func (r *Report) Detailed() map[string]any {
	return map[string]any{
		"summary": r.Summary(),
		"details": map[string]any{
			"created": detailList(r.CreatedDetails),
			"updated": detailList(r.UpdatedDetails),
			"closed":  detailList(r.ClosedDetails),
			"errors":  errorList(r.Errors),
		},
	}
}

// detailList keeps JSON rendering stable for empty slices ([], not null).
func detailList(details []Detail) []Detail {
	if details == nil {
		return []Detail{}
	}
	return details
}

func errorList(details []ErrorDetail) []ErrorDetail {
	if details == nil {
		return []ErrorDetail{}
	}
	return details
}
