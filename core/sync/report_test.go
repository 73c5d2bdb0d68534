package sync_test

import (
	"encoding/json"
	"testing"

	"dealer-sync/core/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Summary(t *testing.T) {
	r := sync.Report{
		Created:      2,
		Updated:      3,
		PriceUpdates: 1,
		Closed:       1,
		Errors:       []sync.ErrorDetail{{VIN: "A", Message: "boom"}},
	}

	assert.Equal(t, map[string]int{
		"created":       2,
		"updated":       3,
		"price_updates": 1,
		"closed":        1,
		"errors":        1,
	}, r.Summary())
	assert.True(t, r.HasErrors())
}

func TestReport_DetailedRendersEmptyLists(t *testing.T) {
	r := sync.NewReport()

	raw, err := json.Marshal(r.Detailed())
	require.NoError(t, err)

	var decoded struct {
		Details struct {
			Created []any `json:"created"`
			Errors  []any `json:"errors"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Consumers rely on arrays, never null.
	assert.NotNil(t, decoded.Details.Created)
	assert.NotNil(t, decoded.Details.Errors)
}

func TestReport_DetailedCarriesOutcomeRecords(t *testing.T) {
	r := sync.Report{
		Created:        1,
		CreatedDetails: []sync.Detail{{VIN: "A", CarID: "1"}},
		Errors:         []sync.ErrorDetail{{VIN: "B", CarID: "2", Message: "close failed"}},
	}

	raw, err := json.Marshal(r.Detailed())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	details := decoded["details"].(map[string]any)
	created := details["created"].([]any)
	require.Len(t, created, 1)
	assert.Equal(t, map[string]any{"vin": "A", "car_id": "1"}, created[0])

	errs := details["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "close failed", errs[0].(map[string]any)["error_message"])
}
