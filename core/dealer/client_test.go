package dealer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealer-sync/feature/inventory/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPlatform fakes the dealer platform, including its token endpoint.
func newPlatform(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		DealerID:     "dealer-9",
	}, zap.NewNop())
	require.NoError(t, err)
	return srv, client
}

func TestClientCreate(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{"carId": "car-77"})
	})

	carID, err := client.Create(context.Background(), &models.Vehicle{VIN: "VIN0001", Make: "VW"})
	require.NoError(t, err)

	assert.Equal(t, "car-77", carID)
	assert.Equal(t, "POST /vehicles", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "VIN0001", gotBody["vin"])
	assert.Equal(t, "dealer-9", gotBody["dealerId"])
}

func TestClientCreateWithoutCarID(t *testing.T) {
	_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	_, err := client.Create(context.Background(), &models.Vehicle{VIN: "VIN0001"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestClientUpdateNotFound(t *testing.T) {
	_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such vehicle", http.StatusNotFound)
	})

	err := client.Update(context.Background(), "car-1", &models.Vehicle{VIN: "VIN0001"})
	assert.True(t, IsNotFound(err))
}

func TestClientErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusUnprocessableEntity, KindInvalid},
		{http.StatusInternalServerError, KindTransport},
	}

	for _, tt := range tests {
		status := tt.status
		_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", status)
		})

		err := client.Delete(context.Background(), "car-1")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", tt.status)
		assert.Equal(t, tt.kind, apiErr.Kind, "status %d", tt.status)
		assert.Equal(t, tt.status, apiErr.Status)
	}
}

func TestClientVehicle(t *testing.T) {
	_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/vehicles/car-3", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"carId": "car-3",
			"vin":   "VIN0003",
			"pricing": map[string]any{
				"salesPrice": "118500",
			},
		})
	})

	remote, err := client.Vehicle(context.Background(), "car-3")
	require.NoError(t, err)
	assert.Equal(t, "VIN0003", remote.VIN)
	require.NotNil(t, remote.Pricing.SalesPrice)
	assert.True(t, remote.Pricing.SalesPrice.Equal(decimal.NewFromInt(118500)))
}

func TestClientUpdatePrice(t *testing.T) {
	var gotBody map[string]any
	_, client := newPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vehicles/car-3/price", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.UpdatePrice(context.Background(), "car-3", decimal.NewFromInt(99000), true)
	require.NoError(t, err)
	assert.Equal(t, "99000", gotBody["price"])
	assert.Equal(t, true, gotBody["notifyDiscount"])
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://listing.example.com"}, zap.NewNop())
	assert.Error(t, err)
}
