package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dealer-sync/feature/inventory/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// RemoteVehicle is the subset of the platform's vehicle representation the
// application reads back.
type RemoteVehicle struct {
	CarID   string `json:"carId"`
	VIN     string `json:"vin"`
	Pricing struct {
		SalesPrice *decimal.Decimal `json:"salesPrice"`
	} `json:"pricing"`
}

// Client calls the dealer platform REST API. Tokens are fetched through the
// OAuth2 client-credentials flow and refreshed automatically.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates an API client from the configuration. The returned
// client is safe to reuse across calls.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("dealer api base url is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("dealer api credentials are required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TokenURL == "" {
		cfg.TokenURL = cfg.BaseURL + "/oauth/token"
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	// The oauth2 transport injects and refreshes the bearer token; the base
	// client underneath it carries the per-call timeout.
	base := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := cc.Client(ctx)
	httpClient.Timeout = time.Duration(timeout) * time.Second

	return &Client{cfg: cfg, http: httpClient, logger: logger}, nil
}

// Create registers a new vehicle and returns the platform-assigned car id.
func (c *Client) Create(ctx context.Context, vehicle *models.Vehicle) (string, error) {
	c.logger.Debug("Creating vehicle", zap.String("vin", vehicle.VIN))

	var resp struct {
		CarID string `json:"carId"`
		ID    string `json:"id"`
	}
	if err := c.request(ctx, http.MethodPost, "/vehicles", c.payload(vehicle), &resp); err != nil {
		return "", err
	}

	carID := resp.CarID
	if carID == "" {
		carID = resp.ID
	}
	if carID == "" {
		return "", &APIError{Kind: KindTransport, Message: "create response carried no car id"}
	}
	return carID, nil
}

// Update replaces the remote vehicle identified by carID.
func (c *Client) Update(ctx context.Context, carID string, vehicle *models.Vehicle) error {
	c.logger.Debug("Updating vehicle",
		zap.String("vin", vehicle.VIN), zap.String("car_id", carID))
	return c.request(ctx, http.MethodPut, "/vehicles/"+carID, c.payload(vehicle), nil)
}

// Delete closes the remote vehicle identified by carID, removing it from the
// listing.
func (c *Client) Delete(ctx context.Context, carID string) error {
	c.logger.Debug("Closing vehicle", zap.String("car_id", carID))
	return c.request(ctx, http.MethodPost, "/vehicles/"+carID+"/close", nil, nil)
}

// Vehicle fetches the remote copy of a vehicle.
func (c *Client) Vehicle(ctx context.Context, carID string) (*RemoteVehicle, error) {
	var remote RemoteVehicle
	if err := c.request(ctx, http.MethodGet, "/vehicles/"+carID, nil, &remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// UpdatePrice pushes a new sales price for the vehicle, optionally flagging
// it as a discount so the platform notifies subscribed buyers.
func (c *Client) UpdatePrice(ctx context.Context, carID string, price decimal.Decimal, notifyDiscount bool) error {
	c.logger.Debug("Updating price",
		zap.String("car_id", carID),
		zap.String("price", price.String()),
		zap.Bool("notify_discount", notifyDiscount))
	body := map[string]any{
		"price":          price.String(),
		"notifyDiscount": notifyDiscount,
	}
	return c.request(ctx, http.MethodPost, "/vehicles/"+carID+"/price", body, nil)
}

// payload builds the request body for create/update, attaching the dealer id
// when one is configured.
func (c *Client) payload(vehicle *models.Vehicle) map[string]any {
	body := vehicle.APIPayload()
	if c.cfg.DealerID != "" {
		body["dealerId"] = c.cfg.DealerID
	}
	return body
}

func (c *Client) request(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindTransport, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(raw))
		if message == "" {
			message = resp.Status
		}
		return &APIError{
			Kind:    kindFromStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: message,
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Kind: KindTransport, Status: resp.StatusCode,
				Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}
	return nil
}
