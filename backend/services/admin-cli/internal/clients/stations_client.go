package clients

import (
	"context"
	"fmt"
	"net/http"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// StationsClient wraps /stations.
type StationsClient struct {
	base *BaseClient
}

// NewStationsClient returns client.
func NewStationsClient(base *BaseClient) *StationsClient {
	return &StationsClient{base: base}
}

func (c *StationsClient) List(ctx context.Context) ([]models.Station, error) {
	var out []models.Station
	if err := c.base.doJSON(ctx, http.MethodGet, "/stations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StationsClient) Get(ctx context.Context, id int64) (*models.Station, error) {
	var out models.Station
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/stations/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StationsClient) Create(ctx context.Context, req models.CreateStationRequest) (int64, error) {
	var out models.StationCreated
	if err := c.base.doJSON(ctx, http.MethodPost, "/stations", req, &out); err != nil {
		return 0, err
	}
	return out.CreatedID(), nil
}

func (c *StationsClient) Update(ctx context.Context, id int64, req models.UpdateStationRequest) error {
	return c.base.doJSON(ctx, http.MethodPut, fmt.Sprintf("/stations/%d", id), req, nil)
}

func (c *StationsClient) Delete(ctx context.Context, id int64) error {
	return c.base.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/stations/%d", id), nil, nil)
}

// Slots lists the bays of a station.
func (c *StationsClient) Slots(ctx context.Context, id int64) ([]models.Slot, error) {
	var out []models.Slot
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/stations/%d/slots", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Batteries lists batteries assigned to a station.
func (c *StationsClient) Batteries(ctx context.Context, id int64) ([]models.Battery, error) {
	var out []models.Battery
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/stations/%d/batteries", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
