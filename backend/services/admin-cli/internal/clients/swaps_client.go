package clients

import (
	"context"
	"fmt"
	"net/http"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// SwapsClient wraps /swaps.
type SwapsClient struct {
	base *BaseClient
}

// NewSwapsClient returns client.
func NewSwapsClient(base *BaseClient) *SwapsClient {
	return &SwapsClient{base: base}
}

func (c *SwapsClient) List(ctx context.Context) ([]models.Swap, error) {
	var out []models.Swap
	if err := c.base.doJSON(ctx, http.MethodGet, "/swaps", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SwapsClient) Get(ctx context.Context, id int64) (*models.Swap, error) {
	var out models.Swap
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/swaps/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SwapsClient) Create(ctx context.Context, req models.SwapRequest) (int64, error) {
	var out models.SwapCreated
	if err := c.base.doJSON(ctx, http.MethodPost, "/swaps", req, &out); err != nil {
		return 0, err
	}
	return out.SwapID, nil
}

func (c *SwapsClient) Update(ctx context.Context, id int64, req models.SwapRequest) error {
	return c.base.doJSON(ctx, http.MethodPut, fmt.Sprintf("/swaps/%d", id), req, nil)
}

func (c *SwapsClient) Delete(ctx context.Context, id int64) error {
	return c.base.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/swaps/%d", id), nil, nil)
}

// ForUser lists the swaps of one user.
func (c *SwapsClient) ForUser(ctx context.Context, userID int64) ([]models.Swap, error) {
	var out []models.Swap
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/swaps", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
