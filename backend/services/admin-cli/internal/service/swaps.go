package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

// ListSwaps joins swaps with users and stations and applies q. Date windows use
// the console clock when q.Now is unset.
func (c *Console) ListSwaps(ctx context.Context, q catalog.SwapQuery) ([]catalog.SwapRow, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	swaps, err := c.swaps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list swaps: %w", err)
	}
	users, err := c.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	stations, err := c.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	if q.Now.IsZero() {
		q.Now = c.now()
	}
	if q.Location == nil {
		q.Location = c.location
	}
	return catalog.FilterSwaps(catalog.SwapRows(swaps, users, stations, q.Location), q), nil
}

func (c *Console) GetSwap(ctx context.Context, id int64) (*models.Swap, error) {
	swap, err := c.swaps.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get swap %d: %w", id, err)
	}
	return swap, nil
}

// UserSwaps lists one user's swaps as the backend orders them.
func (c *Console) UserSwaps(ctx context.Context, userID int64) ([]models.Swap, error) {
	swaps, err := c.swaps.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("swaps of user %d: %w", userID, err)
	}
	return swaps, nil
}

func (c *Console) CreateSwap(ctx context.Context, req models.SwapRequest) (int64, error) {
	if req.UserID == 0 {
		return 0, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	id, err := c.swaps.Create(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("create swap: %w", err)
	}
	c.logger.Info("swap created", zap.Int64("swap_id", id), zap.Int64("user_id", req.UserID))
	return id, nil
}

func (c *Console) UpdateSwap(ctx context.Context, id int64, req models.SwapRequest) error {
	if err := c.swaps.Update(ctx, id, req); err != nil {
		return fmt.Errorf("update swap %d: %w", id, err)
	}
	return nil
}

func (c *Console) DeleteSwap(ctx context.Context, id int64) error {
	if err := c.swaps.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete swap %d: %w", id, err)
	}
	c.logger.Info("swap deleted", zap.Int64("swap_id", id))
	return nil
}
