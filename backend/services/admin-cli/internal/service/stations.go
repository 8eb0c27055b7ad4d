package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

// StationDetail is a station with its slots and assigned batteries.
type StationDetail struct {
	Station   models.Station   `json:"station"`
	Slots     []models.Slot    `json:"slots"`
	Batteries []models.Battery `json:"batteries"`
}

// ListStations counts batteries per station from the full battery list.
func (c *Console) ListStations(ctx context.Context, q catalog.StationQuery) ([]catalog.StationRow, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	stations, err := c.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	batteries, err := c.batteries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batteries: %w", err)
	}
	return catalog.FilterStations(catalog.StationRows(stations, batteries), q), nil
}

func (c *Console) GetStation(ctx context.Context, id int64) (*StationDetail, error) {
	station, err := c.stations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get station %d: %w", id, err)
	}
	slots, err := c.stations.Slots(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("station %d slots: %w", id, err)
	}
	batteries, err := c.stations.Batteries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("station %d batteries: %w", id, err)
	}
	return &StationDetail{Station: *station, Slots: slots, Batteries: batteries}, nil
}

func (c *Console) CreateStation(ctx context.Context, req models.CreateStationRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return 0, fmt.Errorf("%w: station name required", ErrInvalidInput)
	}
	id, err := c.stations.Create(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("create station: %w", err)
	}
	c.logger.Info("station created", zap.Int64("station_id", id), zap.String("name", req.Name))
	return id, nil
}

func (c *Console) UpdateStation(ctx context.Context, id int64, req models.UpdateStationRequest) error {
	if err := c.stations.Update(ctx, id, req); err != nil {
		return fmt.Errorf("update station %d: %w", id, err)
	}
	return nil
}

func (c *Console) DeleteStation(ctx context.Context, id int64) error {
	if err := c.stations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete station %d: %w", id, err)
	}
	c.logger.Info("station deleted", zap.Int64("station_id", id))
	return nil
}
