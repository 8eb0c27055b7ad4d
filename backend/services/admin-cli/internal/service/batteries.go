package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/models"
)

var batteryStatuses = []string{
	models.BatteryAvailable,
	models.BatteryInUse,
	models.BatteryCharging,
	models.BatteryFaulty,
	models.BatteryMaintenance,
}

// BatteryDetail is one battery with its diagnostic history.
type BatteryDetail struct {
	Battery    models.Battery            `json:"battery"`
	HealthLogs []models.BatteryHealthLog `json:"healthLogs"`
}

// ListBatteries fetches batteries and stations, then searches, filters and sorts.
func (c *Console) ListBatteries(ctx context.Context, q catalog.BatteryQuery) ([]catalog.BatteryRow, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	batteries, err := c.batteries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batteries: %w", err)
	}
	stations, err := c.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return catalog.FilterBatteries(catalog.BatteryRows(batteries, stations), q), nil
}

// GetBattery returns the battery and its health logs. A backend without the
// health-log route yields an empty history.
func (c *Console) GetBattery(ctx context.Context, id int64) (*BatteryDetail, error) {
	battery, err := c.batteries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get battery %d: %w", id, err)
	}
	logs, err := c.batteries.HealthLogs(ctx, id)
	if err != nil && !errors.Is(err, clients.ErrNotFound) {
		return nil, fmt.Errorf("battery %d health logs: %w", id, err)
	}
	if logs == nil {
		logs = []models.BatteryHealthLog{}
	}
	return &BatteryDetail{Battery: *battery, HealthLogs: logs}, nil
}

// CreateBattery creates the battery and, when initial holds a reading, its first
// health log. The two requests are independent: a failed log is logged and the
// battery is kept.
func (c *Console) CreateBattery(ctx context.Context, req models.CreateBatteryRequest, initial *models.BatteryHealthLog) (int64, error) {
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	if req.SerialNumber == "" {
		return 0, fmt.Errorf("%w: serial number required", ErrInvalidInput)
	}
	if req.Status == "" {
		req.Status = models.BatteryAvailable
	}
	if err := validBatteryStatus(req.Status); err != nil {
		return 0, err
	}

	id, err := c.batteries.Create(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("create battery: %w", err)
	}
	c.logger.Info("battery created", zap.Int64("battery_id", id), zap.String("serial_number", req.SerialNumber))

	if initial == nil || initial.Empty() || id == 0 {
		return id, nil
	}
	entry := *initial
	entry.BatteryID = id
	if err := c.batteries.CreateHealthLog(ctx, entry); err != nil {
		c.logger.Warn("initial health log not stored", zap.Int64("battery_id", id), zap.Error(err))
	}
	return id, nil
}

func (c *Console) UpdateBattery(ctx context.Context, id int64, req models.UpdateBatteryRequest) error {
	if req.Status != "" {
		if err := validBatteryStatus(req.Status); err != nil {
			return err
		}
	}
	if err := c.batteries.Update(ctx, id, req); err != nil {
		return fmt.Errorf("update battery %d: %w", id, err)
	}
	return nil
}

// SetBatteryStatus changes only the status through the PATCH route.
func (c *Console) SetBatteryStatus(ctx context.Context, id int64, status string) error {
	if err := validBatteryStatus(status); err != nil {
		return err
	}
	if err := c.batteries.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set battery %d status: %w", id, err)
	}
	return nil
}

func (c *Console) DeleteBattery(ctx context.Context, id int64) error {
	if err := c.batteries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete battery %d: %w", id, err)
	}
	c.logger.Info("battery deleted", zap.Int64("battery_id", id))
	return nil
}

func validBatteryStatus(status string) error {
	for _, s := range batteryStatuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w: battery status must be one of %s, got %q", ErrInvalidInput, strings.Join(batteryStatuses, ", "), status)
}
