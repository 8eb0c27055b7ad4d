package clients

import (
	"context"
	"fmt"
	"net/http"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// BatteriesClient wraps /batteries.
type BatteriesClient struct {
	base *BaseClient
}

// NewBatteriesClient returns client.
func NewBatteriesClient(base *BaseClient) *BatteriesClient {
	return &BatteriesClient{base: base}
}

func (c *BatteriesClient) List(ctx context.Context) ([]models.Battery, error) {
	var out []models.Battery
	if err := c.base.doJSON(ctx, http.MethodGet, "/batteries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BatteriesClient) Get(ctx context.Context, id int64) (*models.Battery, error) {
	var out models.Battery
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/batteries/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BatteriesClient) Create(ctx context.Context, req models.CreateBatteryRequest) (int64, error) {
	var out models.BatteryCreated
	if err := c.base.doJSON(ctx, http.MethodPost, "/batteries", req, &out); err != nil {
		return 0, err
	}
	return out.BatteryID, nil
}

func (c *BatteriesClient) Update(ctx context.Context, id int64, req models.UpdateBatteryRequest) error {
	return c.base.doJSON(ctx, http.MethodPut, fmt.Sprintf("/batteries/%d", id), req, nil)
}

// UpdateStatus patches only the status field.
func (c *BatteriesClient) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return c.base.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/batteries/%d/status", id), body, nil)
}

func (c *BatteriesClient) Delete(ctx context.Context, id int64) error {
	return c.base.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/batteries/%d", id), nil, nil)
}

// HealthLogs lists the diagnostic history of one battery.
func (c *BatteriesClient) HealthLogs(ctx context.Context, id int64) ([]models.BatteryHealthLog, error) {
	var out []models.BatteryHealthLog
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/batteries/%d/health-logs", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateHealthLog posts to /battery_health_logs.
func (c *BatteriesClient) CreateHealthLog(ctx context.Context, log models.BatteryHealthLog) error {
	return c.base.doJSON(ctx, http.MethodPost, "/battery_health_logs", log, nil)
}
