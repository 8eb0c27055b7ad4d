package service

import (
	"context"
	"fmt"
	"math"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

const faultyPreview = 3

// Summary is the dashboard overview.
type Summary struct {
	TotalBatteries    int              `json:"totalBatteries"`
	InUseBatteries    int              `json:"inUseBatteries"`
	ChargingBatteries int              `json:"chargingBatteries"`
	FaultyBatteries   int              `json:"faultyBatteries"`
	InUsePercent      int              `json:"inUsePercent"`
	TotalStations     int              `json:"totalStations"`
	ActiveSwaps       int              `json:"activeSwaps"`
	CompletedSwaps    int              `json:"completedSwaps"`
	TotalUsers        int              `json:"totalUsers"`
	ActiveUsers       int              `json:"activeUsers"`
	Faulty            []models.Battery `json:"faulty"`
}

// Dashboard aggregates the four resource lists.
func (c *Console) Dashboard(ctx context.Context) (*Summary, error) {
	batteries, err := c.batteries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batteries: %w", err)
	}
	stations, err := c.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	swaps, err := c.swaps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list swaps: %w", err)
	}
	users, err := c.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	s := &Summary{
		TotalBatteries: len(batteries),
		TotalStations:  len(stations),
		TotalUsers:     len(users),
		Faulty:         []models.Battery{},
	}
	for _, b := range batteries {
		switch b.Status {
		case models.BatteryInUse:
			s.InUseBatteries++
		case models.BatteryCharging:
			s.ChargingBatteries++
		case models.BatteryFaulty:
			s.FaultyBatteries++
			if len(s.Faulty) < faultyPreview {
				s.Faulty = append(s.Faulty, b)
			}
		}
	}
	if s.TotalBatteries > 0 {
		s.InUsePercent = int(math.Floor(float64(s.InUseBatteries)*100/float64(s.TotalBatteries) + 0.5))
	}
	for _, row := range catalog.SwapRows(swaps, nil, nil, c.location) {
		if row.Status == catalog.SwapCompleted {
			s.CompletedSwaps++
		} else {
			s.ActiveSwaps++
		}
	}
	for _, u := range users {
		if u.Active() {
			s.ActiveUsers++
		}
	}
	return s, nil
}
