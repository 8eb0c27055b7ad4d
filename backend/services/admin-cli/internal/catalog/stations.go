package catalog

import (
	"fmt"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// Station sort keys.
const (
	StationSortName      = "name"
	StationSortLocation  = "location"
	StationSortBatteries = "batteryCount"
)

type StationRow struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	BatteryCount int    `json:"batteryCount"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

type StationQuery struct {
	Search    string
	SortBy    string
	Direction Direction
}

func (q StationQuery) Validate() error {
	switch q.SortBy {
	case "", StationSortName, StationSortLocation, StationSortBatteries:
		return nil
	}
	return fmt.Errorf("catalog: unknown station sort %q", q.SortBy)
}

// StationRows counts the batteries assigned to each station.
func StationRows(stations []models.Station, batteries []models.Battery) []StationRow {
	counts := make(map[int64]int)
	for _, b := range batteries {
		if b.StationID != nil {
			counts[*b.StationID]++
		}
	}
	rows := make([]StationRow, 0, len(stations))
	for _, s := range stations {
		location := s.Location
		if location == "" {
			location = "Unknown Location"
		}
		rows = append(rows, StationRow{
			ID:           s.ID,
			Name:         s.Name,
			Location:     location,
			BatteryCount: counts[s.ID],
			CreatedAt:    s.CreatedAt,
		})
	}
	return rows
}

func FilterStations(rows []StationRow, q StationQuery) []StationRow {
	search := normalizeSearch(q.Search)
	out := make([]StationRow, 0, len(rows))
	for _, r := range rows {
		if search != "" && !containsFold(r.Name, search) && !containsFold(r.Location, search) {
			continue
		}
		out = append(out, r)
	}

	order := newTextOrder()
	switch q.SortBy {
	case StationSortName, "":
		sortBy(out, q.Direction, func(a, b StationRow) int { return order.compare(a.Name, b.Name) })
	case StationSortLocation:
		sortBy(out, q.Direction, func(a, b StationRow) int { return order.compare(a.Location, b.Location) })
	case StationSortBatteries:
		sortBy(out, q.Direction, func(a, b StationRow) int { return compareInt(int64(a.BatteryCount), int64(b.BatteryCount)) })
	}
	return out
}
