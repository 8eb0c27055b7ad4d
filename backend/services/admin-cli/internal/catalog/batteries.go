package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// Battery sort keys.
const (
	BatterySortSerial = "serial_number"
	BatterySortHealth = "healthPercentage"
	BatterySortCycles = "cycleCount"
)

// StationUnassigned selects batteries without a station.
const StationUnassigned = "unassigned"

// BatteryRow is a battery as the console lists it.
type BatteryRow struct {
	ID               int64   `json:"id"`
	SerialNumber     string  `json:"serialNumber"`
	Status           string  `json:"status"`
	HealthPercentage float64 `json:"healthPercentage"`
	CycleCount       int64   `json:"cycleCount"`
	StationID        *int64  `json:"stationId,omitempty"`
	StationName      string  `json:"stationName"`
	LastServiceDate  string  `json:"lastServiceDate"`
}

// BatteryQuery narrows and orders a battery list.
type BatteryQuery struct {
	Search    string
	Status    string
	Station   string
	SortBy    string
	Direction Direction
}

// Validate rejects unknown sort keys and station filters.
func (q BatteryQuery) Validate() error {
	switch q.SortBy {
	case "", BatterySortSerial, BatterySortHealth, BatterySortCycles:
	default:
		return fmt.Errorf("catalog: unknown battery sort %q", q.SortBy)
	}
	if !matchesAll(q.Station) && q.Station != StationUnassigned {
		if _, err := strconv.ParseInt(q.Station, 10, 64); err != nil {
			return fmt.Errorf("catalog: station filter must be all, unassigned or an id, got %q", q.Station)
		}
	}
	return nil
}

// BatteryRows derives display rows. Missing health readings count as zero.
func BatteryRows(batteries []models.Battery, stations []models.Station) []BatteryRow {
	names := stationNames(stations)
	rows := make([]BatteryRow, 0, len(batteries))
	for _, b := range batteries {
		row := BatteryRow{
			ID:              b.ID,
			SerialNumber:    b.SerialNumber,
			Status:          b.Status,
			StationID:       b.StationID,
			LastServiceDate: b.ManufactureDate,
		}
		if b.LatestSOHPercent != nil {
			row.HealthPercentage = *b.LatestSOHPercent
		}
		if b.LatestCycleCount != nil {
			row.CycleCount = *b.LatestCycleCount
		}
		if row.LastServiceDate == "" {
			row.LastServiceDate = "N/A"
		}
		switch {
		case b.StationID == nil:
			row.StationName = "Unassigned"
		case names[*b.StationID] != "":
			row.StationName = names[*b.StationID]
		default:
			row.StationName = "Unknown"
		}
		rows = append(rows, row)
	}
	return rows
}

// FilterBatteries applies q to rows and returns a new slice.
func FilterBatteries(rows []BatteryRow, q BatteryQuery) []BatteryRow {
	search := normalizeSearch(q.Search)
	out := make([]BatteryRow, 0, len(rows))
	for _, r := range rows {
		if search != "" && !containsFold(r.SerialNumber, search) {
			continue
		}
		if !matchesAll(q.Status) && !strings.EqualFold(r.Status, strings.TrimSpace(q.Status)) {
			continue
		}
		if !batteryAtStation(r, q.Station) {
			continue
		}
		out = append(out, r)
	}

	switch q.SortBy {
	case BatterySortHealth:
		sortBy(out, q.Direction, func(a, b BatteryRow) int { return compareFloat(a.HealthPercentage, b.HealthPercentage) })
	case BatterySortCycles:
		sortBy(out, q.Direction, func(a, b BatteryRow) int { return compareInt(a.CycleCount, b.CycleCount) })
	case BatterySortSerial, "":
		order := newTextOrder()
		sortBy(out, q.Direction, func(a, b BatteryRow) int { return order.compare(a.SerialNumber, b.SerialNumber) })
	}
	return out
}

func batteryAtStation(r BatteryRow, filter string) bool {
	filter = strings.TrimSpace(filter)
	switch {
	case matchesAll(filter):
		return true
	case filter == StationUnassigned:
		return r.StationID == nil
	case r.StationID == nil:
		return false
	default:
		return strconv.FormatInt(*r.StationID, 10) == filter
	}
}

func stationNames(stations []models.Station) map[int64]string {
	names := make(map[int64]string, len(stations))
	for _, s := range stations {
		names[s.ID] = s.Name
	}
	return names
}
