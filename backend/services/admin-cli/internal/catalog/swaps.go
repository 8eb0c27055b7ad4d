package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// Swap statuses derived from end_time.
const (
	SwapActive    = "active"
	SwapCompleted = "completed"
)

// Swap sort keys.
const (
	SwapSortUser      = "userName"
	SwapSortPickup    = "pickupStationName"
	SwapSortStart     = "startTime"
	SwapSortEnd       = "endTime"
	SwapSortCreatedAt = "createdAt"
)

// Swap date windows.
const (
	DateToday     = "today"
	DateYesterday = "yesterday"
	DateWeek      = "week"
	DateMonth     = "month"
)

const (
	unknownUser    = "Unknown User"
	unknownStation = "Unknown Station"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// SwapRow is a swap joined with user and station names.
type SwapRow struct {
	ID                 int64      `json:"id"`
	UserID             int64      `json:"userId"`
	UserName           string     `json:"userName"`
	UserEmail          string     `json:"userEmail"`
	IssuedBatteryID    *int64     `json:"issuedBatteryId,omitempty"`
	ReturnedBatteryID  *int64     `json:"returnedBatteryId,omitempty"`
	PickupStationID    *int64     `json:"pickupStationId,omitempty"`
	DepositStationID   *int64     `json:"depositStationId,omitempty"`
	PickupStationName  string     `json:"pickupStationName"`
	DepositStationName string     `json:"depositStationName"`
	StartTime          *time.Time `json:"startTime,omitempty"`
	EndTime            *time.Time `json:"endTime,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	PercentageStart    *float64   `json:"batteryPercentageStart,omitempty"`
	PercentageEnd      *float64   `json:"batteryPercentageEnd,omitempty"`
	AhUsed             *float64   `json:"ahUsed,omitempty"`
	Status             string     `json:"status"`
	Duration           string     `json:"duration"`

	// startInvalid marks a start_time the backend sent but that does not parse.
	startInvalid bool
}

// SwapQuery narrows and orders a swap list. Date windows are evaluated
// against Now in Location.
type SwapQuery struct {
	Search    string
	Status    string
	Station   string
	Date      string
	SortBy    string
	Direction Direction
	Now       time.Time
	Location  *time.Location
}

func (q SwapQuery) Validate() error {
	switch q.SortBy {
	case "", SwapSortUser, SwapSortPickup, SwapSortStart, SwapSortEnd, SwapSortCreatedAt:
	default:
		return fmt.Errorf("catalog: unknown swap sort %q", q.SortBy)
	}
	switch strings.TrimSpace(q.Date) {
	case "", All, DateToday, DateYesterday, DateWeek, DateMonth:
	default:
		return fmt.Errorf("catalog: unknown date window %q", q.Date)
	}
	switch strings.TrimSpace(q.Status) {
	case "", All, SwapActive, SwapCompleted:
	default:
		return fmt.Errorf("catalog: unknown swap status %q", q.Status)
	}
	return nil
}

// SwapRows joins swaps with users and stations. Times without a zone are read in loc.
func SwapRows(swaps []models.Swap, users []models.User, stations []models.Station, loc *time.Location) []SwapRow {
	if loc == nil {
		loc = time.Local
	}
	byID := make(map[int64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	names := stationNames(stations)

	rows := make([]SwapRow, 0, len(swaps))
	for _, s := range swaps {
		row := SwapRow{
			ID:                 s.ID,
			UserID:             s.UserID,
			UserName:           s.UserName,
			UserEmail:          s.UserEmail,
			IssuedBatteryID:    s.IssuedBatteryID,
			ReturnedBatteryID:  s.ReturnedBatteryID,
			PickupStationID:    s.PickupStationID,
			DepositStationID:   s.DepositStationID,
			PickupStationName:  stationName(names, s.PickupStationID),
			DepositStationName: stationName(names, s.DepositStationID),
			PercentageStart:    s.BatteryPercentageStart,
			PercentageEnd:      s.BatteryPercentageEnd,
			AhUsed:             s.AhUsed,
			Status:             SwapActive,
		}
		if u, ok := byID[s.UserID]; ok {
			if u.Name != "" {
				row.UserName = u.Name
			}
			if u.Email != "" {
				row.UserEmail = u.Email
			}
		}
		if row.UserName == "" {
			row.UserName = unknownUser
		}

		var ok bool
		if row.StartTime, ok = parseTime(s.StartTime, loc); !ok {
			row.startInvalid = true
		}
		row.EndTime, _ = parseTime(s.EndTime, loc)
		row.CreatedAt, _ = parseTime(s.CreatedAt, loc)

		if s.EndTime != "" {
			row.Status = SwapCompleted
		}
		row.Duration = swapDuration(s, row.StartTime, row.EndTime)
		rows = append(rows, row)
	}
	return rows
}

// FilterSwaps applies q to rows and returns a new slice.
func FilterSwaps(rows []SwapRow, q SwapQuery) []SwapRow {
	search := normalizeSearch(q.Search)
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	if q.Location != nil {
		now = now.In(q.Location)
	}

	out := make([]SwapRow, 0, len(rows))
	for _, r := range rows {
		if search != "" &&
			!containsFold(r.UserName, search) &&
			!containsFold(r.UserEmail, search) &&
			!containsFold(r.PickupStationName, search) &&
			!containsFold(r.DepositStationName, search) {
			continue
		}
		if !matchesAll(q.Status) && r.Status != strings.TrimSpace(q.Status) {
			continue
		}
		if !swapAtStation(r, q.Station) {
			continue
		}
		if !inDateWindow(r, strings.TrimSpace(q.Date), now) {
			continue
		}
		out = append(out, r)
	}

	order := newTextOrder()
	switch q.SortBy {
	case SwapSortUser:
		sortBy(out, q.Direction, func(a, b SwapRow) int { return order.compare(a.UserName, b.UserName) })
	case SwapSortPickup:
		sortBy(out, q.Direction, func(a, b SwapRow) int { return order.compare(a.PickupStationName, b.PickupStationName) })
	case SwapSortStart:
		sortBy(out, q.Direction, func(a, b SwapRow) int { return compareInt(unixMilli(a.StartTime), unixMilli(b.StartTime)) })
	case SwapSortEnd:
		sortBy(out, q.Direction, func(a, b SwapRow) int { return compareInt(unixMilli(a.EndTime), unixMilli(b.EndTime)) })
	default:
		sortBy(out, q.Direction, func(a, b SwapRow) int { return compareInt(unixMilli(a.CreatedAt), unixMilli(b.CreatedAt)) })
	}
	return out
}

func swapAtStation(r SwapRow, filter string) bool {
	filter = strings.TrimSpace(filter)
	if matchesAll(filter) {
		return true
	}
	return idEquals(r.PickupStationID, filter) || idEquals(r.DepositStationID, filter)
}

// inDateWindow keeps swaps without a start time; an unparseable one never matches.
func inDateWindow(r SwapRow, window string, now time.Time) bool {
	if matchesAll(window) {
		return true
	}
	if r.startInvalid {
		return false
	}
	if r.StartTime == nil {
		return true
	}
	start := r.StartTime.In(now.Location())
	switch window {
	case DateToday:
		return sameDay(start, now)
	case DateYesterday:
		return sameDay(start, now.AddDate(0, 0, -1))
	case DateWeek:
		return !start.Before(now.AddDate(0, 0, -7))
	case DateMonth:
		return !start.Before(now.AddDate(0, 0, -30))
	}
	return true
}

// swapDuration renders "N min" under an hour and "Hh Mm" above; open swaps are "Active".
func swapDuration(s models.Swap, start, end *time.Time) string {
	if s.StartTime == "" || s.EndTime == "" {
		return "Active"
	}
	if start == nil || end == nil {
		return "N/A"
	}
	minutes := int64(math.Floor(end.Sub(*start).Minutes() + 0.5))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// parseTime returns nil, true for an empty value and nil, false when it does not parse.
func parseTime(raw string, loc *time.Location) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func unixMilli(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func stationName(names map[int64]string, id *int64) string {
	if id == nil {
		return unknownStation
	}
	if name := names[*id]; name != "" {
		return name
	}
	return unknownStation
}

func idEquals(id *int64, raw string) bool {
	return id != nil && strconv.FormatInt(*id, 10) == raw
}
