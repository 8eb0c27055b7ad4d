package models

// Swap is one battery exchange transaction.
type Swap struct {
	ID                     int64    `json:"id"`
	IssuedBatteryID        *int64   `json:"issued_battery_id,omitempty"`
	ReturnedBatteryID      *int64   `json:"returned_battery_id,omitempty"`
	UserID                 int64    `json:"user_id"`
	PickupStationID        *int64   `json:"pickup_station_id,omitempty"`
	DepositStationID       *int64   `json:"deposit_station_id,omitempty"`
	StartTime              string   `json:"start_time,omitempty"`
	EndTime                string   `json:"end_time,omitempty"`
	BatteryPercentageStart *float64 `json:"battery_percentage_start,omitempty"`
	BatteryPercentageEnd   *float64 `json:"battery_percentage_end,omitempty"`
	AhUsed                 *float64 `json:"ah_used,omitempty"`
	CreatedAt              string   `json:"created_at,omitempty"`
	UpdatedAt              string   `json:"updated_at,omitempty"`
	UserName               string   `json:"user_name,omitempty"`
	UserEmail              string   `json:"user_email,omitempty"`
}

// SwapRequest is the body for both POST /swaps and PUT /swaps/:id.
type SwapRequest struct {
	UserID                 int64    `json:"user_id,omitempty"`
	IssuedBatteryID        *int64   `json:"issued_battery_id,omitempty"`
	ReturnedBatteryID      *int64   `json:"returned_battery_id,omitempty"`
	PickupStationID        *int64   `json:"pickup_station_id,omitempty"`
	DepositStationID       *int64   `json:"deposit_station_id,omitempty"`
	StartTime              string   `json:"start_time,omitempty"`
	EndTime                string   `json:"end_time,omitempty"`
	BatteryPercentageStart *float64 `json:"battery_percentage_start,omitempty"`
	BatteryPercentageEnd   *float64 `json:"battery_percentage_end,omitempty"`
	AhUsed                 *float64 `json:"ah_used,omitempty"`
}

type SwapCreated struct {
	Message string `json:"message,omitempty"`
	SwapID  int64  `json:"swap_id"`
}
