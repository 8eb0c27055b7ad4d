package models

// Battery statuses the backend uses.
const (
	BatteryAvailable   = "available"
	BatteryInUse       = "in-use"
	BatteryCharging    = "charging"
	BatteryFaulty      = "faulty"
	BatteryMaintenance = "maintenance"
)

// Battery mirrors the /batteries payload.
type Battery struct {
	ID               int64    `json:"id"`
	StationID        *int64   `json:"station_id,omitempty"`
	Status           string   `json:"status"`
	SerialNumber     string   `json:"serial_number"`
	BatteryType      string   `json:"battery_type,omitempty"`
	BatteryCapacity  *float64 `json:"battery_capacity,omitempty"`
	ManufactureDate  string   `json:"manufacture_date,omitempty"`
	CreatedAt        string   `json:"created_at,omitempty"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
	LatestSOHPercent *float64 `json:"latest_soh_percent,omitempty"`
	LatestCycleCount *int64   `json:"latest_cycle_count,omitempty"`
}

// BatteryHealthLog is one diagnostic reading of a battery.
type BatteryHealthLog struct {
	ID              int64    `json:"id,omitempty"`
	BatteryID       int64    `json:"battery_id"`
	SOHPercent      *float64 `json:"soh_percent,omitempty"`
	PackVoltage     *float64 `json:"pack_voltage,omitempty"`
	CellVoltageMin  *float64 `json:"cell_voltage_min,omitempty"`
	CellVoltageMax  *float64 `json:"cell_voltage_max,omitempty"`
	CellVoltageDiff *float64 `json:"cell_voltage_diff,omitempty"`
	MaxTemp         *float64 `json:"max_temp,omitempty"`
	AmbientTemp     *float64 `json:"ambient_temp,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	InternalResist  *float64 `json:"internal_resist,omitempty"`
	CycleCount      *int64   `json:"cycle_count,omitempty"`
	ErrorCode       string   `json:"error_code,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// Empty reports whether the log carries no reading worth storing.
func (l BatteryHealthLog) Empty() bool {
	return l.SOHPercent == nil && l.CycleCount == nil
}

// CreateBatteryRequest is the POST /batteries body.
type CreateBatteryRequest struct {
	StationID       *int64   `json:"station_id,omitempty"`
	Status          string   `json:"status"`
	SerialNumber    string   `json:"serial_number"`
	BatteryType     string   `json:"battery_type,omitempty"`
	BatteryCapacity *float64 `json:"battery_capacity,omitempty"`
	ManufactureDate string   `json:"manufacture_date,omitempty"`
}

// UpdateBatteryRequest is the PUT /batteries/:id body.
type UpdateBatteryRequest struct {
	StationID       *int64   `json:"station_id,omitempty"`
	Status          string   `json:"status,omitempty"`
	BatteryType     string   `json:"battery_type,omitempty"`
	BatteryCapacity *float64 `json:"battery_capacity,omitempty"`
	ManufactureDate string   `json:"manufacture_date,omitempty"`
}

// BatteryCreated is the POST /batteries response.
type BatteryCreated struct {
	Message   string `json:"message,omitempty"`
	BatteryID int64  `json:"battery_id"`
}
