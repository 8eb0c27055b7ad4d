package models

// Station mirrors the /stations payload.
type Station struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Slot is one battery bay of a station.
type Slot struct {
	ID          int64  `json:"id"`
	StationID   int64  `json:"station_id"`
	SlotNumber  int    `json:"slot_number"`
	BatteryID   *int64 `json:"battery_id,omitempty"`
	Status      string `json:"status"`
	IsCharging  bool   `json:"is_charging"`
	LastUpdated string `json:"last_updated,omitempty"`
}

type CreateStationRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type UpdateStationRequest struct {
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
}

// StationCreated is the POST /stations response; older backends echo the row instead.
type StationCreated struct {
	Message   string `json:"message,omitempty"`
	StationID int64  `json:"station_id,omitempty"`
	ID        int64  `json:"id,omitempty"`
}

// CreatedID returns whichever id the backend sent.
func (s StationCreated) CreatedID() int64 {
	if s.StationID != 0 {
		return s.StationID
	}
	return s.ID
}
