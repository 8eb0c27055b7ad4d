package swap

// Status is the phase a swap session is in.
type Status string

const (
	StatusAuthenticated          Status = "authenticated"
	StatusBatteryReturnInitiated Status = "battery_return_initiated"
	StatusNewBatteryAssigned     Status = "new_battery_assigned"
	StatusComplete               Status = "complete"
)

// User is the account attached to the scanned card, as sent by the backend.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// RFIDCard is the credential scanned at the kiosk.
type RFIDCard struct {
	ID       int64  `json:"id,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`
	RFIDCode string `json:"rfid_code,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Session is one physical kiosk transaction from card tap to battery dispense.
// It is only ever replaced, never mutated in place, so snapshots handed out by
// State.Session stay stable.
type Session struct {
	ID                  string    `json:"sessionId"`
	RFIDCard            *RFIDCard `json:"rfidCard,omitempty"`
	User                *User     `json:"user,omitempty"`
	UserID              *int64    `json:"userId,omitempty"`
	ReturnedBatterySlot string    `json:"returnedBatterySlot,omitempty"`
	ReturnedBatteryID   string    `json:"returnedBatteryId,omitempty"`
	NewBatterySlot      string    `json:"newBatterySlot,omitempty"`
	NewBatteryID        string    `json:"newBatteryId,omitempty"`
	NewBatterySOH       *float64  `json:"newBatterySoh,omitempty"`
	NewBatterySOC       *float64  `json:"newBatterySoc,omitempty"`
	NewBatteryTemp      *float64  `json:"newBatteryTemp,omitempty"`
	Status              Status    `json:"status"`
}
