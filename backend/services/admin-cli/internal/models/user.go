package models

// User roles offered by the console.
const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
)

// User mirrors the /users payload.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	LicenseNumber   string `json:"license_number,omitempty"`
	LicenseExpiry   string `json:"license_expiry,omitempty"`
	MotorcycleModel string `json:"motocycle_model,omitempty"`
	MotorcycleYear  string `json:"motocycle_year,omitempty"`
	Role            string `json:"role"`
	Status          string `json:"status,omitempty"`
	IsActive        *bool  `json:"is_active,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// Active reports whether the account is enabled. Backends send either is_active
// or a status string.
func (u User) Active() bool {
	if u.IsActive != nil {
		return *u.IsActive
	}
	switch u.Status {
	case "active", "true":
		return true
	}
	return false
}

// CreateUserRequest is the POST /users body. PasswordHash carries a bcrypt hash.
type CreateUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"password_hash"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	LicenseNumber   string `json:"license_number,omitempty"`
	LicenseExpiry   string `json:"license_expiry,omitempty"`
	MotorcycleModel string `json:"motocycle_model,omitempty"`
	MotorcycleYear  string `json:"motocycle_year,omitempty"`
	Role            string `json:"role"`
	IsActive        bool   `json:"is_active"`
	RFIDCode        string `json:"rfid_code,omitempty"`
}

// UpdateUserRequest is the PUT /users/{id} body. Nil fields are left as they
// are; a pointer to "" clears the field.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UserCreated struct {
	Message string `json:"message,omitempty"`
	UserID  int64  `json:"user_id"`
}

// RFIDCard is the credential tapped at the kiosk.
type RFIDCard struct {
	ID       int64  `json:"id,omitempty"`
	UserID   int64  `json:"user_id"`
	RFIDCode string `json:"rfid_code"`
	Status   string `json:"status"`
}

// Message is the generic {message} response of update and delete calls.
type Message struct {
	Message string `json:"message"`
}
