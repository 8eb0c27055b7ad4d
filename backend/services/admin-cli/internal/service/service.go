// Package service implements the admin console operations on top of the REST
// clients: list pipelines, multi-request creates and the dashboard summary.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/models"
	"batteryswap/backend/services/admin-cli/internal/password"
)

var (
	// ErrRFIDRequired is returned when a user is created without a card code.
	ErrRFIDRequired = errors.New("service: rfid code required")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("service: invalid input")
)

// BatteryAPI is the battery surface of the backend.
type BatteryAPI interface {
	List(ctx context.Context) ([]models.Battery, error)
	Get(ctx context.Context, id int64) (*models.Battery, error)
	Create(ctx context.Context, req models.CreateBatteryRequest) (int64, error)
	Update(ctx context.Context, id int64, req models.UpdateBatteryRequest) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	HealthLogs(ctx context.Context, id int64) ([]models.BatteryHealthLog, error)
	CreateHealthLog(ctx context.Context, log models.BatteryHealthLog) error
}

// StationAPI is the station surface of the backend.
type StationAPI interface {
	List(ctx context.Context) ([]models.Station, error)
	Get(ctx context.Context, id int64) (*models.Station, error)
	Create(ctx context.Context, req models.CreateStationRequest) (int64, error)
	Update(ctx context.Context, id int64, req models.UpdateStationRequest) error
	Delete(ctx context.Context, id int64) error
	Slots(ctx context.Context, id int64) ([]models.Slot, error)
	Batteries(ctx context.Context, id int64) ([]models.Battery, error)
}

// SwapAPI is the swap surface of the backend.
type SwapAPI interface {
	List(ctx context.Context) ([]models.Swap, error)
	Get(ctx context.Context, id int64) (*models.Swap, error)
	Create(ctx context.Context, req models.SwapRequest) (int64, error)
	Update(ctx context.Context, id int64, req models.SwapRequest) error
	Delete(ctx context.Context, id int64) error
	ForUser(ctx context.Context, userID int64) ([]models.Swap, error)
}

// UserAPI is the user surface of the backend.
type UserAPI interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, req models.CreateUserRequest) (int64, error)
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) error
	Delete(ctx context.Context, id int64) error
	CreateRFIDCard(ctx context.Context, card models.RFIDCard) error
}

// Backend bundles the resource surfaces the console talks to.
type Backend struct {
	Batteries BatteryAPI
	Stations  StationAPI
	Swaps     SwapAPI
	Users     UserAPI
}

// FromAPI adapts the REST client bundle.
func FromAPI(api *clients.API) Backend {
	return Backend{
		Batteries: api.Batteries,
		Stations:  api.Stations,
		Swaps:     api.Swaps,
		Users:     api.Users,
	}
}

// Console runs admin operations against a Backend.
type Console struct {
	batteries BatteryAPI
	stations  StationAPI
	swaps     SwapAPI
	users     UserAPI
	hasher    password.Hasher
	logger    *zap.Logger
	now       func() time.Time
	location  *time.Location
}

// Option customises a Console.
type Option func(*Console)

// WithClock overrides the time source used for date windows.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithLocation sets the zone in which swap times and date windows are read.
func WithLocation(loc *time.Location) Option {
	return func(c *Console) {
		if loc != nil {
			c.location = loc
		}
	}
}

// NewConsole builds a Console.
func NewConsole(backend Backend, hasher password.Hasher, logger *zap.Logger, opts ...Option) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Console{
		batteries: backend.Batteries,
		stations:  backend.Stations,
		swaps:     backend.Swaps,
		users:     backend.Users,
		hasher:    hasher,
		logger:    logger,
		now:       time.Now,
		location:  time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
