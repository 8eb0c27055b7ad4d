package service

import (
	"context"

	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/models"
)

var errNotFound = &clients.APIError{Method: "GET", Path: "/x", Status: 404}

type fakeBatteries struct {
	items      []models.Battery
	logs       map[int64][]models.BatteryHealthLog
	logsErr    error
	created    []models.CreateBatteryRequest
	createdLog []models.BatteryHealthLog
	logErr     error
	statuses   map[int64]string
	deleted    []int64
	nextID     int64
}

func (f *fakeBatteries) List(context.Context) ([]models.Battery, error) { return f.items, nil }

func (f *fakeBatteries) Get(_ context.Context, id int64) (*models.Battery, error) {
	for _, b := range f.items {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeBatteries) Create(_ context.Context, req models.CreateBatteryRequest) (int64, error) {
	f.created = append(f.created, req)
	return f.nextID, nil
}

func (f *fakeBatteries) Update(context.Context, int64, models.UpdateBatteryRequest) error {
	return nil
}

func (f *fakeBatteries) UpdateStatus(_ context.Context, id int64, status string) error {
	if f.statuses == nil {
		f.statuses = map[int64]string{}
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeBatteries) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBatteries) HealthLogs(_ context.Context, id int64) ([]models.BatteryHealthLog, error) {
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return f.logs[id], nil
}

func (f *fakeBatteries) CreateHealthLog(_ context.Context, log models.BatteryHealthLog) error {
	f.createdLog = append(f.createdLog, log)
	return f.logErr
}

type fakeStations struct {
	items     []models.Station
	slots     []models.Slot
	batteries []models.Battery
	created   []models.CreateStationRequest
}

func (f *fakeStations) List(context.Context) ([]models.Station, error) { return f.items, nil }

func (f *fakeStations) Get(_ context.Context, id int64) (*models.Station, error) {
	for _, s := range f.items {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeStations) Create(_ context.Context, req models.CreateStationRequest) (int64, error) {
	f.created = append(f.created, req)
	return int64(len(f.items) + len(f.created)), nil
}

func (f *fakeStations) Update(context.Context, int64, models.UpdateStationRequest) error {
	return nil
}

func (f *fakeStations) Delete(context.Context, int64) error { return nil }

func (f *fakeStations) Slots(context.Context, int64) ([]models.Slot, error) { return f.slots, nil }

func (f *fakeStations) Batteries(context.Context, int64) ([]models.Battery, error) {
	return f.batteries, nil
}

type fakeSwaps struct {
	items   []models.Swap
	created []models.SwapRequest
}

func (f *fakeSwaps) List(context.Context) ([]models.Swap, error) { return f.items, nil }

func (f *fakeSwaps) Get(_ context.Context, id int64) (*models.Swap, error) {
	for _, s := range f.items {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeSwaps) Create(_ context.Context, req models.SwapRequest) (int64, error) {
	f.created = append(f.created, req)
	return 77, nil
}

func (f *fakeSwaps) Update(context.Context, int64, models.SwapRequest) error { return nil }

func (f *fakeSwaps) Delete(context.Context, int64) error { return nil }

func (f *fakeSwaps) ForUser(_ context.Context, userID int64) ([]models.Swap, error) {
	var out []models.Swap
	for _, s := range f.items {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeUsers struct {
	items   []models.User
	created []models.CreateUserRequest
	cards   []models.RFIDCard
	cardErr error
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) { return f.items, nil }

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.items {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUsers) Create(_ context.Context, req models.CreateUserRequest) (int64, error) {
	f.created = append(f.created, req)
	return 42, nil
}

func (f *fakeUsers) Update(context.Context, int64, models.UpdateUserRequest) error { return nil }

func (f *fakeUsers) Delete(context.Context, int64) error { return nil }

func (f *fakeUsers) CreateRFIDCard(_ context.Context, card models.RFIDCard) error {
	f.cards = append(f.cards, card)
	return f.cardErr
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
