package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/models"
	"batteryswap/backend/services/admin-cli/internal/password"
)

type fixture struct {
	batteries *fakeBatteries
	stations  *fakeStations
	swaps     *fakeSwaps
	users     *fakeUsers
	logs      *observer.ObservedLogs
	console   *Console
}

func newFixture(hasher password.Hasher) *fixture {
	core, logs := observer.New(zapcore.InfoLevel)
	f := &fixture{
		batteries: &fakeBatteries{nextID: 10},
		stations:  &fakeStations{},
		swaps:     &fakeSwaps{},
		users:     &fakeUsers{},
		logs:      logs,
	}
	if hasher == nil {
		hasher = plainHasher{}
	}
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	f.console = NewConsole(Backend{
		Batteries: f.batteries,
		Stations:  f.stations,
		Swaps:     f.swaps,
		Users:     f.users,
	}, hasher, zap.New(core), WithClock(func() time.Time { return now }), WithLocation(time.UTC))
	return f
}

func ptr[T any](v T) *T { return &v }

func TestCreateBatteryWithHealthLog(t *testing.T) {
	f := newFixture(nil)
	id, err := f.console.CreateBattery(context.Background(),
		models.CreateBatteryRequest{SerialNumber: "  BAT-9 "},
		&models.BatteryHealthLog{SOHPercent: ptr(97.5), CycleCount: ptr(int64(3))})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 10 {
		t.Fatalf("id = %d", id)
	}
	if got := f.batteries.created[0]; got.SerialNumber != "BAT-9" || got.Status != models.BatteryAvailable {
		t.Fatalf("request = %+v", got)
	}
	if len(f.batteries.createdLog) != 1 || f.batteries.createdLog[0].BatteryID != 10 {
		t.Fatalf("health log = %+v", f.batteries.createdLog)
	}
}

func TestCreateBatteryKeepsBatteryWhenLogFails(t *testing.T) {
	f := newFixture(nil)
	f.batteries.logErr = errors.New("boom")

	id, err := f.console.CreateBattery(context.Background(),
		models.CreateBatteryRequest{SerialNumber: "BAT-1", Status: models.BatteryCharging},
		&models.BatteryHealthLog{SOHPercent: ptr(90.0)})
	if err != nil || id != 10 {
		t.Fatalf("id=%d err=%v", id, err)
	}
	if f.logs.FilterMessage("initial health log not stored").Len() != 1 {
		t.Fatal("expected a warning for the failed health log")
	}
}

func TestCreateBatterySkipsEmptyLog(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.console.CreateBattery(context.Background(), models.CreateBatteryRequest{SerialNumber: "B"}, &models.BatteryHealthLog{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(f.batteries.createdLog) != 0 {
		t.Fatal("empty reading must not be posted")
	}
}

func TestCreateBatteryValidation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	if _, err := f.console.CreateBattery(ctx, models.CreateBatteryRequest{}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing serial: %v", err)
	}
	if _, err := f.console.CreateBattery(ctx, models.CreateBatteryRequest{SerialNumber: "B", Status: "lost"}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status: %v", err)
	}
	if err := f.console.SetBatteryStatus(ctx, 1, "melted"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad patch status: %v", err)
	}
	if len(f.batteries.created) != 0 || len(f.batteries.statuses) != 0 {
		t.Fatal("invalid input must not reach the backend")
	}
}

func TestGetBatteryToleratesMissingHealthRoute(t *testing.T) {
	f := newFixture(nil)
	f.batteries.items = []models.Battery{{ID: 1, SerialNumber: "B1"}}
	f.batteries.logsErr = errNotFound

	detail, err := f.console.GetBattery(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.HealthLogs == nil || len(detail.HealthLogs) != 0 {
		t.Fatalf("health logs = %#v", detail.HealthLogs)
	}

	if _, err := f.console.GetBattery(context.Background(), 2); !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListBatteries(t *testing.T) {
	f := newFixture(nil)
	f.stations.items = []models.Station{{ID: 1, Name: "Central"}}
	f.batteries.items = []models.Battery{
		{ID: 1, SerialNumber: "B2", StationID: ptr(int64(1))},
		{ID: 2, SerialNumber: "B1"},
	}
	rows, err := f.console.ListBatteries(context.Background(), catalog.BatteryQuery{Station: "1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].StationName != "Central" {
		t.Fatalf("rows = %+v", rows)
	}
	if _, err := f.console.ListBatteries(context.Background(), catalog.BatteryQuery{SortBy: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	f := newFixture(nil)
	id, err := f.console.CreateUser(context.Background(), NewUser{
		Name:     "Ana",
		Email:    " ana@example.com ",
		Password: "pw",
		RFIDCode: " CARD-1 ",
	})
	if err != nil || id != 42 {
		t.Fatalf("id=%d err=%v", id, err)
	}
	req := f.users.created[0]
	if req.PasswordHash != "hashed:pw" || req.Role != models.RoleCustomer || !req.IsActive || req.Email != "ana@example.com" {
		t.Fatalf("request = %+v", req)
	}
	if len(f.users.cards) != 1 || f.users.cards[0] != (models.RFIDCard{UserID: 42, RFIDCode: "CARD-1", Status: "active"}) {
		t.Fatalf("cards = %+v", f.users.cards)
	}
}

func TestCreateUserRequiresRFID(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.console.CreateUser(context.Background(), NewUser{Name: "A", Email: "a@b", Password: "pw"}); !errors.Is(err, ErrRFIDRequired) {
		t.Fatalf("expected ErrRFIDRequired, got %v", err)
	}
	if len(f.users.created) != 0 {
		t.Fatal("no user must be created without a card")
	}
}

func TestCreateUserKeepsAccountWhenCardFails(t *testing.T) {
	f := newFixture(password.NewBcryptHasher(4))
	f.users.cardErr = errors.New("duplicate card")

	id, err := f.console.CreateUser(context.Background(), NewUser{Name: "A", Email: "a@b", Password: "pw", RFIDCode: "C"})
	if err != nil || id != 42 {
		t.Fatalf("id=%d err=%v", id, err)
	}
	if f.users.created[0].PasswordHash == "pw" {
		t.Fatal("password sent in clear")
	}
	if f.logs.FilterMessage("rfid card not registered").Len() != 1 {
		t.Fatal("expected a warning for the failed card")
	}
}

func TestCreateUserRejectsEmptyPassword(t *testing.T) {
	f := newFixture(password.NewBcryptHasher(4))
	_, err := f.console.CreateUser(context.Background(), NewUser{Name: "A", Email: "a@b", RFIDCode: "C"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestListSwapsUsesConsoleClock(t *testing.T) {
	f := newFixture(nil)
	f.users.items = []models.User{{ID: 1, Name: "Ana"}}
	f.swaps.items = []models.Swap{
		{ID: 1, UserID: 1, StartTime: "2026-03-10T09:00:00Z", CreatedAt: "2026-03-10T09:00:00Z"},
		{ID: 2, UserID: 1, StartTime: "2026-03-01T09:00:00Z", CreatedAt: "2026-03-01T09:00:00Z"},
	}
	rows, err := f.console.ListSwaps(context.Background(), catalog.SwapQuery{Date: catalog.DateToday})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 || rows[0].UserName != "Ana" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestCreateSwapRequiresUser(t *testing.T) {
	f := newFixture(nil)
	if _, err := f.console.CreateSwap(context.Background(), models.SwapRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	id, err := f.console.CreateSwap(context.Background(), models.SwapRequest{UserID: 3})
	if err != nil || id != 77 {
		t.Fatalf("id=%d err=%v", id, err)
	}
}

func TestStations(t *testing.T) {
	f := newFixture(nil)
	f.stations.items = []models.Station{{ID: 1, Name: "Central"}}
	f.stations.slots = []models.Slot{{ID: 1, StationID: 1, SlotNumber: 1}}

	detail, err := f.console.GetStation(context.Background(), 1)
	if err != nil || len(detail.Slots) != 1 {
		t.Fatalf("detail=%+v err=%v", detail, err)
	}
	if _, err := f.console.CreateStation(context.Background(), models.CreateStationRequest{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.console.CreateStation(context.Background(), models.CreateStationRequest{Name: " North "}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if f.stations.created[0].Name != "North" {
		t.Fatalf("name not trimmed: %q", f.stations.created[0].Name)
	}
}

func TestDashboard(t *testing.T) {
	f := newFixture(nil)
	f.batteries.items = []models.Battery{
		{ID: 1, Status: models.BatteryInUse},
		{ID: 2, Status: models.BatteryFaulty},
		{ID: 3, Status: models.BatteryFaulty},
		{ID: 4, Status: models.BatteryFaulty},
		{ID: 5, Status: models.BatteryFaulty},
		{ID: 6, Status: models.BatteryCharging},
	}
	f.stations.items = []models.Station{{ID: 1}, {ID: 2}}
	f.swaps.items = []models.Swap{{ID: 1, EndTime: "2026-03-10T10:00:00Z"}, {ID: 2}, {ID: 3}}
	f.users.items = []models.User{{ID: 1, IsActive: ptr(true)}, {ID: 2, Status: "active"}, {ID: 3}}

	s, err := f.console.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if s.TotalBatteries != 6 || s.InUseBatteries != 1 || s.ChargingBatteries != 1 || s.FaultyBatteries != 4 {
		t.Fatalf("battery counts = %+v", s)
	}
	if s.InUsePercent != 17 {
		t.Fatalf("in use percent = %d", s.InUsePercent)
	}
	if len(s.Faulty) != 3 || s.Faulty[0].ID != 2 || s.Faulty[2].ID != 4 {
		t.Fatalf("faulty preview = %+v", s.Faulty)
	}
	if s.TotalStations != 2 || s.ActiveSwaps != 2 || s.CompletedSwaps != 1 {
		t.Fatalf("stations/swaps = %+v", s)
	}
	if s.TotalUsers != 3 || s.ActiveUsers != 2 {
		t.Fatalf("users = %+v", s)
	}
}

func TestDashboardEmpty(t *testing.T) {
	s, err := newFixture(nil).console.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if s.InUsePercent != 0 || s.Faulty == nil {
		t.Fatalf("summary = %+v", s)
	}
}
