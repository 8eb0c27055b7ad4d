package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/service"
)

type backend struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (b *backend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

// newBackend serves a fixed data set and records write bodies by "METHOD path".
func newBackend(t *testing.T) *backend {
	t.Helper()
	return &backend{bodies: map[string]string{}}
}

func (b *backend) handler() http.Handler {
	get := map[string]string{
		"/api/batteries": `[
			{"id":1,"serial_number":"BAT-2","status":"faulty","station_id":1,"latest_soh_percent":55},
			{"id":2,"serial_number":"BAT-1","status":"in-use","latest_cycle_count":12}
		]`,
		"/api/batteries/1":             `{"id":1,"serial_number":"BAT-2","status":"faulty","station_id":1}`,
		"/api/batteries/1/health-logs": `[{"battery_id":1,"soh_percent":55,"cycle_count":300,"created_at":"2026-03-01"}]`,
		"/api/stations":                `[{"id":1,"name":"Central","location":"Downtown"}]`,
		"/api/swaps": `[
			{"id":1,"user_id":1,"pickup_station_id":1,"start_time":"2026-03-10T10:00:00Z","end_time":"2026-03-10T10:30:00Z","created_at":"2026-03-10T10:00:00Z"},
			{"id":2,"user_id":1,"start_time":"2026-03-10T12:00:00Z","created_at":"2026-03-10T12:00:00Z"}
		]`,
		"/api/users": `[{"id":1,"name":"Ana","email":"ana@example.com","role":"customer","is_active":true}]`,
	}
	created := map[string]string{
		"/api/batteries":           `{"battery_id":9}`,
		"/api/battery_health_logs": `{"message":"ok"}`,
		"/api/users":               `{"user_id":5}`,
		"/api/rfid_cards":          `{"message":"ok"}`,
		"/api/stations":            `{"station_id":3}`,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies[r.Method+" "+r.URL.Path] = string(raw)
		b.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			if body, ok := get[r.URL.Path]; ok {
				_, _ = w.Write([]byte(body))
				return
			}
		case http.MethodPost:
			if body, ok := created[r.URL.Path]; ok {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(body))
				return
			}
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
}

type harness struct {
	backend *backend
	cli     *CLI
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := newBackend(t)
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	api, err := clients.NewAPI(clients.Settings{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, srv.Client(), zap.NewNop())
	if err != nil {
		t.Fatalf("api: %v", err)
	}
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	console := service.NewConsole(service.FromAPI(api), plainHasher{}, zap.NewNop(),
		service.WithClock(func() time.Time { return now }), service.WithLocation(time.UTC))

	h := &harness{backend: b, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.cli = New(console, h.stdout, h.stderr)
	return h
}

func (h *harness) run(t *testing.T, args ...string) string {
	t.Helper()
	h.stdout.Reset()
	if err := h.cli.Run(context.Background(), args); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return h.stdout.String()
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func TestRunUsageErrors(t *testing.T) {
	h := newHarness(t)
	cases := [][]string{
		nil,
		{"rockets"},
		{"batteries"},
		{"batteries", "launch"},
		{"batteries", "get"},
		{"batteries", "get", "abc"},
		{"batteries", "list", "--order", "sideways"},
		{"swaps", "export", "--format", "docx"},
	}
	for _, args := range cases {
		if err := h.cli.Run(context.Background(), args); !errors.Is(err, ErrUsage) {
			t.Fatalf("args %v: expected ErrUsage, got %v", args, err)
		}
	}
}

func TestBatteriesList(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "batteries", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if !strings.Contains(lines[1], "BAT-1") || !strings.Contains(lines[1], "Unassigned") {
		t.Fatalf("first row should be BAT-1: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Central") {
		t.Fatalf("second row should carry the station: %q", lines[2])
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(h.run(t, "batteries", "list", "--station", "unassigned", "--json")), &rows); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(rows) != 1 || rows[0]["serialNumber"] != "BAT-1" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestBatteriesGetAcceptsFlagsAfterID(t *testing.T) {
	h := newHarness(t)
	var detail service.BatteryDetail
	if err := json.Unmarshal([]byte(h.run(t, "batteries", "get", "1", "--json")), &detail); err != nil {
		t.Fatalf("json: %v", err)
	}
	if detail.Battery.SerialNumber != "BAT-2" || len(detail.HealthLogs) != 1 {
		t.Fatalf("detail = %+v", detail)
	}
}

func TestBatteriesCreateWithReading(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "batteries", "create", "--serial", "BAT-9", "--station", "1", "--soh", "98.5")
	if strings.TrimSpace(out) != "created battery 9" {
		t.Fatalf("output = %q", out)
	}
	if body := h.backend.body("POST /api/batteries"); !strings.Contains(body, `"station_id":1`) || !strings.Contains(body, `"status":"available"`) {
		t.Fatalf("battery body = %s", body)
	}
	if body := h.backend.body("POST /api/battery_health_logs"); !strings.Contains(body, `"battery_id":9`) || !strings.Contains(body, `"soh_percent":98.5`) {
		t.Fatalf("health log body = %s", body)
	}
}

func TestBatteriesStatus(t *testing.T) {
	h := newHarness(t)
	h.run(t, "batteries", "status", "2", "charging")
	if body := h.backend.body("PATCH /api/batteries/2/status"); body != `{"status":"charging"}` {
		t.Fatalf("patch body = %s", body)
	}
	if err := h.cli.Run(context.Background(), []string{"batteries", "status", "2", "melted"}); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStationsList(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "stations", "list", "--sort", "batteryCount", "--order", "desc")
	if !strings.Contains(out, "Central") || !strings.Contains(out, "Downtown") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestSwapsListToday(t *testing.T) {
	h := newHarness(t)
	var rows []map[string]any
	if err := json.Unmarshal([]byte(h.run(t, "swaps", "list", "--date", "today", "--json")), &rows); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(rows) != 2 || rows[0]["id"] != float64(2) {
		t.Fatalf("rows should be newest first: %v", rows)
	}
	if rows[1]["duration"] != "30 min" || rows[1]["pickupStationName"] != "Central" {
		t.Fatalf("completed row = %v", rows[1])
	}
}

func TestSwapsExportToFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "swaps.csv")
	h.run(t, "swaps", "export", "--status", "completed", "--out", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "Ana") {
		t.Fatalf("csv:\n%s", data)
	}
	if !strings.Contains(h.stderr.String(), "wrote 1 swaps") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
}

func TestUsersCreate(t *testing.T) {
	h := newHarness(t)
	out := h.run(t, "users", "create", "--name", "Bo", "--email", "bo@example.com", "--password", "pw", "--rfid", "CARD-7")
	if strings.TrimSpace(out) != "created user 5" {
		t.Fatalf("output = %q", out)
	}
	if body := h.backend.body("POST /api/users"); !strings.Contains(body, `"password_hash":"hashed:pw"`) || strings.Contains(body, `"password":`) {
		t.Fatalf("user body = %s", body)
	}
	if body := h.backend.body("POST /api/rfid_cards"); !strings.Contains(body, `"user_id":5`) || !strings.Contains(body, `"rfid_code":"CARD-7"`) {
		t.Fatalf("card body = %s", body)
	}

	err := h.cli.Run(context.Background(), []string{"users", "create", "--name", "Bo", "--email", "b@x", "--password", "pw"})
	if !errors.Is(err, service.ErrRFIDRequired) {
		t.Fatalf("expected ErrRFIDRequired, got %v", err)
	}
}

func TestUsersUpdateActiveFlag(t *testing.T) {
	h := newHarness(t)
	h.run(t, "users", "update", "1", "-active=false")
	if body := h.backend.body("PUT /api/users/1"); body != `{"is_active":false}` {
		t.Fatalf("update body = %s", body)
	}
}

func TestUsersUpdateClearsField(t *testing.T) {
	h := newHarness(t)
	h.run(t, "users", "update", "1", "-name", "Ana", "-phone=")
	if body := h.backend.body("PUT /api/users/1"); body != `{"name":"Ana","phone":""}` {
		t.Fatalf("update body = %s", body)
	}
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	var s service.Summary
	if err := json.Unmarshal([]byte(h.run(t, "dashboard", "--json")), &s); err != nil {
		t.Fatalf("json: %v", err)
	}
	if s.TotalBatteries != 2 || s.FaultyBatteries != 1 || s.InUsePercent != 50 || s.ActiveSwaps != 1 || s.ActiveUsers != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if out := h.run(t, "dashboard"); !strings.Contains(out, "FAULTY") {
		t.Fatalf("table:\n%s", out)
	}
}

func TestNotFoundSurfaces(t *testing.T) {
	h := newHarness(t)
	err := h.cli.Run(context.Background(), []string{"swaps", "get", "99"})
	if !errors.Is(err, clients.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUsage(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	h.cli.Usage(&buf)
	if !strings.Contains(buf.String(), "batteries") || !strings.Contains(buf.String(), "export") {
		t.Fatalf("usage:\n%s", buf.String())
	}
}
