package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/models"
)

type recordedRequest struct {
	Method    string
	Path      string
	Body      string
	Auth      string
	RequestID string
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter, body string)
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, string){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      string(raw),
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get(RequestIDHeader),
		})
		handler, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		handler(w, string(raw))
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) handle(route string, status int, body string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.routes[route] = func(w http.ResponseWriter, _ string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (fb *fakeBackend) last() recordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func newTestAPI(t *testing.T, baseURL, token string) *API {
	t.Helper()
	api, err := NewAPI(Settings{BaseURL: baseURL + "/api/", Token: token, Timeout: 5 * time.Second}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	return api
}

func TestBatteriesListAndCreate(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle("GET /api/batteries", http.StatusOK, `[{"id":1,"serial_number":"BAT-1","status":"available","latest_soh_percent":91.5,"latest_cycle_count":120,"station_id":3}]`)
	fb.handle("POST /api/batteries", http.StatusCreated, `{"message":"created","battery_id":17}`)

	token := signedToken(t, time.Now().Add(time.Hour))
	api := newTestAPI(t, srv.URL, token)

	list, err := api.Batteries.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].SerialNumber != "BAT-1" || *list[0].LatestSOHPercent != 91.5 || *list[0].StationID != 3 {
		t.Fatalf("unexpected list %+v", list)
	}
	req := fb.last()
	if req.Auth != "Bearer "+token {
		t.Fatalf("missing bearer token: %q", req.Auth)
	}
	if req.RequestID == "" {
		t.Fatal("missing request id")
	}

	id, err := api.Batteries.Create(context.Background(), models.CreateBatteryRequest{SerialNumber: "BAT-2", Status: models.BatteryAvailable})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 17 {
		t.Fatalf("unexpected id %d", id)
	}
	var sent map[string]interface{}
	if err := json.Unmarshal([]byte(fb.last().Body), &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if sent["serial_number"] != "BAT-2" || sent["status"] != "available" {
		t.Fatalf("unexpected body %v", sent)
	}
	if _, ok := sent["station_id"]; ok {
		t.Fatal("unset station_id must be omitted")
	}
}

func TestStatusPatchAndDelete(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle("PATCH /api/batteries/4/status", http.StatusOK, `{"message":"ok"}`)
	fb.handle("DELETE /api/stations/9", http.StatusOK, `{"message":"deleted"}`)
	api := newTestAPI(t, srv.URL, "")

	if err := api.Batteries.UpdateStatus(context.Background(), 4, models.BatteryFaulty); err != nil {
		t.Fatalf("patch: %v", err)
	}
	if body := fb.last().Body; body != `{"status":"faulty"}` {
		t.Fatalf("unexpected body %s", body)
	}
	if fb.last().Auth != "" {
		t.Fatal("anonymous client must not send Authorization")
	}
	if err := api.Stations.Delete(context.Background(), 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestAPIErrorAndNotFound(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle("POST /api/users", http.StatusBadRequest, `{"error":"email already registered"}`)
	api := newTestAPI(t, srv.URL, "")

	_, err := api.Users.Create(context.Background(), models.CreateUserRequest{Name: "Ana"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || !strings.Contains(apiErr.Error(), "email already registered") {
		t.Fatalf("unexpected api error %v", apiErr)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("400 must not match ErrNotFound")
	}

	_, err = api.Swaps.Get(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAPIErrorTruncatesOnRuneBoundary(t *testing.T) {
	// 'é' is two bytes, so byte 200 falls inside a rune.
	body := "x" + strings.Repeat("é", 150)
	err := &APIError{Method: http.MethodGet, Path: "/api/swaps", Status: http.StatusBadGateway, Body: body}

	msg := err.Error()
	if !utf8.ValidString(msg) {
		t.Fatalf("error message is not valid utf-8: %q", msg)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Fatalf("expected truncated message, got %q", msg)
	}
	if got := strings.TrimSuffix(msg[strings.Index(msg, "x"):], "..."); len(got) > maxMessageBytes {
		t.Fatalf("message body longer than %d bytes: %d", maxMessageBytes, len(got))
	}

	short := &APIError{Method: http.MethodGet, Path: "/api/swaps", Status: http.StatusBadGateway, Body: "  upstream down  "}
	if !strings.HasSuffix(short.Error(), "502 upstream down") {
		t.Fatalf("unexpected short message %q", short.Error())
	}
}

func TestExpiredTokenStopsRequests(t *testing.T) {
	fb, srv := newFakeBackend(t)
	api := newTestAPI(t, srv.URL, signedToken(t, time.Now().Add(-time.Minute)))

	_, err := api.Stations.List(context.Background())
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if len(fb.requests) != 0 {
		t.Fatal("no request should reach the backend")
	}
}

func TestParseToken(t *testing.T) {
	tok, err := ParseToken("  ")
	if err != nil || tok.Header() != "" {
		t.Fatalf("unexpected anonymous token %v %v", tok, err)
	}
	tok, err = ParseToken("opaque-api-key")
	if err != nil || tok.Header() != "Bearer opaque-api-key" || !tok.ExpiresAt().IsZero() {
		t.Fatalf("unexpected opaque token %+v %v", tok, err)
	}
	if _, err := ParseToken("not.a.jwt"); err == nil {
		t.Fatal("expected parse error for malformed jwt")
	}
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err = ParseToken(signedToken(t, exp))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !tok.ExpiresAt().Equal(exp) {
		t.Fatalf("unexpected expiry %v", tok.ExpiresAt())
	}
	if err := tok.Check(exp.Add(time.Second)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	_, srv := newFakeBackend(t)
	api, err := NewAPI(Settings{BaseURL: srv.URL, RequestsPerSecond: 0.001, Burst: 1}, nil, nil)
	if err != nil {
		t.Fatalf("new api: %v", err)
	}
	// First call consumes the burst.
	_, _ = api.Stations.List(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := api.Stations.List(ctx); err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestForUserAndRFIDCard(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.handle("GET /api/users/5/swaps", http.StatusOK, `[{"id":1,"user_id":5,"start_time":"2024-05-01T10:00:00Z"}]`)
	fb.handle("POST /api/rfid_cards", http.StatusCreated, `{"message":"ok"}`)
	api := newTestAPI(t, srv.URL, "")

	swaps, err := api.Swaps.ForUser(context.Background(), 5)
	if err != nil || len(swaps) != 1 || swaps[0].UserID != 5 {
		t.Fatalf("unexpected swaps %+v %v", swaps, err)
	}
	if err := api.Users.CreateRFIDCard(context.Background(), models.RFIDCard{UserID: 5, RFIDCode: "RF-9", Status: "active"}); err != nil {
		t.Fatalf("rfid: %v", err)
	}
	if !strings.Contains(fb.last().Body, `"rfid_code":"RF-9"`) {
		t.Fatalf("unexpected body %s", fb.last().Body)
	}
}
