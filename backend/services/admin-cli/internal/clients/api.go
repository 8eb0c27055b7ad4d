package clients

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Settings configures the API bundle.
type Settings struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// API groups the resource clients over one BaseClient.
type API struct {
	Batteries *BatteriesClient
	Stations  *StationsClient
	Swaps     *SwapsClient
	Users     *UsersClient
}

// NewAPI builds every resource client. A zero RequestsPerSecond disables throttling.
func NewAPI(s Settings, httpClient HTTPDoer, logger *zap.Logger) (*API, error) {
	token, err := ParseToken(s.Token)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient(s.Timeout)
	}
	opts := []Option{WithToken(token), WithLogger(logger)}
	if s.RequestsPerSecond > 0 {
		burst := s.Burst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, WithLimiter(rate.NewLimiter(rate.Limit(s.RequestsPerSecond), burst)))
	}

	base := NewBaseClient(s.BaseURL, httpClient, opts...)
	return &API{
		Batteries: NewBatteriesClient(base),
		Stations:  NewStationsClient(base),
		Swaps:     NewSwapsClient(base),
		Users:     NewUsersClient(base),
	}, nil
}
