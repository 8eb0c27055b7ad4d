package clients

import (
	"context"
	"fmt"
	"net/http"

	"batteryswap/backend/services/admin-cli/internal/models"
)

// UsersClient wraps /users and /rfid_cards.
type UsersClient struct {
	base *BaseClient
}

// NewUsersClient returns client.
func NewUsersClient(base *BaseClient) *UsersClient {
	return &UsersClient{base: base}
}

func (c *UsersClient) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.base.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) Get(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) Create(ctx context.Context, req models.CreateUserRequest) (int64, error) {
	var out models.UserCreated
	if err := c.base.doJSON(ctx, http.MethodPost, "/users", req, &out); err != nil {
		return 0, err
	}
	return out.UserID, nil
}

func (c *UsersClient) Update(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	return c.base.doJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), req, nil)
}

func (c *UsersClient) Delete(ctx context.Context, id int64) error {
	return c.base.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// CreateRFIDCard registers a card for a user.
func (c *UsersClient) CreateRFIDCard(ctx context.Context, card models.RFIDCard) error {
	return c.base.doJSON(ctx, http.MethodPost, "/rfid_cards", card, nil)
}
