package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

// NewUser is what an operator enters to register a rider or staff member.
type NewUser struct {
	Name            string
	Email           string
	Password        string
	Phone           string
	Address         string
	LicenseNumber   string
	LicenseExpiry   string
	MotorcycleModel string
	MotorcycleYear  string
	Role            string
	RFIDCode        string
}

func (c *Console) ListUsers(ctx context.Context, q catalog.UserQuery) ([]models.User, error) {
	users, err := c.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return catalog.FilterUsers(users, q), nil
}

func (c *Console) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := c.users.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// CreateUser hashes the password, creates the account and then registers the
// RFID card. A failed card request is logged and the account is kept.
func (c *Console) CreateUser(ctx context.Context, in NewUser) (int64, error) {
	in.RFIDCode = strings.TrimSpace(in.RFIDCode)
	if in.RFIDCode == "" {
		return 0, ErrRFIDRequired
	}
	in.Email = strings.TrimSpace(in.Email)
	if strings.TrimSpace(in.Name) == "" || in.Email == "" {
		return 0, fmt.Errorf("%w: name and email required", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = models.RoleCustomer
	}

	hash, err := c.hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := c.users.Create(ctx, models.CreateUserRequest{
		Name:            strings.TrimSpace(in.Name),
		Email:           in.Email,
		PasswordHash:    hash,
		Phone:           in.Phone,
		Address:         in.Address,
		LicenseNumber:   in.LicenseNumber,
		LicenseExpiry:   in.LicenseExpiry,
		MotorcycleModel: in.MotorcycleModel,
		MotorcycleYear:  in.MotorcycleYear,
		Role:            in.Role,
		IsActive:        true,
		RFIDCode:        in.RFIDCode,
	})
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	c.logger.Info("user created", zap.Int64("user_id", id), zap.String("email", in.Email))

	if id == 0 {
		return id, nil
	}
	card := models.RFIDCard{UserID: id, RFIDCode: in.RFIDCode, Status: "active"}
	if err := c.users.CreateRFIDCard(ctx, card); err != nil {
		c.logger.Warn("rfid card not registered", zap.Int64("user_id", id), zap.Error(err))
	}
	return id, nil
}

func (c *Console) UpdateUser(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	if err := c.users.Update(ctx, id, req); err != nil {
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return nil
}

func (c *Console) DeleteUser(ctx context.Context, id int64) error {
	if err := c.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	c.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}
