package cli

import (
	"context"
	"fmt"
	"io"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
	"batteryswap/backend/services/admin-cli/internal/service"
)

func (c *CLI) listUsers(ctx context.Context, args []string) error {
	fs := c.flags("users list")
	var q catalog.UserQuery
	fs.StringVar(&q.Search, "search", "", "match name or email")
	fs.StringVar(&q.Role, "role", catalog.All, "role filter")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	users, err := c.console.ListUsers(ctx, q)
	if err != nil {
		return err
	}
	return c.render(*asJSON, users, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role, u.Active())
		}
	})
}

func (c *CLI) getUser(ctx context.Context, args []string) error {
	fs := c.flags("users get")
	asJSON := fs.Bool("json", false, "print JSON")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	u, err := c.console.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return c.render(*asJSON, u, func(w io.Writer) {
		fmt.Fprintf(w, "ID\t%d\n", u.ID)
		fmt.Fprintf(w, "Name\t%s\n", u.Name)
		fmt.Fprintf(w, "Email\t%s\n", u.Email)
		fmt.Fprintf(w, "Phone\t%s\n", orDash(u.Phone))
		fmt.Fprintf(w, "Role\t%s\n", u.Role)
		fmt.Fprintf(w, "Active\t%t\n", u.Active())
		fmt.Fprintf(w, "License\t%s\n", orDash(u.LicenseNumber))
		fmt.Fprintf(w, "Motorcycle\t%s %s\n", orDash(u.MotorcycleModel), u.MotorcycleYear)
	})
}

func (c *CLI) createUser(ctx context.Context, args []string) error {
	fs := c.flags("users create")
	var in service.NewUser
	fs.StringVar(&in.Name, "name", "", "full name (required)")
	fs.StringVar(&in.Email, "email", "", "email (required)")
	fs.StringVar(&in.Password, "password", "", "initial password (required)")
	fs.StringVar(&in.Phone, "phone", "", "phone")
	fs.StringVar(&in.Address, "address", "", "address")
	fs.StringVar(&in.LicenseNumber, "license", "", "driving license number")
	fs.StringVar(&in.LicenseExpiry, "license-expiry", "", "license expiry (YYYY-MM-DD)")
	fs.StringVar(&in.MotorcycleModel, "model", "", "motorcycle model")
	fs.StringVar(&in.MotorcycleYear, "year", "", "motorcycle year")
	fs.StringVar(&in.Role, "role", models.RoleCustomer, "customer, admin, manager or technician")
	fs.StringVar(&in.RFIDCode, "rfid", "", "RFID card code (required)")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	id, err := c.console.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	return c.done("created user %d", id)
}

func (c *CLI) updateUser(ctx context.Context, args []string) error {
	fs := c.flags("users update")
	var req models.UpdateUserRequest
	var (
		name, email, phone, address, role optionalString
		active                            optionalBool
	)
	fs.Var(&name, "name", "full name")
	fs.Var(&email, "email", "email")
	fs.Var(&phone, "phone", "phone (-phone= clears it)")
	fs.Var(&address, "address", "address (-address= clears it)")
	fs.Var(&role, "role", "role")
	fs.Var(&active, "active", "enable or disable the account (-active=false)")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	req.Name, req.Email, req.Phone, req.Address, req.Role = name.v, email.v, phone.v, address.v, role.v
	req.IsActive = active.v
	if err := c.console.UpdateUser(ctx, id, req); err != nil {
		return err
	}
	return c.done("updated user %d", id)
}

func (c *CLI) deleteUser(ctx context.Context, args []string) error {
	id, err := parseID(c.flags("users delete"), args)
	if err != nil {
		return err
	}
	if err := c.console.DeleteUser(ctx, id); err != nil {
		return err
	}
	return c.done("deleted user %d", id)
}
