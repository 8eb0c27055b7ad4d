package cli

import (
	"context"
	"fmt"
	"io"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

func (c *CLI) listStations(ctx context.Context, args []string) error {
	fs := c.flags("stations list")
	var q catalog.StationQuery
	var order string
	fs.StringVar(&q.Search, "search", "", "match name or location")
	fs.StringVar(&q.SortBy, "sort", catalog.StationSortName, "name, location or batteryCount")
	fs.StringVar(&order, "order", "asc", "asc or desc")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	dir, err := catalog.ParseDirection(order)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	q.Direction = dir

	rows, err := c.console.ListStations(ctx, q)
	if err != nil {
		return err
	}
	return c.render(*asJSON, rows, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tLOCATION\tBATTERIES")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", r.ID, r.Name, r.Location, r.BatteryCount)
		}
	})
}

func (c *CLI) getStation(ctx context.Context, args []string) error {
	fs := c.flags("stations get")
	asJSON := fs.Bool("json", false, "print JSON")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	detail, err := c.console.GetStation(ctx, id)
	if err != nil {
		return err
	}
	return c.render(*asJSON, detail, func(w io.Writer) {
		fmt.Fprintf(w, "ID\t%d\n", detail.Station.ID)
		fmt.Fprintf(w, "Name\t%s\n", detail.Station.Name)
		fmt.Fprintf(w, "Location\t%s\n", orDash(detail.Station.Location))
		fmt.Fprintf(w, "\nSLOT\tSTATUS\tBATTERY\tCHARGING\n")
		for _, s := range detail.Slots {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", s.SlotNumber, s.Status, idOrDash(s.BatteryID), s.IsCharging)
		}
		fmt.Fprintf(w, "\nBATTERY\tSERIAL\tSTATUS\n")
		for _, b := range detail.Batteries {
			fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.SerialNumber, b.Status)
		}
	})
}

func (c *CLI) createStation(ctx context.Context, args []string) error {
	fs := c.flags("stations create")
	var req models.CreateStationRequest
	fs.StringVar(&req.Name, "name", "", "station name (required)")
	fs.StringVar(&req.Location, "location", "", "location")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	id, err := c.console.CreateStation(ctx, req)
	if err != nil {
		return err
	}
	return c.done("created station %d", id)
}

func (c *CLI) updateStation(ctx context.Context, args []string) error {
	fs := c.flags("stations update")
	var req models.UpdateStationRequest
	fs.StringVar(&req.Name, "name", "", "station name")
	fs.StringVar(&req.Location, "location", "", "location")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	if err := c.console.UpdateStation(ctx, id, req); err != nil {
		return err
	}
	return c.done("updated station %d", id)
}

func (c *CLI) deleteStation(ctx context.Context, args []string) error {
	id, err := parseID(c.flags("stations delete"), args)
	if err != nil {
		return err
	}
	if err := c.console.DeleteStation(ctx, id); err != nil {
		return err
	}
	return c.done("deleted station %d", id)
}
