package cli

import (
	"context"
	"fmt"
	"io"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/models"
)

func (c *CLI) listBatteries(ctx context.Context, args []string) error {
	fs := c.flags("batteries list")
	var q catalog.BatteryQuery
	var order string
	fs.StringVar(&q.Search, "search", "", "match serial number")
	fs.StringVar(&q.Status, "status", catalog.All, "status filter")
	fs.StringVar(&q.Station, "station", catalog.All, "all, unassigned or a station id")
	fs.StringVar(&q.SortBy, "sort", catalog.BatterySortSerial, "serial_number, healthPercentage or cycleCount")
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

	rows, err := c.console.ListBatteries(ctx, q)
	if err != nil {
		return err
	}
	return c.render(*asJSON, rows, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tSERIAL\tSTATUS\tHEALTH\tCYCLES\tSTATION\tSERVICED")
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%g%%\t%d\t%s\t%s\n",
				r.ID, r.SerialNumber, r.Status, r.HealthPercentage, r.CycleCount, r.StationName, r.LastServiceDate)
		}
	})
}

func (c *CLI) getBattery(ctx context.Context, args []string) error {
	fs := c.flags("batteries get")
	asJSON := fs.Bool("json", false, "print JSON")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	detail, err := c.console.GetBattery(ctx, id)
	if err != nil {
		return err
	}
	return c.render(*asJSON, detail, func(w io.Writer) {
		b := detail.Battery
		fmt.Fprintf(w, "ID\t%d\n", b.ID)
		fmt.Fprintf(w, "Serial\t%s\n", b.SerialNumber)
		fmt.Fprintf(w, "Status\t%s\n", b.Status)
		fmt.Fprintf(w, "Type\t%s\n", orDash(b.BatteryType))
		fmt.Fprintf(w, "Capacity\t%s\n", floatOrDash(b.BatteryCapacity))
		fmt.Fprintf(w, "Station\t%s\n", idOrDash(b.StationID))
		fmt.Fprintf(w, "Manufactured\t%s\n", orDash(b.ManufactureDate))
		fmt.Fprintf(w, "\nLOGGED\tSOH\tCYCLES\tMAX TEMP\tERROR\n")
		for _, l := range detail.HealthLogs {
			cycles := "-"
			if l.CycleCount != nil {
				cycles = fmt.Sprint(*l.CycleCount)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				orDash(l.CreatedAt), floatOrDash(l.SOHPercent), cycles, floatOrDash(l.MaxTemp), orDash(l.ErrorCode))
		}
	})
}

func (c *CLI) createBattery(ctx context.Context, args []string) error {
	fs := c.flags("batteries create")
	var req models.CreateBatteryRequest
	var station optionalInt
	var capacity, soh optionalFloat
	var cycles optionalInt
	fs.StringVar(&req.SerialNumber, "serial", "", "serial number (required)")
	fs.StringVar(&req.Status, "status", models.BatteryAvailable, "initial status")
	fs.StringVar(&req.BatteryType, "type", "", "battery type")
	fs.StringVar(&req.ManufactureDate, "manufactured", "", "manufacture date (YYYY-MM-DD)")
	fs.Var(&station, "station", "station id")
	fs.Var(&capacity, "capacity", "capacity in Ah")
	fs.Var(&soh, "soh", "initial state of health percent")
	fs.Var(&cycles, "cycles", "initial cycle count")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	req.StationID = station.v
	req.BatteryCapacity = capacity.v

	var initial *models.BatteryHealthLog
	if soh.v != nil || cycles.v != nil {
		initial = &models.BatteryHealthLog{SOHPercent: soh.v, CycleCount: cycles.v}
	}
	id, err := c.console.CreateBattery(ctx, req, initial)
	if err != nil {
		return err
	}
	return c.done("created battery %d", id)
}

func (c *CLI) updateBattery(ctx context.Context, args []string) error {
	fs := c.flags("batteries update")
	var req models.UpdateBatteryRequest
	var station optionalInt
	var capacity optionalFloat
	fs.StringVar(&req.Status, "status", "", "status")
	fs.StringVar(&req.BatteryType, "type", "", "battery type")
	fs.StringVar(&req.ManufactureDate, "manufactured", "", "manufacture date (YYYY-MM-DD)")
	fs.Var(&station, "station", "station id")
	fs.Var(&capacity, "capacity", "capacity in Ah")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	req.StationID = station.v
	req.BatteryCapacity = capacity.v
	if err := c.console.UpdateBattery(ctx, id, req); err != nil {
		return err
	}
	return c.done("updated battery %d", id)
}

func (c *CLI) setBatteryStatus(ctx context.Context, args []string) error {
	fs := c.flags("batteries status")
	positional, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("%w: batteries status <id> <status>", ErrUsage)
	}
	id, err := parseInt(positional[0])
	if err != nil {
		return err
	}
	if err := c.console.SetBatteryStatus(ctx, id, positional[1]); err != nil {
		return err
	}
	return c.done("battery %d is now %s", id, positional[1])
}

func (c *CLI) deleteBattery(ctx context.Context, args []string) error {
	id, err := parseID(c.flags("batteries delete"), args)
	if err != nil {
		return err
	}
	if err := c.console.DeleteBattery(ctx, id); err != nil {
		return err
	}
	return c.done("deleted battery %d", id)
}
