package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"batteryswap/backend/services/admin-cli/internal/catalog"
	"batteryswap/backend/services/admin-cli/internal/export"
	"batteryswap/backend/services/admin-cli/internal/models"
)

type swapFilterFlags struct {
	query catalog.SwapQuery
	order string
}

func (f *swapFilterFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.query.Search, "search", "", "match user name, email or station names")
	fs.StringVar(&f.query.Status, "status", catalog.All, "all, active or completed")
	fs.StringVar(&f.query.Station, "station", catalog.All, "pickup or deposit station id")
	fs.StringVar(&f.query.Date, "date", catalog.All, "all, today, yesterday, week or month")
	fs.StringVar(&f.query.SortBy, "sort", catalog.SwapSortCreatedAt, "userName, pickupStationName, startTime, endTime or createdAt")
	fs.StringVar(&f.order, "order", "desc", "asc or desc")
}

func (f *swapFilterFlags) build() (catalog.SwapQuery, error) {
	dir, err := catalog.ParseDirection(f.order)
	if err != nil {
		return catalog.SwapQuery{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	q := f.query
	q.Direction = dir
	return q, nil
}

// label summarises the non-default filters for report headers.
func (f *swapFilterFlags) label() string {
	var parts []string
	add := func(name, value string) {
		if value = strings.TrimSpace(value); value != "" && value != catalog.All {
			parts = append(parts, name+"="+value)
		}
	}
	add("search", f.query.Search)
	add("status", f.query.Status)
	add("station", f.query.Station)
	add("date", f.query.Date)
	return strings.Join(parts, ", ")
}

type swapFields struct {
	user                 optionalInt
	issued, returned     optionalInt
	pickup, deposit      optionalInt
	start, end           string
	pctStart, pctEnd, ah optionalFloat
}

func (f *swapFields) register(fs *flag.FlagSet) {
	fs.Var(&f.user, "user", "user id")
	fs.Var(&f.issued, "issued", "issued battery id")
	fs.Var(&f.returned, "returned", "returned battery id")
	fs.Var(&f.pickup, "pickup", "pickup station id")
	fs.Var(&f.deposit, "deposit", "deposit station id")
	fs.StringVar(&f.start, "start", "", "start time (RFC3339)")
	fs.StringVar(&f.end, "end", "", "end time (RFC3339)")
	fs.Var(&f.pctStart, "pct-start", "battery percentage at start")
	fs.Var(&f.pctEnd, "pct-end", "battery percentage at end")
	fs.Var(&f.ah, "ah", "amp hours used")
}

func (f *swapFields) request() models.SwapRequest {
	req := models.SwapRequest{
		IssuedBatteryID:        f.issued.v,
		ReturnedBatteryID:      f.returned.v,
		PickupStationID:        f.pickup.v,
		DepositStationID:       f.deposit.v,
		StartTime:              f.start,
		EndTime:                f.end,
		BatteryPercentageStart: f.pctStart.v,
		BatteryPercentageEnd:   f.pctEnd.v,
		AhUsed:                 f.ah.v,
	}
	if f.user.v != nil {
		req.UserID = *f.user.v
	}
	return req
}

func (c *CLI) listSwaps(ctx context.Context, args []string) error {
	fs := c.flags("swaps list")
	var filters swapFilterFlags
	filters.register(fs)
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	q, err := filters.build()
	if err != nil {
		return err
	}

	rows, err := c.console.ListSwaps(ctx, q)
	if err != nil {
		return err
	}
	return c.render(*asJSON, rows, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tUSER\tPICKUP\tDEPOSIT\tSTART\tDURATION\tSTATUS")
		for _, r := range rows {
			start := "-"
			if r.StartTime != nil {
				start = r.StartTime.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.UserName, r.PickupStationName, r.DepositStationName, start, r.Duration, r.Status)
		}
	})
}

func (c *CLI) getSwap(ctx context.Context, args []string) error {
	fs := c.flags("swaps get")
	asJSON := fs.Bool("json", false, "print JSON")
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	s, err := c.console.GetSwap(ctx, id)
	if err != nil {
		return err
	}
	return c.render(*asJSON, s, func(w io.Writer) { swapDetail(w, *s) })
}

func swapDetail(w io.Writer, s models.Swap) {
	fmt.Fprintf(w, "ID\t%d\n", s.ID)
	fmt.Fprintf(w, "User\t%d\n", s.UserID)
	fmt.Fprintf(w, "Issued battery\t%s\n", idOrDash(s.IssuedBatteryID))
	fmt.Fprintf(w, "Returned battery\t%s\n", idOrDash(s.ReturnedBatteryID))
	fmt.Fprintf(w, "Pickup station\t%s\n", idOrDash(s.PickupStationID))
	fmt.Fprintf(w, "Deposit station\t%s\n", idOrDash(s.DepositStationID))
	fmt.Fprintf(w, "Start\t%s\n", orDash(s.StartTime))
	fmt.Fprintf(w, "End\t%s\n", orDash(s.EndTime))
	fmt.Fprintf(w, "Ah used\t%s\n", floatOrDash(s.AhUsed))
}

func (c *CLI) userSwaps(ctx context.Context, args []string) error {
	fs := c.flags("swaps user")
	asJSON := fs.Bool("json", false, "print JSON")
	userID, err := parseID(fs, args)
	if err != nil {
		return err
	}
	swaps, err := c.console.UserSwaps(ctx, userID)
	if err != nil {
		return err
	}
	return c.render(*asJSON, swaps, func(w io.Writer) {
		fmt.Fprintln(w, "ID\tISSUED\tRETURNED\tSTART\tEND")
		for _, s := range swaps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				s.ID, idOrDash(s.IssuedBatteryID), idOrDash(s.ReturnedBatteryID), orDash(s.StartTime), orDash(s.EndTime))
		}
	})
}

func (c *CLI) createSwap(ctx context.Context, args []string) error {
	fs := c.flags("swaps create")
	var fields swapFields
	fields.register(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	id, err := c.console.CreateSwap(ctx, fields.request())
	if err != nil {
		return err
	}
	return c.done("created swap %d", id)
}

func (c *CLI) updateSwap(ctx context.Context, args []string) error {
	fs := c.flags("swaps update")
	var fields swapFields
	fields.register(fs)
	id, err := parseID(fs, args)
	if err != nil {
		return err
	}
	if err := c.console.UpdateSwap(ctx, id, fields.request()); err != nil {
		return err
	}
	return c.done("updated swap %d", id)
}

func (c *CLI) deleteSwap(ctx context.Context, args []string) error {
	id, err := parseID(c.flags("swaps delete"), args)
	if err != nil {
		return err
	}
	if err := c.console.DeleteSwap(ctx, id); err != nil {
		return err
	}
	return c.done("deleted swap %d", id)
}

// exportSwaps writes the filtered list to --out, or stdout when unset.
func (c *CLI) exportSwaps(ctx context.Context, args []string) error {
	fs := c.flags("swaps export")
	var filters swapFilterFlags
	filters.register(fs)
	format := fs.String("format", string(export.FormatCSV), "csv, xlsx or pdf")
	out := fs.String("out", "", "output file (default stdout)")
	title := fs.String("title", "", "report title")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	q, err := filters.build()
	if err != nil {
		return err
	}

	rows, err := c.console.ListSwaps(ctx, q)
	if err != nil {
		return err
	}
	report := export.SwapReport{
		Title:       *title,
		Filters:     filters.label(),
		GeneratedAt: time.Now(),
		Rows:        rows,
	}

	if *out == "" {
		return export.Write(c.stdout, f, report)
	}
	file, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	if err := export.Write(file, f, report); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stderr, "wrote %d swaps to %s\n", len(rows), *out)
	return err
}
