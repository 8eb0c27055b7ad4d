package cli

import (
	"context"
	"fmt"
	"io"
)

func (c *CLI) dashboard(ctx context.Context, args []string) error {
	fs := c.flags("dashboard")
	asJSON := fs.Bool("json", false, "print JSON")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	s, err := c.console.Dashboard(ctx)
	if err != nil {
		return err
	}
	return c.render(*asJSON, s, func(w io.Writer) {
		fmt.Fprintf(w, "Batteries\t%d\t%d%% in use\n", s.TotalBatteries, s.InUsePercent)
		fmt.Fprintf(w, "  in use\t%d\n", s.InUseBatteries)
		fmt.Fprintf(w, "  charging\t%d\n", s.ChargingBatteries)
		fmt.Fprintf(w, "  faulty\t%d\n", s.FaultyBatteries)
		fmt.Fprintf(w, "Stations\t%d\n", s.TotalStations)
		fmt.Fprintf(w, "Swaps\t%d active\t%d completed\n", s.ActiveSwaps, s.CompletedSwaps)
		fmt.Fprintf(w, "Users\t%d\t%d active\n", s.TotalUsers, s.ActiveUsers)
		if len(s.Faulty) == 0 {
			fmt.Fprintln(w, "\nNo faulty batteries")
			return
		}
		fmt.Fprintln(w, "\nFAULTY\tSERIAL\tSTATION")
		for _, b := range s.Faulty {
			fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.SerialNumber, idOrDash(b.StationID))
		}
	})
}
