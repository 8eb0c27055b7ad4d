// Package cli maps "admin-cli <resource> <action> [flags]" onto console operations.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"batteryswap/backend/services/admin-cli/internal/service"
)

// ErrUsage marks invocation mistakes; the caller prints usage and exits 2.
var ErrUsage = errors.New("usage")

type command func(ctx context.Context, args []string) error

// CLI runs one command per Run call.
type CLI struct {
	console *service.Console
	stdout  io.Writer
	stderr  io.Writer
	tree    map[string]map[string]command
}

func New(console *service.Console, stdout, stderr io.Writer) *CLI {
	c := &CLI{console: console, stdout: stdout, stderr: stderr}
	c.tree = map[string]map[string]command{
		"batteries": {
			"list":   c.listBatteries,
			"get":    c.getBattery,
			"create": c.createBattery,
			"update": c.updateBattery,
			"status": c.setBatteryStatus,
			"delete": c.deleteBattery,
		},
		"stations": {
			"list":   c.listStations,
			"get":    c.getStation,
			"create": c.createStation,
			"update": c.updateStation,
			"delete": c.deleteStation,
		},
		"swaps": {
			"list":   c.listSwaps,
			"get":    c.getSwap,
			"create": c.createSwap,
			"update": c.updateSwap,
			"delete": c.deleteSwap,
			"user":   c.userSwaps,
			"export": c.exportSwaps,
		},
		"users": {
			"list":   c.listUsers,
			"get":    c.getUser,
			"create": c.createUser,
			"update": c.updateUser,
			"delete": c.deleteUser,
		},
		"dashboard": {
			"show": c.dashboard,
		},
	}
	return c
}

// Run dispatches args (without the program name).
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing resource", ErrUsage)
	}
	actions, ok := c.tree[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown resource %q", ErrUsage, args[0])
	}
	rest := args[1:]
	action := "show"
	if args[0] != "dashboard" {
		if len(rest) == 0 {
			return fmt.Errorf("%w: missing action for %s", ErrUsage, args[0])
		}
		action, rest = rest[0], rest[1:]
	}
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q for %s", ErrUsage, action, args[0])
	}
	return run(ctx, rest)
}

// Usage writes the command summary.
func (c *CLI) Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin-cli <resource> <action> [flags]")
	resources := make([]string, 0, len(c.tree))
	for name := range c.tree {
		resources = append(resources, name)
	}
	sort.Strings(resources)
	for _, name := range resources {
		actions := make([]string, 0, len(c.tree[name]))
		for action := range c.tree[name] {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		fmt.Fprintf(w, "  %-10s %s\n", name, strings.Join(actions, " | "))
	}
	fmt.Fprintln(w, "run '<resource> <action> -h' for flags")
}

func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// parse accepts flags before or after positional arguments.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, ErrUsage
			}
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// parseID parses flags and exactly one positional id.
func parseID(fs *flag.FlagSet, args []string) (int64, error) {
	positional, err := parse(fs, args)
	if err != nil {
		return 0, err
	}
	if len(positional) != 1 {
		return 0, fmt.Errorf("%w: %s expects one id", ErrUsage, fs.Name())
	}
	return parseInt(positional[0])
}

func parseInt(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrUsage, raw)
	}
	return id, nil
}

func (c *CLI) writeJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *CLI) table(fill func(w io.Writer)) error {
	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fill(w)
	return w.Flush()
}

// render writes v as JSON or fills a table.
func (c *CLI) render(asJSON bool, v any, fill func(w io.Writer)) error {
	if asJSON {
		return c.writeJSON(v)
	}
	return c.table(fill)
}

func (c *CLI) done(format string, args ...any) error {
	_, err := fmt.Fprintf(c.stdout, format+"\n", args...)
	return err
}

// optionalInt is an int64 flag that records whether it was set.
type optionalInt struct{ v *int64 }

func (o *optionalInt) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatInt(*o.v, 10)
}

func (o *optionalInt) Set(raw string) error {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	o.v = &v
	return nil
}

type optionalFloat struct{ v *float64 }

func (o *optionalFloat) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optionalFloat) Set(raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	o.v = &v
	return nil
}

type optionalBool struct{ v *bool }

func (o *optionalBool) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.FormatBool(*o.v)
}

func (o *optionalBool) Set(raw string) error {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return err
	}
	o.v = &v
	return nil
}

func (o *optionalBool) IsBoolFlag() bool { return true }

// optionalString tells an empty value apart from an unset flag.
type optionalString struct{ v *string }

func (o *optionalString) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return *o.v
}

func (o *optionalString) Set(raw string) error {
	o.v = &raw
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
