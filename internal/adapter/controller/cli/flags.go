package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/YoshitsuguKoike/deetask/internal/application/dto"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

// noneValue clears an optional field in update commands, e.g. --due none
const noneValue = "none"

// GlobalFlags are the persistent flags every command accepts
type GlobalFlags struct {
	Home     string
	DBPath   string
	Output   string
	LogLevel string
}

// BindGlobalFlags registers the global flags on fs
func BindGlobalFlags(fs *pflag.FlagSet, g *GlobalFlags) {
	fs.StringVar(&g.Home, "home", "", "Home directory (default $DEETASK_HOME or ~/.deetask)")
	fs.StringVar(&g.DBPath, "db", "", "SQLite database path (default <home>/deetask.db)")
	fs.StringVarP(&g.Output, "output", "o", "cli", "Output format (cli, json)")
	fs.StringVar(&g.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// globalFlagNames lists the long and short names BindGlobalFlags registers
var globalFlagNames = map[string]bool{
	"--home": true, "--db": true, "--output": true, "-o": true, "--log-level": true,
}

// ParseGlobalFlags extracts the global flags from args before the command
// tree exists, so the container can be configured from them.
// Other arguments are skipped here; cobra validates them later.
func ParseGlobalFlags(args []string) GlobalFlags {
	var g GlobalFlags
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	BindGlobalFlags(fs, &g)
	_ = fs.Parse(globalArgs(args))
	return g
}

// globalArgs keeps only the global flags of args together with their values
func globalArgs(args []string) []string {
	var kept []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, _, hasValue := strings.Cut(arg, "=")
		if !globalFlagNames[name] {
			continue
		}
		kept = append(kept, arg)
		if !hasValue && i+1 < len(args) {
			i++
			kept = append(kept, args[i])
		}
	}
	return kept
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseTime accepts RFC3339, a local "YYYY-MM-DD HH:MM" or a bare date.
// A bare date is local midnight, or 23:59 when endOfDay is set.
func parseTime(value string, cal model.Calendar, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, cal.Location()); err == nil {
			return t, nil
		}
	}
	key, err := model.ParseDateKey(value)
	if err != nil {
		return time.Time{}, model.NewValidation(fmt.Sprintf("invalid time %q (want YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC3339)", value))
	}
	start, err := cal.StartOfDay(key)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return time.Date(start.Year(), start.Month(), start.Day(), 23, 59, 0, 0, cal.Location()), nil
	}
	return start, nil
}

func optionalTime(value string, cal model.Calendar, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseTime(value, cal, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// stringField maps a flag to Keep (not given), Clear ("none") or Set
func stringField(cmd *cobra.Command, name, value string) dto.Field[string] {
	if !cmd.Flags().Changed(name) {
		return dto.Keep[string]()
	}
	if value == noneValue {
		return dto.Clear[string]()
	}
	return dto.Set(value)
}

func timeField(cmd *cobra.Command, name, value string, cal model.Calendar, endOfDay bool) (dto.Field[time.Time], error) {
	if !cmd.Flags().Changed(name) {
		return dto.Keep[time.Time](), nil
	}
	if value == noneValue {
		return dto.Clear[time.Time](), nil
	}
	t, err := parseTime(value, cal, endOfDay)
	if err != nil {
		return dto.Field[time.Time]{}, err
	}
	return dto.Set(t), nil
}

// listField maps a repeated flag to Keep, Clear ("none" or empty) or Set
func listField(cmd *cobra.Command, name string, values []string) dto.Field[[]string] {
	if !cmd.Flags().Changed(name) {
		return dto.Keep[[]string]()
	}
	if len(values) == 0 || (len(values) == 1 && (values[0] == noneValue || values[0] == "")) {
		return dto.Clear[[]string]()
	}
	return dto.Set(values)
}
