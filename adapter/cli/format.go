package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/google/uuid"
)

// NoAppMessage is printed when a command runs without a database connection.
const NoAppMessage = "This command requires a database connection.\nSet DATABASE_URL, or leave it empty to use the local SQLite database."

// ParseDateFlag parses a YYYY-MM-DD flag value. Empty means today.
func ParseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return domain.NormalizeDate(time.Now()), nil
	}
	date, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return date, nil
}

// ParseTimeFlag parses a required HH:MM flag value.
func ParseTimeFlag(name, value string) (domain.TimeOfDay, error) {
	if value == "" {
		return 0, fmt.Errorf("--%s is required", name)
	}
	t, err := domain.ParseTimeOfDay(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s, use HH:MM: %w", name, err)
	}
	return t, nil
}

// ParseOptionalTimeFlag parses an HH:MM flag value. Empty yields nil, which
// handlers read as "use the default".
func ParseOptionalTimeFlag(name, value string) (*domain.TimeOfDay, error) {
	if value == "" {
		return nil, nil
	}
	t, err := ParseTimeFlag(name, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseIDFlag parses a required UUID flag value.
func ParseIDFlag(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", name)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return id, nil
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintWindows writes recommendation windows as a ranked table.
func PrintWindows(w io.Writer, windows []queries.WindowDTO) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "No windows fit inside the working day.")
		return
	}
	fmt.Fprintf(w, "%-4s %-13s %-10s %s\n", "#", "WINDOW", "FREE", "SCORE")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for i, win := range windows {
		fmt.Fprintf(w, "%-4d %-13s %-10s %.2f\n",
			i+1,
			win.Start+"-"+win.End,
			fmt.Sprintf("%d/%d", win.AvailableCount, win.TotalCount),
			win.AvailabilityScore,
		)
	}
}
