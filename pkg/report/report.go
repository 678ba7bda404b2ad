package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/scheduler"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
)

const clock = "15:04"

// DayWindow returns the offsets spanning the whole weekday of date.
func DayWindow(date time.Time) (weektime.MinuteOffset, weektime.MinuteOffset) {
	day := weektime.InfoOf(date).Weekday
	start := weektime.MinuteOffset(day * weektime.MinutesInDay)
	return start, start + weektime.MinutesInDay - 1
}

// DayPlan seats the bookings falling on the calendar day of date.
func DayPlan(r models.Restaurant, bookings []models.Booking, date time.Time) models.SeatingPlan {
	start, end := DayWindow(date)
	return scheduler.SeatingPlanWithin(date, start, end, r.Tables, bookings)
}

// Generate renders a plain text report of the restaurant, its opening hours
// and the seating plan for the day of date.
func Generate(r models.Restaurant, bookings []models.Booking, date time.Time) string {
	var out strings.Builder

	fmt.Fprintln(&out, r.String())
	fmt.Fprintln(&out)

	fmt.Fprintln(&out, "Opening hours:")
	if len(r.OpeningHours) == 0 {
		fmt.Fprintln(&out, "  closed")
	}
	for _, p := range r.OpeningHours {
		fmt.Fprintf(&out, "  %s\n", p)
	}
	fmt.Fprintln(&out)

	plan := DayPlan(r, bookings, date)
	fmt.Fprintf(&out, "Seating plan for %s %s:\n", weektime.DayNames[weektime.InfoOf(date).Weekday], date.Format("2006-01-02"))

	w := tabwriter.NewWriter(&out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Table\tSize\tReference\tCovers\tTime")
	for i, seated := range plan.Tables {
		if len(seated) == 0 {
			fmt.Fprintf(w, "  %d\t%d\t-\t\t\n", i, r.Tables[i])
			continue
		}
		for _, b := range seated {
			fmt.Fprintf(w, "  %d\t%d\t%s\t%d\t%s\n", i, r.Tables[i], b.Reference, b.Covers, span(b))
		}
	}
	for _, b := range plan.Unassigned {
		fmt.Fprintf(w, "  unassigned\t\t%s\t%d\t%s\n", b.Reference, b.Covers, span(b))
	}
	w.Flush()

	covers := 0
	for _, seated := range plan.Tables {
		for _, b := range seated {
			covers += b.Covers
		}
	}
	fmt.Fprintf(&out, "\n%d bookings seated (%d covers), %d unassigned\n",
		plan.Count()-len(plan.Unassigned), covers, len(plan.Unassigned))

	return out.String()
}

func span(b models.Booking) string {
	return b.Start.Format(clock) + "-" + b.Finish.Format(clock)
}

// WriteCSV writes one row per booking in the plan. Unassigned bookings have
// an empty table and capacity.
func WriteCSV(w io.Writer, tables []int, plan models.SeatingPlan) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"table", "capacity", "reference", "covers", "start", "finish"})

	for i, seated := range plan.Tables {
		for _, b := range seated {
			writer.Write(row(strconv.Itoa(i), strconv.Itoa(tables[i]), b))
		}
	}
	for _, b := range plan.Unassigned {
		writer.Write(row("", "", b))
	}

	writer.Flush()
	return writer.Error()
}

func row(table, capacity string, b models.Booking) []string {
	return []string{
		table,
		capacity,
		b.Reference,
		strconv.Itoa(b.Covers),
		b.Start.Format(time.RFC3339),
		b.Finish.Format(time.RFC3339),
	}
}
