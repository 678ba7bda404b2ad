package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/database"
	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/report"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type demoBooking struct {
	reference     string
	covers        int
	start, finish [2]int
}

var demoBookings = []demoBooking{
	{"Angela", 3, [2]int{17, 30}, [2]int{20, 0}},
	{"Lucas", 1, [2]int{18, 0}, [2]int{19, 30}},
	{"Matthew", 4, [2]int{20, 15}, [2]int{22, 30}},
	{"Sarah", 2, [2]int{17, 30}, [2]int{20, 30}},
	{"Boris", 5, [2]int{19, 0}, [2]int{22, 30}},
}

// DemoRestaurant opens 17.00 to 23.00 every day with four tables.
func DemoRestaurant() models.Restaurant {
	hours := make(models.OpeningHours, 0, 7)
	for day := 0; day < 7; day++ {
		midnight := weektime.MinuteOffset(day * weektime.MinutesInDay)
		hours = append(hours, models.OpeningPeriod{
			Start: midnight + 17*weektime.MinutesInHour,
			End:   midnight + 23*weektime.MinutesInHour,
		})
	}
	return models.Restaurant{
		Name:         "Example Restaurant",
		Description:  "A restaurant used to demonstrate restbook.",
		OpeningHours: hours,
		Tables:       []int{2, 2, 4, 6},
	}
}

// NewDemoCmd seeds a throwaway store and prints the day report.
func NewDemoCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Book a sample evening and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				var err error
				if day, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
			}
			out, err := RunDemo(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to book, YYYY-MM-DD (default today)")
	return cmd
}

// RunDemo books the sample evening on day and returns the report.
func RunDemo(ctx context.Context, day time.Time) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dsn := fmt.Sprintf("file:demo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.InitDB("", dsn)
	if err != nil {
		return "", err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	store := database.NewStore(db, zap.NewNop())

	r := DemoRestaurant()
	id, err := store.CreateRestaurant(ctx, r)
	if err != nil {
		return "", err
	}

	y, m, d := day.Date()
	at := func(hm [2]int) time.Time { return time.Date(y, m, d, hm[0], hm[1], 0, 0, time.UTC) }
	for _, b := range demoBookings {
		_, err := store.CreateBooking(ctx, id, models.Booking{
			Reference: b.reference,
			Covers:    b.covers,
			Start:     at(b.start),
			Finish:    at(b.finish),
		})
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.reference, err)
		}
	}

	r, err = store.Restaurant(ctx, id)
	if err != nil {
		return "", err
	}
	bookings, err := store.Bookings(ctx, id)
	if err != nil {
		return "", err
	}
	return report.Generate(r, bookings, at([2]int{0, 0})), nil
}
