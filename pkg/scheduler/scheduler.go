package scheduler

import (
	"slices"
	"sort"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
)

type indexedTable struct {
	index  int
	covers int
}

// SeatingPlan assigns bookings to tables. Bookings are taken smallest party
// first, keeping their given order on ties, and each goes to the smallest
// table that fits it and holds nothing overlapping it in time. Bookings that
// find no table end up in the plan's Unassigned bucket.
//
// The inputs are not modified.
func SeatingPlan(tables []int, bookings []models.Booking) models.SeatingPlan {
	plan, _ := allocate(tables, bookings)
	return plan
}

// SeatingPlanWithin is SeatingPlan restricted to the bookings inside
// [start, end] of the ISO week containing ref.
func SeatingPlanWithin(ref time.Time, start, end weektime.MinuteOffset, tables []int, bookings []models.Booking) models.SeatingPlan {
	return SeatingPlan(tables, RelevantBookings(bookings, ref, start, end))
}

// SpaceAvailable reports whether requested can be added to existing without
// growing the unassigned bucket. It never moves an existing booking to make
// room: if seating requested would push out someone already booked the
// answer is false.
func SpaceAvailable(requested models.Booking, tables []int, existing []models.Booking) bool {
	if len(tables) == 0 {
		return false
	}

	_, before := allocate(tables, existing)

	all := make([]models.Booking, 0, len(existing)+1)
	all = append(all, existing...)
	all = append(all, requested)
	_, after := allocate(tables, all)

	return slices.Equal(before, after)
}

// allocate runs the greedy pass and also returns the positions in bookings
// of the unassigned ones, in the order they were rejected.
func allocate(tables []int, bookings []models.Booking) (models.SeatingPlan, []int) {
	plan := models.NewSeatingPlan(len(tables))

	sorted := make([]indexedTable, len(tables))
	for i, covers := range tables {
		sorted[i] = indexedTable{index: i, covers: covers}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].covers < sorted[j].covers
	})

	order := make([]int, len(bookings))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return bookings[order[i]].Covers < bookings[order[j]].Covers
	})

	unassigned := []int{}
	for _, bi := range order {
		booking := bookings[bi]
		table := findTable(sorted, plan.Tables, booking)
		if table < 0 {
			plan.Unassigned = append(plan.Unassigned, booking)
			unassigned = append(unassigned, bi)
			continue
		}
		plan.Tables[table] = append(plan.Tables[table], booking)
	}

	return plan, unassigned
}

// findTable returns the index of the first table, in ascending capacity,
// that seats the booking without a clash, or -1.
func findTable(sorted []indexedTable, seated [][]models.Booking, booking models.Booking) int {
	for _, t := range sorted {
		if booking.Covers > t.covers {
			continue
		}
		if WouldOverlap(seated[t.index], booking) {
			continue
		}
		return t.index
	}
	return -1
}

// WouldOverlap checks if any of a table's bookings overlaps a new one
func WouldOverlap(seated []models.Booking, booking models.Booking) bool {
	for _, existing := range seated {
		if existing.Overlaps(booking) {
			return true
		}
	}
	return false
}
