package scheduler

import (
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/arnavshah/restbook-api-go/pkg/weektime"
)

// RelevantBookings keeps the bookings inside [start, end] of the ISO week
// containing ref, preserving their order.
func RelevantBookings(bookings []models.Booking, ref time.Time, start, end weektime.MinuteOffset) []models.Booking {
	kept := []models.Booking{}
	for _, b := range bookings {
		if b.Within(ref, start, end) {
			kept = append(kept, b)
		}
	}
	return kept
}

// windowOffsets converts a requested window into week offsets. A finish in
// the following ISO week is pushed past the end of the week so that it can
// be matched by a period that runs beyond Sunday midnight.
func windowOffsets(start, finish time.Time) (weektime.MinuteOffset, weektime.MinuteOffset) {
	s := weektime.InfoOf(start)
	f := weektime.InfoOf(finish)
	offset := f.Offset
	if !f.SameWeek(s) && finish.After(start) {
		offset += weektime.MinutesInWeek
	}
	return s.Offset, offset
}

// OpensWithinTimes returns the periods that open somewhere in
// [start, finish]. They need not cover the window.
func OpensWithinTimes(hours models.OpeningHours, start, finish time.Time) models.OpeningHours {
	s, f := windowOffsets(start, finish)
	opens := models.OpeningHours{}
	for _, p := range hours {
		if p.Start >= s && p.Start <= f {
			opens = append(opens, p)
		}
	}
	return opens
}

// FulfillsTimes returns the opening hours that cover [start, finish]: a
// single period when one covers the whole window, otherwise the first chain
// of adjacent periods that does. The result is empty when nothing covers it.
func FulfillsTimes(hours models.OpeningHours, start, finish time.Time) models.OpeningHours {
	s, f := windowOffsets(start, finish)

	for _, p := range hours {
		if p.Covers(s, f) {
			return models.OpeningHours{p}
		}
	}

	for _, chain := range AdjacentChains(hours) {
		span := models.OpeningPeriod{Start: chain[0].Start, End: chain[len(chain)-1].End}
		if span.Covers(s, f) {
			return chain
		}
	}
	return models.OpeningHours{}
}

// WithinTimes reports whether a single period covers [start, finish].
// Unlike FulfillsTimes it does not join adjacent periods.
func WithinTimes(hours models.OpeningHours, start, finish time.Time) bool {
	s, f := windowOffsets(start, finish)
	for _, p := range hours {
		if p.Covers(s, f) {
			return true
		}
	}
	return false
}

// AdjacentChains splits ordered opening hours into maximal runs where each
// period ends one minute before the next begins. Every period belongs to
// exactly one chain.
func AdjacentChains(hours models.OpeningHours) []models.OpeningHours {
	var chains []models.OpeningHours
	var current models.OpeningHours
	for i, p := range hours {
		if i > 0 && p.Start != hours[i-1].End+1 {
			chains = append(chains, current)
			current = nil
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		chains = append(chains, current)
	}
	return chains
}
