package models

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/weektime"
)

const week = weektime.MinutesInWeek

func TestOpeningHoursValidate(t *testing.T) {
	cases := []struct {
		name  string
		hours OpeningHours
		rule  IntervalRule
	}{
		{"empty", OpeningHours{}, 0},
		{"single", OpeningHours{{0, 1}}, 0},
		{"adjacent", OpeningHours{{0, 100}, {100, 200}}, 0},
		{"ends at week boundary", OpeningHours{{week, week}}, 0},
		{"last ends at first start", OpeningHours{{0, 1}, {week, week}}, 0},
		{"negative start", OpeningHours{{-1, 1}}, RuleFirstStartNegative},
		{"wraps into first", OpeningHours{{0, 1}, {week, week + 1}}, RuleWrapsIntoFirst},
		{"starts after week", OpeningHours{{week + 1, week + 1}}, RuleStartAfterWeek},
		{"ends before start", OpeningHours{{1, 0}}, RuleEndBeforeStart},
		{"overlap", OpeningHours{{0, 100}, {99, 200}}, RuleOverlap},
	}

	for _, tc := range cases {
		err := tc.hours.Validate()
		if tc.rule == 0 {
			if err != nil {
				t.Errorf("%s: expected valid, got %v", tc.name, err)
			}
			continue
		}
		var ie *IntervalError
		if !errors.As(err, &ie) {
			t.Errorf("%s: expected IntervalError, got %v", tc.name, err)
			continue
		}
		if ie.Rule != tc.rule {
			t.Errorf("%s: expected rule %q, got %q", tc.name, tc.rule, ie.Rule)
		}
		if !errors.Is(err, ErrInterval) {
			t.Errorf("%s: expected errors.Is(err, ErrInterval)", tc.name)
		}
	}
}

func TestOpeningHoursValidate_RuleOrder(t *testing.T) {
	// Negative first start and an overlap: the first rule wins.
	hours := OpeningHours{{-5, 100}, {50, 60}}
	var ie *IntervalError
	if err := hours.Validate(); !errors.As(err, &ie) || ie.Rule != RuleFirstStartNegative {
		t.Errorf("Expected RuleFirstStartNegative, got %v", err)
	}

	// A late start past the week is reported before an earlier overlap.
	hours = OpeningHours{{5000, 5100}, {5050, 5200}, {10081, 10081}}
	if err := hours.Validate(); !errors.As(err, &ie) || ie.Rule != RuleStartAfterWeek || ie.Index != 2 {
		t.Errorf("Expected RuleStartAfterWeek at index 2, got %v", err)
	}

	// Likewise before an earlier reversed period.
	hours = OpeningHours{{5000, 4000}, {10081, 10090}}
	if err := hours.Validate(); !errors.As(err, &ie) || ie.Rule != RuleStartAfterWeek || ie.Index != 1 {
		t.Errorf("Expected RuleStartAfterWeek at index 1, got %v", err)
	}
}

// randomHours builds a valid sequence the way a restaurant would: periods in
// order, the last allowed to run a little past Sunday midnight.
func randomHours(r *rand.Rand) OpeningHours {
	var hours OpeningHours
	prev := weektime.MinuteOffset(r.Intn(600))
	for prev < week-60 && len(hours) < 14 {
		start := prev + weektime.MinuteOffset(r.Intn(600))
		if start > week {
			break
		}
		end := start + weektime.MinuteOffset(r.Intn(400))
		hours = append(hours, OpeningPeriod{start, end})
		prev = end
	}
	if len(hours) > 0 && hours[len(hours)-1].End-week > hours[0].Start {
		hours[len(hours)-1].End = week + hours[0].Start
	}
	return hours
}

func TestOpeningHoursValidate_Mutations(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		hours := randomHours(r)
		if err := hours.Validate(); err != nil {
			t.Fatalf("Generated hours %v should be valid: %v", hours, err)
		}
		if len(hours) < 2 {
			continue
		}

		n := 1 + r.Intn(len(hours)-1)
		if hours[n-1].End == 0 {
			continue
		}
		overlapping := append(OpeningHours{}, hours...)
		overlapping[n].Start = hours[n-1].End - 1
		if overlapping[n].Start < hours[n-1].Start {
			continue
		}
		if err := overlapping.Validate(); !errors.Is(err, ErrInterval) {
			t.Errorf("Expected overlap in %v to fail, got %v", overlapping, err)
		}

		reversed := append(OpeningHours{}, hours...)
		reversed[0] = OpeningPeriod{hours[0].Start + 1, hours[0].Start}
		if err := reversed.Validate(); !errors.Is(err, ErrInterval) {
			t.Errorf("Expected reversed period in %v to fail, got %v", reversed, err)
		}
	}
}

func TestOpeningPeriodJSON(t *testing.T) {
	var hours OpeningHours
	body := `[["Monday 17.00", "Monday 23.00"], [2460, 2820], {"start": "Wednesday 17.00", "end": 3900}]`
	if err := json.Unmarshal([]byte(body), &hours); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	want := OpeningHours{{1020, 1380}, {2460, 2820}, {3900, 3900}}
	if len(hours) != len(want) {
		t.Fatalf("Expected %d periods, got %d", len(want), len(hours))
	}
	for i := range want {
		if hours[i] != want[i] {
			t.Errorf("Period %d = %v, expected %v", i, hours[i], want[i])
		}
	}

	out, _ := json.Marshal(hours[:1])
	if string(out) != "[[1020,1380]]" {
		t.Errorf("Expected integer pairs, got %s", out)
	}

	bad := []string{`[["Someday 00.00", 5]]`, `[[1]]`, `[{"start": 1}]`}
	for _, b := range bad {
		if err := json.Unmarshal([]byte(b), &hours); err == nil {
			t.Errorf("Expected %s to be rejected", b)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("Tuesday 12.00", "Tuesday 16.00")
	if err != nil {
		t.Fatalf("ParsePeriod returned error: %v", err)
	}
	if p.Start != 2160 || p.End != 2400 {
		t.Errorf("Unexpected period %v", p)
	}
	if p.String() != "Tuesday 12.00 - Tuesday 16.00" {
		t.Errorf("Unexpected rendering %q", p.String())
	}
	if _, err := ParsePeriod("Tuesday 12.00", "Someday 16.00"); !errors.Is(err, weektime.ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2016, 5, day, hour, minute, 0, 0, time.UTC)
}

func TestBookingValidate(t *testing.T) {
	ok := Booking{Reference: "ok", Covers: 2, Start: at(2, 12, 0), Finish: at(2, 13, 0)}
	if err := ok.Validate(); err != nil {
		t.Errorf("Expected valid booking, got %v", err)
	}
	instant := Booking{Reference: "instant", Covers: 1, Start: at(2, 12, 0), Finish: at(2, 12, 0)}
	if err := instant.Validate(); err != nil {
		t.Errorf("Expected zero length booking to be valid, got %v", err)
	}
	backwards := Booking{Reference: "bad", Covers: 2, Start: at(2, 13, 0), Finish: at(2, 12, 0)}
	var oe *OrderError
	if err := backwards.Validate(); !errors.As(err, &oe) || !errors.Is(err, ErrOrder) {
		t.Errorf("Expected OrderError, got %v", err)
	}
}

func TestBookingWithin(t *testing.T) {
	// Monday 2nd May 2016, window Monday 12.00 to 14.00.
	ref := at(2, 9, 0)
	start, end := weektime.MustParse("Monday 12.00"), weektime.MustParse("Monday 14.00")

	cases := []struct {
		name   string
		b      Booking
		within bool
	}{
		{"starts too soon", Booking{Start: at(2, 11, 0), Finish: at(2, 13, 0)}, false},
		{"starts too late", Booking{Start: at(2, 14, 30), Finish: at(2, 15, 0)}, false},
		{"finishes too late", Booking{Start: at(2, 13, 30), Finish: at(2, 15, 0)}, false},
		{"whole window", Booking{Start: at(2, 12, 0), Finish: at(2, 14, 0)}, true},
		{"first half", Booking{Start: at(2, 12, 0), Finish: at(2, 13, 0)}, true},
		{"second half", Booking{Start: at(2, 13, 0), Finish: at(2, 14, 0)}, true},
		{"next week", Booking{Start: at(9, 12, 0), Finish: at(9, 13, 0)}, false},
	}
	for _, tc := range cases {
		if got := tc.b.Within(ref, start, end); got != tc.within {
			t.Errorf("%s: Within = %v, expected %v", tc.name, got, tc.within)
		}
	}
}

func TestBookingOverlaps(t *testing.T) {
	a := Booking{Start: at(2, 12, 0), Finish: at(2, 13, 30)}
	b := Booking{Start: at(2, 12, 30), Finish: at(2, 14, 0)}
	c := Booking{Start: at(2, 13, 30), Finish: at(2, 15, 0)}

	if !a.Overlaps(b) {
		t.Errorf("Expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Errorf("Touching bookings should not overlap")
	}

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		x := randomBooking(r)
		y := randomBooking(r)
		if x.Overlaps(y) != y.Overlaps(x) {
			t.Fatalf("Overlaps is not symmetric for %v and %v", x, y)
		}
	}
}

func randomBooking(r *rand.Rand) Booking {
	start := at(2, 0, 0).Add(time.Duration(r.Intn(24*60)) * time.Minute)
	return Booking{Covers: 1, Start: start, Finish: start.Add(time.Duration(r.Intn(240)) * time.Minute)}
}

func TestRestaurantValidate(t *testing.T) {
	valid := Restaurant{Name: "Safe Example", Tables: []int{1, 2, 3}, OpeningHours: OpeningHours{{0, 1}}}
	if !valid.IsValid() {
		t.Errorf("Expected restaurant to be valid: %v", valid.Validate())
	}

	cases := []struct {
		name   string
		r      Restaurant
		target error
	}{
		{"no name", Restaurant{Name: ""}, ErrInvalidRestaurant},
		{"zero table", Restaurant{Name: "x", Tables: []int{0}}, ErrInvalidRestaurant},
		{"negative table", Restaurant{Name: "x", Tables: []int{-1}}, ErrInvalidRestaurant},
		{"bad hours", Restaurant{Name: "x", OpeningHours: OpeningHours{{2, 1}}}, ErrInterval},
	}
	for _, tc := range cases {
		if err := tc.r.Validate(); !errors.Is(err, tc.target) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.target, err)
		}
	}
}
