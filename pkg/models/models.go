package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/restbook-api-go/pkg/weektime"
)

var (
	ErrInterval          = errors.New("invalid opening hours")
	ErrOrder             = errors.New("booking starts after it finishes")
	ErrInvalidRestaurant = errors.New("invalid restaurant")
)

// IntervalRule names the opening hours rule that failed validation.
type IntervalRule int

const (
	RuleFirstStartNegative IntervalRule = iota + 1
	RuleWrapsIntoFirst
	RuleStartAfterWeek
	RuleEndBeforeStart
	RuleOverlap
)

func (r IntervalRule) String() string {
	switch r {
	case RuleFirstStartNegative:
		return "first period starts before Monday 00.00"
	case RuleWrapsIntoFirst:
		return "last period wraps past the start of the first"
	case RuleStartAfterWeek:
		return "period starts after the end of the week"
	case RuleEndBeforeStart:
		return "period ends before it starts"
	case RuleOverlap:
		return "period overlaps the previous period"
	}
	return "unknown rule"
}

// IntervalError carries the first opening hours rule violated and the index
// of the offending period.
type IntervalError struct {
	Rule  IntervalRule
	Index int
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("opening period %d: %s", e.Index, e.Rule)
}

func (e *IntervalError) Is(target error) bool { return target == ErrInterval }

// OrderError is returned for a booking whose start is after its finish.
type OrderError struct {
	Start, Finish time.Time
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("booking starts at %s after it finishes at %s",
		e.Start.Format(time.RFC3339), e.Finish.Format(time.RFC3339))
}

func (e *OrderError) Is(target error) bool { return target == ErrOrder }

// RestaurantError reports a restaurant level rule, such as a missing name.
type RestaurantError struct {
	Reason string
}

func (e *RestaurantError) Error() string { return "invalid restaurant: " + e.Reason }

func (e *RestaurantError) Is(target error) bool { return target == ErrInvalidRestaurant }

// OpeningPeriod is one weekly recurring window.
type OpeningPeriod struct {
	Start weektime.MinuteOffset `json:"start"`
	End   weektime.MinuteOffset `json:"end"`
}

// ParsePeriod builds a period from two "DayName HH.MM" strings.
func ParsePeriod(start, end string) (OpeningPeriod, error) {
	s, err := weektime.Parse(start)
	if err != nil {
		return OpeningPeriod{}, err
	}
	e, err := weektime.Parse(end)
	if err != nil {
		return OpeningPeriod{}, err
	}
	return OpeningPeriod{Start: s, End: e}, nil
}

func (p OpeningPeriod) String() string {
	return p.Start.String() + " - " + p.End.String()
}

// Covers reports whether the period contains [start, end].
func (p OpeningPeriod) Covers(start, end weektime.MinuteOffset) bool {
	return p.Start <= start && end <= p.End
}

// OpeningHours is the chronological sequence of a restaurant's periods.
// An empty sequence means the restaurant never opens.
type OpeningHours []OpeningPeriod

// Validate checks the sequence as a whole and returns the first rule broken.
func (h OpeningHours) Validate() error {
	if len(h) == 0 {
		return nil
	}

	first, last := h[0], h[len(h)-1]
	if first.Start < 0 {
		return &IntervalError{Rule: RuleFirstStartNegative, Index: 0}
	}
	if first.Start < last.End-weektime.MinutesInWeek {
		return &IntervalError{Rule: RuleWrapsIntoFirst, Index: len(h) - 1}
	}

	for i, p := range h {
		if p.Start > weektime.MinutesInWeek {
			return &IntervalError{Rule: RuleStartAfterWeek, Index: i}
		}
	}
	for i, p := range h {
		if p.Start > p.End {
			return &IntervalError{Rule: RuleEndBeforeStart, Index: i}
		}
		if i > 0 && p.Start < h[i-1].End {
			return &IntervalError{Rule: RuleOverlap, Index: i}
		}
	}
	return nil
}

func (h OpeningHours) IsValid() bool { return h.Validate() == nil }

// MarshalJSON writes the canonical [start, end] integer pair.
func (p OpeningPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{int(p.Start), int(p.End)})
}

// UnmarshalJSON accepts [[start, end], ...] pairs as well as
// [{"start": .., "end": ..}, ...] objects. Endpoints may be integers or
// "DayName HH.MM" strings.
func (p *OpeningPeriod) UnmarshalJSON(data []byte) error {
	var pair []weektime.MinuteOffset
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return &weektime.ParseError{Input: string(data), Reason: "period needs a start and an end"}
		}
		p.Start, p.End = pair[0], pair[1]
		return nil
	} else if errors.Is(err, weektime.ErrParse) || errors.Is(err, weektime.ErrOutOfRange) {
		return err
	}
	var obj struct {
		Start *weektime.MinuteOffset `json:"start"`
		End   *weektime.MinuteOffset `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Start == nil || obj.End == nil {
		return &weektime.ParseError{Input: string(data), Reason: "period needs a start and an end"}
	}
	p.Start, p.End = *obj.Start, *obj.End
	return nil
}

// Booking is a reservation for a number of covers between two absolute
// timestamps. References need not be unique.
type Booking struct {
	ID        string    `json:"id,omitempty"`
	Reference string    `json:"reference"`
	Covers    int       `json:"covers"`
	Start     time.Time `json:"start"`
	Finish    time.Time `json:"finish"`
}

// Validate fails with an OrderError when the booking starts after it finishes.
func (b Booking) Validate() error {
	if b.Start.After(b.Finish) {
		return &OrderError{Start: b.Start, Finish: b.Finish}
	}
	return nil
}

// Within reports whether the booking sits inside [start, end] of the ISO
// week containing ref. Bookings starting in another week are never within.
func (b Booking) Within(ref time.Time, start, end weektime.MinuteOffset) bool {
	refInfo := weektime.InfoOf(ref)
	startInfo := weektime.InfoOf(b.Start)
	if !startInfo.SameWeek(refInfo) {
		return false
	}
	finishInfo := weektime.InfoOf(b.Finish)
	return startInfo.Offset >= start && finishInfo.Offset <= end
}

// Overlaps uses half-open intervals; touching bookings do not overlap.
func (b Booking) Overlaps(other Booking) bool {
	return b.Start.Before(other.Finish) && b.Finish.After(other.Start)
}

// Restaurant has a name, opening hours and tables identified by position.
type Restaurant struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	OpeningHours OpeningHours `json:"opening_hours"`
	Tables       []int        `json:"tables"`
}

func (r Restaurant) Validate() error {
	if r.Name == "" {
		return &RestaurantError{Reason: "name is required"}
	}
	if err := ValidateTables(r.Tables); err != nil {
		return err
	}
	return r.OpeningHours.Validate()
}

func (r Restaurant) IsValid() bool { return r.Validate() == nil }

// ValidateTables requires every table to seat at least one cover.
func ValidateTables(tables []int) error {
	for i, covers := range tables {
		if covers < 1 {
			return &RestaurantError{Reason: fmt.Sprintf("table %d has capacity %d", i, covers)}
		}
	}
	return nil
}

func (r Restaurant) String() string {
	if r.Description == "" {
		return r.Name
	}
	return r.Name + ": " + r.Description
}

// SeatingPlan maps each table, by its position in the restaurant's table
// list, to the bookings seated at it. Bookings that fit no table are kept
// in Unassigned.
type SeatingPlan struct {
	Tables     [][]Booking `json:"tables"`
	Unassigned []Booking   `json:"unassigned"`
}

// NewSeatingPlan returns an empty plan with an entry for each of n tables.
func NewSeatingPlan(n int) SeatingPlan {
	plan := SeatingPlan{
		Tables:     make([][]Booking, n),
		Unassigned: []Booking{},
	}
	for i := range plan.Tables {
		plan.Tables[i] = []Booking{}
	}
	return plan
}

// Count is the number of bookings in the plan, seated or not.
func (p SeatingPlan) Count() int {
	n := len(p.Unassigned)
	for _, bookings := range p.Tables {
		n += len(bookings)
	}
	return n
}

// AvailabilityResponse answers whether a prospective booking could be made.
type AvailabilityResponse struct {
	Open            bool         `json:"open"`
	SpaceAvailable  bool         `json:"space_available"`
	CoveringPeriods OpeningHours `json:"covering_periods"`
}
