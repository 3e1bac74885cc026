// model/dates.go
package model

import "time"

// DateRange is a half-open stay interval [Checkin, Checkout). Checkout day is
// not a night spent in the room.
type DateRange struct {
	Checkin  time.Time
	Checkout time.Time
}

func (r DateRange) IsValid() bool { return r.Checkout.After(r.Checkin) }

// Nights counts the nights in the range, iterating calendar days so the
// result is exact regardless of the time-of-day components stored.
func (r DateRange) Nights() int {
	n := 0
	for d := r.Checkin; d.Before(r.Checkout); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Days returns every calendar date in [Checkin, Checkout), in order.
func (r DateRange) Days() []time.Time {
	var out []time.Time
	for d := r.Checkin; d.Before(r.Checkout); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Overlaps is the canonical half-open interval intersection test:
// [a1,a2) and [b1,b2) overlap iff NOT (a2 <= b1 OR a1 >= b2). Every
// availability query in the repository layer mirrors this predicate; do not
// re-derive it elsewhere.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Checkin.Before(o.Checkout) && o.Checkin.Before(r.Checkout)
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
