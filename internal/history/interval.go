/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */

// Package history turns a card's raw column transitions into time-based
// queries: seconds spent in a column inside a reporting window, passage
// checks, and deploy-entry instants. All arithmetic runs on absolute
// instants; conversion to the display zone happens only at the edges.
package history

import (
    "errors"
    "fmt"
    "time"
)

// ErrBadTimestamp marks a transition timestamp that could not be parsed.
// This is fatal for the owning card's computation: treating it as zero
// time would corrupt aggregates without any signal.
var ErrBadTimestamp = errors.New("history: bad timestamp")

var instantLayouts = []string{
    time.RFC3339Nano,
    time.RFC3339,
    "2006-01-02T15:04:05.000-0700",
    "2006-01-02T15:04:05-0700",
}

// ParseInstant parses an offset-qualified timestamp string into a UTC
// instant.
func ParseInstant(s string) (time.Time, error) {
    for _, l := range instantLayouts {
        if t, err := time.Parse(l, s); err == nil {
            return t.UTC(), nil
        }
    }
    return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
}

// Period is a closed reporting window [From, To].
type Period struct {
    From time.Time
    To   time.Time
}

// NewPeriod builds a validated period.
func NewPeriod(from, to time.Time) (Period, error) {
    if to.Before(from) {
        return Period{}, fmt.Errorf("history: period end %s before start %s", to, from)
    }
    return Period{From: from, To: to}, nil
}

// PeriodForDates expands two YYYY-MM-DD dates into the closed window
// [start 00:00:00, end 23:59:59] in the given zone.
func PeriodForDates(startDate, endDate string, loc *time.Location) (Period, error) {
    s, err := time.ParseInLocation("2006-01-02", startDate, loc)
    if err != nil {
        return Period{}, fmt.Errorf("history: bad start date %q: %w", startDate, err)
    }
    e, err := time.ParseInLocation("2006-01-02", endDate, loc)
    if err != nil {
        return Period{}, fmt.Errorf("history: bad end date %q: %w", endDate, err)
    }
    return NewPeriod(s, e.Add(23*time.Hour+59*time.Minute+59*time.Second))
}

// OverlapSeconds returns the length, in whole seconds, of the intersection
// of [s1,e1] and [s2,e2]. A zero e1 means the interval is still open and is
// evaluated against now (captured once per report run, never a live clock).
// Touching boundaries and instantaneous intervals contribute 0.
func OverlapSeconds(s1, e1, s2, e2, now time.Time) int64 {
    if e1.IsZero() {
        e1 = now
    }
    if !e1.After(s2) || !s1.Before(e2) {
        return 0
    }
    start := s1
    if s2.After(start) {
        start = s2
    }
    end := e1
    if e2.Before(end) {
        end = e2
    }
    secs := int64(end.Sub(start) / time.Second)
    if secs < 0 {
        return 0
    }
    return secs
}

// BoundaryWithin reports whether the interval's start or end individually
// falls inside the period, both ends inclusive. This is deliberately weaker
// than overlap: an interval spanning the whole period overlaps it yet has
// no boundary inside it. Used only for the coarse relevance filter.
func BoundaryWithin(s1, e1 time.Time, p Period, now time.Time) bool {
    if e1.IsZero() {
        e1 = now
    }
    in := func(t time.Time) bool { return !t.Before(p.From) && !t.After(p.To) }
    return in(s1) || in(e1)
}

// intersects is the raw-intersection test used by passage checks: touching
// boundaries count as a match, unlike OverlapSeconds.
func intersects(s1, e1 time.Time, p Period, now time.Time) bool {
    if e1.IsZero() {
        e1 = now
    }
    return !e1.Before(p.From) && !s1.After(p.To)
}
