/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package history

import (
    "fmt"
    "time"

    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
)

// Entry is one parsed column-occupancy interval. A zero End means the card
// is still in the column at evaluation time.
type Entry struct {
    ColumnID int64
    Start    time.Time
    End      time.Time
}

// Log is the parsed, immutable transition history of one card. Built once
// per report run and only read afterwards.
type Log struct {
    entries []Entry
}

// Build parses a card's raw transitions. Any malformed timestamp fails the
// whole build with ErrBadTimestamp in the chain.
func Build(transitions []domain.Transition) (Log, error) {
    entries := make([]Entry, 0, len(transitions))
    for _, t := range transitions {
        start, err := ParseInstant(t.Start)
        if err != nil {
            return Log{}, fmt.Errorf("transition into column %d: %w", t.ColumnID, err)
        }
        var end time.Time
        if t.End != nil {
            end, err = ParseInstant(*t.End)
            if err != nil {
                return Log{}, fmt.Errorf("transition out of column %d: %w", t.ColumnID, err)
            }
        }
        entries = append(entries, Entry{ColumnID: t.ColumnID, Start: start, End: end})
    }
    return Log{entries: entries}, nil
}

// SecondsInColumn sums the strict overlap of every matching transition with
// the period. Transitions for other columns are ignored; no transition
// contributes negative time.
func (l Log) SecondsInColumn(columnID int64, p Period, now time.Time) int64 {
    var total int64
    for _, e := range l.entries {
        if e.ColumnID != columnID {
            continue
        }
        total += OverlapSeconds(e.Start, e.End, p.From, p.To, now)
    }
    return total
}

// WasInColumn reports whether the card passed through the column during the
// period. This uses raw intersection, so a transition merely touching the
// window boundary counts even though it adds zero seconds.
func (l Log) WasInColumn(columnID int64, p Period, now time.Time) bool {
    for _, e := range l.entries {
        if e.ColumnID == columnID && intersects(e.Start, e.End, p, now) {
            return true
        }
    }
    return false
}

// LatestEntryInto returns the start instant of the most recent transition
// into any of the given columns, open or closed. Exact ties keep the first
// match in input order.
func (l Log) LatestEntryInto(columnIDs []int64) (time.Time, bool) {
    var latest time.Time
    found := false
    for _, e := range l.entries {
        if !containsColumn(columnIDs, e.ColumnID) {
            continue
        }
        if !found || e.Start.After(latest) {
            latest = e.Start
            found = true
        }
    }
    return latest, found
}

// HasBoundaryIn reports whether any transition boundary, regardless of
// column, falls inside the period. Cards failing this are dropped before
// classification (the broad fetch can return cards whose history lies
// entirely outside the requested window).
func (l Log) HasBoundaryIn(p Period, now time.Time) bool {
    if l.Empty() {
        return false
    }
    for _, e := range l.entries {
        if BoundaryWithin(e.Start, e.End, p, now) {
            return true
        }
    }
    return false
}

// Empty reports whether the card has no transitions at all.
func (l Log) Empty() bool { return len(l.entries) == 0 }

// DeployTime resolves the most recent entry into one of the deploy columns,
// converted to the display zone.
func DeployTime(l Log, deployColumns []int64, loc *time.Location) (time.Time, bool) {
    t, ok := l.LatestEntryInto(deployColumns)
    if !ok {
        return time.Time{}, false
    }
    return t.In(loc), true
}

// BuildAll parses transition logs for a card set, keyed by card id.
func BuildAll(cards []domain.Card) (map[int64]Log, error) {
    logs := make(map[int64]Log, len(cards))
    for _, c := range cards {
        l, err := Build(c.Transitions)
        if err != nil {
            return nil, fmt.Errorf("card %d: %w", c.CardID, err)
        }
        logs[c.CardID] = l
    }
    return logs, nil
}

func containsColumn(ids []int64, id int64) bool {
    for _, v := range ids {
        if v == id {
            return true
        }
    }
    return false
}
