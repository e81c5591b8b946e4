package history

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func ts(t *testing.T, s string) time.Time {
    t.Helper()
    v, err := ParseInstant(s)
    require.NoError(t, err)
    return v
}

func TestParseInstant(t *testing.T) {
    v, err := ParseInstant("2024-03-10T12:30:00Z")
    require.NoError(t, err)
    assert.Equal(t, time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC), v)

    v, err = ParseInstant("2024-03-10T09:30:00-03:00")
    require.NoError(t, err)
    assert.Equal(t, time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC), v)

    _, err = ParseInstant("10/03/2024 12:30")
    require.ErrorIs(t, err, ErrBadTimestamp)

    _, err = ParseInstant("")
    require.ErrorIs(t, err, ErrBadTimestamp)
}

func TestOverlapSecondsSymmetry(t *testing.T) {
    s1 := ts(t, "2024-03-10T08:00:00Z")
    e1 := ts(t, "2024-03-10T12:00:00Z")
    s2 := ts(t, "2024-03-10T10:00:00Z")
    e2 := ts(t, "2024-03-10T14:00:00Z")
    now := ts(t, "2024-03-20T00:00:00Z")

    a := OverlapSeconds(s1, e1, s2, e2, now)
    b := OverlapSeconds(s2, e2, s1, e1, now)
    assert.Equal(t, a, b)
    assert.Equal(t, int64(2*3600), a)
}

func TestOverlapSecondsDisjointAndTouching(t *testing.T) {
    now := ts(t, "2024-03-20T00:00:00Z")
    s1 := ts(t, "2024-03-10T08:00:00Z")
    e1 := ts(t, "2024-03-10T09:00:00Z")
    s2 := ts(t, "2024-03-10T10:00:00Z")
    e2 := ts(t, "2024-03-10T11:00:00Z")

    assert.Zero(t, OverlapSeconds(s1, e1, s2, e2, now))
    assert.Zero(t, OverlapSeconds(s2, e2, s1, e1, now))

    // touching boundaries: e1 == s2
    assert.Zero(t, OverlapSeconds(s1, s2, s2, e2, now))

    // instantaneous interval
    assert.Zero(t, OverlapSeconds(s1, s1, s1, e2, now))
}

func TestOverlapSecondsContainment(t *testing.T) {
    now := ts(t, "2024-03-20T00:00:00Z")
    pFrom := ts(t, "2024-03-10T00:00:00Z")
    pTo := ts(t, "2024-03-11T00:00:00Z")

    // transition fully containing the period: full period length
    got := OverlapSeconds(ts(t, "2024-03-09T00:00:00Z"), ts(t, "2024-03-12T00:00:00Z"), pFrom, pTo, now)
    assert.Equal(t, int64(24*3600), got)

    // period fully containing the transition: the transition's own length
    got = OverlapSeconds(ts(t, "2024-03-10T06:00:00Z"), ts(t, "2024-03-10T09:00:00Z"), pFrom, pTo, now)
    assert.Equal(t, int64(3*3600), got)
}

func TestOverlapSecondsOpenEndedUsesInjectedNow(t *testing.T) {
    start := ts(t, "2024-03-10T08:00:00Z")
    pFrom := ts(t, "2024-03-10T00:00:00Z")
    pTo := ts(t, "2024-03-11T00:00:00Z")

    now := ts(t, "2024-03-10T10:30:00Z")
    assert.Equal(t, int64(2*3600+1800), OverlapSeconds(start, time.Time{}, pFrom, pTo, now))

    // a later now stretches the open interval accordingly, capped by the period
    now = ts(t, "2024-03-12T00:00:00Z")
    assert.Equal(t, int64(16*3600), OverlapSeconds(start, time.Time{}, pFrom, pTo, now))
}

func TestBoundaryWithinVsOverlap(t *testing.T) {
    now := ts(t, "2024-03-20T00:00:00Z")
    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}

    // spans the whole period: positive overlap, yet no boundary inside
    s := ts(t, "2024-03-09T00:00:00Z")
    e := ts(t, "2024-03-12T00:00:00Z")
    assert.Positive(t, OverlapSeconds(s, e, p.From, p.To, now))
    assert.False(t, BoundaryWithin(s, e, p, now))

    // end exactly on the window start: boundary is in, overlap is zero
    s = ts(t, "2024-03-09T00:00:00Z")
    e = p.From
    assert.Zero(t, OverlapSeconds(s, e, p.From, p.To, now))
    assert.True(t, BoundaryWithin(s, e, p, now))

    // open interval: now is the effective end boundary
    s = ts(t, "2024-03-08T00:00:00Z")
    inWindow := ts(t, "2024-03-10T12:00:00Z")
    assert.True(t, BoundaryWithin(s, time.Time{}, p, inWindow))
    assert.False(t, BoundaryWithin(s, time.Time{}, p, now))
}

func TestPeriodForDates(t *testing.T) {
    loc, err := time.LoadLocation("America/Sao_Paulo")
    require.NoError(t, err)

    p, err := PeriodForDates("2024-03-04", "2024-03-10", loc)
    require.NoError(t, err)
    assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), p.From)
    assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 0, loc), p.To)

    _, err = PeriodForDates("2024-03-10", "2024-03-04", loc)
    require.Error(t, err)

    _, err = PeriodForDates("04/03/2024", "2024-03-10", loc)
    require.Error(t, err)
}
