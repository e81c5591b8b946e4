package history

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
)

func strp(s string) *string { return &s }

func TestBuildRejectsMalformedTimestamps(t *testing.T) {
    _, err := Build([]domain.Transition{{ColumnID: 31, Start: "not-a-time"}})
    require.ErrorIs(t, err, ErrBadTimestamp)

    _, err = Build([]domain.Transition{{ColumnID: 31, Start: "2024-03-10T08:00:00Z", End: strp("bogus")}})
    require.ErrorIs(t, err, ErrBadTimestamp)
}

func TestSecondsInColumnSumsOnlyMatchingTransitions(t *testing.T) {
    l, err := Build([]domain.Transition{
        {ColumnID: 31, Start: "2024-03-10T08:00:00Z", End: strp("2024-03-10T10:00:00Z")},
        {ColumnID: 30, Start: "2024-03-10T10:00:00Z", End: strp("2024-03-10T11:00:00Z")},
        {ColumnID: 31, Start: "2024-03-10T11:00:00Z", End: strp("2024-03-10T12:30:00Z")},
    })
    require.NoError(t, err)

    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}
    now := ts(t, "2024-03-20T00:00:00Z")

    assert.Equal(t, int64(2*3600+90*60), l.SecondsInColumn(31, p, now))
    assert.Equal(t, int64(3600), l.SecondsInColumn(30, p, now))
    assert.Zero(t, l.SecondsInColumn(99, p, now))
}

func TestSecondsInColumnClipsToPeriod(t *testing.T) {
    l, err := Build([]domain.Transition{
        {ColumnID: 31, Start: "2024-03-09T20:00:00Z", End: strp("2024-03-10T04:00:00Z")},
    })
    require.NoError(t, err)

    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}
    now := ts(t, "2024-03-20T00:00:00Z")
    assert.Equal(t, int64(4*3600), l.SecondsInColumn(31, p, now))
}

func TestWasInColumnTouchingCounts(t *testing.T) {
    // ends exactly where the window starts
    l, err := Build([]domain.Transition{
        {ColumnID: 31, Start: "2024-03-09T20:00:00Z", End: strp("2024-03-10T00:00:00Z")},
    })
    require.NoError(t, err)

    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}
    now := ts(t, "2024-03-20T00:00:00Z")

    // passage says yes while time accounting says zero; both are intentional
    assert.True(t, l.WasInColumn(31, p, now))
    assert.Zero(t, l.SecondsInColumn(31, p, now))

    assert.False(t, l.WasInColumn(30, p, now))
}

func TestWasInColumnOpenTransition(t *testing.T) {
    l, err := Build([]domain.Transition{
        {ColumnID: 31, Start: "2024-03-09T20:00:00Z"},
    })
    require.NoError(t, err)

    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}

    // still open as of now inside the window
    assert.True(t, l.WasInColumn(31, p, ts(t, "2024-03-10T12:00:00Z")))
    // closed before the window would not count, but open never is
    assert.True(t, l.WasInColumn(31, p, ts(t, "2024-03-20T00:00:00Z")))
}

func TestLatestEntryInto(t *testing.T) {
    l, err := Build([]domain.Transition{
        {ColumnID: 32, Start: "2024-03-08T10:00:00Z", End: strp("2024-03-09T10:00:00Z")},
        {ColumnID: 31, Start: "2024-03-09T10:00:00Z", End: strp("2024-03-10T10:00:00Z")},
        {ColumnID: 32, Start: "2024-03-10T10:00:00Z"},
    })
    require.NoError(t, err)

    got, ok := l.LatestEntryInto([]int64{32, 163, 164})
    require.True(t, ok)
    assert.Equal(t, ts(t, "2024-03-10T10:00:00Z"), got)

    _, ok = l.LatestEntryInto([]int64{163, 164})
    assert.False(t, ok)

    var empty Log
    _, ok = empty.LatestEntryInto([]int64{32})
    assert.False(t, ok)
}

func TestHasBoundaryIn(t *testing.T) {
    p := Period{From: ts(t, "2024-03-10T00:00:00Z"), To: ts(t, "2024-03-11T00:00:00Z")}
    now := ts(t, "2024-03-20T00:00:00Z")

    inside, err := Build([]domain.Transition{
        {ColumnID: 30, Start: "2024-03-10T08:00:00Z", End: strp("2024-03-12T00:00:00Z")},
    })
    require.NoError(t, err)
    assert.True(t, inside.HasBoundaryIn(p, now))

    // spans the whole window without a boundary inside it
    spanning, err := Build([]domain.Transition{
        {ColumnID: 30, Start: "2024-03-09T00:00:00Z", End: strp("2024-03-12T00:00:00Z")},
    })
    require.NoError(t, err)
    assert.False(t, spanning.HasBoundaryIn(p, now))

    var empty Log
    assert.True(t, empty.Empty())
    assert.False(t, empty.HasBoundaryIn(p, now))
    assert.False(t, inside.Empty())
}

func TestDeployTimeConvertsToDisplayZone(t *testing.T) {
    loc, err := time.LoadLocation("America/Sao_Paulo")
    require.NoError(t, err)

    l, err := Build([]domain.Transition{
        {ColumnID: 32, Start: "2024-03-10T15:00:00Z"},
    })
    require.NoError(t, err)

    got, ok := DeployTime(l, []int64{32}, loc)
    require.True(t, ok)
    assert.Equal(t, "2024-03-10T12:00:00", got.Format("2006-01-02T15:04:05"))

    _, ok = DeployTime(l, []int64{164}, loc)
    assert.False(t, ok)
}

func TestBuildAllNamesFailingCard(t *testing.T) {
    cards := []domain.Card{
        {CardID: 1, Transitions: []domain.Transition{{ColumnID: 31, Start: "2024-03-10T08:00:00Z"}}},
        {CardID: 2, Transitions: []domain.Transition{{ColumnID: 31, Start: "oops"}}},
    }
    _, err := BuildAll(cards)
    require.ErrorIs(t, err, ErrBadTimestamp)
    assert.Contains(t, err.Error(), "card 2")

    logs, err := BuildAll(cards[:1])
    require.NoError(t, err)
    assert.Len(t, logs, 1)
}
