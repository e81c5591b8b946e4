package report

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestClassifyLegendaryJustUnderEstimate(t *testing.T) {
    c := Classify(36000, 35000, true, 90)
    require.True(t, c.Legendary)
    assert.Equal(t, "LENDÁRIO!", c.Label())
    assert.InDelta(t, 97.2, c.RatioPercent, 0.1)
}

func TestClassifyOverEstimateIsNotLegendary(t *testing.T) {
    c := Classify(36000, 37000, true, 90)
    require.False(t, c.Legendary)
    assert.Equal(t, OnTarget, c.Bucket)
    assert.InDelta(t, 102.8, c.RatioPercent, 0.1)
    assert.Equal(t, "JOGOU BEM!!!", c.Label())
}

func TestClassifyNoEstimate(t *testing.T) {
    c := Classify(0, 12345, true, 90)
    assert.Equal(t, NoEstimate, c.Bucket)
    assert.False(t, c.Legendary)
    assert.Equal(t, "SEM PLANEJAMENTO", c.Label())
    assert.Equal(t, "-", c.RatioLabel())
}

func TestClassifyNonTerminalNeverLegendary(t *testing.T) {
    c := Classify(36000, 35000, false, 90)
    assert.False(t, c.Legendary)
    assert.Equal(t, OnTarget, c.Bucket)
}

func TestClassifyBands(t *testing.T) {
    cases := []struct {
        name   string
        actual float64
        want   StatusBucket
    }{
        {"far under", 36000 * 0.5, OverOrUnder},
        {"under 80%", 36000 * 0.80, NeedsImprovement},
        {"at 95%", 36000 * 0.95, OnTarget},
        {"at 105%", 36000 * 1.05, OnTarget},
        {"over 110%", 36000 * 1.10, NeedsImprovement},
        {"blown 130%", 36000 * 1.30, OverOrUnder},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c := Classify(36000, tc.actual, false, 90)
            assert.Equal(t, tc.want, c.Bucket)
        })
    }
}

func TestClassifyIsTotal(t *testing.T) {
    // Every combination lands in exactly one outcome.
    for est := 0.0; est <= 40000; est += 4000 {
        for act := 0.0; act <= 52000; act += 4000 {
            c := Classify(est, act, true, 90)
            if c.Legendary {
                continue
            }
            switch c.Bucket {
            case NoEstimate, OverOrUnder, NeedsImprovement, OnTarget:
            default:
                t.Fatalf("estimate=%v actual=%v produced unknown bucket %v", est, act, c.Bucket)
            }
        }
    }
}
