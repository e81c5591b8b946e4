/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */

// Package report derives presentation rows from a card set: the
// assertividade classification, the rank orderings used by the generated
// spreadsheets, and the snapshot aggregation.
package report

import "fmt"

// Assertividade band boundaries, in percent. Domain constants, not derived.
const (
    gameOverLow  = 75.0
    onTargetLow  = 95.0
    onTargetHigh = 105.0
    gameOverHigh = 125.0
)

type StatusBucket int

const (
    NoEstimate StatusBucket = iota
    OverOrUnder
    NeedsImprovement
    OnTarget
)

func (b StatusBucket) Label() string {
    switch b {
    case NoEstimate:
        return "SEM PLANEJAMENTO"
    case OverOrUnder:
        return "GAME OVER"
    case NeedsImprovement:
        return "QUE TAL DA PRÓXIMA ?"
    case OnTarget:
        return "JOGOU BEM!!!"
    }
    return ""
}

// Classification is the per-card outcome of one report run.
type Classification struct {
    // RatioPercent is actual/estimated*100; meaningless when Bucket is
    // NoEstimate (rendered as "-").
    RatioPercent float64
    Bucket       StatusBucket
    Legendary    bool
}

// Label returns the status text shown on the report.
func (c Classification) Label() string {
    if c.Legendary {
        return "LENDÁRIO!"
    }
    return c.Bucket.Label()
}

// RatioLabel formats the ratio to one decimal, or "-" without an estimate.
func (c Classification) RatioLabel() string {
    if c.Bucket == NoEstimate {
        return "-"
    }
    return fmt.Sprintf("%.1f%%", c.RatioPercent)
}

// Classify buckets a card by how its elapsed in-progress time compares to
// the stipulated estimate. Exactly one outcome is produced for any pair of
// non-negative inputs.
//
// The legendary tier requires a threshold at or below 100, a card that has
// reached a terminal column, an actual under the estimate, and a ratio at
// or above the threshold; it short-circuits the ordinary bands.
func Classify(estimatedSeconds, actualSeconds float64, inTerminalColumn bool, legendaryThreshold float64) Classification {
    if estimatedSeconds == 0 {
        return Classification{Bucket: NoEstimate}
    }
    ratio := actualSeconds / estimatedSeconds * 100.0

    if legendaryThreshold <= 100 && inTerminalColumn && actualSeconds < estimatedSeconds && ratio >= legendaryThreshold {
        return Classification{RatioPercent: ratio, Bucket: OnTarget, Legendary: true}
    }

    switch {
    case ratio < gameOverLow || ratio > gameOverHigh:
        return Classification{RatioPercent: ratio, Bucket: OverOrUnder}
    case (ratio >= gameOverLow && ratio < onTargetLow) || (ratio > onTargetHigh && ratio <= gameOverHigh):
        return Classification{RatioPercent: ratio, Bucket: NeedsImprovement}
    default:
        return Classification{RatioPercent: ratio, Bucket: OnTarget}
    }
}
