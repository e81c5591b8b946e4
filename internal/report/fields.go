/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
)

// customFieldValue returns the first non-empty value for the field id.
func customFieldValue(c domain.Card, fieldID int64) string {
    for _, cf := range c.CustomFields {
        if cf.FieldID == fieldID && cf.Value != "" {
            return cf.Value
        }
    }
    return ""
}

// EffectiveTitle resolves the display title: the override custom field when
// filled, otherwise the card's own title. Weekly reports flag cards still
// missing the override with a " -PENDENTE" suffix; dev reports do not.
func EffectiveTitle(c domain.Card, titleFieldID int64, devReport bool) string {
    if v := customFieldValue(c, titleFieldID); v != "" {
        return v
    }
    if devReport {
        return c.Title
    }
    return c.Title + " -PENDENTE"
}

// HasGithubLink reports whether the pull-request marker field is filled.
func HasGithubLink(c domain.Card, githubFieldID int64) bool {
    return strings.TrimSpace(customFieldValue(c, githubFieldID)) != ""
}

// HasStipulatedHours reports whether the estimate field carries any text.
func HasStipulatedHours(c domain.Card, hoursFieldID int64) bool {
    return customFieldValue(c, hoursFieldID) != ""
}

// StipulatedHours parses the estimate field. Free text on the board, so
// both "2.5" and "2,5" are accepted; anything else counts as no estimate.
func StipulatedHours(c domain.Card, hoursFieldID int64) float64 {
    return ParseHours(customFieldValue(c, hoursFieldID))
}

func ParseHours(s string) float64 {
    if s == "" {
        return 0
    }
    v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
    if err != nil {
        return 0
    }
    return v
}

// TitlePriority classes a title for the weekly sort order: improvements
// first, then incidents/corrections, then requests/adjustments.
func TitlePriority(title string) int {
    upper := strings.ToUpper(title)
    switch {
    case strings.Contains(upper, "MELHORIA"):
        return 1
    case strings.Contains(upper, "INCIDENTE") || strings.Contains(upper, "CORREÇÃO"):
        return 2
    case strings.Contains(upper, "REQUISIÇÃO") || strings.Contains(upper, "AJUSTE"):
        return 3
    default:
        return 4
    }
}

// Points scores a delivery by its title class.
func Points(title string) int {
    switch TitlePriority(title) {
    case 1:
        return 20
    case 2:
        return -20
    case 3:
        return 5
    default:
        return 0
    }
}

// FormatSeconds renders a duration as "HHh MMm SSs".
func FormatSeconds(totalSeconds int64) string {
    hours := totalSeconds / 3600
    remainder := totalSeconds % 3600
    return fmt.Sprintf("%02dh %02dm %02ds", hours, remainder/60, remainder%60)
}

// FormatHours renders the stipulated hours cell, "-" when unset.
func FormatHours(hours float64) string {
    if hours <= 0 {
        return "-"
    }
    return strconv.FormatFloat(hours, 'f', -1, 64)
}
