/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "time"
)

// WeeklyRow is one delivered card on the weekly sheet.
type WeeklyRow struct {
    CardID     int64      `json:"card_id"`
    CustomID   string     `json:"custom_id"`
    Title      string     `json:"title"`
    Developer  string     `json:"developer"`
    Channel    string     `json:"channel"`
    Points     int        `json:"points"`
    DeployTime *time.Time `json:"deploy_time,omitempty"`
}

// DevRow is one card on the developer assertiveness sheet.
type DevRow struct {
    CardID          int64            `json:"card_id"`
    CustomID        string           `json:"custom_id"`
    Title           string           `json:"title"`
    Developer       string           `json:"developer"`
    Channel         string           `json:"channel"`
    StipulatedHours float64          `json:"stipulated_hours"`
    WorkedSeconds   int64            `json:"worked_seconds"`
    Classification  Classification   `json:"classification"`
    LeadTimes       map[string]int64 `json:"lead_times,omitempty"`
}

// Interval renders the worked time for display.
func (r DevRow) Interval() string { return FormatSeconds(r.WorkedSeconds) }

// Performance is the weekly delivery score: earned points over the maximum
// a full-improvement week would have scored, as a percentage.
func Performance(rows []WeeklyRow) float64 {
    if len(rows) == 0 {
        return 0
    }
    total := 0
    for _, r := range rows {
        total += r.Points
    }
    return float64(total) / float64(len(rows)*20) * 100
}
