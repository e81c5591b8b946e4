/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
)

// Sentinel buckets for cards without tags or without an assigned owner.
const (
    NoTagBucket      = "no-tag"
    UnassignedBucket = "unassigned"
)

// Snapshot counts the cards by column, tag and developer. A card carrying
// several tags increments every one of its tag buckets, so the by-tag sum
// for a column can exceed its plain total only by multi-tag cards; cards
// with no tags land in the "no-tag" bucket and cards with no owner in
// "unassigned".
func Snapshot(cards []domain.Card, columnLabel func(int64) string, tagLabels func(domain.Card) []string, developerLabel func(domain.Card) string) domain.BoardSnapshot {
    snap := domain.BoardSnapshot{
        TotalByColumn:       map[string]int{},
        ByColumnByTag:       map[string]map[string]int{},
        TotalByDeveloper:    map[string]int{},
        ByColumnByDeveloper: map[string]map[string]int{},
    }
    for _, c := range cards {
        col := columnLabel(c.ColumnID)
        snap.TotalByColumn[col]++

        tags := tagLabels(c)
        if len(tags) == 0 {
            tags = []string{NoTagBucket}
        }
        if snap.ByColumnByTag[col] == nil {
            snap.ByColumnByTag[col] = map[string]int{}
        }
        for _, tag := range tags {
            snap.ByColumnByTag[col][tag]++
        }

        dev := developerLabel(c)
        if dev == "" {
            dev = UnassignedBucket
        }
        snap.TotalByDeveloper[dev]++
        if snap.ByColumnByDeveloper[col] == nil {
            snap.ByColumnByDeveloper[col] = map[string]int{}
        }
        snap.ByColumnByDeveloper[col][dev]++
    }
    return snap
}
