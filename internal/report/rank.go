/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "math"
    "sort"
    "strings"
)

// SortWeeklyRows orders weekly rows by title class and then by developer
// name, keeping the incoming order inside ties.
func SortWeeklyRows(rows []WeeklyRow) {
    sort.SliceStable(rows, func(i, j int) bool {
        pi, pj := TitlePriority(rows[i].Title), TitlePriority(rows[j].Title)
        if pi != pj {
            return pi < pj
        }
        return rows[i].Developer < rows[j].Developer
    })
}

// SortDevRows puts legendary deliveries first and then ranks everything by
// how close the hit ratio landed to 100%.
func SortDevRows(rows []DevRow) {
    sort.SliceStable(rows, func(i, j int) bool {
        if rows[i].Classification.Legendary != rows[j].Classification.Legendary {
            return rows[i].Classification.Legendary
        }
        di := math.Abs(rows[i].Classification.RatioPercent - 100)
        dj := math.Abs(rows[j].Classification.RatioPercent - 100)
        return di < dj
    })
}

// OrderColumns sorts column display names by the board's preferred order;
// names not in the preferred list go last, alphabetically.
func OrderColumns(names []string, preferred []string) []string {
    rank := func(name string) int {
        upper := strings.ToUpper(name)
        for i, p := range preferred {
            if strings.ToUpper(p) == upper {
                return i
            }
        }
        return -1
    }
    out := make([]string, len(names))
    copy(out, names)
    sort.SliceStable(out, func(i, j int) bool {
        ri, rj := rank(out[i]), rank(out[j])
        if ri >= 0 && rj >= 0 {
            return ri < rj
        }
        if ri >= 0 {
            return true
        }
        if rj >= 0 {
            return false
        }
        return strings.ToUpper(out[i]) < strings.ToUpper(out[j])
    })
    return out
}
