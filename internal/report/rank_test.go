package report

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestSortWeeklyRowsByPriorityThenDeveloper(t *testing.T) {
    rows := []WeeklyRow{
        {Title: "Documentação interna", Developer: "Ana"},
        {Title: "AJUSTE de permissão", Developer: "Carla"},
        {Title: "MELHORIA no cache", Developer: "Bruno"},
        {Title: "AJUSTE no menu", Developer: "Ana"},
        {Title: "INCIDENTE no checkout", Developer: "Bruno"},
    }

    SortWeeklyRows(rows)

    titles := make([]string, len(rows))
    for i, r := range rows {
        titles[i] = r.Title
    }
    assert.Equal(t, []string{
        "MELHORIA no cache",
        "INCIDENTE no checkout",
        "AJUSTE no menu",
        "AJUSTE de permissão",
        "Documentação interna",
    }, titles)
}

func TestSortDevRowsLegendaryFirstThenDistanceFromTarget(t *testing.T) {
    rows := []DevRow{
        {CardID: 1, Classification: Classification{RatioPercent: 130}},
        {CardID: 2, Classification: Classification{RatioPercent: 97.2, Legendary: true}},
        {CardID: 3, Classification: Classification{RatioPercent: 101}},
        {CardID: 4, Classification: Classification{RatioPercent: 80}},
    }

    SortDevRows(rows)

    ids := make([]int64, len(rows))
    for i, r := range rows {
        ids[i] = r.CardID
    }
    assert.Equal(t, []int64{2, 3, 4, 1}, ids)
}

func TestOrderColumnsPreferredFirstThenAlphabetical(t *testing.T) {
    got := OrderColumns(
        []string{"Done", "Triage", "IN PROGRESS", "Archive", "CODE REVIEW"},
        []string{"IN PROGRESS", "CODE REVIEW", "DONE"},
    )
    assert.Equal(t, []string{"IN PROGRESS", "CODE REVIEW", "Done", "Archive", "Triage"}, got)
}

func TestPerformance(t *testing.T) {
    rows := []WeeklyRow{{Points: 20}, {Points: 5}, {Points: -20}}
    assert.InDelta(t, 8.33, Performance(rows), 0.01)
    assert.Equal(t, 0.0, Performance(nil))
}
