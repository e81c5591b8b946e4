/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package views

import (
    "fmt"
    "os"
    "path/filepath"

    "github.com/xuri/excelize/v2"

    "github.com/MateusVergennes/kanbanActivity-api/internal/report"
)

// DevBlock is one developer's appendix on the dev sheet: their cards plus
// totals, written below the main table.
type DevBlock struct {
    Developer string
    Rows      []report.DevRow
}

// SaveWeekly writes the weekly delivery sheet: one row per card, an optional
// points column, an optional deploy-time column and the performance footer.
func SaveWeekly(dir, baseName string, rows []report.WeeklyRow, includePoints, includeDeploy bool) (string, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", fmt.Errorf("views: create output dir: %w", err)
    }
    f := excelize.NewFile()
    defer f.Close()
    sheet := f.GetSheetName(0)

    headers := []any{"Título", "Desenvolvedor", "Canal", "Chamado"}
    if includePoints {
        headers = append(headers, "Pontos")
    }
    if includeDeploy {
        headers = append(headers, "Hora do Deploy")
    }
    if err := writeRow(f, sheet, 1, headers...); err != nil {
        return "", err
    }

    for i, r := range rows {
        cells := []any{r.Title, r.Developer, r.Channel, r.CustomID}
        if includePoints {
            cells = append(cells, r.Points)
        }
        if includeDeploy {
            deploy := ""
            if r.DeployTime != nil {
                deploy = r.DeployTime.Format("2006-01-02 15:04:05")
            }
            cells = append(cells, deploy)
        }
        if err := writeRow(f, sheet, i+2, cells...); err != nil {
            return "", err
        }
    }

    if includePoints && len(rows) > 0 {
        footer := fmt.Sprintf("Desempenho por entrega: %.2f%%", report.Performance(rows))
        if err := writeRow(f, sheet, len(rows)+3, footer); err != nil {
            return "", err
        }
    }

    path := filepath.Join(dir, baseName+".xlsx")
    if err := f.SaveAs(path); err != nil {
        return "", fmt.Errorf("views: save %s: %w", path, err)
    }
    return path, nil
}

// SaveDevStipulated writes the assertiveness sheet: every card that passed
// through the in-progress column, its estimate vs worked time, the colored
// status column and the reading legend. Per-developer blocks go below when
// provided.
func SaveDevStipulated(dir, baseName string, rows []report.DevRow, blocks []DevBlock) (string, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", fmt.Errorf("views: create output dir: %w", err)
    }
    f := excelize.NewFile()
    defer f.Close()
    sheet := f.GetSheetName(0)

    styles, err := newStatusStyles(f)
    if err != nil {
        return "", err
    }

    if err := writeRow(f, sheet, 1, "Chamado", "Título", "Desenvolvedor", "Horas Estipuladas", "In Progress Interval", "Assertividade (%)", "Status"); err != nil {
        return "", err
    }

    for i, r := range rows {
        rowNum := i + 2
        err := writeRow(f, sheet, rowNum,
            r.CustomID,
            r.Title,
            r.Developer,
            report.FormatHours(r.StipulatedHours),
            r.Interval(),
            r.Classification.RatioLabel(),
            r.Classification.Label(),
        )
        if err != nil {
            return "", err
        }
        cell, _ := excelize.CoordinatesToCellName(7, rowNum)
        if err := f.SetCellStyle(sheet, cell, cell, styles.forClassification(r.Classification)); err != nil {
            return "", err
        }
    }

    legendStart := len(rows) + 4
    legend := []string{
        "Legenda do Cálculo de Progresso Semanal:",
        "• IN PROGRESS INTERVAL = Tempo que o card ficou na coluna 'IN PROGRESS' durante a semana.",
        "• Assertividade (%) = (In Progress Interval / Horas Estipuladas) x 100.",
        "• Quanto mais próximo de 100%, mais acertada a estimativa.",
        "• GAME OVER (<75% ou >125%) / QUE TAL DA PRÓXIMA ? (>=75% e <95% ou >105% e <=125%) / JOGOU BEM!!! (>=95% e <=105%).",
        "• Neste relatório, constam apenas os cards que passaram pela coluna 'IN PROGRESS' e possuíam 'HORAS ESTIPULADAS'.",
    }
    for i, line := range legend {
        if err := writeRow(f, sheet, legendStart+i, line); err != nil {
            return "", err
        }
    }

    if len(blocks) > 0 {
        if err := appendDevBlocks(f, sheet, legendStart+len(legend)+2, blocks); err != nil {
            return "", err
        }
    }

    path := filepath.Join(dir, baseName+".xlsx")
    if err := f.SaveAs(path); err != nil {
        return "", fmt.Errorf("views: save %s: %w", path, err)
    }
    return path, nil
}

// SaveDevDynamic writes the dev sheet with one lead-time column per board
// column, in the given display order.
func SaveDevDynamic(dir, baseName string, rows []report.DevRow, columnOrder []string, blocks []DevBlock) (string, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return "", fmt.Errorf("views: create output dir: %w", err)
    }
    f := excelize.NewFile()
    defer f.Close()
    sheet := f.GetSheetName(0)

    headers := []any{"Título", "Desenvolvedor", "Canal", "Chamado", "Horas Estipuladas", "Assertividade (%)", "In Progress Interval"}
    for _, col := range columnOrder {
        headers = append(headers, col)
    }
    if err := writeRow(f, sheet, 1, headers...); err != nil {
        return "", err
    }

    for i, r := range rows {
        cells := []any{
            r.Title,
            r.Developer,
            r.Channel,
            r.CustomID,
            report.FormatHours(r.StipulatedHours),
            r.Classification.RatioLabel(),
            r.Interval(),
        }
        for _, col := range columnOrder {
            if seconds := r.LeadTimes[col]; seconds > 0 {
                cells = append(cells, report.FormatSeconds(seconds))
            } else {
                cells = append(cells, "")
            }
        }
        if err := writeRow(f, sheet, i+2, cells...); err != nil {
            return "", err
        }
    }

    if len(blocks) > 0 {
        if err := appendDevBlocks(f, sheet, len(rows)+4, blocks); err != nil {
            return "", err
        }
    }

    path := filepath.Join(dir, baseName+".xlsx")
    if err := f.SaveAs(path); err != nil {
        return "", fmt.Errorf("views: save %s: %w", path, err)
    }
    return path, nil
}

func appendDevBlocks(f *excelize.File, sheet string, startRow int, blocks []DevBlock) error {
    row := startRow
    for _, block := range blocks {
        if len(block.Rows) == 0 {
            continue
        }
        if err := writeRow(f, sheet, row, "Desenvolvedor: "+block.Developer); err != nil {
            return err
        }
        row++
        if err := writeRow(f, sheet, row, "Chamado", "Título", "Horas Estipuladas", "In Progress Interval"); err != nil {
            return err
        }
        row++
        totalHours := 0.0
        var totalSeconds int64
        for _, r := range block.Rows {
            if err := writeRow(f, sheet, row, r.CustomID, r.Title, r.StipulatedHours, r.Interval()); err != nil {
                return err
            }
            totalHours += r.StipulatedHours
            totalSeconds += r.WorkedSeconds
            row++
        }
        if err := writeRow(f, sheet, row, "Total Horas Estipuladas:", totalHours); err != nil {
            return err
        }
        row++
        if err := writeRow(f, sheet, row, "Total In Progress Interval:", report.FormatSeconds(totalSeconds)); err != nil {
            return err
        }
        row += 3
    }
    return nil
}

type statusStyles struct {
    red       int
    orange    int
    green     int
    blue      int
    greenBold int
}

func newStatusStyles(f *excelize.File) (statusStyles, error) {
    var s statusStyles
    var err error
    mk := func(color string, bold bool) int {
        if err != nil {
            return 0
        }
        var id int
        id, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: color, Bold: bold}})
        return id
    }
    s.red = mk("FF0000", false)
    s.orange = mk("FFA500", false)
    s.green = mk("008000", false)
    s.blue = mk("0000FF", false)
    s.greenBold = mk("008000", true)
    return s, err
}

func (s statusStyles) forClassification(c report.Classification) int {
    if c.Legendary {
        return s.greenBold
    }
    switch c.Bucket {
    case report.NoEstimate:
        return s.blue
    case report.OverOrUnder:
        return s.red
    case report.NeedsImprovement:
        return s.orange
    default:
        return s.green
    }
}

func writeRow(f *excelize.File, sheet string, row int, cells ...any) error {
    for i, v := range cells {
        cell, err := excelize.CoordinatesToCellName(i+1, row)
        if err != nil {
            return err
        }
        if err := f.SetCellValue(sheet, cell, v); err != nil {
            return err
        }
    }
    return nil
}
