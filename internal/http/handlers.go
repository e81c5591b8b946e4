/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
    "github.com/MateusVergennes/kanbanActivity-api/internal/repo"
    "github.com/MateusVergennes/kanbanActivity-api/internal/report"
    "github.com/MateusVergennes/kanbanActivity-api/internal/services"
)

type service interface {
    WeeklyReport(ctx context.Context, p services.WeeklyParams) ([]report.WeeklyRow, error)
    DevReport(ctx context.Context, p services.DevParams) ([]report.DevRow, error)
    Daily(ctx context.Context, startDate, endDate string, columnIDs, userIDs []int64) ([]domain.Card, error)
    QualityAssurance(ctx context.Context, filterGithub bool, createdFromDate string) (domain.QaSummary, error)
    BoardSnapshot(ctx context.Context, filterGithub bool, createdFromDate string) (domain.BoardSnapshot, error)
    BacklogAssign(ctx context.Context, req domain.AssignRequest) ([]domain.Card, error)
    BacklogAssignSpecific(ctx context.Context, req domain.AssignRequest) ([]domain.Card, error)
    ClearGenerated() (int, error)
    Columns(ctx context.Context, boardID int, workflowID int64) ([]domain.Column, error)
    Users(ctx context.Context) ([]domain.User, error)
    Tags(ctx context.Context) ([]domain.Tag, error)
    CardTags(ctx context.Context, cardID int64) ([]domain.CardTag, error)
    LastRun(ctx context.Context, kind string) (repo.Run, error)
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) WeeklyReport(c *gin.Context) {
    p := services.WeeklyParams{
        StartDate:         c.Query("start_date"),
        EndDate:           c.Query("end_date"),
        ColumnIDs:         int64sQuery(c, "column_ids", "32,164,163"),
        SingleSheet:       boolQuery(c, "single_sheet", true),
        FilterGithub:      boolQuery(c, "filter_github", true),
        FillChannels:      boolQuery(c, "fill_channels", true),
        IncludeDeployTime: boolQuery(c, "deployHour", true),
    }
    rows, err := h.svc.WeeklyReport(c.Request.Context(), p)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, rows)
}

func (h *Handlers) DevReport(c *gin.Context) {
    p := services.DevParams{
        StartDate:               c.Query("start_date"),
        EndDate:                 c.Query("end_date"),
        ColumnIDs:               int64sQuery(c, "column_ids", "29,30,31,32,33,73,74,76,81,163,164"),
        FilterGithub:            boolQuery(c, "filter_github", false),
        FillChannels:            boolQuery(c, "fill_channels", true),
        WeeklyStipulated:        boolQuery(c, "weekly_stipulated_calculation", false),
        FilterByStipulatedHours: boolQuery(c, "filter_by_stipulated_hours", true),
        ResultsByDev:            boolQuery(c, "results_by_dev", true),
    }
    if v := c.Query("legendary_threshold"); v != "" {
        if f, err := strconv.ParseFloat(v, 64); err == nil { p.LegendaryThreshold = &f }
    }
    rows, err := h.svc.DevReport(c.Request.Context(), p)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, rows)
}

func (h *Handlers) QualityAssuranceReport(c *gin.Context) {
    summary, err := h.svc.QualityAssurance(c.Request.Context(), boolQuery(c, "filter_github", true), c.Query("created_from_date"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, summary)
}

func (h *Handlers) BoardSnapshot(c *gin.Context) {
    snap, err := h.svc.BoardSnapshot(c.Request.Context(), boolQuery(c, "filter_github", true), c.Query("created_from_date"))
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, snap)
}

func (h *Handlers) ClearGenerated(c *gin.Context) {
    removed, err := h.svc.ClearGenerated()
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handlers) Daily(c *gin.Context) {
    cards, err := h.svc.Daily(
        c.Request.Context(),
        c.Query("startDate"),
        c.Query("endDate"),
        int64sQuery(c, "columnIds", ""),
        int64sQuery(c, "userIds", ""),
    )
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, cards)
}

func (h *Handlers) Columns(c *gin.Context) {
    boardID := intQuery(c, "board_id", h.cfg.BoardID)
    workflowID := int64Query(c, "workflow_id", h.cfg.WorkflowID)
    columns, err := h.svc.Columns(c.Request.Context(), boardID, workflowID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, columns)
}

func (h *Handlers) Users(c *gin.Context) {
    users, err := h.svc.Users(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, users)
}

func (h *Handlers) Tags(c *gin.Context) {
    tags, err := h.svc.Tags(c.Request.Context())
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, tags)
}

func (h *Handlers) CardTags(c *gin.Context) {
    cardID, err := strconv.ParseInt(c.Param("cardId"), 10, 64)
    if err != nil || cardID <= 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cardId"})
        return
    }
    tags, err := h.svc.CardTags(c.Request.Context(), cardID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, tags)
}

func (h *Handlers) BacklogAssign(c *gin.Context) {
    var req domain.AssignRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    cards, err := h.svc.BacklogAssign(c.Request.Context(), req)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, cards)
}

func (h *Handlers) BacklogAssignSpecific(c *gin.Context) {
    var req domain.AssignRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    cards, err := h.svc.BacklogAssignSpecific(c.Request.Context(), req)
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, cards)
}

func (h *Handlers) LastRun(c *gin.Context) {
    run, err := h.svc.LastRun(c.Request.Context(), c.Query("kind"))
    if err != nil {
        if errors.Is(err, repo.ErrNoRuns) {
            c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, run)
}

func (h *Handlers) RunNow(c *gin.Context) {
    columnIDs := int64sQuery(c, "column_ids", "32,164,163")
    // Detached from the request context so the report survives the response
    go func() {
        if _, err := h.svc.WeeklyReport(context.Background(), services.WeeklyParams{
            ColumnIDs:         columnIDs,
            SingleSheet:       true,
            FilterGithub:      true,
            FillChannels:      true,
            IncludeDeployTime: true,
        }); err != nil {
            h.log.Error().Err(err).Msg("on-demand weekly report failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func boolQuery(c *gin.Context, name string, def bool) bool {
    v := c.Query(name)
    if v == "" { return def }
    b, err := strconv.ParseBool(v)
    if err != nil { return def }
    return b
}

func intQuery(c *gin.Context, name string, def int) int {
    v := c.Query(name)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func int64Query(c *gin.Context, name string, def int64) int64 {
    v := c.Query(name)
    if v == "" { return def }
    i, err := strconv.ParseInt(v, 10, 64)
    if err != nil { return def }
    return i
}

func int64sQuery(c *gin.Context, name, def string) []int64 {
    v := c.Query(name)
    if v == "" { v = def }
    if v == "" { return nil }
    var out []int64
    for _, p := range strings.Split(v, ",") {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}
