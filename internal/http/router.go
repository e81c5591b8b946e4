/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc any) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context){
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)

    authed := r.Group("/", bearerAuth(cfg.AuthToken))

    cards := authed.Group("/kanban/cards")
    cards.GET("/weeklyReport", h.WeeklyReport)
    cards.GET("/devReport", h.DevReport)
    cards.GET("/qualityAssuranceReport", h.QualityAssuranceReport)
    cards.GET("/boardSnapshot", h.BoardSnapshot)
    cards.POST("/clearGenerated", h.ClearGenerated)

    authed.GET("/kanban/daily", h.Daily)
    authed.GET("/kanban/daily/columns", h.Columns)
    authed.GET("/kanban/columns", h.Columns)
    authed.GET("/kanban/users", h.Users)
    authed.GET("/kanban/tags", h.Tags)
    authed.GET("/kanban/tags/:cardId", h.CardTags)

    authed.POST("/kanban/backlog/assign", h.BacklogAssign)
    authed.POST("/kanban/backlog/assignSpecific", h.BacklogAssignSpecific)

    authed.GET("/admin/last-run", h.LastRun)
    authed.POST("/admin/run", h.RunNow)

    return r
}

// bearerAuth rejects requests missing the configured token. An empty token
// leaves the API open (local use).
func bearerAuth(token string) gin.HandlerFunc {
    return func(c *gin.Context) {
        if token == "" { c.Next(); return }
        header := c.GetHeader("Authorization")
        if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != token {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
            return
        }
        c.Next()
    }
}
