/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"

    "github.com/MateusVergennes/kanbanActivity-api/internal/adapters/kanban"
    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    httpapi "github.com/MateusVergennes/kanbanActivity-api/internal/http"
    "github.com/MateusVergennes/kanbanActivity-api/internal/jobs"
    "github.com/MateusVergennes/kanbanActivity-api/internal/logger"
    "github.com/MateusVergennes/kanbanActivity-api/internal/repo"
    "github.com/MateusVergennes/kanbanActivity-api/internal/services"
)

func main() {
    _ = godotenv.Load()

    cfg := config.Load()
    log := logger.New(cfg)
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    // DB is optional: without DB_DSN the API runs with run bookkeeping disabled.
    var repository *repo.Repository
    if cfg.DBDSN != "" {
        db := repo.MustOpen(ctx, cfg, log)
        defer db.Close()
        repository = repo.NewRepository(db, log)
        if err := repository.EnsureSchema(ctx); err != nil {
            log.Fatal().Err(err).Msg("schema init failed")
        }
    } else {
        log.Warn().Msg("DB_DSN not set; run history disabled")
    }

    kc := kanban.NewClient(cfg, log)
    svc := services.New(cfg, log, repository, kc)

    router := httpapi.NewRouter(cfg, log, svc)

    cron := jobs.NewCron(cfg, log, svc, repository)
    cron.Start()
    defer cron.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
