/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    DBDSN string

    KanbanAPIURL string
    KanbanAPIKey string
    AuthToken    string

    BoardID    int
    WorkflowID int64

    InProgressColumnID int64
    DeployColumnIDs    []int64
    TerminalColumnIDs  []int64

    StipulatedHoursFieldID int64
    GithubLinkFieldID      int64
    TitleOverrideFieldID   int64

    LegendaryThreshold   float64
    PreferredColumnOrder []string

    DefaultBacklogColumnID int64

    OutputDir string

    WeeklyCron  string
    HTTPTimeout time.Duration
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func atoi64(key string, def int64) int64 {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.ParseInt(v, 10, 64)
    if err != nil { return def }
    return i
}

func afloat(key string, def float64) float64 {
    v := os.Getenv(key)
    if v == "" { return def }
    f, err := strconv.ParseFloat(v, 64)
    if err != nil { return def }
    return f
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func parseInt64s(csv string) []int64 {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]int64, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        n, err := strconv.ParseInt(p, 10, 64)
        if err == nil { out = append(out, n) }
    }
    return out
}

func parseStrings(csv string) []string {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        out = append(out, p)
    }
    return out
}

// defaultColumnOrder is the board's display order for lead-time sheets.
const defaultColumnOrder = "IN PROGRESS,BACKLOG,TO DO,CODE REVIEW,READY FOR QA,QA TEST,READY TO DEPLOY,DEPLOYED,CLIENT DEMO,DONE"

func Load() Config {
    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "America/Sao_Paulo"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        DBDSN: getenv("DB_DSN", ""),

        KanbanAPIURL: getenv("KANBAN_API_URL", ""),
        KanbanAPIKey: getenv("KANBAN_API_KEY", ""),
        AuthToken:    getenv("AUTH_TOKEN", ""),

        BoardID:    atoi("KANBAN_BOARD_ID", 4),
        WorkflowID: atoi64("KANBAN_WORKFLOW_ID", 6),

        InProgressColumnID: atoi64("IN_PROGRESS_COLUMN_ID", 31),
        DeployColumnIDs:    parseInt64s(getenv("DEPLOY_COLUMN_IDS", "32")),
        TerminalColumnIDs:  parseInt64s(getenv("TERMINAL_COLUMN_IDS", "32,163,164")),

        StipulatedHoursFieldID: atoi64("STIPULATED_HOURS_FIELD_ID", 9),
        GithubLinkFieldID:      atoi64("GITHUB_LINK_FIELD_ID", 11),
        TitleOverrideFieldID:   atoi64("TITLE_OVERRIDE_FIELD_ID", 13),

        LegendaryThreshold:   afloat("LEGENDARY_THRESHOLD", 90),
        PreferredColumnOrder: parseStrings(getenv("PREFERRED_COLUMN_ORDER", defaultColumnOrder)),

        DefaultBacklogColumnID: atoi64("BACKLOG_COLUMN_ID", 29),

        OutputDir: getenv("OUTPUT_DIR", "output"),

        WeeklyCron:  getenv("CRON_SPEC", "0 9 * * MON"),
        HTTPTimeout: dur("HTTP_TIMEOUT", 30*time.Second),
    }

    // set global timezone if available
    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    } else {
        log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
    }

    return cfg
}

// DisplayLocation resolves the report timezone, falling back to UTC.
func (c Config) DisplayLocation() *time.Location {
    loc, err := time.LoadLocation(c.TZ)
    if err != nil { return time.UTC }
    return loc
}
