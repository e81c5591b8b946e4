/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/MateusVergennes/kanbanActivity-api/internal/adapters/kanban"
    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
    "github.com/MateusVergennes/kanbanActivity-api/internal/history"
    "github.com/MateusVergennes/kanbanActivity-api/internal/report"
    "github.com/MateusVergennes/kanbanActivity-api/internal/repo"
    "github.com/MateusVergennes/kanbanActivity-api/internal/views"
)

// BoardClient is the slice of the board API the service needs.
type BoardClient interface {
    AllCards(ctx context.Context, q kanban.CardQuery) ([]domain.Card, error)
    Users(ctx context.Context) ([]domain.User, error)
    Tags(ctx context.Context) ([]domain.Tag, error)
    CardTags(ctx context.Context, cardID int64) ([]domain.CardTag, error)
    Columns(ctx context.Context, boardID int, workflowID int64) ([]domain.Column, error)
    UpdateCardOwners(ctx context.Context, updates []domain.CardOwnerUpdate) error
}

type Service struct {
    cfg    config.Config
    log    zerolog.Logger
    repo   *repo.Repository
    kanban BoardClient
    clock  func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, r *repo.Repository, client BoardClient) *Service {
    return &Service{cfg: cfg, log: log, repo: r, kanban: client, clock: time.Now}
}

// WithClock pins the service clock; reports capture it once per run.
func (s *Service) WithClock(clock func() time.Time) *Service { s.clock = clock; return s }

// WeeklyParams selects what goes into the weekly delivery report.
type WeeklyParams struct {
    StartDate         string
    EndDate           string
    ColumnIDs         []int64
    SingleSheet       bool
    FilterGithub      bool
    FillChannels      bool
    IncludeDeployTime bool
}

// DevParams selects what goes into the developer assertiveness report.
type DevParams struct {
    StartDate               string
    EndDate                 string
    ColumnIDs               []int64
    FilterGithub            bool
    FillChannels            bool
    WeeklyStipulated        bool
    FilterByStipulatedHours bool
    ResultsByDev            bool
    // LegendaryThreshold overrides the configured threshold when set; an
    // explicit 0 is a valid override.
    LegendaryThreshold *float64
}

// WeeklyReport fetches the delivered cards of the period, scores them and
// writes the JSON snapshot plus the weekly xlsx. Returns the scored rows.
func (s *Service) WeeklyReport(ctx context.Context, p WeeklyParams) ([]report.WeeklyRow, error) {
    now := s.clock()
    startDate, endDate, period, err := s.resolvePeriod(p.StartDate, p.EndDate, now)
    if err != nil { return nil, err }

    runID, err := s.repo.StartRun(ctx, "weekly", fmt.Sprintf("start=%s end=%s", startDate, endDate))
    if err != nil { s.log.Warn().Err(err).Msg("weekly: run bookkeeping unavailable") }

    rows, runErr := s.weeklyReport(ctx, p, startDate, endDate, period, now)
    if err := s.repo.FinishRun(ctx, runID, len(rows), runErr); err != nil {
        s.log.Warn().Err(err).Msg("weekly: finish run failed")
    }
    return rows, runErr
}

func (s *Service) weeklyReport(ctx context.Context, p WeeklyParams, startDate, endDate string, period history.Period, now time.Time) ([]report.WeeklyRow, error) {
    cards, err := s.fetchReportCards(ctx, startDate, endDate, p.ColumnIDs, p.SingleSheet, p.FilterGithub, false)
    if err != nil { return nil, err }

    logs, err := history.BuildAll(cards)
    if err != nil { return nil, fmt.Errorf("weekly: %w", err) }
    cards = keepCardsWithActivity(cards, logs, period, now)

    if _, err := views.SaveJSON(s.cfg.OutputDir, "weekly-results-kanban", cards); err != nil { return nil, err }

    userNames, err := s.userNames(ctx)
    if err != nil { return nil, err }
    tagLabels := map[int64]string{}
    if p.FillChannels {
        if tagLabels, err = s.tagLabels(ctx); err != nil { return nil, err }
    }

    loc := s.cfg.DisplayLocation()
    buildRows := func(subset []domain.Card) []report.WeeklyRow {
        rows := make([]report.WeeklyRow, 0, len(subset))
        for _, c := range subset {
            title := report.EffectiveTitle(c, s.cfg.TitleOverrideFieldID, false)
            row := report.WeeklyRow{
                CardID:    c.CardID,
                CustomID:  c.CustomID,
                Title:     title,
                Developer: userNames[c.OwnerUserID],
                Points:    report.Points(title),
            }
            if p.FillChannels { row.Channel = joinTagLabels(c.TagIDs, tagLabels) }
            if p.IncludeDeployTime {
                if t, ok := history.DeployTime(logs[c.CardID], s.cfg.DeployColumnIDs, loc); ok {
                    row.DeployTime = &t
                }
            }
            rows = append(rows, row)
        }
        report.SortWeeklyRows(rows)
        return rows
    }

    if p.SingleSheet {
        rows := buildRows(cards)
        if _, err := views.SaveWeekly(s.cfg.OutputDir, "weekly-report", rows, true, p.IncludeDeployTime); err != nil {
            return nil, err
        }
        return rows, nil
    }

    var all []report.WeeklyRow
    for _, columnID := range p.ColumnIDs {
        var subset []domain.Card
        for _, c := range cards {
            if c.ColumnID == columnID { subset = append(subset, c) }
        }
        rows := buildRows(subset)
        name := fmt.Sprintf("weekly-report-%d", columnID)
        if _, err := views.SaveWeekly(s.cfg.OutputDir, name, rows, true, p.IncludeDeployTime); err != nil {
            return nil, err
        }
        all = append(all, rows...)
    }
    return all, nil
}

// DevReport builds the assertiveness report over the cards that passed
// through the in-progress column during the period.
func (s *Service) DevReport(ctx context.Context, p DevParams) ([]report.DevRow, error) {
    now := s.clock()
    startDate, endDate, period, err := s.resolvePeriod(p.StartDate, p.EndDate, now)
    if err != nil { return nil, err }

    runID, err := s.repo.StartRun(ctx, "dev", fmt.Sprintf("start=%s end=%s", startDate, endDate))
    if err != nil { s.log.Warn().Err(err).Msg("dev: run bookkeeping unavailable") }

    rows, runErr := s.devReport(ctx, p, startDate, endDate, period, now)
    if err := s.repo.FinishRun(ctx, runID, len(rows), runErr); err != nil {
        s.log.Warn().Err(err).Msg("dev: finish run failed")
    }
    return rows, runErr
}

func (s *Service) devReport(ctx context.Context, p DevParams, startDate, endDate string, period history.Period, now time.Time) ([]report.DevRow, error) {
    cards, err := s.fetchReportCards(ctx, startDate, endDate, p.ColumnIDs, true, p.FilterGithub, true)
    if err != nil { return nil, err }

    logs, err := history.BuildAll(cards)
    if err != nil { return nil, fmt.Errorf("dev: %w", err) }
    cards = keepCardsWithActivity(cards, logs, period, now)

    kept := cards[:0]
    for _, c := range cards {
        if !logs[c.CardID].WasInColumn(s.cfg.InProgressColumnID, period, now) { continue }
        if p.WeeklyStipulated && p.FilterByStipulatedHours && !report.HasStipulatedHours(c, s.cfg.StipulatedHoursFieldID) {
            continue
        }
        kept = append(kept, c)
    }
    cards = kept

    if _, err := views.SaveJSON(s.cfg.OutputDir, "dev-results-kanban", cards); err != nil { return nil, err }

    userNames, err := s.userNames(ctx)
    if err != nil { return nil, err }
    tagLabels := map[int64]string{}
    if p.FillChannels {
        if tagLabels, err = s.tagLabels(ctx); err != nil { return nil, err }
    }
    columns, err := s.kanban.Columns(ctx, s.cfg.BoardID, s.cfg.WorkflowID)
    if err != nil { return nil, err }
    columnNames := map[int64]string{}
    for _, col := range columns { columnNames[col.ColumnID] = col.Name }

    threshold := s.cfg.LegendaryThreshold
    if p.LegendaryThreshold != nil { threshold = *p.LegendaryThreshold }

    rows := make([]report.DevRow, 0, len(cards))
    for _, c := range cards {
        worked := logs[c.CardID].SecondsInColumn(s.cfg.InProgressColumnID, period, now)
        hours := report.StipulatedHours(c, s.cfg.StipulatedHoursFieldID)
        row := report.DevRow{
            CardID:          c.CardID,
            CustomID:        c.CustomID,
            Title:           report.EffectiveTitle(c, s.cfg.TitleOverrideFieldID, true),
            Developer:       userNames[c.OwnerUserID],
            StipulatedHours: hours,
            WorkedSeconds:   worked,
            Classification:  report.Classify(hours*3600, float64(worked), s.inTerminalColumn(c.ColumnID), threshold),
        }
        if p.FillChannels { row.Channel = joinTagLabels(c.TagIDs, tagLabels) }
        if !p.WeeklyStipulated {
            row.LeadTimes = map[string]int64{}
            for _, lt := range c.LeadTimePerColumn {
                name := columnNames[lt.ColumnID]
                if name == "" { name = fmt.Sprintf("COL_%d", lt.ColumnID) }
                row.LeadTimes[name] += lt.LeadTime
            }
        }
        rows = append(rows, row)
    }

    var blocks []views.DevBlock
    if p.ResultsByDev { blocks = groupByDeveloper(rows) }

    if p.WeeklyStipulated {
        report.SortDevRows(rows)
        if _, err := views.SaveDevStipulated(s.cfg.OutputDir, "dev-report", rows, blocks); err != nil {
            return nil, err
        }
        return rows, nil
    }

    names := make([]string, 0, len(columns))
    for _, col := range columns { names = append(names, col.Name) }
    order := report.OrderColumns(names, s.cfg.PreferredColumnOrder)
    if _, err := views.SaveDevDynamic(s.cfg.OutputDir, "dev-report", rows, order, blocks); err != nil {
        return nil, err
    }
    return rows, nil
}

// Daily returns the raw cards modified in the window, optionally narrowed
// by columns and owners. No files are written.
func (s *Service) Daily(ctx context.Context, startDate, endDate string, columnIDs, userIDs []int64) ([]domain.Card, error) {
    if startDate == "" || endDate == "" { return nil, errors.New("daily: start and end dates are required") }
    q := kanban.CardQuery{
        LastModifiedFrom: startDate,
        LastModifiedTo:   endDate,
        ColumnIDs:        columnIDs,
        OwnerUserIDs:     userIDs,
        Expand:           []string{"custom_fields"},
    }
    return s.kanban.AllCards(ctx, q)
}

// QualityAssurance reports subtask coverage: which cards carry subtasks,
// broken down by developer and team.
func (s *Service) QualityAssurance(ctx context.Context, filterGithub bool, createdFromDate string) (domain.QaSummary, error) {
    cards, err := s.kanban.AllCards(ctx, kanban.CardQuery{
        CreatedFrom: createdFromDate,
        Expand:      []string{"tag_ids", "subtasks", "custom_fields"},
        PerPage:     200,
    })
    if err != nil { return domain.QaSummary{}, err }
    if filterGithub { cards = s.keepWithGithubLink(cards) }

    userNames, err := s.userNames(ctx)
    if err != nil { return domain.QaSummary{}, err }
    tagLabels, err := s.tagLabels(ctx)
    if err != nil { return domain.QaSummary{}, err }

    var details []domain.QaCardDetails
    totalSubtasks := 0
    for _, c := range cards {
        if len(c.Subtasks) == 0 { continue }
        totalSubtasks += len(c.Subtasks)
        details = append(details, domain.QaCardDetails{
            CardID:         c.CardID,
            CustomID:       c.CustomID,
            Title:          c.Title,
            Developer:      userNames[c.OwnerUserID],
            Team:           joinTagLabels(c.TagIDs, tagLabels),
            SubtaskCount:   len(c.Subtasks),
            Subtasks:       c.Subtasks,
            HasPullRequest: report.HasGithubLink(c, s.cfg.GithubLinkFieldID),
        })
    }

    summary := domain.QaSummary{
        TotalCardsWithSubtasks: len(details),
        TotalCardsOverall:      len(cards),
        TotalSubtasks:          totalSubtasks,
        CardsByDeveloper:       map[string]int64{},
        CardsByTeam:            map[string]int64{},
    }
    for _, d := range details {
        summary.CardsByDeveloper[d.Developer] += int64(d.SubtaskCount)
        summary.CardsByTeam[d.Team] += int64(d.SubtaskCount)
    }

    ts := s.clock().In(s.cfg.DisplayLocation()).Format("2006-01-02_15-04")
    if _, err := views.SaveJSON(s.cfg.OutputDir, "resultsOfQualityAssurance_AllCards_"+ts, details); err != nil {
        return domain.QaSummary{}, err
    }
    if _, err := views.SaveJSON(s.cfg.OutputDir, "resultsOfQualityAssurance_"+ts, summary); err != nil {
        return domain.QaSummary{}, err
    }
    return summary, nil
}

// BoardSnapshot counts the whole board by column, tag and developer.
func (s *Service) BoardSnapshot(ctx context.Context, filterGithub bool, createdFromDate string) (domain.BoardSnapshot, error) {
    cards, err := s.kanban.AllCards(ctx, kanban.CardQuery{
        CreatedFrom: createdFromDate,
        Expand:      []string{"tag_ids", "subtasks", "custom_fields"},
        PerPage:     200,
    })
    if err != nil { return domain.BoardSnapshot{}, err }
    if filterGithub { cards = s.keepWithGithubLink(cards) }

    userNames, err := s.userNames(ctx)
    if err != nil { return domain.BoardSnapshot{}, err }
    tagLabels, err := s.tagLabels(ctx)
    if err != nil { return domain.BoardSnapshot{}, err }
    columns, err := s.kanban.Columns(ctx, s.cfg.BoardID, 0)
    if err != nil { return domain.BoardSnapshot{}, err }
    columnNames := map[int64]string{}
    for _, col := range columns { columnNames[col.ColumnID] = col.Name }

    snap := report.Snapshot(cards,
        func(columnID int64) string {
            if name := columnNames[columnID]; name != "" { return name }
            return fmt.Sprintf("COL_%d", columnID)
        },
        func(c domain.Card) []string {
            var labels []string
            for _, id := range c.TagIDs {
                if l := tagLabels[id]; l != "" { labels = append(labels, l) }
            }
            return labels
        },
        func(c domain.Card) string { return userNames[c.OwnerUserID] },
    )

    ts := s.clock().In(s.cfg.DisplayLocation()).Format("2006-01-02_15-04")
    if _, err := views.SaveJSON(s.cfg.OutputDir, "boardSnapshot_"+ts, snap); err != nil {
        return domain.BoardSnapshot{}, err
    }
    return snap, nil
}

// BacklogAssign gives every unowned-rule-matching card of a column an
// owner: the first matching tag rule wins, the default owner catches the
// rest. A JSON snapshot of the cards is written before posting.
func (s *Service) BacklogAssign(ctx context.Context, req domain.AssignRequest) ([]domain.Card, error) {
    columnID := s.cfg.DefaultBacklogColumnID
    if req.ColumnID != nil && *req.ColumnID > 0 { columnID = *req.ColumnID }
    cards, err := s.kanban.AllCards(ctx, kanban.CardQuery{
        ColumnIDs: []int64{columnID},
        Expand:    []string{"tag_ids"},
        PerPage:   1000,
    })
    if err != nil { return nil, err }
    return s.assignOwners(ctx, cards, req, "backlog-snapshot")
}

// BacklogAssignSpecific runs the same assignment over an explicit card set.
func (s *Service) BacklogAssignSpecific(ctx context.Context, req domain.AssignRequest) ([]domain.Card, error) {
    if len(req.CardIDs) == 0 { return nil, errors.New("backlog: card_ids must not be empty") }
    cards, err := s.kanban.AllCards(ctx, kanban.CardQuery{
        CardIDs: req.CardIDs,
        Expand:  []string{"tag_ids"},
    })
    if err != nil { return nil, err }
    return s.assignOwners(ctx, cards, req, "specific-snapshot")
}

func (s *Service) assignOwners(ctx context.Context, cards []domain.Card, req domain.AssignRequest, snapshotPrefix string) ([]domain.Card, error) {
    ts := s.clock().In(s.cfg.DisplayLocation()).Format("20060102-150405")
    if _, err := views.SaveJSON(s.cfg.OutputDir, snapshotPrefix+"-"+ts, cards); err != nil { return nil, err }

    ruleOwner := map[int64]int64{}
    for _, rule := range req.TagRules { ruleOwner[rule.TagID] = rule.OwnerUserID }

    var updates []domain.CardOwnerUpdate
    for _, c := range cards {
        var owner int64
        for _, tagID := range c.TagIDs {
            if o := ruleOwner[tagID]; o > 0 { owner = o; break }
        }
        if owner == 0 && req.DefaultOwnerUserID != nil { owner = *req.DefaultOwnerUserID }
        if owner > 0 { updates = append(updates, domain.CardOwnerUpdate{CardID: c.CardID, OwnerUserID: owner}) }
    }
    if len(updates) > 0 {
        if err := s.kanban.UpdateCardOwners(ctx, updates); err != nil { return nil, err }
        s.log.Info().Int("updates", len(updates)).Msg("backlog: owners assigned")
    }
    return cards, nil
}

// ClearGenerated wipes the output directory, keeping .gitkeep.
func (s *Service) ClearGenerated() (int, error) {
    return views.ClearDir(s.cfg.OutputDir)
}

func (s *Service) Columns(ctx context.Context, boardID int, workflowID int64) ([]domain.Column, error) {
    if boardID <= 0 { boardID = s.cfg.BoardID }
    return s.kanban.Columns(ctx, boardID, workflowID)
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) { return s.kanban.Users(ctx) }

func (s *Service) Tags(ctx context.Context) ([]domain.Tag, error) { return s.kanban.Tags(ctx) }

func (s *Service) CardTags(ctx context.Context, cardID int64) ([]domain.CardTag, error) {
    return s.kanban.CardTags(ctx, cardID)
}

func (s *Service) LastRun(ctx context.Context, kind string) (repo.Run, error) {
    return s.repo.LastRun(ctx, kind)
}

// ---- helpers ----

func (s *Service) resolvePeriod(startDate, endDate string, now time.Time) (string, string, history.Period, error) {
    loc := s.cfg.DisplayLocation()
    if startDate == "" { startDate = now.In(loc).AddDate(0, 0, -7).Format("2006-01-02") }
    if endDate == "" { endDate = now.In(loc).Format("2006-01-02") }
    period, err := history.PeriodForDates(startDate, endDate, loc)
    if err != nil { return "", "", history.Period{}, err }
    return startDate, endDate, period, nil
}

// fetchReportCards loads the report's card set: one combined request, or
// one request per column when each column gets its own sheet.
func (s *Service) fetchReportCards(ctx context.Context, startDate, endDate string, columnIDs []int64, combined, filterGithub, includeLeadTime bool) ([]domain.Card, error) {
    expand := []string{"custom_fields", "tag_ids", "transitions"}
    if includeLeadTime { expand = []string{"custom_fields", "tag_ids", "lead_time_per_column", "transitions"} }
    base := kanban.CardQuery{
        LastModifiedFrom: startDate,
        LastModifiedTo:   endDate,
        Expand:           expand,
        PerPage:          1000,
    }

    var cards []domain.Card
    if combined || len(columnIDs) <= 1 {
        base.ColumnIDs = columnIDs
        var err error
        if cards, err = s.kanban.AllCards(ctx, base); err != nil { return nil, err }
    } else {
        for _, columnID := range columnIDs {
            q := base
            q.ColumnIDs = []int64{columnID}
            subset, err := s.kanban.AllCards(ctx, q)
            if err != nil { return nil, err }
            cards = append(cards, subset...)
        }
    }
    if filterGithub { cards = s.keepWithGithubLink(cards) }
    return cards, nil
}

func (s *Service) keepWithGithubLink(cards []domain.Card) []domain.Card {
    out := cards[:0]
    for _, c := range cards {
        if report.HasGithubLink(c, s.cfg.GithubLinkFieldID) { out = append(out, c) }
    }
    return out
}

func (s *Service) inTerminalColumn(columnID int64) bool {
    for _, id := range s.cfg.TerminalColumnIDs {
        if id == columnID { return true }
    }
    return false
}

func (s *Service) userNames(ctx context.Context) (map[int64]string, error) {
    users, err := s.kanban.Users(ctx)
    if err != nil { return nil, err }
    names := make(map[int64]string, len(users))
    for _, u := range users { names[u.UserID] = u.Realname }
    return names, nil
}

func (s *Service) tagLabels(ctx context.Context) (map[int64]string, error) {
    tags, err := s.kanban.Tags(ctx)
    if err != nil { return nil, err }
    labels := make(map[int64]string, len(tags))
    for _, t := range tags { labels[t.TagID] = t.Label }
    return labels, nil
}

// keepCardsWithActivity drops cards with no transition boundary inside the
// period; cards without transitions never qualify.
func keepCardsWithActivity(cards []domain.Card, logs map[int64]history.Log, p history.Period, now time.Time) []domain.Card {
    out := cards[:0]
    for _, c := range cards {
        if logs[c.CardID].HasBoundaryIn(p, now) { out = append(out, c) }
    }
    return out
}

func joinTagLabels(tagIDs []int64, labels map[int64]string) string {
    var parts []string
    for _, id := range tagIDs {
        if l := labels[id]; l != "" { parts = append(parts, l) }
    }
    return strings.Join(parts, ", ")
}

func groupByDeveloper(rows []report.DevRow) []views.DevBlock {
    index := map[string]int{}
    var blocks []views.DevBlock
    for _, r := range rows {
        if r.Developer == "" { continue }
        i, ok := index[r.Developer]
        if !ok {
            i = len(blocks)
            index[r.Developer] = i
            blocks = append(blocks, views.DevBlock{Developer: r.Developer})
        }
        blocks[i].Rows = append(blocks[i].Rows, r)
    }
    return blocks
}
