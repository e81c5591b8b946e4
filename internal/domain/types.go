/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package domain

// CustomField is one key-value pair attached to a card. Field IDs carry
// board-specific meaning (stipulated hours, override title, github link);
// the mapping lives in config.
type CustomField struct {
    FieldID int64  `json:"field_id"`
    Value   string `json:"value"`
}

// Transition records one interval a card spent in one column. End is nil
// while the card is still in the column. Timestamps are offset-qualified
// strings as delivered by the board API; parsing happens in history.
type Transition struct {
    ColumnID int64   `json:"column_id"`
    Start    string  `json:"start"`
    End      *string `json:"end"`
}

type LeadTimePerColumn struct {
    ColumnID int64 `json:"column_id"`
    LeadTime int64 `json:"lead_time"`
}

type Subtask struct {
    SubtaskID   int64  `json:"subtask_id"`
    Description string `json:"description"`
    OwnerUserID *int64 `json:"owner_user_id"`
    FinishedAt  string `json:"finished_at"`
    Deadline    string `json:"deadline"`
    Position    int    `json:"position"`
}

type Card struct {
    CardID            int64               `json:"card_id"`
    CustomID          string              `json:"custom_id"`
    BoardID           int64               `json:"board_id"`
    WorkflowID        int64               `json:"workflow_id"`
    Title             string              `json:"title"`
    OwnerUserID       int64               `json:"owner_user_id"`
    TypeID            *int64              `json:"type_id"`
    Color             string              `json:"color"`
    Section           int                 `json:"section"`
    ColumnID          int64               `json:"column_id"`
    LaneID            int64               `json:"lane_id"`
    Position          int                 `json:"position"`
    CustomFields      []CustomField       `json:"custom_fields"`
    TagIDs            []int64             `json:"tag_ids"`
    Transitions       []Transition        `json:"transitions"`
    LeadTimePerColumn []LeadTimePerColumn `json:"lead_time_per_column"`
    Subtasks          []Subtask           `json:"subtasks"`
}

type User struct {
    UserID   int64  `json:"user_id"`
    Email    string `json:"email"`
    Username string `json:"username"`
    Realname string `json:"realname"`
}

type Tag struct {
    TagID int64  `json:"tag_id"`
    Label string `json:"label"`
}

type CardTag struct {
    TagID int64 `json:"tag_id"`
}

type Column struct {
    ColumnID   int64  `json:"column_id"`
    WorkflowID int64  `json:"workflow_id"`
    Name       string `json:"name"`
}

// BoardSnapshot is the aggregate count breakdown returned by the snapshot
// report: cards per column, per column per tag, per developer, and per
// column per developer. Raw counts, never percentages.
type BoardSnapshot struct {
    TotalByColumn       map[string]int            `json:"totalByColumn"`
    ByColumnByTag       map[string]map[string]int `json:"byColumnByTag"`
    TotalByDeveloper    map[string]int            `json:"totalByDeveloper"`
    ByColumnByDeveloper map[string]map[string]int `json:"byColumnByDeveloper"`
}

type QaCardDetails struct {
    CardID         int64     `json:"cardId"`
    CustomID       string    `json:"customId"`
    Title          string    `json:"title"`
    Developer      string    `json:"developer"`
    Team           string    `json:"team"`
    SubtaskCount   int       `json:"subtaskCount"`
    Subtasks       []Subtask `json:"subtasks"`
    HasPullRequest bool      `json:"hasPullRequest"`
}

type QaSummary struct {
    TotalCardsWithSubtasks int              `json:"totalCardsWithSubtasks"`
    TotalCardsOverall      int              `json:"totalCardsOverall"`
    TotalSubtasks          int              `json:"totalSubtasks"`
    CardsByDeveloper       map[string]int64 `json:"cardsByDeveloper"`
    CardsByTeam            map[string]int64 `json:"cardsByTeam"`
}

// TagRule routes backlog cards carrying a given tag to an owner. An owner
// of 0 means "leave this tag alone".
type TagRule struct {
    TagID       int64 `json:"tag_id"`
    OwnerUserID int64 `json:"owner_user_id"`
}

type AssignRequest struct {
    ColumnID           *int64    `json:"column_id"`
    CardIDs            []int64   `json:"card_ids"`
    DefaultOwnerUserID *int64    `json:"default_owner_user_id"`
    TagRules           []TagRule `json:"tag_rules"`
}

// CardOwnerUpdate is one entry of a POST /cards/updateMany payload.
type CardOwnerUpdate struct {
    CardID      int64 `json:"card_id"`
    OwnerUserID int64 `json:"owner_user_id"`
}
