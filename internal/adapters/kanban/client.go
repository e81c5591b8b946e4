/* Copyright (c) 2025 Mateus Vergennes
 * SPDX-License-Identifier: BSD-3-Clause */
package kanban

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
    "github.com/rs/zerolog"
)

type Client struct {
    baseURL string
    apiKey  string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.KanbanAPIURL, "/"),
        apiKey:  cfg.KanbanAPIKey,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
    }
}

// CardQuery carries the /cards filters; zero values are omitted from the URL.
type CardQuery struct {
    LastModifiedFrom string
    LastModifiedTo   string
    CreatedFrom      string
    ColumnIDs        []int64
    OwnerUserIDs     []int64
    CardIDs          []int64
    Expand           []string
    PerPage          int
    Page             int
}

func (q CardQuery) values() url.Values {
    v := url.Values{}
    if q.LastModifiedFrom != "" { v.Set("last_modified_from_date", q.LastModifiedFrom) }
    if q.LastModifiedTo != "" { v.Set("last_modified_to_date", q.LastModifiedTo) }
    if q.CreatedFrom != "" { v.Set("created_from_date", q.CreatedFrom) }
    if len(q.ColumnIDs) > 0 { v.Set("column_ids", joinInt64s(q.ColumnIDs)) }
    if len(q.OwnerUserIDs) > 0 { v.Set("owner_user_ids", joinInt64s(q.OwnerUserIDs)) }
    if len(q.CardIDs) > 0 { v.Set("card_ids", joinInt64s(q.CardIDs)) }
    if len(q.Expand) > 0 { v.Set("expand", strings.Join(q.Expand, ",")) }
    if q.PerPage > 0 { v.Set("per_page", strconv.Itoa(q.PerPage)) }
    if q.Page > 0 { v.Set("page", strconv.Itoa(q.Page)) }
    return v
}

func joinInt64s(ids []int64) string {
    parts := make([]string, len(ids))
    for i, id := range ids { parts[i] = strconv.FormatInt(id, 10) }
    return strings.Join(parts, ",")
}

type pagination struct {
    AllPages    int `json:"all_pages"`
    CurrentPage int `json:"current_page"`
}

type cardsEnvelope struct {
    Data struct {
        Data       []domain.Card `json:"data"`
        Pagination pagination    `json:"pagination"`
    } `json:"data"`
}

// Cards fetches one /cards page.
func (c *Client) Cards(ctx context.Context, q CardQuery) ([]domain.Card, int, error) {
    body, err := c.get(ctx, "/cards", q.values())
    if err != nil { return nil, 0, err }
    var env cardsEnvelope
    if err := json.Unmarshal(body, &env); err != nil { return nil, 0, fmt.Errorf("kanban: decode cards: %w", err) }
    return env.Data.Data, env.Data.Pagination.AllPages, nil
}

// AllCards walks every page of a /cards query.
func (c *Client) AllCards(ctx context.Context, q CardQuery) ([]domain.Card, error) {
    if q.PerPage <= 0 { q.PerPage = 1000 }
    var out []domain.Card
    for page := 1; ; page++ {
        q.Page = page
        cards, allPages, err := c.Cards(ctx, q)
        if err != nil { return nil, fmt.Errorf("kanban: page %d: %w", page, err) }
        out = append(out, cards...)
        if page >= allPages { break }
    }
    return out, nil
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
    body, err := c.get(ctx, "/users", nil)
    if err != nil { return nil, err }
    var env struct {
        Data []domain.User `json:"data"`
    }
    if err := json.Unmarshal(body, &env); err != nil { return nil, fmt.Errorf("kanban: decode users: %w", err) }
    return env.Data, nil
}

func (c *Client) Tags(ctx context.Context) ([]domain.Tag, error) {
    body, err := c.get(ctx, "/tags", nil)
    if err != nil { return nil, err }
    var env struct {
        Data []domain.Tag `json:"data"`
    }
    if err := json.Unmarshal(body, &env); err != nil { return nil, fmt.Errorf("kanban: decode tags: %w", err) }
    return env.Data, nil
}

func (c *Client) CardTags(ctx context.Context, cardID int64) ([]domain.CardTag, error) {
    if cardID <= 0 { return nil, errors.New("kanban: invalid card id") }
    body, err := c.get(ctx, "/cards/"+strconv.FormatInt(cardID, 10)+"/tags", nil)
    if err != nil { return nil, err }
    var env struct {
        Data []domain.CardTag `json:"data"`
    }
    if err := json.Unmarshal(body, &env); err != nil { return nil, fmt.Errorf("kanban: decode card tags: %w", err) }
    return env.Data, nil
}

// Columns lists the board's columns, optionally narrowed to one workflow.
func (c *Client) Columns(ctx context.Context, boardID int, workflowID int64) ([]domain.Column, error) {
    if boardID <= 0 { return nil, errors.New("kanban: invalid board id") }
    body, err := c.get(ctx, fmt.Sprintf("/boards/%d/columns", boardID), nil)
    if err != nil { return nil, err }
    var env struct {
        Data []domain.Column `json:"data"`
    }
    if err := json.Unmarshal(body, &env); err != nil { return nil, fmt.Errorf("kanban: decode columns: %w", err) }
    if workflowID <= 0 { return env.Data, nil }
    out := make([]domain.Column, 0, len(env.Data))
    for _, col := range env.Data {
        if col.WorkflowID == workflowID { out = append(out, col) }
    }
    return out, nil
}

// UpdateCardOwners posts owner changes for several cards at once.
func (c *Client) UpdateCardOwners(ctx context.Context, updates []domain.CardOwnerUpdate) error {
    if len(updates) == 0 { return nil }
    payload := map[string]any{"cards": updates}
    _, err := c.do(ctx, http.MethodPost, "/cards/updateMany", nil, payload)
    return err
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
    return c.do(ctx, http.MethodGet, path, q, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any) ([]byte, error) {
    if c.baseURL == "" { return nil, errors.New("kanban: empty baseURL") }
    u := c.baseURL + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    var payload []byte
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return nil, err }
        payload = b
    }
    var lastErr error
    for attempt := 0; attempt < 3; attempt++ {
        var r io.Reader
        if payload != nil { r = bytes.NewReader(payload) }
        req, err := http.NewRequestWithContext(ctx, method, u, r)
        if err != nil { return nil, err }
        req.Header.Set("apikey", c.apiKey)
        if payload != nil { req.Header.Set("Content-Type", "application/json") }
        resp, err := c.http.Do(req)
        if err != nil { lastErr = err } else {
            b, readErr := io.ReadAll(resp.Body)
            resp.Body.Close()
            if readErr != nil { return nil, readErr }
            if resp.StatusCode < 300 { return b, nil }
            // retry on 429/5xx
            if resp.StatusCode == 429 || resp.StatusCode >= 500 {
                lastErr = fmt.Errorf("kanban api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
            } else {
                return nil, fmt.Errorf("kanban api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
            }
        }
        // backoff
        time.Sleep(time.Duration(300*(1<<attempt)) * time.Millisecond)
    }
    return nil, lastErr
}
