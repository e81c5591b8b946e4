package kanban

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    "github.com/MateusVergennes/kanbanActivity-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
    t.Helper()
    srv := httptest.NewServer(handler)
    t.Cleanup(srv.Close)
    cfg := config.Config{KanbanAPIURL: srv.URL, KanbanAPIKey: "k-123"}
    return NewClient(cfg, zerolog.Nop())
}

func cardsPage(page, allPages int, ids ...int64) string {
    cards := make([]map[string]any, len(ids))
    for i, id := range ids { cards[i] = map[string]any{"card_id": id} }
    body := map[string]any{
        "data": map[string]any{
            "data":       cards,
            "pagination": map[string]any{"all_pages": allPages, "current_page": page},
        },
    }
    b, _ := json.Marshal(body)
    return string(b)
}

func TestAllCardsWalksEveryPage(t *testing.T) {
    var pages []string
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, "k-123", r.Header.Get("apikey"))
        require.Equal(t, "/cards", r.URL.Path)
        page := r.URL.Query().Get("page")
        pages = append(pages, page)
        switch page {
        case "1":
            fmt.Fprint(w, cardsPage(1, 2, 10, 11))
        default:
            fmt.Fprint(w, cardsPage(2, 2, 12))
        }
    })

    cards, err := c.AllCards(context.Background(), CardQuery{ColumnIDs: []int64{32, 163}, Expand: []string{"transitions"}})
    require.NoError(t, err)
    require.Len(t, cards, 3)
    assert.Equal(t, int64(12), cards[2].CardID)
    assert.Equal(t, []string{"1", "2"}, pages)
}

func TestCardQueryValues(t *testing.T) {
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        q := r.URL.Query()
        assert.Equal(t, "2025-03-03", q.Get("last_modified_from_date"))
        assert.Equal(t, "32,163", q.Get("column_ids"))
        assert.Equal(t, "custom_fields,tag_ids", q.Get("expand"))
        assert.Equal(t, "200", q.Get("per_page"))
        assert.Empty(t, q.Get("created_from_date"))
        fmt.Fprint(w, cardsPage(1, 1))
    })

    _, _, err := c.Cards(context.Background(), CardQuery{
        LastModifiedFrom: "2025-03-03",
        ColumnIDs:        []int64{32, 163},
        Expand:           []string{"custom_fields", "tag_ids"},
        PerPage:          200,
        Page:             1,
    })
    require.NoError(t, err)
}

func TestDoRetriesOnServerError(t *testing.T) {
    attempts := 0
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        if attempts < 3 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        fmt.Fprint(w, cardsPage(1, 1, 5))
    })

    cards, err := c.AllCards(context.Background(), CardQuery{})
    require.NoError(t, err)
    assert.Equal(t, 3, attempts)
    require.Len(t, cards, 1)
}

func TestDoGivesUpOnClientError(t *testing.T) {
    attempts := 0
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        attempts++
        w.WriteHeader(http.StatusForbidden)
        fmt.Fprint(w, `{"error":"bad key"}`)
    })

    _, _, err := c.Cards(context.Background(), CardQuery{})
    require.Error(t, err)
    assert.Equal(t, 1, attempts)
    assert.Contains(t, err.Error(), "status=403")
}

func TestUpdateCardOwnersPayload(t *testing.T) {
    var got map[string][]domain.CardOwnerUpdate
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, http.MethodPost, r.Method)
        require.Equal(t, "/cards/updateMany", r.URL.Path)
        require.Equal(t, "application/json", r.Header.Get("Content-Type"))
        require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        fmt.Fprint(w, `{}`)
    })

    err := c.UpdateCardOwners(context.Background(), []domain.CardOwnerUpdate{{CardID: 1, OwnerUserID: 7}})
    require.NoError(t, err)
    require.Len(t, got["cards"], 1)
    assert.Equal(t, int64(7), got["cards"][0].OwnerUserID)
}

func TestUpdateCardOwnersNoopWhenEmpty(t *testing.T) {
    called := false
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
    require.NoError(t, c.UpdateCardOwners(context.Background(), nil))
    assert.False(t, called)
}

func TestColumnsFiltersByWorkflow(t *testing.T) {
    c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
        require.Equal(t, "/boards/4/columns", r.URL.Path)
        fmt.Fprint(w, `{"data":[
            {"column_id":31,"name":"IN PROGRESS","workflow_id":6},
            {"column_id":90,"name":"OTHER FLOW","workflow_id":9}
        ]}`)
    })

    cols, err := c.Columns(context.Background(), 4, 6)
    require.NoError(t, err)
    require.Len(t, cols, 1)
    assert.Equal(t, "IN PROGRESS", cols[0].Name)

    all, err := c.Columns(context.Background(), 4, 0)
    require.NoError(t, err)
    assert.Len(t, all, 2)
}
