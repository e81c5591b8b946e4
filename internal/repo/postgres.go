package repo

import (
    "context"
    "errors"
    "time"

    "github.com/MateusVergennes/kanbanActivity-api/internal/config"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"
)

// ErrNoRuns is returned by LastRun before any report has been recorded.
var ErrNoRuns = errors.New("repo: no runs recorded")

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

// Run is one recorded report execution. Bookkeeping only; the computed
// report itself lives in the output files.
type Run struct {
    ID         int64      `json:"id"`
    Kind       string     `json:"kind"`
    Params     string     `json:"params"`
    StartedAt  time.Time  `json:"started_at"`
    FinishedAt *time.Time `json:"finished_at"`
    Cards      int        `json:"cards"`
    OK         *bool      `json:"ok"`
    Error      string     `json:"error,omitempty"`
}

// Repository records report runs. A nil *Repository is valid and turns
// every method into a no-op, so the service works without a database.
type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) EnsureSchema(ctx context.Context) error {
    if r == nil { return nil }
    const q = `
        CREATE TABLE IF NOT EXISTS report_runs(
            id          BIGSERIAL PRIMARY KEY,
            kind        TEXT NOT NULL,
            params      TEXT NOT NULL DEFAULT '',
            started_at  TIMESTAMPTZ NOT NULL,
            finished_at TIMESTAMPTZ,
            cards       INT NOT NULL DEFAULT 0,
            ok          BOOLEAN,
            error       TEXT NOT NULL DEFAULT ''
        );
        CREATE INDEX IF NOT EXISTS report_runs_kind_started_idx ON report_runs(kind, started_at DESC)`
    _, err := r.db.Pool.Exec(ctx, q)
    return err
}

func (r *Repository) StartRun(ctx context.Context, kind, params string) (int64, error) {
    if r == nil { return 0, nil }
    const q = `INSERT INTO report_runs(kind, params, started_at) VALUES($1,$2,now()) RETURNING id`
    var id int64
    if err := r.db.Pool.QueryRow(ctx, q, kind, params).Scan(&id); err != nil { return 0, err }
    return id, nil
}

func (r *Repository) FinishRun(ctx context.Context, id int64, cards int, runErr error) error {
    if r == nil || id == 0 { return nil }
    msg := ""
    ok := runErr == nil
    if runErr != nil { msg = runErr.Error() }
    const q = `UPDATE report_runs SET finished_at=now(), cards=$2, ok=$3, error=$4 WHERE id=$1`
    _, err := r.db.Pool.Exec(ctx, q, id, cards, ok, msg)
    return err
}

func (r *Repository) LastRun(ctx context.Context, kind string) (Run, error) {
    if r == nil { return Run{}, ErrNoRuns }
    q := `SELECT id, kind, params, started_at, finished_at, cards, ok, error
        FROM report_runs`
    args := []any{}
    if kind != "" {
        q += ` WHERE kind=$1`
        args = append(args, kind)
    }
    q += ` ORDER BY started_at DESC LIMIT 1`
    var run Run
    err := r.db.Pool.QueryRow(ctx, q, args...).Scan(
        &run.ID, &run.Kind, &run.Params, &run.StartedAt, &run.FinishedAt, &run.Cards, &run.OK, &run.Error)
    if errors.Is(err, pgx.ErrNoRows) { return Run{}, ErrNoRuns }
    if err != nil { return Run{}, err }
    return run, nil
}

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    if r == nil { return true, nil }
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    if r == nil { return nil }
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}
