package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guide-tracking-service/internal/domain"
	"guide-tracking-service/internal/platform/obs"
	"time"

	"go.uber.org/zap"
)

// SQLite-backed implementation of the GuideStore port.
// Meant for an in-memory database (see db.OpenMemory); nothing outlives the process.
type SqliteGuideStore struct {
	DB  *sql.DB
	log *zap.Logger
	now func() time.Time
	loc *time.Location
}

// Timestamps are stored as Unix nanoseconds and read back in loc.
func NewSqliteGuideStore(db *sql.DB, log *zap.Logger, now func() time.Time, loc *time.Location) *SqliteGuideStore {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &SqliteGuideStore{DB: db, log: log, now: now, loc: loc}
}

func (s *SqliteGuideStore) Insert(ctx context.Context, g domain.Guide) (err error) {
	defer obs.Time(ctx, s.log, "guides.sqlite.Insert")(&err)

	if s.DB == nil {
		return errors.New("sqlite guide store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert guide: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM guides WHERE id = ?;`, g.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("insert guide: check id %q: %w", g.ID, err)
	}
	if exists > 0 {
		return &domain.DuplicateIDError{ID: g.ID}
	}

	query := `
	INSERT INTO guides (
		id,
		origin,
		destination,
		recipient,
		creation_date,
		status
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err = tx.ExecContext(ctx, query,
		g.ID, g.Origin, g.Destination, g.Recipient, g.CreationDate.UnixNano(), g.Status.String())
	if err != nil {
		return fmt.Errorf("insert guide: id=%q: %w", g.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO guide_history (guide_id, seq, status, at)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("insert guide: prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range g.History {
		if _, err := stmt.ExecContext(ctx, g.ID, i+1, h.Status.String(), h.At.UnixNano()); err != nil {
			return fmt.Errorf("insert guide: id=%q history #%d: %w", g.ID, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert guide: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteGuideStore) FindByID(ctx context.Context, id string) (_ domain.Guide, _ bool, err error) {
	defer obs.Time(ctx, s.log, "guides.sqlite.FindByID")(&err)

	if s.DB == nil {
		return domain.Guide{}, false, errors.New("sqlite guide store: DB is nil")
	}

	query := `
	SELECT
		id,
		origin,
		destination,
		recipient,
		creation_date,
		status
	FROM guides
	WHERE id = ?;
	`
	g, err := s.scanGuide(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Guide{}, false, nil
	}
	if err != nil {
		return domain.Guide{}, false, fmt.Errorf("find guide: id=%q: %w", id, err)
	}

	history, err := s.history(ctx, `WHERE guide_id = ?`, id)
	if err != nil {
		return domain.Guide{}, false, fmt.Errorf("find guide: %w", err)
	}
	g.History = history[id]

	return g, true, nil
}

func (s *SqliteGuideStore) AdvanceStatus(ctx context.Context, id string, next domain.Status) (err error) {
	defer obs.Time(ctx, s.log, "guides.sqlite.AdvanceStatus")(&err)

	if s.DB == nil {
		return errors.New("sqlite guide store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("advance status: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE guides SET status = ? WHERE id = ?;`, next.String(), id)
	if err != nil {
		return fmt.Errorf("advance status: update id=%q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance status: rows affected: %w", err)
	}
	if n == 0 {
		return nil
	}

	query := `
	INSERT INTO guide_history (guide_id, seq, status, at)
	SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?
	FROM guide_history
	WHERE guide_id = ?;
	`
	if _, err := tx.ExecContext(ctx, query, id, next.String(), s.now().UnixNano(), id); err != nil {
		return fmt.Errorf("advance status: append history id=%q: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("advance status: commit tx: %w", err)
	}

	return nil
}

func (s *SqliteGuideStore) List(ctx context.Context) (_ []domain.Guide, err error) {
	defer obs.Time(ctx, s.log, "guides.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite guide store: DB is nil")
	}

	query := `
	SELECT
		id,
		origin,
		destination,
		recipient,
		creation_date,
		status
	FROM guides
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list guides: query guides table: %w", err)
	}
	defer rows.Close()

	guides := make([]domain.Guide, 0, 16)
	for rows.Next() {
		g, err := s.scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("list guides: scan row: %w", err)
		}
		guides = append(guides, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list guides: row iteration: %w", err)
	}

	history, err := s.history(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	for i := range guides {
		guides[i].History = history[guides[i].ID]
	}

	return guides, nil
}

func (s *SqliteGuideStore) Count(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("sqlite guide store: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM guides;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count guides: %w", err)
	}
	return n, nil
}

func (s *SqliteGuideStore) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite guide store: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT status, COUNT(1) FROM guides GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("count guides by status: query: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var raw string
		var n int
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("count guides by status: scan row: %w", err)
		}
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("count guides by status: %w", err)
		}
		counts[st] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count guides by status: row iteration: %w", err)
	}

	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SqliteGuideStore) scanGuide(row rowScanner) (domain.Guide, error) {
	var g domain.Guide
	var created int64
	var status string
	if err := row.Scan(&g.ID, &g.Origin, &g.Destination, &g.Recipient, &created, &status); err != nil {
		return domain.Guide{}, err
	}

	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Guide{}, err
	}
	g.Status = st
	g.CreationDate = time.Unix(0, created).In(s.loc)

	return g, nil
}

// history loads history entries grouped by guide id, ordered by seq.
func (s *SqliteGuideStore) history(ctx context.Context, where string, args ...any) (map[string][]domain.HistoryEntry, error) {
	query := fmt.Sprintf(`
	SELECT guide_id, status, at
	FROM guide_history
	%s
	ORDER BY guide_id, seq;
	`, where)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query guide_history table: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.HistoryEntry)
	for rows.Next() {
		var id, status string
		var at int64
		if err := rows.Scan(&id, &status, &at); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		st, err := domain.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("history of %q: %w", id, err)
		}
		out[id] = append(out[id], domain.HistoryEntry{Status: st, At: time.Unix(0, at).In(s.loc)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history row iteration: %w", err)
	}

	return out, nil
}
