package readinglog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Create inserts the session and advances the owning book in one
// transaction: pages_read moves up to the session's end page (never down,
// capped at total_pages) and a TO_READ book flips to READING with its start
// date stamped.
func (r *PostgresRepo) Create(ctx context.Context, l *Log) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(timeoutCtx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(timeoutCtx)

	const insertLog = `
	INSERT INTO reading_logs (user_id, book_id, log_date, start_page, end_page, total_read, start_time, end_time, minutes, notes)
	VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at`

	err = tx.QueryRow(timeoutCtx, insertLog,
		l.UserID, l.BookID, l.Date, l.StartPage, l.EndPage, l.TotalRead,
		l.StartTime, l.EndTime, l.Minutes, l.Notes,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return err
	}

	const advanceBook = `
	UPDATE books
	SET pages_read = LEAST(GREATEST(pages_read, $1), COALESCE(total_pages, GREATEST(pages_read, $1))),
	    status     = CASE WHEN status = 'TO_READ' THEN 'READING' ELSE status END,
	    start_date = COALESCE(start_date, $2::date),
	    updated_at = now()
	WHERE id = $3 AND user_id = $4`

	if _, err := tx.Exec(timeoutCtx, advanceBook, l.EndPage, l.Date, l.BookID, l.UserID); err != nil {
		return err
	}

	return tx.Commit(timeoutCtx)
}

const logColumns = `
	id, user_id, book_id, to_char(log_date, 'YYYY-MM-DD'),
	start_page, end_page, total_read, start_time, end_time, minutes, notes, created_at`

func scanLog(row pgx.Row) (Log, error) {
	var l Log
	err := row.Scan(
		&l.ID, &l.UserID, &l.BookID, &l.Date,
		&l.StartPage, &l.EndPage, &l.TotalRead,
		&l.StartTime, &l.EndTime, &l.Minutes, &l.Notes, &l.CreatedAt,
	)
	return l, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, userID, id string) (Log, error) {
	const query = `SELECT ` + logColumns + ` FROM reading_logs WHERE id = $1 AND user_id = $2 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := scanLog(r.db.QueryRow(timeoutCtx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Log{}, ErrNotFound
		}
		return Log{}, err
	}
	return l, nil
}

func (r *PostgresRepo) List(ctx context.Context, userID string, q Query) ([]Log, int, error) {
	clauses := []string{"user_id = $1"}
	args := []interface{}{userID}

	if q.BookID != "" {
		args = append(args, q.BookID)
		clauses = append(clauses, fmt.Sprintf("book_id = $%d", len(args)))
	}
	if q.From != "" {
		args = append(args, q.From)
		clauses = append(clauses, fmt.Sprintf("log_date >= $%d::date", len(args)))
	}
	if q.To != "" {
		args = append(args, q.To)
		clauses = append(clauses, fmt.Sprintf("log_date <= $%d::date", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	countQuery := `SELECT count(*) FROM reading_logs WHERE ` + where
	if err := r.db.QueryRow(timeoutCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, q.Offset)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM reading_logs WHERE %s ORDER BY log_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		logColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(timeoutCtx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	return out, total, rows.Err()
}

// ListAllForUser returns the user's full session history, oldest first.
// Feeds the statistics engine.
func (r *PostgresRepo) ListAllForUser(ctx context.Context, userID string) ([]Log, error) {
	const query = `SELECT ` + logColumns + ` FROM reading_logs WHERE user_id = $1 ORDER BY log_date, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM reading_logs WHERE id = $1 AND user_id = $2`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, query, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CountForBook(ctx context.Context, bookID string) (int, error) {
	const query = `SELECT count(*) FROM reading_logs WHERE book_id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, query, bookID).Scan(&n)
	return n, err
}
