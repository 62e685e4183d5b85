package goal

import (
	"context"
	"errors"
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

func (r *PostgresRepo) Create(ctx context.Context, g *Goal) error {
	const query = `
	INSERT INTO goals (user_id, title, type, target_count, start_date, end_date, period_type, book_ids)
	VALUES ($1, $2, $3, $4, $5::date, $6::date, $7, $8)
	RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		g.UserID, g.Title, g.Type, g.TargetCount, g.StartDate, g.EndDate, g.PeriodType, g.BookIDs,
	).Scan(&g.ID, &g.CreatedAt)
}

const goalColumns = `
	id, user_id, title, type, target_count,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	period_type, book_ids, created_at`

func scanGoal(row pgx.Row) (Goal, error) {
	var g Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Type, &g.TargetCount,
		&g.StartDate, &g.EndDate,
		&g.PeriodType, &g.BookIDs, &g.CreatedAt,
	)
	return g, err
}

func (r *PostgresRepo) GetByID(ctx context.Context, userID, id string) (Goal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2 LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	g, err := scanGoal(r.db.QueryRow(timeoutCtx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Goal{}, ErrNotFound
		}
		return Goal{}, err
	}
	return g, nil
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]Goal, error) {
	const query = `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY end_date`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM goals WHERE id = $1 AND user_id = $2`

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
