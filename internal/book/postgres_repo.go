package book

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

const bookColumns = `
	id, user_id, title, author, publisher, isbn, description, publish_year,
	cover_url, status, total_pages, pages_read,
	expected_rating, progress_rating, final_rating, overall_rating,
	categories,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	review, created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.UserID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.Description, &b.PublishYear,
		&b.CoverURL, &b.Status, &b.TotalPages, &b.PagesRead,
		&b.ExpectedRating, &b.ProgressRating, &b.FinalRating, &b.OverallRating,
		&b.Categories,
		&b.StartDate, &b.EndDate,
		&b.Review, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (user_id, title, author, publisher, isbn, description, publish_year,
		                   cover_url, status, total_pages, pages_read,
		                   expected_rating, progress_rating, final_rating, overall_rating,
		                   categories, start_date, end_date, review)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17::date, $18::date, $19)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		b.UserID, b.Title, b.Author, b.Publisher, b.ISBN, b.Description, b.PublishYear,
		b.CoverURL, b.Status, b.TotalPages, b.PagesRead,
		b.ExpectedRating, b.ProgressRating, b.FinalRating, b.OverallRating,
		b.Categories, b.StartDate, b.EndDate, b.Review,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) GetByID(ctx context.Context, userID, id string) (Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1 AND user_id = $2 LIMIT 1`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) List(ctx context.Context, userID string, q Query) ([]Book, int, error) {
	clauses := []string{"user_id = $1"}
	args := []any{userID}
	argn := 2

	if q.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argn))
		args = append(args, q.Status)
		argn++
	}

	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(categories)", argn))
		args = append(args, q.Category)
		argn++
	}

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR publisher ILIKE $%d OR isbn ILIKE $%d)", argn, argn+1, argn+2, argn+3))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern, pattern, pattern)
		argn += 4
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol := "created_at"
	switch q.Sort {
	case "title":
		sortCol = "title"
	case "rating":
		sortCol = "COALESCE(overall_rating, 0)"
	case "end_date":
		sortCol = "end_date"
	}
	order := "ASC"
	if q.Desc || q.Sort == "" || q.Sort == "rating" {
		order = "DESC"
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM books %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`SELECT %s FROM books %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		bookColumns, where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) ListAll(ctx context.Context, userID string) ([]Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE user_id = $1 ORDER BY created_at`, bookColumns)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books SET
			title = $3, author = $4, publisher = $5, isbn = $6, description = $7,
			publish_year = $8, cover_url = $9, status = $10, total_pages = $11,
			pages_read = $12, expected_rating = $13, progress_rating = $14,
			final_rating = $15, overall_rating = $16, categories = $17,
			start_date = $18::date, end_date = $19::date, review = $20,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.UserID,
		b.Title, b.Author, b.Publisher, b.ISBN, b.Description,
		b.PublishYear, b.CoverURL, b.Status, b.TotalPages,
		b.PagesRead, b.ExpectedRating, b.ProgressRating,
		b.FinalRating, b.OverallRating, b.Categories,
		b.StartDate, b.EndDate, b.Review,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes the book row; reading_logs and notes rows follow via
// ON DELETE CASCADE.
func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM books WHERE id = $1 AND user_id = $2`

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
