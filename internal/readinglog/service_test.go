package readinglog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktrack/internal/book"
)

type fakeRepo struct {
	created *Log
	logs    []Log
}

func (f *fakeRepo) Create(ctx context.Context, l *Log) error {
	l.ID = "log-1"
	l.CreatedAt = time.Now()
	f.created = l
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, userID, id string) (Log, error) {
	for _, l := range f.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return Log{}, ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context, userID string, q Query) ([]Log, int, error) {
	return f.logs, len(f.logs), nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID, id string) error { return nil }

func (f *fakeRepo) CountForBook(ctx context.Context, bookID string) (int, error) {
	return len(f.logs), nil
}

type fakeBooks struct {
	book book.Book
	err  error
}

func (f *fakeBooks) GetByID(ctx context.Context, userID, id string) (book.Book, error) {
	if f.err != nil {
		return book.Book{}, f.err
	}
	return f.book, nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestSessionMinutes(t *testing.T) {
	tests := []struct {
		name  string
		start *string
		end   *string
		want  *int
	}{
		{"both nil", nil, nil, nil},
		{"start only", strPtr("20:00"), nil, nil},
		{"same evening", strPtr("20:15"), strPtr("21:00"), intPtr(45)},
		{"past midnight wraps", strPtr("23:30"), strPtr("00:15"), intPtr(45)},
		{"zero length", strPtr("08:00"), strPtr("08:00"), intPtr(0)},
		{"garbage time", strPtr("25:99"), strPtr("08:00"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sessionMinutes(tt.start, tt.end)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCreate_ComputesTotalAndMinutes(t *testing.T) {
	repo := &fakeRepo{}
	books := &fakeBooks{book: book.Book{ID: "b1", TotalPages: intPtr(300)}}
	svc := NewService(repo, books)

	l, err := svc.Create(context.Background(), "u1", CreateParams{
		BookID:    "b1",
		Date:      "2025-06-10",
		StartPage: 40,
		EndPage:   95,
		StartTime: strPtr("21:00"),
		EndTime:   strPtr("22:10"),
	})
	require.NoError(t, err)

	assert.Equal(t, 55, l.TotalRead)
	require.NotNil(t, l.Minutes)
	assert.Equal(t, 70, *l.Minutes)
	assert.Equal(t, "b1", repo.created.BookID)
}

func TestCreate_DefaultsDateToToday(t *testing.T) {
	repo := &fakeRepo{}
	books := &fakeBooks{book: book.Book{ID: "b1"}}
	svc := NewService(repo, books)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC) }

	l, err := svc.Create(context.Background(), "u1", CreateParams{BookID: "b1", EndPage: 10})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10", l.Date)
}

func TestCreate_RejectsBadRanges(t *testing.T) {
	repo := &fakeRepo{}
	books := &fakeBooks{book: book.Book{ID: "b1", TotalPages: intPtr(200)}}
	svc := NewService(repo, books)

	tests := []struct {
		name  string
		start int
		end   int
	}{
		{"end equals start", 50, 50},
		{"end before start", 80, 40},
		{"negative start", -5, 10},
		{"past book length", 150, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u1", CreateParams{
				BookID: "b1", StartPage: tt.start, EndPage: tt.end,
			})
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
	assert.Nil(t, repo.created)
}

func TestCreate_UnknownBook(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeBooks{err: book.ErrNotFound})

	_, err := svc.Create(context.Background(), "u1", CreateParams{BookID: "nope", EndPage: 10})
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestList_ForeignBookNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeBooks{err: book.ErrNotFound})

	_, _, err := svc.List(context.Background(), "u1", Query{BookID: "someone-elses"})
	assert.ErrorIs(t, err, book.ErrNotFound)
}
