package readinglog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"booktrack/internal/book"
	"booktrack/internal/httpx"
)

func newTestLogHandler(totalPages int) (*Handler, *fakeRepo) {
	repo := &fakeRepo{}
	var b book.Book
	b.ID = "b1"
	if totalPages > 0 {
		b.TotalPages = intPtr(totalPages)
	}
	return NewHandler(NewService(repo, &fakeBooks{book: b})), repo
}

func logRequest(method, target, body, bookID, logID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r = r.WithContext(httpx.ContextWithUser(r.Context(), "u1"))
	if bookID != "" {
		r.SetPathValue("id", bookID)
	}
	if logID != "" {
		r.SetPathValue("logID", logID)
	}
	return r
}

func TestHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, repo := newTestLogHandler(300)

		w := httptest.NewRecorder()
		handler.Create(w, logRequest(http.MethodPost, "/books/b1/logs",
			`{"date":"2025-06-10","start_page":40,"end_page":95,"start_time":"21:00","end_time":"22:10"}`,
			"b1", ""))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 55, repo.created.TotalRead)
		assert.Contains(t, w.Body.String(), `"minutes":70`)
	})

	t.Run("bad date format", func(t *testing.T) {
		handler, _ := newTestLogHandler(300)

		w := httptest.NewRecorder()
		handler.Create(w, logRequest(http.MethodPost, "/books/b1/logs",
			`{"date":"10/06/2025","end_page":95}`, "b1", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("range past book length", func(t *testing.T) {
		handler, _ := newTestLogHandler(100)

		w := httptest.NewRecorder()
		handler.Create(w, logRequest(http.MethodPost, "/books/b1/logs",
			`{"start_page":90,"end_page":150}`, "b1", ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "end_page")
	})
}

func TestHandler_List(t *testing.T) {
	handler, repo := newTestLogHandler(300)
	repo.logs = []Log{{ID: "l1", BookID: "b1", Date: "2025-06-10", TotalRead: 30}}

	w := httptest.NewRecorder()
	handler.List(w, logRequest(http.MethodGet, "/books/b1/logs?limit=10", "", "b1", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestHandler_Delete(t *testing.T) {
	handler, _ := newTestLogHandler(300)

	w := httptest.NewRecorder()
	handler.Delete(w, logRequest(http.MethodDelete, "/books/b1/logs/l1", "", "b1", "l1"))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
