package readinglog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booktrack/internal/book"
	"booktrack/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createLogRequest struct {
	Date      string  `json:"date" validate:"omitempty,calendar_date"`
	StartPage int     `json:"start_page" validate:"gte=0"`
	EndPage   int     `json:"end_page" validate:"required,gt=0"`
	StartTime *string `json:"start_time" validate:"omitempty,clock_time"`
	EndTime   *string `json:"end_time" validate:"omitempty,clock_time"`
	Notes     string  `json:"notes" validate:"max=2000"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input createLogRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	l, err := h.svc.Create(r.Context(), httpx.UserIDFrom(r), CreateParams{
		BookID:    r.PathValue("id"),
		Date:      input.Date,
		StartPage: input.StartPage,
		EndPage:   input.EndPage,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Notes:     input.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, l)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := Query{
		BookID: r.PathValue("id"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}

	logs, total, err := h.svc.List(r.Context(), httpx.UserIDFrom(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, logs, map[string]interface{}{"total": total})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("logID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Reading log not found", nil)
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInvalidRange):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid page range", []httpx.ErrorDetail{
			{Field: "end_page", Message: "must be greater than start_page and within the book's page count"},
		})
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
