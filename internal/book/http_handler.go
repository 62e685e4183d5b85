package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"booktrack/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createBookRequest struct {
	Title          string   `json:"title" validate:"required_without=ISBN,max=500"`
	Author         string   `json:"author" validate:"max=300"`
	Publisher      string   `json:"publisher" validate:"max=300"`
	ISBN           string   `json:"isbn" validate:"omitempty,isbn"`
	Description    string   `json:"description"`
	PublishYear    string   `json:"publish_year" validate:"max=10"`
	CoverURL       *string  `json:"cover_url"`
	Status         Status   `json:"status" validate:"omitempty,oneof=TO_READ READING FINISHED"`
	TotalPages     *int     `json:"total_pages" validate:"omitempty,gt=0"`
	Categories     []string `json:"categories"`
	ExpectedRating *float64 `json:"expected_rating" validate:"omitempty,gte=0,lte=5"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.Create(r.Context(), httpx.UserIDFrom(r), CreateParams{
		Title:          input.Title,
		Author:         input.Author,
		Publisher:      input.Publisher,
		ISBN:           input.ISBN,
		Description:    input.Description,
		PublishYear:    input.PublishYear,
		CoverURL:       input.CoverURL,
		Status:         input.Status,
		TotalPages:     input.TotalPages,
		Categories:     input.Categories,
		ExpectedRating: input.ExpectedRating,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Status:   Status(r.URL.Query().Get("status")),
		Category: r.URL.Query().Get("category"),
		Q:        r.URL.Query().Get("q"),
		Sort:     r.URL.Query().Get("sort"),
		Desc:     r.URL.Query().Get("desc") == "true",
	}
	if q.Status != "" && !q.Status.Valid() {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Unknown status filter", nil)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize

	books, total, err := h.svc.List(r.Context(), httpx.UserIDFrom(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]interface{}{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

type updateBookRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=500"`
	Author      *string  `json:"author" validate:"omitempty,max=300"`
	Publisher   *string  `json:"publisher" validate:"omitempty,max=300"`
	ISBN        *string  `json:"isbn" validate:"omitempty,isbn"`
	Description *string  `json:"description"`
	PublishYear *string  `json:"publish_year" validate:"omitempty,max=10"`
	CoverURL    *string  `json:"cover_url"`
	TotalPages  *int     `json:"total_pages" validate:"omitempty,gt=0"`
	PagesRead   *int     `json:"pages_read" validate:"omitempty,gte=0"`
	Categories  []string `json:"categories"`
	Review      *string  `json:"review"`
	StartDate   *string  `json:"start_date" validate:"omitempty,calendar_date"`
	EndDate     *string  `json:"end_date" validate:"omitempty,calendar_date"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.Update(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), UpdateParams{
		Title:       input.Title,
		Author:      input.Author,
		Publisher:   input.Publisher,
		ISBN:        input.ISBN,
		Description: input.Description,
		PublishYear: input.PublishYear,
		CoverURL:    input.CoverURL,
		TotalPages:  input.TotalPages,
		PagesRead:   input.PagesRead,
		Categories:  input.Categories,
		Review:      input.Review,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, b, nil)
}

type updateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=TO_READ READING FINISHED"`
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.UpdateStatus(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), input.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, b, nil)
}

type ratingRequest struct {
	Stage RatingStage `json:"stage" validate:"required,oneof=expected progress final"`
	Value *float64    `json:"value" validate:"omitempty,gte=0,lte=5"`
}

func (h *Handler) SetRating(w http.ResponseWriter, r *http.Request) {
	var input ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	b, err := h.svc.SetRating(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"), input.Stage, input.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, b, nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), httpx.UserIDFrom(r), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrInvalidTransition):
		httpx.JSONError(w, r, http.StatusConflict, "INVALID_TRANSITION", "Status change is not allowed for this book", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
