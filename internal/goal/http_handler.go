package goal

import (
	"encoding/json"
	"errors"
	"net/http"

	"booktrack/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createGoalRequest struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Type        Type     `json:"type" validate:"required,oneof=BOOK_COUNT PAGE_COUNT"`
	TargetCount int      `json:"target_count" validate:"required,gt=0"`
	StartDate   string   `json:"start_date" validate:"omitempty,calendar_date"`
	EndDate     string   `json:"end_date" validate:"omitempty,calendar_date"`
	PeriodType  Period   `json:"period_type" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	BookIDs     []string `json:"book_ids" validate:"omitempty,dive,uuid"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	g, err := h.svc.Create(r.Context(), httpx.UserIDFrom(r), CreateParams{
		Title:       input.Title,
		Type:        input.Type,
		TargetCount: input.TargetCount,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		PeriodType:  input.PeriodType,
		BookIDs:     input.BookIDs,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httpx.JSONSuccessCreated(w, r, g)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	evals, err := h.svc.ListEvaluated(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, evals, map[string]interface{}{"total": len(evals)})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	eval, err := h.svc.GetEvaluated(r.Context(), httpx.UserIDFrom(r), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, eval, nil)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.OverviewFor(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, result, nil)
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
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Goal not found", nil)
	case errors.Is(err, ErrInvalidWindow):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Goal end date must be after its start date", []httpx.ErrorDetail{
			{Field: "end_date", Message: "must be after start_date"},
		})
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
