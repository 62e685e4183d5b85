package stats

import (
	"net/http"

	"booktrack/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view := View(r.URL.Query().Get("view"))
	if view != "" && !view.Valid() {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid view", []httpx.ErrorDetail{
			{Field: "view", Message: "must be one of week, month, year"},
		})
		return
	}

	result, err := h.svc.For(r.Context(), httpx.UserIDFrom(r), view, r.URL.Query().Get("date"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, result, nil)
}
