package recommend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"booktrack/internal/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type recommendRequest struct {
	Mood       string `json:"mood" validate:"max=100"`
	Tone       string `json:"tone" validate:"max=100"`
	Minutes    int    `json:"available_minutes" validate:"gte=0,lte=1440"`
	Preference string `json:"preference" validate:"max=500"`
}

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var input recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(input); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	rec, err := h.svc.Recommend(r.Context(), httpx.UserIDFrom(r), Options{
		Mood:       input.Mood,
		Tone:       input.Tone,
		Minutes:    input.Minutes,
		Preference: input.Preference,
	})
	if err != nil {
		if errors.Is(err, ErrUpstream) {
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Recommendation service is unavailable", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

func (h *Handler) Lucky(w http.ResponseWriter, r *http.Request) {
	pick, err := h.svc.Lucky(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, ErrNoCandidates) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No books available to pick from", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, pick, nil)
}
