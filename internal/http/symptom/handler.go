package symptom

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
)

type Handler struct {
	svc *state.Service
}

func NewHandler(svc *state.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.recent)
	r.Post("/", h.record)
}

type entryResponse struct {
	Date     string   `json:"date"`
	Symptoms []string `json:"symptoms"`
	Labels   []string `json:"labels"`
}

func toEntryResponse(e symptom.Entry) entryResponse {
	resp := entryResponse{
		Date:     e.Date,
		Symptoms: make([]string, 0, len(e.Symptoms)),
		Labels:   make([]string, 0, len(e.Symptoms)),
	}

	for _, s := range e.Symptoms {
		resp.Symptoms = append(resp.Symptoms, string(s))
		resp.Labels = append(resp.Labels, s.Label())
	}

	return resp
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := symptom.DefaultRecentLimit

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}

		limit = n
	}

	entries := h.svc.Symptoms(limit)

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}

	httpx.JSON(w, http.StatusOK, resp)
}

type recordRequest struct {
	Symptoms []string `json:"symptoms" validate:"required,min=1,dive,required"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	symptoms := make([]symptom.Symptom, 0, len(req.Symptoms))
	for _, s := range req.Symptoms {
		symptoms = append(symptoms, symptom.Symptom(s))
	}

	entry, err := h.svc.RecordSymptoms(r.Context(), symptoms)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toEntryResponse(entry))
}
