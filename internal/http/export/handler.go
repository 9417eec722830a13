package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/metromood/internal/export"
	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
	r.Post("/summary", h.summary)
}

type exportRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

func (req exportRequest) filter() export.Filter {
	return export.Filter{StartDate: req.StartDate, EndDate: req.EndDate}
}

type summaryResponse struct {
	Periods int    `json:"periods"`
	Savings int    `json:"savings"`
	Summary string `json:"summary"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	var buf bytes.Buffer

	res, err := h.svc.Export(r.Context(), req.filter(), &buf)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, summaryResponse{
		Periods: len(res.Periods),
		Savings: len(res.Savings),
		Summary: res.Summary,
	})
}

// download builds the archive in memory first so a failure can still be
// reported with a proper status.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	var buf bytes.Buffer

	if _, err := h.svc.Export(r.Context(), req.filter(), &buf); err != nil {
		httpx.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.svc.FileName()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
