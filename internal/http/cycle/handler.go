package cycle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type Handler struct {
	svc *state.Service
}

func NewHandler(svc *state.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
	r.Get("/calendar", h.calendar)
	r.Get("/periods", h.listPeriods)
	r.Post("/periods", h.logPeriod)
}

type windowResponse struct {
	Start string `json:"start"`
	// End is the last day of the window, inclusive.
	End string `json:"end"`
}

type alertResponse struct {
	Active         bool   `json:"active"`
	DaysUntilStart int    `json:"days_until_start"`
	UnlockDate     string `json:"unlock_date,omitempty"`
}

type summaryResponse struct {
	LastPeriod   string         `json:"last_period"`
	NextPeriod   windowResponse `json:"next_period"`
	Alert        alertResponse  `json:"alert"`
	CycleLength  int            `json:"cycle_length"`
	PeriodLength int            `json:"period_length"`
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	s := h.svc.Cycle()
	cfg := h.svc.Snapshot().CycleConfig()

	resp := summaryResponse{
		LastPeriod: s.LastPeriod.Format(time.DateOnly),
		NextPeriod: windowResponse{
			Start: s.NextPeriod.Start.Format(time.DateOnly),
			End:   s.NextPeriod.End.AddDate(0, 0, -1).Format(time.DateOnly),
		},
		Alert: alertResponse{
			Active:         s.Alert.Active,
			DaysUntilStart: s.Alert.DaysUntilStart,
		},
		CycleLength:  cfg.CycleLengthDays,
		PeriodLength: cfg.PeriodLengthDays,
	}

	if s.Alert.Active {
		resp.Alert.UnlockDate = s.Alert.UnlockDate.Format(time.DateOnly)
	}

	httpx.JSON(w, http.StatusOK, resp)
}

type dayResponse struct {
	Date    string        `json:"date"`
	Day     int           `json:"day"`
	Kind    cycle.DayKind `json:"kind"`
	IsToday bool          `json:"is_today,omitempty"`
}

type calendarResponse struct {
	Title   string        `json:"title"`
	Month   string        `json:"month"`
	Leading int           `json:"leading"`
	Days    []dayResponse `json:"days"`
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	month, err := cycle.ParseMonth(r.URL.Query().Get("month"), h.svc.Now())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	m := h.svc.Calendar(month)

	resp := calendarResponse{
		Title:   m.Title(),
		Month:   month.Format("2006-01"),
		Leading: m.Leading,
		Days:    make([]dayResponse, 0, len(m.Days)),
	}

	for _, d := range m.Days {
		resp.Days = append(resp.Days, dayResponse{
			Date:    d.Date.Format(time.DateOnly),
			Day:     d.Day,
			Kind:    d.Kind,
			IsToday: d.IsToday,
		})
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) listPeriods(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, h.svc.Periods())
}

type logPeriodRequest struct {
	Start     string `json:"start" validate:"required,datetime=2006-01-02"`
	End       string `json:"end" validate:"required,datetime=2006-01-02"`
	Intensity string `json:"intensity" validate:"omitempty,oneof=light medium heavy"`
}

func (h *Handler) logPeriod(w http.ResponseWriter, r *http.Request) {
	var req logPeriodRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	// Both dates were validated above.
	start, _ := cycle.ParseDate(req.Start)
	end, _ := cycle.ParseDate(req.End)

	rec, err := h.svc.LogPeriod(r.Context(), state.LogPeriodParams{
		Start:     start,
		End:       end,
		Intensity: cycle.Intensity(req.Intensity),
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, rec)
}
