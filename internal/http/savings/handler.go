package savings

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	"github.com/MrJamesThe3rd/metromood/internal/mood"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

type Handler struct {
	svc *state.Service
}

func NewHandler(svc *state.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.deposit)
	r.Get("/moods", h.moods)
	r.Get("/suggest", h.suggest)
	r.Delete("/{id}", h.release)
}

type savingResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Mood        string          `json:"mood"`
	Emoji       string          `json:"emoji"`
	CreatedAt   time.Time       `json:"created_at"`
	LockedUntil time.Time       `json:"locked_until"`
	Locked      bool            `json:"locked"`
	DaysLeft    int             `json:"days_left"`
}

func toSavingResponse(r savings.Record, now time.Time) savingResponse {
	return savingResponse{
		ID:          r.ID,
		Amount:      r.Amount,
		Mood:        r.Mood,
		Emoji:       r.Emoji,
		CreatedAt:   r.CreatedAt,
		LockedUntil: r.LockedUntil,
		Locked:      r.Locked(now),
		DaysLeft:    r.DaysLeft(now),
	}
}

type listResponse struct {
	Balance        decimal.Decimal  `json:"balance"`
	Total          decimal.Decimal  `json:"total"`
	TotalLocked    decimal.Decimal  `json:"total_locked"`
	EarliestUnlock *time.Time       `json:"earliest_unlock,omitempty"`
	Records        []savingResponse `json:"records"`
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	view := h.svc.Savings()

	resp := listResponse{
		Balance:        view.Balance,
		Total:          view.Total,
		TotalLocked:    view.TotalLocked,
		EarliestUnlock: view.EarliestUnlock,
		Records:        make([]savingResponse, 0, len(view.Records)),
	}

	for _, r := range view.Records {
		resp.Records = append(resp.Records, savingResponse{
			ID:          r.ID,
			Amount:      r.Amount,
			Mood:        r.Mood,
			Emoji:       r.Emoji,
			CreatedAt:   r.CreatedAt,
			LockedUntil: r.LockedUntil,
			Locked:      r.Locked,
			DaysLeft:    r.DaysLeft,
		})
	}

	httpx.JSON(w, http.StatusOK, resp)
}

type moodResponse struct {
	Mood  string          `json:"mood"`
	Emoji string          `json:"emoji"`
	Goal  decimal.Decimal `json:"goal"`
}

func toMoodResponse(m mood.Mood) moodResponse {
	return moodResponse{Mood: m.Tag, Emoji: m.Emoji, Goal: m.Goal}
}

func (h *Handler) moods(w http.ResponseWriter, _ *http.Request) {
	moods := h.svc.Moods()

	resp := make([]moodResponse, 0, len(moods))
	for _, m := range moods {
		resp = append(resp, toMoodResponse(m))
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, toMoodResponse(h.svc.SuggestMood(r.URL.Query().Get("mood"))))
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Mood   string          `json:"mood" validate:"omitempty,max=32"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	rec, err := h.svc.Deposit(r.Context(), state.DepositParams{Amount: req.Amount, Mood: req.Mood})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toSavingResponse(rec, h.svc.Now()))
}

type releaseResponse struct {
	Released savingResponse  `json:"released"`
	Balance  decimal.Decimal `json:"balance"`
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, r, fmt.Errorf("%w: invalid id", httpx.ErrBadRequest))
		return
	}

	rec, balance, err := h.svc.Release(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, releaseResponse{
		Released: toSavingResponse(rec, h.svc.Now()),
		Balance:  balance,
	})
}
