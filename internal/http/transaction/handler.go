package transaction

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

type Handler struct {
	svc *state.Service
}

func NewHandler(svc *state.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(transaction.Category(s))
	}

	if s := q.Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			httpx.Error(w, r, fmt.Errorf("%w: start_date must be YYYY-MM-DD", httpx.ErrBadRequest))
			return
		}

		filter.StartDate = new(t)
	}

	// end_date is inclusive of the whole day.
	if s := q.Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			httpx.Error(w, r, fmt.Errorf("%w: end_date must be YYYY-MM-DD", httpx.ErrBadRequest))
			return
		}

		filter.EndDate = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	httpx.JSON(w, http.StatusOK, ToResponseList(h.svc.Transactions(filter)))
}
