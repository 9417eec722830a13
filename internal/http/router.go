package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/metromood/internal/http/account"
	"github.com/MrJamesThe3rd/metromood/internal/http/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/http/export"
	"github.com/MrJamesThe3rd/metromood/internal/http/importcsv"
	"github.com/MrJamesThe3rd/metromood/internal/http/savings"
	"github.com/MrJamesThe3rd/metromood/internal/http/symptom"
	"github.com/MrJamesThe3rd/metromood/internal/http/transaction"
)

type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	Timeout            time.Duration
	Development        bool
}

type Handlers struct {
	Account      *account.Handler
	Transactions *transaction.Handler
	Cycle        *cycle.Handler
	Import       *importcsv.Handler
	Symptoms     *symptom.Handler
	Savings      *savings.Handler
	Export       *export.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      opts.Development,
	}).Handler)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.RateLimitPerMinute > 0 {
		router.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Account.Routes(r)
		})

		r.Route("/transactions", h.Transactions.Routes)

		r.Route("/cycle", func(r chi.Router) {
			r.Route("/import", h.Import.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Cycle.Routes(r)
			})
		})

		r.Route("/symptoms", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Symptoms.Routes(r)
		})

		r.Route("/savings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Savings.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
