package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/metromood/internal/http/httpx"
	httptx "github.com/MrJamesThe3rd/metromood/internal/http/transaction"
	"github.com/MrJamesThe3rd/metromood/internal/state"
)

const recentTransactions = 5

type Handler struct {
	svc *state.Service
}

func NewHandler(svc *state.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts /account, /profile and /payees on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/account", h.account)
	r.Get("/profile", h.profile)
	r.Patch("/profile", h.updateProfile)
	r.Get("/payees", h.payees)
}

type balanceResponse struct {
	Number  string          `json:"number"`
	Type    string          `json:"type"`
	Status  string          `json:"status,omitempty"`
	Balance decimal.Decimal `json:"balance"`
}

type creditResponse struct {
	balanceResponse
	Limit   decimal.Decimal `json:"limit"`
	DueDate string          `json:"due_date"`
}

type timeDepositResponse struct {
	balanceResponse
	Maturity     string          `json:"maturity"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

type accountResponse struct {
	Savings     balanceResponse     `json:"savings"`
	Credit      creditResponse      `json:"credit"`
	TimeDeposit timeDepositResponse `json:"time_deposit"`
	Recent      []httptx.Response   `json:"recent_transactions"`
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	view := h.svc.Account(recentTransactions)
	a := view.Accounts

	httpx.JSON(w, http.StatusOK, accountResponse{
		Savings: balanceResponse{
			Number:  a.Savings.Number,
			Type:    a.Savings.Type,
			Status:  a.Savings.Status,
			Balance: a.Savings.Balance,
		},
		Credit: creditResponse{
			balanceResponse: balanceResponse{
				Number:  a.Credit.Number,
				Type:    a.Credit.Type,
				Status:  a.Credit.Status,
				Balance: a.Credit.Balance,
			},
			Limit:   a.Credit.Limit,
			DueDate: a.Credit.DueDate,
		},
		TimeDeposit: timeDepositResponse{
			balanceResponse: balanceResponse{
				Number:  a.TimeDeposit.Number,
				Type:    a.TimeDeposit.Type,
				Balance: a.TimeDeposit.Balance,
			},
			Maturity:     a.TimeDeposit.Maturity,
			InterestRate: a.TimeDeposit.InterestRate,
		},
		Recent: httptx.ToResponseList(view.Recent),
	})
}

type profileResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Notifications bool   `json:"notifications"`
	Biometrics    bool   `json:"biometrics"`
}

func (h *Handler) writeProfile(w http.ResponseWriter) {
	u, s := h.svc.Profile()

	httpx.JSON(w, http.StatusOK, profileResponse{
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Notifications: s.Notifications,
		Biometrics:    s.Biometrics,
	})
}

func (h *Handler) profile(w http.ResponseWriter, _ *http.Request) {
	h.writeProfile(w)
}

type updateProfileRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Email         *string `json:"email,omitempty" validate:"omitnil,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitnil,min=1"`
	Notifications *bool   `json:"notifications,omitempty"`
	Biometrics    *bool   `json:"biometrics,omitempty"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}

	u, s := h.svc.Profile()

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Email != nil {
		u.Email = *req.Email
	}

	if req.Phone != nil {
		u.Phone = *req.Phone
	}

	if req.Notifications != nil {
		s.Notifications = *req.Notifications
	}

	if req.Biometrics != nil {
		s.Biometrics = *req.Biometrics
	}

	if err := h.svc.UpdateProfile(r.Context(), state.ProfileParams{User: u, Settings: s}); err != nil {
		httpx.Error(w, r, err)
		return
	}

	h.writeProfile(w)
}

type payeeResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Bank      string `json:"bank"`
	AccountNo string `json:"account_no"`
}

func (h *Handler) payees(w http.ResponseWriter, _ *http.Request) {
	payees := h.svc.Payees()

	resp := make([]payeeResponse, 0, len(payees))
	for _, p := range payees {
		resp = append(resp, payeeResponse{ID: p.ID, Name: p.Name, Bank: p.Bank, AccountNo: p.AccountNo})
	}

	httpx.JSON(w, http.StatusOK, resp)
}
