package state

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

// DefaultKey is the name the whole state blob is stored under.
const DefaultKey = "metrobankState"

type User struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type SavingsAccount struct {
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
}

type CreditAccount struct {
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
	Limit   decimal.Decimal `json:"limit"`
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	DueDate string          `json:"dueDate"`
}

type TimeDeposit struct {
	Number       string          `json:"number"`
	Balance      decimal.Decimal `json:"balance"`
	Type         string          `json:"type"`
	Maturity     string          `json:"maturity"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

type Accounts struct {
	Savings     SavingsAccount `json:"savings"`
	Credit      CreditAccount  `json:"credit"`
	TimeDeposit TimeDeposit    `json:"timeDeposit"`
}

// Payee is a saved transfer recipient.
type Payee struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Bank      string `json:"bank"`
	AccountNo string `json:"accountNo"`
}

type Settings struct {
	Notifications bool `json:"notifications"`
	Biometrics    bool `json:"biometrics"`
}

// State is everything the app persists, serialized as one blob.
type State struct {
	User            User                         `json:"user"`
	Accounts        Accounts                     `json:"accounts"`
	Transactions    []transaction.Transaction    `json:"transactions"`
	MoodSavings     []savings.Record             `json:"moodSavings"`
	Periods         []cycle.PeriodRecord         `json:"periods"`
	Symptoms        map[string][]symptom.Symptom `json:"symptoms"`
	CycleLength     int                          `json:"cycleLength"`
	PeriodLength    int                          `json:"periodLength"`
	LastPeriodStart time.Time                    `json:"lastPeriodStart"`
	SavedAccounts   []Payee                      `json:"savedAccounts"`
	Settings        Settings                     `json:"settings"`
}

// CycleConfig returns the persisted cycle parameters.
func (s *State) CycleConfig() cycle.Config {
	return cycle.Config{
		CycleLengthDays:  s.CycleLength,
		PeriodLengthDays: s.PeriodLength,
	}.WithDefaults()
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.Transactions = slices.Clone(s.Transactions)
	c.MoodSavings = slices.Clone(s.MoodSavings)
	c.Periods = slices.Clone(s.Periods)
	c.SavedAccounts = slices.Clone(s.SavedAccounts)

	c.Symptoms = make(map[string][]symptom.Symptom, len(s.Symptoms))
	for k, v := range s.Symptoms {
		c.Symptoms[k] = slices.Clone(v)
	}

	return &c
}

// Defaults is the demo profile a fresh install starts with.
func Defaults(now time.Time, cfg cycle.Config) *State {
	cfg = cfg.WithDefaults()

	seed := []struct {
		typ      transaction.Type
		desc     string
		amount   string
		date     time.Time
		category transaction.Category
	}{
		{transaction.TypeDebit, "GCash Transfer", "1500", now, transaction.CategoryTransfer},
		{transaction.TypeCredit, "Salary Credit", "35000", now.AddDate(0, 0, -1), transaction.CategoryIncome},
		{transaction.TypeDebit, "Meralco Payment", "3245.50", day(2024, 1, 15), transaction.CategoryBills},
		{transaction.TypeDebit, "Jollibee", "450", day(2024, 1, 14), transaction.CategoryFood},
		{transaction.TypeDebit, "Grab Ride", "180", day(2024, 1, 13), transaction.CategoryTransport},
		{transaction.TypeCredit, "Fund Transfer Received", "5000", day(2024, 1, 12), transaction.CategoryTransfer},
		{transaction.TypeDebit, "Netflix Subscription", "549", day(2024, 1, 10), transaction.CategoryEntertainment},
		{transaction.TypeDebit, "PLDT Payment", "1899", day(2024, 1, 8), transaction.CategoryBills},
	}

	txs := make([]transaction.Transaction, 0, len(seed))
	for _, s := range seed {
		txs = append(txs, transaction.Transaction{
			ID:          uuid.New(),
			Type:        s.typ,
			Description: s.desc,
			Amount:      decimal.RequireFromString(s.amount),
			Date:        s.date,
			Category:    s.category,
		})
	}

	return &State{
		User: User{
			Name:  "Juan Dela Cruz",
			Email: "juan.delacruz@email.com",
			Phone: "+63 917 123 4567",
		},
		Accounts: Accounts{
			Savings: SavingsAccount{
				Number:  "1234-5678-9012-3456",
				Balance: decimal.RequireFromString("125450.75"),
				Type:    "Savings Account",
				Status:  "Active",
			},
			Credit: CreditAccount{
				Number:  "****-****-****-5678",
				Balance: decimal.RequireFromString("45230.00"),
				Limit:   decimal.NewFromInt(100000),
				Type:    "Metrobank Credit Card",
				Status:  "Active",
				DueDate: "2024-02-15",
			},
			TimeDeposit: TimeDeposit{
				Number:       "****-****-****-9012",
				Balance:      decimal.RequireFromString("500000.00"),
				Type:         "Time Deposit",
				Maturity:     "2024-12-31",
				InterestRate: decimal.RequireFromString("5.5"),
			},
		},
		Transactions:    txs,
		MoodSavings:     []savings.Record{},
		Periods:         []cycle.PeriodRecord{},
		Symptoms:        map[string][]symptom.Symptom{},
		CycleLength:     cfg.CycleLengthDays,
		PeriodLength:    cfg.PeriodLengthDays,
		LastPeriodStart: day(2024, 1, 1),
		SavedAccounts: []Payee{
			{ID: 1, Name: "Maria Santos", Bank: "BDO", AccountNo: "****1234"},
			{ID: 2, Name: "Jose Rizal", Bank: "BPI", AccountNo: "****5678"},
		},
		Settings: Settings{Notifications: true},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
