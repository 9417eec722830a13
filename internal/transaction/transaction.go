package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the direction of money relative to the savings account.
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

// Category groups transactions for display.
type Category string

const (
	CategoryTransfer      Category = "transfer"
	CategoryIncome        Category = "income"
	CategoryBills         Category = "bills"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategorySavings       Category = "savings"
)

// Transaction is an entry in the account history.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    Category        `json:"category"`
}
