package transaction

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateParams struct {
	Type        Type
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Category    Category
}

type ListFilter struct {
	Type      *Type
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ListFilter) matches(tx Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}

	return true
}

// History keeps transactions newest first.
type History struct {
	txs []Transaction
}

func NewHistory(txs []Transaction) *History {
	return &History{txs: slices.Clone(txs)}
}

// Record prepends a new transaction.
func (h *History) Record(params CreateParams) Transaction {
	tx := Transaction{
		ID:          uuid.New(),
		Type:        params.Type,
		Description: params.Description,
		Amount:      params.Amount,
		Date:        params.Date,
		Category:    params.Category,
	}
	h.txs = slices.Insert(h.txs, 0, tx)

	return tx
}

func (h *History) List(filter ListFilter) []Transaction {
	var out []Transaction

	for _, tx := range h.txs {
		if filter.matches(tx) {
			out = append(out, tx)
		}
	}

	return out
}

// Recent returns the first n transactions.
func (h *History) Recent(n int) []Transaction {
	if n <= 0 || n >= len(h.txs) {
		return slices.Clone(h.txs)
	}

	return slices.Clone(h.txs[:n])
}

func (h *History) All() []Transaction {
	return slices.Clone(h.txs)
}
