package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

type Response struct {
	ID          uuid.UUID            `json:"id"`
	Type        transaction.Type     `json:"type"`
	Description string               `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date"`
	Category    transaction.Category `json:"category"`
}

func ToResponse(tx transaction.Transaction) Response {
	return Response{
		ID:          tx.ID,
		Type:        tx.Type,
		Description: tx.Description,
		Amount:      tx.Amount,
		Date:        tx.Date,
		Category:    tx.Category,
	}
}

func ToResponseList(txs []transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
