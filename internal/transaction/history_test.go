package transaction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

func seedHistory() *transaction.History {
	h := transaction.NewHistory(nil)
	h.Record(transaction.CreateParams{
		Type:        transaction.TypeDebit,
		Description: "Meralco Payment",
		Amount:      decimal.RequireFromString("3245.50"),
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Category:    transaction.CategoryBills,
	})
	h.Record(transaction.CreateParams{
		Type:        transaction.TypeCredit,
		Description: "Salary Credit",
		Amount:      decimal.NewFromInt(35000),
		Date:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Category:    transaction.CategoryIncome,
	})
	h.Record(transaction.CreateParams{
		Type:        transaction.TypeDebit,
		Description: "MetroMood savings (happy)",
		Amount:      decimal.NewFromInt(500),
		Date:        time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
		Category:    transaction.CategorySavings,
	})

	return h
}

func TestHistory_RecordPrepends(t *testing.T) {
	h := seedHistory()

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "MetroMood savings (happy)", recent[0].Description)
	assert.Equal(t, "Salary Credit", recent[1].Description)
	assert.Len(t, h.Recent(0), 3)
}

func TestHistory_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name    string
		args    args
		wantLen int
	}

	start := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{name: "All", args: args{filter: transaction.ListFilter{}}, wantLen: 3},
		{name: "Debits", args: args{filter: transaction.ListFilter{Type: new(transaction.TypeDebit)}}, wantLen: 2},
		{name: "Savings", args: args{filter: transaction.ListFilter{Category: new(transaction.CategorySavings)}}, wantLen: 1},
		{name: "DateRange", args: args{filter: transaction.ListFilter{StartDate: &start, EndDate: &end}}, wantLen: 1},
		{name: "FromDate", args: args{filter: transaction.ListFilter{StartDate: &start}}, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, seedHistory().List(tt.args.filter), tt.wantLen)
		})
	}
}
