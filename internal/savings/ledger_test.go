package savings_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/metromood/internal/savings"
)

var now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func TestLedger_Deposit(t *testing.T) {
	type args struct {
		amount  decimal.Decimal
		balance decimal.Decimal
	}

	type testCase struct {
		name        string
		args        args
		wantErr     error
		wantBalance string
	}

	tests := []testCase{
		{
			name:        "Success",
			args:        args{amount: decimal.NewFromInt(100), balance: decimal.NewFromInt(500)},
			wantBalance: "400",
		},
		{
			name:        "WholeBalance",
			args:        args{amount: decimal.RequireFromString("125450.75"), balance: decimal.RequireFromString("125450.75")},
			wantBalance: "0",
		},
		{
			name:        "NegativeAmount",
			args:        args{amount: decimal.NewFromInt(-5), balance: decimal.NewFromInt(500)},
			wantErr:     savings.ErrInvalidAmount,
			wantBalance: "500",
		},
		{
			name:        "ZeroAmount",
			args:        args{amount: decimal.Zero, balance: decimal.NewFromInt(500)},
			wantErr:     savings.ErrInvalidAmount,
			wantBalance: "500",
		},
		{
			name:        "InsufficientFunds",
			args:        args{amount: decimal.NewFromInt(1000), balance: decimal.NewFromInt(500)},
			wantErr:     savings.ErrInsufficientFunds,
			wantBalance: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := savings.NewLedger(nil)

			rec, balance, err := l.Deposit(savings.DepositParams{
				Amount: tt.args.amount,
				Mood:   "happy",
				Emoji:  "😊",
			}, tt.args.balance, now)

			assert.Equal(t, tt.wantBalance, balance.String())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, l.Len())

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, rec.ID)
			assert.Equal(t, now, rec.CreatedAt)
			assert.Equal(t, now.AddDate(0, 0, 7), rec.LockedUntil)
			assert.True(t, rec.Locked(now))
			assert.NoError(t, rec.Validate())
			assert.Equal(t, 1, l.Len())
		})
	}
}

func TestLedger_DepositThenRelease(t *testing.T) {
	l := savings.NewLedger(nil)
	before := l.Len()

	rec, balance, err := l.Deposit(savings.DepositParams{Amount: decimal.NewFromInt(100), Mood: "happy"}, decimal.NewFromInt(500), now)
	require.NoError(t, err)
	assert.Equal(t, "400", balance.String())

	released, balance, err := l.Release(rec.ID, balance)
	require.NoError(t, err)

	assert.Equal(t, rec, released)
	assert.Equal(t, "500", balance.String())
	assert.Equal(t, before, l.Len())

	_, err = l.Get(rec.ID)
	assert.ErrorIs(t, err, savings.ErrNotFound)
}

func TestLedger_ReleaseUnknown(t *testing.T) {
	l := savings.NewLedger(nil)

	_, balance, err := l.Release(uuid.New(), decimal.NewFromInt(500))

	require.ErrorIs(t, err, savings.ErrNotFound)
	assert.Equal(t, "500", balance.String())
}

func TestLedger_TotalsAndEarliestUnlock(t *testing.T) {
	mk := func(amount int64, lockedUntil time.Time) savings.Record {
		return savings.Record{
			ID:          uuid.New(),
			Amount:      decimal.NewFromInt(amount),
			Mood:        "calm",
			CreatedAt:   lockedUntil.AddDate(0, 0, -7),
			LockedUntil: lockedUntil,
		}
	}

	l := savings.NewLedger([]savings.Record{
		mk(100, now.AddDate(0, 0, -1)),
		mk(200, now.AddDate(0, 0, 10)),
		mk(300, now.AddDate(0, 0, 1)),
	})

	assert.Equal(t, "500", l.TotalLocked(now).String())
	assert.Equal(t, "600", l.Total().String())

	earliest, ok := l.EarliestUnlock(now)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, 1), earliest)

	_, ok = l.EarliestUnlock(now.AddDate(0, 0, 30))
	assert.False(t, ok)
	assert.True(t, l.TotalLocked(now.AddDate(0, 0, 30)).IsZero())
}

func TestRecord_DaysLeft(t *testing.T) {
	rec := savings.Record{CreatedAt: now, LockedUntil: savings.LockedUntilFor(now)}

	assert.Equal(t, 7, rec.DaysLeft(now))
	assert.Equal(t, 7, rec.DaysLeft(now.Add(time.Hour)))
	assert.Equal(t, 1, rec.DaysLeft(rec.LockedUntil.Add(-time.Minute)))
	assert.Equal(t, 0, rec.DaysLeft(rec.LockedUntil))
	assert.False(t, rec.Locked(rec.LockedUntil))
}

func TestRecord_Validate(t *testing.T) {
	valid := savings.Record{
		ID:          uuid.New(),
		Amount:      decimal.NewFromInt(10),
		CreatedAt:   now,
		LockedUntil: savings.LockedUntilFor(now),
	}
	require.NoError(t, valid.Validate())

	noID := valid
	noID.ID = uuid.Nil
	assert.Error(t, noID.Validate())

	negative := valid
	negative.Amount = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())

	broken := valid
	broken.LockedUntil = now.AddDate(0, 0, 3)
	assert.Error(t, broken.Validate())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "100", want: "100"},
		{in: " 12.50 ", want: "12.5"},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := savings.ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, savings.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
