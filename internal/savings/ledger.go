package savings

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger holds the outstanding mood savings in creation order.
type Ledger struct {
	records []Record
}

func NewLedger(records []Record) *Ledger {
	return &Ledger{records: slices.Clone(records)}
}

type DepositParams struct {
	Amount decimal.Decimal
	Mood   string
	Emoji  string
}

// Deposit moves amount out of balance into a new locked saving. It returns the
// record and the balance after the debit.
func (l *Ledger) Deposit(params DepositParams, balance decimal.Decimal, now time.Time) (Record, decimal.Decimal, error) {
	if !params.Amount.IsPositive() {
		return Record{}, balance, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}

	if params.Amount.GreaterThan(balance) {
		return Record{}, balance, fmt.Errorf("%w: %s requested, %s available", ErrInsufficientFunds, params.Amount, balance)
	}

	rec := Record{
		ID:          uuid.New(),
		Amount:      params.Amount,
		Mood:        params.Mood,
		Emoji:       params.Emoji,
		CreatedAt:   now,
		LockedUntil: LockedUntilFor(now),
	}
	l.records = append(l.records, rec)

	return rec, balance.Sub(params.Amount), nil
}

// Release removes the saving and credits its amount back to balance. The lock
// is not re-checked here: callers that want to enforce maturity use Get first.
func (l *Ledger) Release(id uuid.UUID, balance decimal.Decimal) (Record, decimal.Decimal, error) {
	idx := slices.IndexFunc(l.records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return Record{}, balance, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rec := l.records[idx]
	l.records = slices.Delete(l.records, idx, idx+1)

	return rec, balance.Add(rec.Amount), nil
}

func (l *Ledger) Get(id uuid.UUID) (Record, error) {
	idx := slices.IndexFunc(l.records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return l.records[idx], nil
}

func (l *Ledger) Records() []Record {
	return slices.Clone(l.records)
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// Total sums every outstanding saving, locked or not.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range l.records {
		total = total.Add(r.Amount)
	}

	return total
}

// TotalLocked sums the savings that are still locked at now.
func (l *Ledger) TotalLocked(now time.Time) decimal.Decimal {
	total := decimal.Zero

	for _, r := range l.records {
		if r.Locked(now) {
			total = total.Add(r.Amount)
		}
	}

	return total
}

// EarliestUnlock returns the soonest maturity among locked savings.
func (l *Ledger) EarliestUnlock(now time.Time) (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)

	for _, r := range l.records {
		if !r.Locked(now) {
			continue
		}

		if !found || r.LockedUntil.Before(earliest) {
			earliest = r.LockedUntil
			found = true
		}
	}

	return earliest, found
}
