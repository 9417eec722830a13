package savings

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LockDays is the fixed maturity of every mood saving.
const LockDays = 7

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("saving not found")
	ErrLocked            = errors.New("saving is still locked")
)

// Record is a mood saving. LockedUntil is always CreatedAt plus LockDays.
type Record struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Mood        string          `json:"mood"`
	Emoji       string          `json:"emoji"`
	CreatedAt   time.Time       `json:"createdAt"`
	LockedUntil time.Time       `json:"lockedUntil"`
}

// LockedUntilFor returns the maturity of a saving created at t. Days are
// counted in UTC so the result survives a round trip through JSON offsets.
func LockedUntilFor(t time.Time) time.Time {
	return t.UTC().AddDate(0, 0, LockDays)
}

func (r Record) Locked(now time.Time) bool {
	return now.Before(r.LockedUntil)
}

// DaysLeft is the number of days, rounded up, until the saving unlocks.
func (r Record) DaysLeft(now time.Time) int {
	if !r.Locked(now) {
		return 0
	}

	return int(math.Ceil(r.LockedUntil.Sub(now).Hours() / 24))
}

// Validate checks the invariants a persisted record must hold.
func (r Record) Validate() error {
	switch {
	case r.ID == uuid.Nil:
		return errors.New("missing id")
	case r.Amount.IsNegative():
		return fmt.Errorf("negative amount %s", r.Amount)
	case r.CreatedAt.IsZero():
		return errors.New("missing createdAt")
	case !r.LockedUntil.Equal(LockedUntilFor(r.CreatedAt)):
		return fmt.Errorf("lockedUntil %s does not match createdAt %s",
			r.LockedUntil.Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339))
	}

	return nil
}

// ParseAmount parses user input into a positive amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmount)
	}

	return d, nil
}
