package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/mood"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=state
type Repository interface {
	// Load returns ErrNoState when nothing is stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}

// Notifier schedules reminders for new savings.
type Notifier interface {
	SavingLocked(ctx context.Context, rec savings.Record) error
}

var (
	ErrNoState        = errors.New("no saved state")
	ErrBusy           = errors.New("operation already in progress")
	ErrInvalidProfile = errors.New("invalid profile")
)

// Op names a kind of mutation. At most one of each kind runs at a time.
type Op string

const (
	OpDeposit   Op = "deposit"
	OpRelease   Op = "release"
	OpLogPeriod Op = "log_period"
	OpImport    Op = "import_periods"
	OpSymptoms  Op = "symptoms"
	OpProfile   Op = "profile"
)

var ops = []Op{OpDeposit, OpRelease, OpLogPeriod, OpImport, OpSymptoms, OpProfile}

type Options struct {
	Key             string
	Cycle           cycle.Config
	ProcessingDelay time.Duration
	EnforceLock     bool
	Moods           *mood.Catalog
	Notifier        Notifier
	Now             func() time.Time
}

// Service owns the application state. Mutations are serialized and each one
// is persisted before it becomes visible.
type Service struct {
	repo     Repository
	opts     Options
	validate *validator.Validate

	mu    sync.RWMutex
	state *State

	guards map[Op]*semaphore.Weighted
}

// NewService loads the stored state, falling back to defaults when nothing
// has been saved yet.
func NewService(ctx context.Context, repo Repository, opts Options) (*Service, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}

	if opts.Moods == nil {
		opts.Moods = mood.Default()
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	opts.Cycle = opts.Cycle.WithDefaults()
	if err := opts.Cycle.Validate(); err != nil {
		return nil, err
	}

	st := Defaults(opts.Now(), opts.Cycle)

	blob, err := repo.Load(ctx, opts.Key)

	switch {
	case errors.Is(err, ErrNoState):
	case err != nil:
		return nil, fmt.Errorf("loading state: %w", err)
	default:
		if st, err = Decode(blob, st); err != nil {
			return nil, err
		}
	}

	guards := make(map[Op]*semaphore.Weighted, len(ops))
	for _, op := range ops {
		guards[op] = semaphore.NewWeighted(1)
	}

	return &Service{
		repo:     repo,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		state:    st,
		guards:   guards,
	}, nil
}

// run applies fn to a copy of the state, persists it and swaps it in. A second
// call for the same op while one is pending fails with ErrBusy.
func (s *Service) run(ctx context.Context, op Op, fn func(st *State, now time.Time) error) error {
	guard := s.guards[op]
	if !guard.TryAcquire(1) {
		return fmt.Errorf("%w: %s", ErrBusy, op)
	}
	defer guard.Release(1)

	if s.opts.ProcessingDelay > 0 {
		timer := time.NewTimer(s.opts.ProcessingDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next, s.opts.Now()); err != nil {
		return err
	}

	blob, err := Encode(next)
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, s.opts.Key, blob); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}

	s.state = next

	return nil
}

func (s *Service) read() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() *State {
	return s.read()
}

func (s *Service) Now() time.Time {
	return s.opts.Now()
}

type AccountView struct {
	Accounts Accounts
	Recent   []transaction.Transaction
}

func (s *Service) Account(recent int) AccountView {
	st := s.read()

	return AccountView{
		Accounts: st.Accounts,
		Recent:   transaction.NewHistory(st.Transactions).Recent(recent),
	}
}

func (s *Service) Transactions(filter transaction.ListFilter) []transaction.Transaction {
	return transaction.NewHistory(s.read().Transactions).List(filter)
}

func (s *Service) Payees() []Payee {
	return s.read().SavedAccounts
}

func (s *Service) Profile() (User, Settings) {
	st := s.read()
	return st.User, st.Settings
}

type ProfileParams struct {
	User     User
	Settings Settings
}

func (s *Service) UpdateProfile(ctx context.Context, params ProfileParams) error {
	if err := s.validate.Struct(params.User); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}

		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, strings.ToLower(fe.Field())+" "+fe.Tag())
		}

		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(fields, ", "))
	}

	return s.run(ctx, OpProfile, func(st *State, _ time.Time) error {
		st.User = params.User
		st.Settings = params.Settings

		return nil
	})
}

// Cycle summarizes the prediction and lock alert for now.
func (s *Service) Cycle() cycle.Summary {
	st := s.read()
	log := cycle.NewLog(st.Periods, st.LastPeriodStart)

	return cycle.Summarize(log, st.CycleConfig(), s.opts.Now())
}

// Calendar classifies every day of the month containing month.
func (s *Service) Calendar(month time.Time) cycle.Month {
	st := s.read()
	log := cycle.NewLog(st.Periods, st.LastPeriodStart)

	return cycle.BuildMonth(month, st.Periods, log.Predict(st.CycleConfig()), s.opts.Now())
}

func (s *Service) Periods() []cycle.PeriodRecord {
	return s.read().Periods
}

type LogPeriodParams struct {
	Start     time.Time
	End       time.Time
	Intensity cycle.Intensity
}

func (s *Service) LogPeriod(ctx context.Context, params LogPeriodParams) (cycle.PeriodRecord, error) {
	var rec cycle.PeriodRecord

	err := s.run(ctx, OpLogPeriod, func(st *State, _ time.Time) error {
		var err error

		rec, err = appendPeriods(st, []LogPeriodParams{params}, func(r cycle.PeriodRecord) {})
		return err
	})
	if err != nil {
		return cycle.PeriodRecord{}, err
	}

	return rec, nil
}

// ImportPeriods appends a batch of historical periods. Either every row is
// recorded or none is.
func (s *Service) ImportPeriods(ctx context.Context, params []LogPeriodParams) ([]cycle.PeriodRecord, error) {
	if len(params) == 0 {
		return nil, nil
	}

	var recs []cycle.PeriodRecord

	err := s.run(ctx, OpImport, func(st *State, _ time.Time) error {
		_, err := appendPeriods(st, params, func(r cycle.PeriodRecord) {
			recs = append(recs, r)
		})

		return err
	})
	if err != nil {
		return nil, err
	}

	return recs, nil
}

func appendPeriods(st *State, params []LogPeriodParams, each func(cycle.PeriodRecord)) (cycle.PeriodRecord, error) {
	log := cycle.NewLog(st.Periods, st.LastPeriodStart)

	var last cycle.PeriodRecord

	for i, p := range params {
		rec, err := log.Append(p.Start, p.End, p.Intensity)
		if err != nil {
			if len(params) > 1 {
				return cycle.PeriodRecord{}, fmt.Errorf("row %d: %w", i+1, err)
			}

			return cycle.PeriodRecord{}, err
		}

		each(rec)
		last = rec
	}

	st.Periods = log.Records()
	st.LastPeriodStart = log.Anchor()

	return last, nil
}

func (s *Service) Symptoms(n int) []symptom.Entry {
	return symptom.NewJournal(s.read().Symptoms).Recent(n)
}

func (s *Service) RecordSymptoms(ctx context.Context, symptoms []symptom.Symptom) (symptom.Entry, error) {
	var entry symptom.Entry

	err := s.run(ctx, OpSymptoms, func(st *State, now time.Time) error {
		j := symptom.NewJournal(st.Symptoms)

		var err error
		if entry, err = j.Record(now, symptoms); err != nil {
			return err
		}

		st.Symptoms = j.Days()

		return nil
	})
	if err != nil {
		return symptom.Entry{}, err
	}

	return entry, nil
}

func (s *Service) Moods() []mood.Mood {
	return s.opts.Moods.All()
}

func (s *Service) SuggestMood(tag string) mood.Mood {
	m, _ := s.opts.Moods.Suggest(tag)
	return m
}

type SavingView struct {
	savings.Record
	Locked   bool
	DaysLeft int
}

type SavingsView struct {
	Balance        decimal.Decimal
	Total          decimal.Decimal
	TotalLocked    decimal.Decimal
	EarliestUnlock *time.Time
	Records        []SavingView
}

// Savings evaluates every saving's lock against the current time.
func (s *Service) Savings() SavingsView {
	st := s.read()
	now := s.opts.Now()
	ledger := savings.NewLedger(st.MoodSavings)

	view := SavingsView{
		Balance:     st.Accounts.Savings.Balance,
		Total:       ledger.Total(),
		TotalLocked: ledger.TotalLocked(now),
		Records:     make([]SavingView, 0, ledger.Len()),
	}

	if earliest, ok := ledger.EarliestUnlock(now); ok {
		view.EarliestUnlock = &earliest
	}

	for _, r := range ledger.Records() {
		view.Records = append(view.Records, SavingView{
			Record:   r,
			Locked:   r.Locked(now),
			DaysLeft: r.DaysLeft(now),
		})
	}

	return view
}

type DepositParams struct {
	Amount decimal.Decimal
	Mood   string
}

// Deposit locks amount from the savings balance for savings.LockDays days.
func (s *Service) Deposit(ctx context.Context, params DepositParams) (savings.Record, error) {
	m, _ := s.opts.Moods.Suggest(params.Mood)

	var (
		rec    savings.Record
		notify bool
	)

	err := s.run(ctx, OpDeposit, func(st *State, now time.Time) error {
		ledger := savings.NewLedger(st.MoodSavings)

		r, balance, err := ledger.Deposit(savings.DepositParams{
			Amount: params.Amount,
			Mood:   m.Tag,
			Emoji:  m.Emoji,
		}, st.Accounts.Savings.Balance, now)
		if err != nil {
			return err
		}

		history := transaction.NewHistory(st.Transactions)
		history.Record(transaction.CreateParams{
			Type:        transaction.TypeDebit,
			Description: fmt.Sprintf("MetroMood savings (%s)", r.Mood),
			Amount:      r.Amount,
			Date:        now,
			Category:    transaction.CategorySavings,
		})

		st.MoodSavings = ledger.Records()
		st.Accounts.Savings.Balance = balance
		st.Transactions = history.All()

		rec = r
		notify = st.Settings.Notifications

		return nil
	})
	if err != nil {
		return savings.Record{}, err
	}

	if notify && s.opts.Notifier != nil {
		if err := s.opts.Notifier.SavingLocked(ctx, rec); err != nil {
			slog.Warn("failed to schedule maturity reminder", "saving_id", rec.ID, "error", err)
		}
	}

	return rec, nil
}

// Release returns a saving to the savings balance and reports the balance it
// produced. Maturity is only enforced when the service was configured with
// EnforceLock.
func (s *Service) Release(ctx context.Context, id uuid.UUID) (savings.Record, decimal.Decimal, error) {
	var (
		rec        savings.Record
		newBalance decimal.Decimal
	)

	err := s.run(ctx, OpRelease, func(st *State, now time.Time) error {
		ledger := savings.NewLedger(st.MoodSavings)

		if s.opts.EnforceLock {
			r, err := ledger.Get(id)
			if err != nil {
				return err
			}

			if r.Locked(now) {
				return fmt.Errorf("%w: unlocks %s", savings.ErrLocked, r.LockedUntil.Format(time.DateOnly))
			}
		}

		r, balance, err := ledger.Release(id, st.Accounts.Savings.Balance)
		if err != nil {
			return err
		}

		history := transaction.NewHistory(st.Transactions)
		history.Record(transaction.CreateParams{
			Type:        transaction.TypeCredit,
			Description: fmt.Sprintf("MetroMood release (%s)", r.Mood),
			Amount:      r.Amount,
			Date:        now,
			Category:    transaction.CategorySavings,
		})

		st.MoodSavings = ledger.Records()
		st.Accounts.Savings.Balance = balance
		st.Transactions = history.All()

		rec = r
		newBalance = balance

		return nil
	})
	if err != nil {
		return savings.Record{}, decimal.Zero, err
	}

	return rec, newBalance, nil
}
