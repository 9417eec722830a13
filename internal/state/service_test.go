package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/metromood/internal/cycle"
	"github.com/MrJamesThe3rd/metromood/internal/savings"
	"github.com/MrJamesThe3rd/metromood/internal/state"
	"github.com/MrJamesThe3rd/metromood/internal/symptom"
	"github.com/MrJamesThe3rd/metromood/internal/transaction"
)

func newService(t *testing.T, repo *state.MockRepository, opts state.Options) *state.Service {
	t.Helper()

	repo.EXPECT().Load(gomock.Any(), state.DefaultKey).Return(nil, state.ErrNoState)

	if opts.Now == nil {
		opts.Now = func() time.Time { return now }
	}

	svc, err := state.NewService(context.Background(), repo, opts)
	require.NoError(t, err)

	return svc
}

func TestNewService(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *state.MockRepository)
		wantErr   error
		check     func(t *testing.T, svc *state.Service)
	}

	tests := []testCase{
		{
			name: "FreshInstallUsesDefaults",
			setupMock: func(m *state.MockRepository) {
				m.EXPECT().Load(gomock.Any(), state.DefaultKey).Return(nil, state.ErrNoState)
			},
			check: func(t *testing.T, svc *state.Service) {
				assert.Equal(t, "125450.75", svc.Snapshot().Accounts.Savings.Balance.String())
			},
		},
		{
			name: "LoadsStoredBlob",
			setupMock: func(m *state.MockRepository) {
				m.EXPECT().Load(gomock.Any(), state.DefaultKey).Return([]byte(`{"user":{"name":"Ana","email":"ana@example.com","phone":"1"}}`), nil)
			},
			check: func(t *testing.T, svc *state.Service) {
				u, _ := svc.Profile()
				assert.Equal(t, "Ana", u.Name)
			},
		},
		{
			name: "CorruptBlob",
			setupMock: func(m *state.MockRepository) {
				m.EXPECT().Load(gomock.Any(), state.DefaultKey).Return([]byte(`not json`), nil)
			},
			wantErr: state.ErrCorrupt,
		},
		{
			name: "RepoError",
			setupMock: func(m *state.MockRepository) {
				m.EXPECT().Load(gomock.Any(), state.DefaultKey).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := state.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc, err := state.NewService(context.Background(), repo, state.Options{Now: func() time.Time { return now }})

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, state.ErrCorrupt) {
					assert.ErrorIs(t, err, state.ErrCorrupt)
				}

				return
			}

			require.NoError(t, err)
			tt.check(t, svc)
		})
	}
}

func TestService_Deposit(t *testing.T) {
	type args struct {
		amount string
		mood   string
	}

	type testCase struct {
		name        string
		args        args
		saveErr     error
		wantSave    bool
		wantErr     error
		wantBalance string
		wantMood    string
	}

	tests := []testCase{
		{
			name:        "Success",
			args:        args{amount: "1000", mood: "excited"},
			wantSave:    true,
			wantBalance: "124450.75",
			wantMood:    "excited",
		},
		{
			name:        "UnknownMoodFallsBack",
			args:        args{amount: "50", mood: "bored"},
			wantSave:    true,
			wantBalance: "125400.75",
			wantMood:    "happy",
		},
		{
			name:        "Insufficient",
			args:        args{amount: "200000"},
			wantErr:     savings.ErrInsufficientFunds,
			wantBalance: "125450.75",
		},
		{
			name:        "Zero",
			args:        args{amount: "0"},
			wantErr:     savings.ErrInvalidAmount,
			wantBalance: "125450.75",
		},
		{
			name:        "SaveFailsLeavesStateUntouched",
			args:        args{amount: "1000"},
			saveErr:     errors.New("disk full"),
			wantSave:    true,
			wantErr:     errors.New("disk full"),
			wantBalance: "125450.75",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := state.NewMockRepository(ctrl)
			svc := newService(t, repo, state.Options{})

			if tt.wantSave {
				repo.EXPECT().Save(gomock.Any(), state.DefaultKey, gomock.Any()).Return(tt.saveErr)
			}

			rec, err := svc.Deposit(context.Background(), state.DepositParams{
				Amount: decimal.RequireFromString(tt.args.amount),
				Mood:   tt.args.mood,
			})

			snap := svc.Snapshot()
			assert.Equal(t, tt.wantBalance, snap.Accounts.Savings.Balance.String())

			if tt.wantErr != nil {
				require.Error(t, err)

				if tt.saveErr == nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.Empty(t, snap.MoodSavings)
				assert.Len(t, snap.Transactions, 8)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantMood, rec.Mood)
			assert.Equal(t, now.AddDate(0, 0, savings.LockDays), rec.LockedUntil)

			require.Len(t, snap.MoodSavings, 1)
			assert.Equal(t, rec.ID, snap.MoodSavings[0].ID)

			require.Len(t, snap.Transactions, 9)
			assert.Equal(t, transaction.TypeDebit, snap.Transactions[0].Type)
			assert.Equal(t, transaction.CategorySavings, snap.Transactions[0].Category)
			assert.True(t, rec.Amount.Equal(snap.Transactions[0].Amount))
		})
	}
}

func TestService_DepositPersistsDecodableState(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{})

	var saved []byte

	repo.EXPECT().
		Save(gomock.Any(), state.DefaultKey, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, blob []byte) error {
			saved = blob
			return nil
		})

	rec, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(500), Mood: "calm"})
	require.NoError(t, err)

	got, err := state.Decode(saved, state.Defaults(now, cycle.DefaultConfig()))
	require.NoError(t, err)
	require.Len(t, got.MoodSavings, 1)
	assert.Equal(t, rec.ID, got.MoodSavings[0].ID)
	assert.Equal(t, "124950.75", got.Accounts.Savings.Balance.String())
}

func TestService_DepositNotifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	notifier := state.NewMockNotifier(ctrl)
	svc := newService(t, repo, state.Options{Notifier: notifier})

	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	notifier.EXPECT().SavingLocked(gomock.Any(), gomock.Any()).Return(errors.New("queue down"))

	_, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(10)})
	assert.NoError(t, err)
}

func TestService_Release(t *testing.T) {
	type testCase struct {
		name        string
		enforce     bool
		after       time.Duration
		unknown     bool
		wantErr     error
		wantBalance string
	}

	tests := []testCase{
		{name: "OverrideWhileLocked", wantBalance: "125450.75"},
		{name: "EnforcedWhileLocked", enforce: true, wantErr: savings.ErrLocked, wantBalance: "125350.75"},
		{name: "EnforcedAfterMaturity", enforce: true, after: 7 * 24 * time.Hour, wantBalance: "125450.75"},
		{name: "Unknown", unknown: true, wantErr: savings.ErrNotFound, wantBalance: "125350.75"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := state.NewMockRepository(ctrl)

			clock := now
			svc := newService(t, repo, state.Options{
				EnforceLock: tt.enforce,
				Now:         func() time.Time { return clock },
			})

			repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			rec, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(100)})
			require.NoError(t, err)

			clock = now.Add(tt.after)

			id := rec.ID
			if tt.unknown {
				id = uuid.New()
			}

			if tt.wantErr == nil {
				repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			released, balance, err := svc.Release(context.Background(), id)

			snap := svc.Snapshot()
			assert.Equal(t, tt.wantBalance, snap.Accounts.Savings.Balance.String())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, snap.MoodSavings, 1)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, rec.ID, released.ID)
			assert.Equal(t, tt.wantBalance, balance.String())
			assert.Empty(t, snap.MoodSavings)
			assert.Equal(t, transaction.TypeCredit, snap.Transactions[0].Type)
		})
	}
}

func TestService_Savings(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)

	clock := now
	svc := newService(t, repo, state.Options{Now: func() time.Time { return clock }})

	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	clock = now.AddDate(0, 0, 3)
	_, err = svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	clock = now.AddDate(0, 0, 8)
	view := svc.Savings()

	assert.Equal(t, "150", view.Total.String())
	assert.Equal(t, "50", view.TotalLocked.String())
	require.NotNil(t, view.EarliestUnlock)
	assert.Equal(t, now.AddDate(0, 0, 10), *view.EarliestUnlock)
	require.Len(t, view.Records, 2)
	assert.False(t, view.Records[0].Locked)
	assert.True(t, view.Records[1].Locked)
	assert.Equal(t, 2, view.Records[1].DaysLeft)
}

func TestService_Busy(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{})

	entered := make(chan struct{})
	unblock := make(chan struct{})

	repo.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, []byte) error {
			close(entered)
			<-unblock

			return nil
		})

	done := make(chan error, 1)

	go func() {
		_, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(100)})
		done <- err
	}()

	<-entered

	_, err := svc.Deposit(context.Background(), state.DepositParams{Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, state.ErrBusy)

	close(unblock)
	require.NoError(t, <-done)

	assert.Len(t, svc.Snapshot().MoodSavings, 1)
}

func TestService_DelayCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{ProcessingDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Deposit(ctx, state.DepositParams{Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, svc.Snapshot().MoodSavings)
}

func TestService_LogPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{})

	summary := svc.Cycle()
	assert.Equal(t, time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), summary.NextPeriod.Start)
	assert.True(t, summary.Alert.Active)
	assert.Equal(t, 4, summary.Alert.DaysUntilStart)

	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	rec, err := svc.LogPeriod(context.Background(), state.LogPeriodParams{
		Start: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, cycle.IntensityMedium, rec.Intensity)

	summary = svc.Cycle()
	assert.Equal(t, time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC), summary.NextPeriod.Start)
	assert.False(t, summary.Alert.Active)
	assert.Equal(t, rec.Start, svc.Snapshot().LastPeriodStart)

	_, err = svc.LogPeriod(context.Background(), state.LogPeriodParams{
		Start: time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, cycle.ErrValidation)
	assert.Len(t, svc.Periods(), 1)
}

func TestService_ImportPeriodsIsAtomic(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{})

	_, err := svc.ImportPeriods(context.Background(), []state.LogPeriodParams{
		{Start: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC)},
		{Start: time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC)},
	})
	require.ErrorIs(t, err, cycle.ErrValidation)
	assert.Contains(t, err.Error(), "row 2")
	assert.Empty(t, svc.Periods())

	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	recs, err := svc.ImportPeriods(context.Background(), []state.LogPeriodParams{
		{Start: time.Date(2023, 11, 3, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 11, 7, 0, 0, 0, 0, time.UTC)},
		{Start: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Len(t, svc.Periods(), 2)
}

func TestService_RecordSymptoms(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := state.NewMockRepository(ctrl)
	svc := newService(t, repo, state.Options{})

	_, err := svc.RecordSymptoms(context.Background(), nil)
	assert.ErrorIs(t, err, symptom.ErrNoSymptoms)

	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	entry, err := svc.RecordSymptoms(context.Background(), []symptom.Symptom{symptom.Cramps, symptom.Fatigue})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-25", entry.Date)

	recent := svc.Symptoms(symptom.DefaultRecentLimit)
	require.Len(t, recent, 1)
	assert.Equal(t, entry, recent[0])
}

func TestService_UpdateProfile(t *testing.T) {
	type testCase struct {
		name    string
		user    state.User
		wantErr bool
	}

	tests := []testCase{
		{name: "Success", user: state.User{Name: "Ana", Email: "ana@example.com", Phone: "+63 900"}},
		{name: "BadEmail", user: state.User{Name: "Ana", Email: "ana", Phone: "+63 900"}, wantErr: true},
		{name: "MissingName", user: state.User{Email: "ana@example.com", Phone: "+63 900"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := state.NewMockRepository(ctrl)
			svc := newService(t, repo, state.Options{})

			if !tt.wantErr {
				repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			err := svc.UpdateProfile(context.Background(), state.ProfileParams{
				User:     tt.user,
				Settings: state.Settings{Biometrics: true},
			})

			u, settings := svc.Profile()

			if tt.wantErr {
				assert.ErrorIs(t, err, state.ErrInvalidProfile)
				assert.Equal(t, "Juan Dela Cruz", u.Name)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.user, u)
			assert.True(t, settings.Biometrics)
		})
	}
}
