package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	apperrors "gigpay/internal/errors"
	"gigpay/internal/models"
	"gigpay/internal/repositories"
	"gigpay/internal/services/access"
	"gigpay/internal/services/transfer"
	"gigpay/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type MockProfileCache struct {
	mock.Mock
}

func (m *MockProfileCache) InvalidateProfiles(ctx context.Context, ids ...uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

// failingCredits refuses every positive adjustment, simulating a payee row
// that cannot be credited after the payer was already debited.
type failingCredits struct {
	repositories.AccountRepository
}

func (f failingCredits) ConditionallyAdjust(ctx context.Context, tx *gorm.DB, id uint, delta, floor int64) (int64, error) {
	if delta > 0 {
		return 0, nil
	}
	return f.AccountRepository.ConditionallyAdjust(ctx, tx, id, delta, floor)
}

func newService(db *gorm.DB, accounts transfer.AccountStore, cache transfer.ProfileCache) transfer.Service {
	jobs := repositories.NewJobRepository(db)
	if accounts == nil {
		accounts = repositories.NewAccountRepository(db)
	}
	deps := transfer.Dependencies{
		Guard:      access.NewGuard(jobs, repositories.NewContractRepository(db), nil),
		Accounts:   accounts,
		Jobs:       jobs,
		Ledger:     repositories.NewLedgerRepository(db),
		Transactor: repositories.NewTransactor(db),
	}
	if cache != nil {
		deps.Cache = cache
	}
	return transfer.NewService(deps, transfer.DefaultConfig())
}

type fixture struct {
	client     *models.Profile
	contractor *models.Profile
	job        *models.Job
}

func seed(t *testing.T, db *gorm.DB, clientBalance, contractorBalance, price int64) fixture {
	t.Helper()
	client := testutil.SeedProfile(t, db, "Client", clientBalance)
	contractor := testutil.SeedProfile(t, db, "Contractor", contractorBalance)
	contract := testutil.SeedContract(t, db, client.ID, contractor.ID)
	job := testutil.SeedJob(t, db, contract.ID, price)
	return fixture{client: client, contractor: contractor, job: job}
}

func TestPayJob_Success(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 100, 0, 100)

	cache := new(MockProfileCache)
	cache.On("InvalidateProfiles", mock.Anything, []uint{f.client.ID, f.contractor.ID}).Return(nil).Once()
	svc := newService(db, nil, cache)

	job, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	require.NoError(t, err)
	assert.True(t, job.Paid)
	require.NotNil(t, job.PaymentDate)
	assert.Equal(t, int64(100), job.Price)

	assert.Equal(t, int64(0), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(100), testutil.Balance(t, db, f.contractor.ID))
	stored := testutil.Job(t, db, f.job.ID)
	assert.True(t, stored.Paid)
	assert.NotNil(t, stored.PaymentDate)

	entries, err := repositories.NewLedgerRepository(db).ListByProfile(context.Background(), nil, f.client.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryKindJobPayment, entries[0].Kind)
	assert.Equal(t, int64(100), entries[0].Amount)
	assert.Equal(t, f.contractor.ID, entries[0].PayeeID)

	_, err = svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, int64(0), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(100), testutil.Balance(t, db, f.contractor.ID))

	cache.AssertExpectations(t)
}

func TestPayJob_InsufficientFunds(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 50, 0, 100)
	svc := newService(db, nil, nil)

	_, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	assert.Equal(t, int64(50), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(0), testutil.Balance(t, db, f.contractor.ID))
	assert.False(t, testutil.Job(t, db, f.job.ID).Paid)
}

func TestPayJob_NotPayableByCaller(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 500, 0, 100)
	stranger := testutil.SeedProfile(t, db, "Stranger", 500)
	svc := newService(db, nil, nil)

	tests := []struct {
		name     string
		callerID uint
		jobID    uint
	}{
		{name: "contractor cannot pay", callerID: f.contractor.ID, jobID: f.job.ID},
		{name: "unrelated profile cannot pay", callerID: stranger.ID, jobID: f.job.ID},
		{name: "unknown job", callerID: f.client.ID, jobID: f.job.ID + 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PayJob(context.Background(), tt.callerID, tt.jobID)
			require.ErrorIs(t, err, apperrors.ErrNotFound)
			assert.Equal(t, "not found", err.Error())
		})
	}

	assert.Equal(t, int64(500), testutil.Balance(t, db, f.client.ID))
	assert.False(t, testutil.Job(t, db, f.job.ID).Paid)
}

func TestPayJob_ZeroPrice(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 0, 7, 0)
	svc := newService(db, nil, nil)

	job, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	require.NoError(t, err)
	assert.True(t, job.Paid)
	assert.Equal(t, int64(0), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(7), testutil.Balance(t, db, f.contractor.ID))
}

func TestPayJob_ConservesTotalBalance(t *testing.T) {
	db := testutil.DB(t)
	client := testutil.SeedProfile(t, db, "Client", 1000)
	a := testutil.SeedProfile(t, db, "A", 10)
	b := testutil.SeedProfile(t, db, "B", 20)
	ca := testutil.SeedContract(t, db, client.ID, a.ID)
	cb := testutil.SeedContract(t, db, client.ID, b.ID)
	jobs := []*models.Job{
		testutil.SeedJob(t, db, ca.ID, 300),
		testutil.SeedJob(t, db, cb.ID, 450),
		testutil.SeedJob(t, db, ca.ID, 400),
	}
	svc := newService(db, nil, nil)

	total := func() int64 {
		return testutil.Balance(t, db, client.ID) + testutil.Balance(t, db, a.ID) + testutil.Balance(t, db, b.ID)
	}
	before := total()

	for _, j := range jobs {
		_, _ = svc.PayJob(context.Background(), client.ID, j.ID)
		assert.Equal(t, before, total())
	}

	// The third job no longer fits the remaining 250.
	assert.Equal(t, int64(250), testutil.Balance(t, db, client.ID))
	assert.Equal(t, int64(310), testutil.Balance(t, db, a.ID))
	assert.Equal(t, int64(470), testutil.Balance(t, db, b.ID))
	assert.False(t, testutil.Job(t, db, jobs[2].ID).Paid)
}

func TestPayJob_ConcurrentCallsPayOnce(t *testing.T) {
	db := testutil.DB(t)
	assertPaysOnce(t, db, 10)
}

func TestPayJob_ConcurrentCallsPayOncePostgres(t *testing.T) {
	db := testutil.PostgresDB(t)
	assertPaysOnce(t, db, 16)
}

func assertPaysOnce(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	f := seed(t, db, 1000, 0, 100)
	svc := newService(db, nil, nil)

	var (
		mu        sync.Mutex
		successes int
		notFound  int
		other     []error
	)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperrors.ErrNotFound):
				notFound++
			default:
				other = append(other, err)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Empty(t, other)
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, notFound)
	assert.Equal(t, int64(900), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(100), testutil.Balance(t, db, f.contractor.ID))
	assert.True(t, testutil.Job(t, db, f.job.ID).Paid)
}

func TestPayJob_FailedCreditRollsBackDebit(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 100, 0, 100)
	svc := newService(db, failingCredits{repositories.NewAccountRepository(db)}, nil)

	_, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	require.ErrorIs(t, err, apperrors.ErrTransferFailed)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.Equal(t, apperrors.ErrTransferFailed.Message, err.Error())

	assert.Equal(t, int64(100), testutil.Balance(t, db, f.client.ID))
	assert.Equal(t, int64(0), testutil.Balance(t, db, f.contractor.ID))
	assert.False(t, testutil.Job(t, db, f.job.ID).Paid)

	entries, err := repositories.NewLedgerRepository(db).ListByProfile(context.Background(), nil, f.client.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPayJob_CacheFailureDoesNotFailPayment(t *testing.T) {
	db := testutil.DB(t)
	f := seed(t, db, 100, 0, 40)

	cache := new(MockProfileCache)
	cache.On("InvalidateProfiles", mock.Anything, mock.Anything).Return(assert.AnError)
	svc := newService(db, nil, cache)

	_, err := svc.PayJob(context.Background(), f.client.ID, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), testutil.Balance(t, db, f.client.ID))
}
