// Package balance implements client deposits, capped relative to the jobs
// the client still has to pay for.
package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "gigpay/internal/errors"
	"gigpay/internal/logger"
	"gigpay/internal/models"
	"gigpay/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const operationDeposit = "deposit"

type AccountStore interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Profile, error)
	ConditionallyAdjust(ctx context.Context, tx *gorm.DB, id uint, delta, floor int64) (int64, error)
}

type OutstandingJobs interface {
	OutstandingTotal(ctx context.Context, tx *gorm.DB, clientID uint) (int64, error)
}

type Ledger interface {
	Record(ctx context.Context, tx *gorm.DB, entry *models.LedgerEntry) error
}

type Transactor interface {
	Serializable(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ProfileCache interface {
	InvalidateProfiles(ctx context.Context, ids ...uint) error
}

type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordOperationResult(operation, result string)
	RecordTransactionVolume(kind string, amount int64)
}

// Service credits a profile's own balance.
type Service interface {
	Deposit(ctx context.Context, callerID, targetID uint, amount int64) (*models.Profile, error)
}

type Dependencies struct {
	Accounts   AccountStore
	Jobs       OutstandingJobs
	Ledger     Ledger
	Transactor Transactor
	Cache      ProfileCache
	Metrics    MetricsCollector
	Logger     *logger.Logger
}

type service struct {
	accounts AccountStore
	jobs     OutstandingJobs
	ledger   Ledger
	tx       Transactor
	cache    ProfileCache
	metrics  MetricsCollector
	log      *logger.Logger
	timeout  time.Duration
}

// NewService creates a deposit service. timeout bounds the deposit
// transaction; zero means five seconds.
func NewService(deps Dependencies, timeout time.Duration) Service {
	if deps.Accounts == nil || deps.Jobs == nil || deps.Ledger == nil || deps.Transactor == nil {
		panic("balance: accounts, jobs, ledger and transactor are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &service{
		accounts: deps.Accounts,
		jobs:     deps.Jobs,
		ledger:   deps.Ledger,
		tx:       deps.Transactor,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		log:      deps.Logger.With("component", "deposit"),
		timeout:  timeout,
	}
}

// DepositLimit is the largest amount a client with the given outstanding
// total may deposit: a quarter of it, rounded down.
func DepositLimit(outstanding int64) int64 {
	return outstanding / 4
}

// formatLimit renders outstanding/4 exactly, with two decimals and no
// floating point.
func formatLimit(outstanding int64) string {
	return fmt.Sprintf("%d.%02d", outstanding/4, (outstanding%4)*25)
}

func (s *service) Deposit(ctx context.Context, callerID, targetID uint, amount int64) (*models.Profile, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(operationDeposit, time.Since(start))
	}()

	profile, err := s.deposit(ctx, callerID, targetID, amount)
	if err != nil {
		s.metrics.RecordOperationResult(operationDeposit, resultLabel(err))
		return nil, err
	}
	s.metrics.RecordOperationResult(operationDeposit, "success")
	s.metrics.RecordTransactionVolume(models.EntryKindDeposit, amount)
	return profile, nil
}

func (s *service) deposit(ctx context.Context, callerID, targetID uint, amount int64) (*models.Profile, error) {
	if callerID != targetID {
		s.log.Warn("cross-account deposit refused", "caller_id", callerID, "target_id", targetID)
		return nil, apperrors.ErrForbidden
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var updated *models.Profile
	err := s.tx.Serializable(txCtx, func(tx *gorm.DB) error {
		outstanding, err := s.jobs.OutstandingTotal(txCtx, tx, targetID)
		if err != nil {
			return err
		}
		if amount > DepositLimit(outstanding) {
			return apperrors.ErrDepositLimitExceeded.
				Withf("deposit exceeds 25%% of outstanding jobs to pay (max %s)", formatLimit(outstanding)).
				Wrap(fmt.Errorf("amount %d, outstanding %d", amount, outstanding))
		}

		rows, err := s.accounts.ConditionallyAdjust(txCtx, tx, targetID, amount, 0)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperrors.ErrIntegrity.Wrap(fmt.Errorf("credit of %d to profile %d modified no rows", amount, targetID))
		}

		if err := s.ledger.Record(txCtx, tx, &models.LedgerEntry{
			Reference: uuid.NewString(),
			Kind:      models.EntryKindDeposit,
			PayeeID:   targetID,
			Amount:    amount,
		}); err != nil {
			return err
		}

		updated, err = s.accounts.GetByID(txCtx, tx, targetID)
		return err
	})
	if err != nil {
		return nil, s.failure(targetID, amount, err)
	}

	s.log.Info("deposit credited", "profile_id", targetID, "amount", amount, "balance", updated.Balance)
	if s.cache != nil {
		if err := s.cache.InvalidateProfiles(ctx, targetID); err != nil {
			s.log.Warn("failed to invalidate cached profile", "profile_id", targetID, "error", err.Error())
		}
	}
	return updated, nil
}

func (s *service) failure(targetID uint, amount int64, err error) error {
	if errors.Is(err, apperrors.ErrDepositLimitExceeded) {
		s.log.Warn("deposit refused", "profile_id", targetID, "reason", apperrors.Cause(err))
		return err
	}
	if errors.Is(err, repositories.ErrAccountNotFound) {
		err = apperrors.ErrIntegrity.Wrap(err)
	}
	s.log.Error("deposit failed",
		"profile_id", targetID,
		"amount", amount,
		"error", err.Error(),
		"cause", apperrors.Cause(err),
		"serialization_failure", repositories.IsSerializationFailure(err),
	)
	return apperrors.ErrTransferFailed.Wrap(err)
}

func resultLabel(err error) string {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return strings.ToLower(de.Code)
	}
	return "error"
}

type noopMetrics struct{}

func (noopMetrics) RecordOperationDuration(string, time.Duration) {}
func (noopMetrics) RecordOperationResult(string, string)          {}
func (noopMetrics) RecordTransactionVolume(string, int64)         {}
