package transfer

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

type service struct {
	guard    Guard
	accounts AccountStore
	jobs     JobStore
	ledger   Ledger
	tx       Transactor
	cache    ProfileCache
	metrics  MetricsCollector
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// Dependencies groups the collaborators of the transfer engine. Cache,
// Metrics and Logger are optional.
type Dependencies struct {
	Guard      Guard
	Accounts   AccountStore
	Jobs       JobStore
	Ledger     Ledger
	Transactor Transactor
	Cache      ProfileCache
	Metrics    MetricsCollector
	Logger     *logger.Logger
}

// NewService creates a new transfer service instance.
func NewService(deps Dependencies, cfg Config) Service {
	if deps.Guard == nil {
		panic("guard is required")
	}
	if deps.Accounts == nil {
		panic("account store is required")
	}
	if deps.Jobs == nil {
		panic("job store is required")
	}
	if deps.Ledger == nil {
		panic("ledger is required")
	}
	if deps.Transactor == nil {
		panic("transactor is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = &NoopMetricsCollector{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	return &service{
		guard:    deps.Guard,
		accounts: deps.Accounts,
		jobs:     deps.Jobs,
		ledger:   deps.Ledger,
		tx:       deps.Transactor,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		log:      deps.Logger.With("component", "transfer"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// payment is one attempt at paying a job.
type payment struct {
	stage    Stage
	callerID uint
	job      *models.Job
	contract *models.Contract
	paidAt   time.Time
}

func (p *payment) advance(next Stage) {
	p.stage = next
}

// PayJob moves the job's price from the contract's client to its contractor
// and marks the job paid, all in one serializable transaction.
func (s *service) PayJob(ctx context.Context, callerID, jobID uint) (*models.Job, error) {
	start := s.now()
	defer func() {
		s.metrics.RecordOperationDuration(operationPayJob, time.Since(start))
	}()

	job, err := s.payJob(ctx, callerID, jobID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			err = s.reconcile(ctx, callerID, jobID, err)
		}
		s.metrics.RecordOperationResult(operationPayJob, resultLabel(err))
		return nil, err
	}

	s.metrics.RecordOperationResult(operationPayJob, "success")
	s.metrics.RecordTransactionVolume(models.EntryKindJobPayment, job.Price)
	return job, nil
}

func (s *service) payJob(ctx context.Context, callerID, jobID uint) (*models.Job, error) {
	job, contract, err := s.guard.ResolvePayableJob(ctx, callerID, jobID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, s.storageFailure(StagePreCheck, jobID, err)
	}

	p := &payment{stage: StagePreCheck, callerID: callerID, job: job, contract: contract}
	if err := s.preCheck(ctx, p); err != nil {
		return nil, s.abort(p, err)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	p.paidAt = s.now().UTC()
	err = s.tx.Serializable(txCtx, func(tx *gorm.DB) error {
		return s.apply(txCtx, tx, p)
	})
	if err != nil {
		return nil, s.abort(p, err)
	}
	p.advance(StageCommitted)

	s.log.Info("job paid",
		"job_id", job.ID,
		"payer_id", contract.ClientID,
		"payee_id", contract.ContractorID,
		"amount", job.Price,
	)
	s.invalidate(ctx, contract.ClientID, contract.ContractorID)

	paid := *job
	paid.Paid = true
	paidAt := p.paidAt
	paid.PaymentDate = &paidAt
	paid.UpdatedAt = paidAt
	return &paid, nil
}

// preCheck rejects obviously unaffordable payments before a transaction is
// opened. The conditional debit is still the authoritative check.
func (s *service) preCheck(ctx context.Context, p *payment) error {
	payer, err := s.accounts.GetByID(ctx, nil, p.contract.ClientID)
	if err != nil {
		return s.accountFailure(p.contract.ClientID, err)
	}
	if _, err := s.accounts.GetByID(ctx, nil, p.contract.ContractorID); err != nil {
		return s.accountFailure(p.contract.ContractorID, err)
	}
	if p.job.Price > payer.Balance {
		return apperrors.ErrInsufficientFunds.Wrap(
			fmt.Errorf("balance %d is below job price %d", payer.Balance, p.job.Price))
	}
	return nil
}

func (s *service) apply(ctx context.Context, tx *gorm.DB, p *payment) error {
	price := p.job.Price

	p.advance(StageDebitPending)
	rows, err := s.accounts.ConditionallyAdjust(ctx, tx, p.contract.ClientID, -price, 0)
	if err != nil {
		return s.accountFailure(p.contract.ClientID, err)
	}
	if rows == 0 {
		return apperrors.ErrInsufficientFunds.Wrap(
			fmt.Errorf("debit of %d from profile %d rejected", price, p.contract.ClientID))
	}

	p.advance(StageCreditPending)
	rows, err = s.accounts.ConditionallyAdjust(ctx, tx, p.contract.ContractorID, price, 0)
	if err != nil {
		return s.accountFailure(p.contract.ContractorID, err)
	}
	if rows == 0 {
		return integrityFailure(fmt.Errorf("credit of %d to profile %d modified no rows", price, p.contract.ContractorID))
	}

	p.advance(StageJobMarking)
	rows, err = s.jobs.MarkPaid(ctx, tx, p.job.ID, p.paidAt)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.ErrNotFound.Wrap(fmt.Errorf("job %d was paid by a concurrent request", p.job.ID))
	}

	payerID := p.contract.ClientID
	jobID := p.job.ID
	return s.ledger.Record(ctx, tx, &models.LedgerEntry{
		Reference: uuid.NewString(),
		Kind:      models.EntryKindJobPayment,
		PayerID:   &payerID,
		PayeeID:   p.contract.ContractorID,
		JobID:     &jobID,
		Amount:    price,
		CreatedAt: p.paidAt,
	})
}

// abort moves the attempt to aborted and turns err into the error the caller
// sees. Domain errors pass through; anything else is a storage failure.
func (s *service) abort(p *payment, err error) error {
	failedAt := p.stage
	p.advance(StageAborted)

	var de *apperrors.DomainError
	if errors.As(err, &de) {
		s.log.Warn("payment aborted",
			"job_id", p.job.ID,
			"caller_id", p.callerID,
			"stage", string(failedAt),
			"code", de.Code,
			"reason", apperrors.Cause(err),
		)
		return err
	}
	return s.storageFailure(failedAt, p.job.ID, err)
}

func (s *service) storageFailure(stage Stage, jobID uint, err error) error {
	kv := []interface{}{"job_id", jobID, "stage", string(stage), "error", err.Error()}
	switch {
	case repositories.IsSerializationFailure(err):
		kv = append(kv, "serialization_failure", true)
	case errors.Is(err, context.DeadlineExceeded):
		kv = append(kv, "timeout", true)
	}
	s.log.Error("payment failed", kv...)
	return apperrors.ErrTransferFailed.Wrap(err)
}

func (s *service) accountFailure(id uint, err error) error {
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return integrityFailure(fmt.Errorf("profile %d referenced by contract does not exist", id))
	}
	return err
}

func integrityFailure(cause error) error {
	return apperrors.ErrTransferFailed.Wrap(apperrors.ErrIntegrity.Wrap(cause))
}

// reconcile consults the guard again after a failed attempt. If the job is no
// longer payable another request settled it, and the caller gets NotFound.
func (s *service) reconcile(ctx context.Context, callerID, jobID uint, cause error) error {
	_, _, err := s.guard.ResolvePayableJob(ctx, callerID, jobID)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.log.Info("payment lost to a concurrent request", "job_id", jobID, "caller_id", callerID, "reason", apperrors.Cause(cause))
		return err
	}
	return cause
}

func (s *service) invalidate(ctx context.Context, ids ...uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProfiles(ctx, ids...); err != nil {
		s.log.Warn("failed to invalidate cached profiles", "ids", ids, "error", err.Error())
	}
}

func resultLabel(err error) string {
	var de *apperrors.DomainError
	if errors.As(err, &de) {
		return strings.ToLower(de.Code)
	}
	return "error"
}
