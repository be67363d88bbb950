// Package access resolves a job the caller is allowed to pay for.
package access

import (
	"context"
	"errors"
	"fmt"

	apperrors "gigpay/internal/errors"
	"gigpay/internal/logger"
	"gigpay/internal/models"
	"gigpay/internal/repositories"

	"gorm.io/gorm"
)

// JobReader is the read side of the job repository used by the guard.
type JobReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error)
}

// ContractReader is the read side of the contract repository.
type ContractReader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Contract, error)
}

// Guard checks that a job exists, is unpaid and belongs to a contract where
// the caller is the client.
type Guard struct {
	jobs      JobReader
	contracts ContractReader
	log       *logger.Logger
}

func NewGuard(jobs JobReader, contracts ContractReader, log *logger.Logger) *Guard {
	if jobs == nil {
		panic("job reader is required")
	}
	if contracts == nil {
		panic("contract reader is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Guard{jobs: jobs, contracts: contracts, log: log.With("component", "access_guard")}
}

// ResolvePayableJob returns the job and its contract, or apperrors.ErrNotFound
// whatever the reason the job cannot be paid by callerID. The specific reason
// is kept as the error's cause and logged, never returned to the caller.
func (g *Guard) ResolvePayableJob(ctx context.Context, callerID, jobID uint) (*models.Job, *models.Contract, error) {
	job, err := g.jobs.GetByID(ctx, nil, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, nil, g.deny(callerID, jobID, fmt.Errorf("job %d does not exist", jobID))
		}
		return nil, nil, err
	}
	if job.Paid {
		return nil, nil, g.deny(callerID, jobID, fmt.Errorf("job %d is already paid", jobID))
	}

	contract, err := g.contracts.GetByID(ctx, nil, job.ContractID)
	if err != nil {
		if errors.Is(err, repositories.ErrContractNotFound) {
			return nil, nil, g.deny(callerID, jobID, fmt.Errorf("contract %d of job %d does not exist", job.ContractID, jobID))
		}
		return nil, nil, err
	}
	if contract.ClientID != callerID {
		return nil, nil, g.deny(callerID, jobID, fmt.Errorf("profile %d is not the client of contract %d", callerID, contract.ID))
	}

	return job, contract, nil
}

func (g *Guard) deny(callerID, jobID uint, cause error) error {
	g.log.Warn("job not payable", "caller_id", callerID, "job_id", jobID, "reason", cause.Error())
	return apperrors.ErrNotFound.Wrap(cause)
}
