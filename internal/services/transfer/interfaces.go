package transfer

import (
	"context"
	"time"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

// Guard resolves a job the caller may pay for, or apperrors.ErrNotFound.
type Guard interface {
	ResolvePayableJob(ctx context.Context, callerID, jobID uint) (*models.Job, *models.Contract, error)
}

// AccountStore is the balance side of the account repository.
type AccountStore interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Profile, error)
	ConditionallyAdjust(ctx context.Context, tx *gorm.DB, id uint, delta, floor int64) (int64, error)
}

// JobStore performs the paid transition of a job.
type JobStore interface {
	MarkPaid(ctx context.Context, tx *gorm.DB, id uint, at time.Time) (int64, error)
}

// Ledger appends the audit entry for a committed payment.
type Ledger interface {
	Record(ctx context.Context, tx *gorm.DB, entry *models.LedgerEntry) error
}

// Transactor opens the serializable transaction a payment runs in.
type Transactor interface {
	Serializable(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProfileCache drops cached profile snapshots after their balance changed.
type ProfileCache interface {
	InvalidateProfiles(ctx context.Context, ids ...uint) error
}

// Service pays for jobs.
type Service interface {
	PayJob(ctx context.Context, callerID, jobID uint) (*models.Job, error)
}
