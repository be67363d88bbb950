package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobRepository covers the job reads and the single paid transition.
type JobRepository interface {
	Create(ctx context.Context, tx *gorm.DB, job *models.Job) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error)

	// MarkPaid flips paid from false to true and stamps payment_date. It
	// returns 0 when the job was already paid.
	MarkPaid(ctx context.Context, tx *gorm.DB, id uint, at time.Time) (int64, error)

	// OutstandingTotal sums the prices of unpaid jobs on contracts where
	// clientID is the client.
	OutstandingTotal(ctx context.Context, tx *gorm.DB, clientID uint) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *jobRepository) Create(ctx context.Context, tx *gorm.DB, job *models.Job) error {
	if err := r.conn(tx).WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.conn(tx).WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) MarkPaid(ctx context.Context, tx *gorm.DB, id uint, at time.Time) (int64, error) {
	result := r.conn(tx).WithContext(ctx).Exec(
		`UPDATE jobs SET paid = ?, payment_date = ?, updated_at = ? WHERE id = ? AND paid = ?`,
		true, at, at, id, false,
	)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark job %d paid: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *jobRepository) OutstandingTotal(ctx context.Context, tx *gorm.DB, clientID uint) (int64, error) {
	var total int64
	err := r.conn(tx).WithContext(ctx).
		Model(&models.Job{}).
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("contracts.client_id = ? AND jobs.paid = ?", clientID, false).
		Select("CAST(COALESCE(SUM(jobs.price), 0) AS BIGINT)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding jobs: %w", err)
	}
	return total, nil
}
