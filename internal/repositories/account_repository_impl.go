package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

const adjustBalanceSQL = `UPDATE profiles SET balance = balance + ?, updated_at = ? WHERE id = ? AND balance + ? >= ?`

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *accountRepository) Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error {
	if profile.Balance < 0 {
		return ErrNegativeFloor
	}
	if err := r.conn(tx).WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.conn(tx).WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *accountRepository) ConditionallyAdjust(ctx context.Context, tx *gorm.DB, id uint, delta, floor int64) (int64, error) {
	if floor < 0 {
		return 0, ErrNegativeFloor
	}
	db := r.conn(tx).WithContext(ctx)

	result := db.Exec(adjustBalanceSQL, delta, time.Now(), id, delta, floor)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to adjust balance of profile %d: %w", id, result.Error)
	}
	if result.RowsAffected > 0 {
		return result.RowsAffected, nil
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to check profile %d: %w", id, err)
	}
	if count == 0 {
		return 0, ErrAccountNotFound
	}
	return 0, nil
}
