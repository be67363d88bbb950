package repositories

import (
	"context"
	"fmt"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

// LedgerRepository appends audit entries for committed balance movements.
type LedgerRepository interface {
	Record(ctx context.Context, tx *gorm.DB, entry *models.LedgerEntry) error
	ListByProfile(ctx context.Context, tx *gorm.DB, profileID uint, limit int) ([]models.LedgerEntry, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Record(ctx context.Context, tx *gorm.DB, entry *models.LedgerEntry) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}
	return nil
}

func (r *ledgerRepository) ListByProfile(ctx context.Context, tx *gorm.DB, profileID uint, limit int) ([]models.LedgerEntry, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var entries []models.LedgerEntry
	err := db.WithContext(ctx).
		Where("payer_id = ? OR payee_id = ?", profileID, profileID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
