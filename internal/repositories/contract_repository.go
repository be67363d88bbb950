package repositories

import (
	"context"
	"errors"
	"fmt"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

var ErrContractNotFound = errors.New("contract not found")

type ContractRepository interface {
	Create(ctx context.Context, tx *gorm.DB, contract *models.Contract) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Contract, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, tx *gorm.DB, contract *models.Contract) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if contract.ClientID == contract.ContractorID {
		return fmt.Errorf("contract client and contractor must differ (profile %d)", contract.ClientID)
	}
	if err := db.WithContext(ctx).Create(contract).Error; err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Contract, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var contract models.Contract
	if err := db.WithContext(ctx).First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &contract, nil
}
