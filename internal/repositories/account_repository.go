package repositories

import (
	"context"
	"errors"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrNegativeFloor   = errors.New("balance floor must not be negative")
)

// AccountRepository is the single choke point for balance mutation.
type AccountRepository interface {
	Create(ctx context.Context, tx *gorm.DB, profile *models.Profile) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Profile, error)

	// ConditionallyAdjust applies balance += delta only when the resulting
	// balance stays >= floor, as one atomic UPDATE. It returns the number of
	// rows modified (0 or 1), or ErrAccountNotFound for an unknown id.
	ConditionallyAdjust(ctx context.Context, tx *gorm.DB, id uint, delta, floor int64) (int64, error)
}
