package models

import "time"

// Ledger entry kinds
const (
	EntryKindJobPayment = "job_payment"
	EntryKindDeposit    = "deposit"
)

// LedgerEntry records one committed balance movement. It is written in the
// same transaction as the balance change it describes; the unique index on
// JobID means a job can be paid at most once even at the storage level.
type LedgerEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Reference string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Kind      string    `gorm:"not null" json:"kind"`
	PayerID   *uint     `gorm:"index" json:"payerId,omitempty"`
	PayeeID   uint      `gorm:"not null;index" json:"payeeId"`
	JobID     *uint     `gorm:"uniqueIndex" json:"jobId,omitempty"`
	Amount    int64     `gorm:"not null;check:amount >= 0" json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
