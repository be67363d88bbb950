package models

import "time"

// Job is a billable unit of work under a contract. Paid only ever moves from
// false to true, and PaymentDate is written in the same statement.
type Job struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ContractID  uint       `gorm:"not null;index" json:"contractId"`
	Description string     `gorm:"not null;default:''" json:"description"`
	Price       int64      `gorm:"not null;check:price >= 0" json:"price"`
	Paid        bool       `gorm:"not null;default:false;index" json:"paid"`
	PaymentDate *time.Time `json:"paymentDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
