package models

import "time"

// Contract statuses
const (
	ContractStatusNew        = "new"
	ContractStatusInProgress = "in_progress"
	ContractStatusTerminated = "terminated"
)

// Contract links a paying client profile to a contractor profile.
type Contract struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Terms        string    `gorm:"not null;default:''" json:"terms"`
	Status       string    `gorm:"not null;default:'new'" json:"status"`
	ClientID     uint      `gorm:"not null;index;check:client_id <> contractor_id" json:"clientId"`
	ContractorID uint      `gorm:"not null;index" json:"contractorId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
