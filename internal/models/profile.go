package models

import "time"

// Profile is an account holding a balance in minor currency units. Whether it
// acts as a client or a contractor depends on the contract being looked at.
type Profile struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	FirstName    string `gorm:"not null" json:"firstName"`
	LastName     string `gorm:"not null" json:"lastName"`
	Profession   string `gorm:"not null;default:''" json:"profession"`
	PasswordHash string `gorm:"not null;default:''" json:"-"`
	// Balance is only ever changed through AccountRepository.ConditionallyAdjust.
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
