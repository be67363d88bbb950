package testutil

import (
	"context"
	"testing"

	"gigpay/internal/models"

	"gorm.io/gorm"
)

func SeedProfile(tb testing.TB, db *gorm.DB, firstName string, balance int64) *models.Profile {
	tb.Helper()
	p := &models.Profile{
		FirstName:  firstName,
		LastName:   "Test",
		Profession: "Tester",
		Balance:    balance,
	}
	if err := db.WithContext(context.Background()).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedContract(tb testing.TB, db *gorm.DB, clientID, contractorID uint) *models.Contract {
	tb.Helper()
	c := &models.Contract{
		Terms:        "bla bla bla",
		Status:       models.ContractStatusInProgress,
		ClientID:     clientID,
		ContractorID: contractorID,
	}
	if err := db.WithContext(context.Background()).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

func SeedJob(tb testing.TB, db *gorm.DB, contractID uint, price int64) *models.Job {
	tb.Helper()
	j := &models.Job{
		ContractID:  contractID,
		Description: "work",
		Price:       price,
	}
	if err := db.WithContext(context.Background()).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

// Balance reads a profile balance straight from the table.
func Balance(tb testing.TB, db *gorm.DB, profileID uint) int64 {
	tb.Helper()
	var p models.Profile
	if err := db.First(&p, profileID).Error; err != nil {
		tb.Fatalf("read profile %d: %v", profileID, err)
	}
	return p.Balance
}

// Job reads a job straight from the table.
func Job(tb testing.TB, db *gorm.DB, jobID uint) *models.Job {
	tb.Helper()
	var j models.Job
	if err := db.First(&j, jobID).Error; err != nil {
		tb.Fatalf("read job %d: %v", jobID, err)
	}
	return &j
}
