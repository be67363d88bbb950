package main

import (
	"context"
	"os"

	"gigpay/internal/config"
	applog "gigpay/internal/logger"
	"gigpay/internal/models"
	"gigpay/internal/repositories"
	"gigpay/internal/services/auth"

	"gorm.io/gorm"
)

type seedJob struct {
	description string
	price       int64
	paid        bool
}

type seedContract struct {
	client, contractor int // indexes into profiles
	status             string
	jobs               []seedJob
}

var profiles = []models.Profile{
	{FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Balance: 115000},
	{FirstName: "Mr", LastName: "Robot", Profession: "Hacker", Balance: 23111},
	{FirstName: "John", LastName: "Snow", Profession: "Knows nothing", Balance: 45100},
	{FirstName: "Ash", LastName: "Kethcum", Profession: "Pokemon master", Balance: 115},
	{FirstName: "John", LastName: "Lenon", Profession: "Musician", Balance: 6400},
	{FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Balance: 121400},
	{FirstName: "Alan", LastName: "Turing", Profession: "Programmer", Balance: 2200},
	{FirstName: "Aragorn", LastName: "II Elessar Telcontarvalds", Profession: "Fighter", Balance: 31400},
}

var contracts = []seedContract{
	{client: 0, contractor: 4, status: models.ContractStatusTerminated, jobs: []seedJob{{"work", 20000, false}}},
	{client: 0, contractor: 5, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 20100, false}}},
	{client: 1, contractor: 5, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 20200, false}, {"work", 2000, true}}},
	{client: 1, contractor: 6, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 20000, true}}},
	{client: 2, contractor: 7, status: models.ContractStatusNew, jobs: []seedJob{{"work", 20000, true}}},
	{client: 2, contractor: 6, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 12100, true}, {"work", 20000, true}}},
	{client: 3, contractor: 7, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 2100, true}}},
	{client: 3, contractor: 6, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 20000, false}}},
	{client: 3, contractor: 5, status: models.ContractStatusInProgress, jobs: []seedJob{{"work", 21, true}}},
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal("SEED_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to initialise database", "error", err.Error())
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database connection", "error", err.Error())
		}
	}()

	var existing int64
	if err := db.Model(&models.Profile{}).Count(&existing).Error; err != nil {
		log.Fatal("failed to count profiles", "error", err.Error())
	}
	if existing > 0 {
		log.Info("profiles already exist, skipping seed", "count", existing)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password", "error", err.Error())
	}

	if err := seed(context.Background(), db, hash); err != nil {
		log.Fatal("failed to seed database", "error", err.Error())
	}
	log.Info("demo data seeded", "profiles", len(profiles), "contracts", len(contracts))
}

func seed(ctx context.Context, db *gorm.DB, passwordHash string) error {
	accounts := repositories.NewAccountRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created := make([]models.Profile, len(profiles))
		for i, p := range profiles {
			p.PasswordHash = passwordHash
			if err := accounts.Create(ctx, tx, &p); err != nil {
				return err
			}
			created[i] = p
		}

		for _, sc := range contracts {
			contract := &models.Contract{
				Terms:        "bla bla bla",
				Status:       sc.status,
				ClientID:     created[sc.client].ID,
				ContractorID: created[sc.contractor].ID,
			}
			if err := contractRepo.Create(ctx, tx, contract); err != nil {
				return err
			}
			for _, sj := range sc.jobs {
				job := &models.Job{ContractID: contract.ID, Description: sj.description, Price: sj.price}
				if err := jobRepo.Create(ctx, tx, job); err != nil {
					return err
				}
				if sj.paid {
					if _, err := jobRepo.MarkPaid(ctx, tx, job.ID, job.CreatedAt); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
