package database

import (
	"log"

	"salao-backend/internal/config"
	"salao-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.CustomRole{},
		&models.Professional{},
		&models.Client{},
		&models.Service{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.ExpenseCategory{},
		&models.FinancialTransaction{},
		&models.RecurringExpense{},
		&models.Product{},
		&models.StockMovement{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco estabelecida. Migration concluída.")
}
