package main

import (
	"log"

	"salao-backend/internal/config"
	"salao-backend/internal/database"
	"salao-backend/internal/financial"
	"salao-backend/internal/models"
)

// Reprocessa os lançamentos financeiros de atendimentos concluídos.
// Atendimentos já reconciliados não são tocados, então o comando pode
// rodar quantas vezes for preciso.
func main() {
	cfg := config.Load()
	database.Init(cfg)

	var appointments []models.Appointment
	err := database.DB.
		Preload("Professional").
		Preload("Professional.CustomRole").
		Preload("Client").
		Where("status = ?", models.AppointmentCompleted).
		Order("id asc").
		Find(&appointments).Error
	if err != nil {
		log.Fatal("Não foi possível carregar os atendimentos:", err)
	}

	log.Printf("%d atendimentos concluídos encontrados", len(appointments))

	reconciler := financial.NewReconciler(financial.NewGormStore(database.DB))

	fixed := 0
	failed := 0
	for i := range appointments {
		appt := &appointments[i]
		created, err := reconciler.Reconcile(appt)
		if err != nil {
			failed++
			log.Printf("Falha no atendimento %d: %v", appt.ID, err)
			continue
		}
		if created {
			fixed++
			log.Printf("Atendimento %d reconciliado", appt.ID)
		}
	}

	log.Printf("Concluído: %d corrigidos, %d já em dia, %d com falha",
		fixed, len(appointments)-fixed-failed, failed)
}
