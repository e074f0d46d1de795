package dashboard

import (
	"strconv"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type TodayAppointment struct {
	ID           uint    `json:"id"`
	Time         string  `json:"time"`
	Client       string  `json:"client"`
	Professional string  `json:"professional"`
	Status       string  `json:"status"`
	Total        float64 `json:"total"`
}

type TodayResponse struct {
	Date         string             `json:"date"`
	Appointments []TodayAppointment `json:"appointments"`
	Scheduled    int                `json:"scheduled"`
	Completed    int                `json:"completed"`
	Revenue      float64            `json:"revenue"`
}

func scopedBranchIDs(c *fiber.Ctx) ([]uint, error) {
	caller := branch.CallerFromCtx(c)
	resolver := branch.NewResolver(branch.NewGormStore(database.DB))

	if q := c.Query("branch_id"); q != "" && q != "all" {
		v, err := strconv.ParseUint(q, 10, 64)
		if err != nil || v == 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "branch_id inválido")
		}
		id, err := resolver.Resolve(caller, uint(v))
		if err != nil {
			return nil, branch.HandlerError(err)
		}
		return []uint{id}, nil
	}

	ids, err := resolver.ScopeBranchIDs(caller)
	if err != nil {
		return nil, branch.HandlerError(err)
	}
	return ids, nil
}

// TodayHandler resume a agenda do dia: atendimentos em ordem de horário
// e os totais de agendados, concluídos e receita.
func TodayHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)

		var appointments []models.Appointment
		if err := database.DB.
			Preload("Client").
			Preload("Professional").
			Where("branch_id IN ? AND scheduled_at >= ? AND scheduled_at < ?", ids, from, to).
			Order("scheduled_at asc").
			Find(&appointments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar a agenda do dia")
		}

		res := TodayResponse{
			Date:         from.Format("2006-01-02"),
			Appointments: make([]TodayAppointment, 0, len(appointments)),
		}
		for _, appt := range appointments {
			item := TodayAppointment{
				ID:     appt.ID,
				Time:   appt.ScheduledAt.UTC().Format("15:04"),
				Client: appt.Client.Name,
				Status: string(appt.Status),
				Total:  appt.Total,
			}
			if appt.Professional != nil {
				item.Professional = appt.Professional.Name
			}
			res.Appointments = append(res.Appointments, item)

			switch appt.Status {
			case models.AppointmentScheduled:
				res.Scheduled++
			case models.AppointmentCompleted:
				res.Completed++
				res.Revenue += appt.Total
			}
		}
		return c.JSON(res)
	}
}
