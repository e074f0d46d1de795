package appointment

import (
	"errors"
	"log"
	"strconv"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/financial"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id" validate:"required"`
	ClientID       uint   `json:"client_id" validate:"required"`
	ServiceIDs     []uint `json:"service_ids" validate:"required,min=1,dive,required"`
	ScheduledAt    string `json:"scheduled_at" validate:"required"` // RFC3339
	Status         string `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED"`
	BranchID       *uint  `json:"branch_id"`
}

type ServiceItem struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type AppointmentResponse struct {
	ID           uint          `json:"id"`
	BranchID     uint          `json:"branch_id"`
	Professional *ServiceActor `json:"professional"`
	Client       ServiceActor  `json:"client"`
	Services     []ServiceItem `json:"services"`
	ScheduledAt  time.Time     `json:"scheduled_at"`
	Status       string        `json:"status"`
	Total        float64       `json:"total"`
	CreatedAt    time.Time     `json:"created_at"`
}

type ServiceActor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newScheduler() *Scheduler {
	return NewScheduler(
		NewGormStore(database.DB),
		branch.NewResolver(branch.NewGormStore(database.DB)),
	)
}

func handlerError(err error) error {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrProfessionalNotFound), errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, branch.ErrBranchNotFound),
		errors.Is(err, branch.ErrNoBranchExists),
		errors.Is(err, branch.ErrNoBranchConfigured),
		errors.Is(err, branch.ErrProfessionalNotLinked),
		errors.Is(err, branch.ErrBranchAccessDenied),
		errors.Is(err, branch.ErrUserNotFound):
		return branch.HandlerError(err)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Erro interno no agendamento")
	}
}

func CreateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		scheduledAt, err := time.Parse(time.RFC3339, body.ScheduledAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "scheduled_at deve estar no formato RFC3339")
		}

		in := CreateInput{
			ProfessionalID: body.ProfessionalID,
			ClientID:       body.ClientID,
			ServiceIDs:     body.ServiceIDs,
			ScheduledAt:    scheduledAt,
			Status:         models.AppointmentStatus(body.Status),
			Caller:         branch.CallerFromCtx(c),
		}
		if body.BranchID != nil {
			in.BranchID = *body.BranchID
		}

		appt, err := newScheduler().Create(in)
		if err != nil {
			return handlerError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(appt))
	}
}

func ListAppointmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var explicitBranch uint
		if q := c.Query("branch_id"); q != "" {
			v, err := strconv.ParseUint(q, 10, 64)
			if err != nil || v == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id inválido")
			}
			explicitBranch = uint(v)
		}

		appts, err := newScheduler().FindAll(branch.CallerFromCtx(c), explicitBranch)
		if err != nil {
			return handlerError(err)
		}

		res := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			res = append(res, toResponse(&appts[i]))
		}
		return c.JSON(res)
	}
}

func GetAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		appt, err := newScheduler().FindOne(uint(id))
		if err != nil {
			return handlerError(err)
		}
		return c.JSON(toResponse(appt))
	}
}

func AvailableSlotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		professionalID, err := c.ParamsInt("professionalId")
		if err != nil || professionalID <= 0 {
			return c.JSON([]string{})
		}
		date := c.Params("date")
		if date == "" {
			return c.JSON([]string{})
		}

		slots, err := newScheduler().AvailableSlots(uint(professionalID), date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use o formato AAAA-MM-DD")
		}
		return c.JSON(slots)
	}
}

func ByDateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		appts, err := newScheduler().ByDate(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use o formato AAAA-MM-DD")
		}

		res := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			res = append(res, toResponse(&appts[i]))
		}
		return c.JSON(res)
	}
}

// ConfirmAppointmentHandler confirma o atendimento e em seguida dispara a
// reconciliação financeira. As duas etapas não são atômicas: se a
// reconciliação falhar, o atendimento permanece confirmado e o backfill
// pode reparar o livro-caixa depois.
func ConfirmAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		appt, err := newScheduler().Confirm(uint(id))
		if err != nil {
			return handlerError(err)
		}

		reconciler := financial.NewReconciler(financial.NewGormStore(database.DB))
		if _, err := reconciler.Reconcile(appt); err != nil {
			log.Printf("Falha ao reconciliar atendimento %d: %v", appt.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Atendimento confirmado, mas os lançamentos financeiros falharam")
		}

		return c.JSON(toResponse(appt))
	}
}

func CancelAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		if err := newScheduler().Cancel(uint(id)); err != nil {
			return handlerError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toResponse(appt *models.Appointment) AppointmentResponse {
	res := AppointmentResponse{
		ID:          appt.ID,
		BranchID:    appt.BranchID,
		ScheduledAt: appt.ScheduledAt,
		Status:      string(appt.Status),
		Total:       appt.Total,
		CreatedAt:   appt.CreatedAt,
		Client:      ServiceActor{ID: appt.Client.ID, Name: appt.Client.Name},
	}
	if appt.Professional != nil {
		res.Professional = &ServiceActor{ID: appt.Professional.ID, Name: appt.Professional.Name}
	}
	for _, as := range appt.Services {
		res.Services = append(res.Services, ServiceItem{
			ID:    as.Service.ID,
			Name:  as.Service.Name,
			Price: as.Service.Price,
		})
	}
	return res
}
