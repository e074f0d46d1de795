package professional

import (
	"fmt"
	"log"
	"strconv"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateProfessionalRequest struct {
	Name           string   `json:"name" validate:"required"`
	Role           string   `json:"role"`
	CommissionRate float64  `json:"commission_rate" validate:"gte=0,lte=100"`
	BaseSalary     *float64 `json:"base_salary" validate:"omitempty,gte=0"`
	SalaryPayDay   *int     `json:"salary_pay_day" validate:"omitempty,min=1,max=31"`
	RoleID         *uint    `json:"role_id"`
	BranchID       *uint    `json:"branch_id"`
}

type ProfessionalResponse struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	CommissionRate float64  `json:"commission_rate"`
	BaseSalary     *float64 `json:"base_salary"`
	SalaryPayDay   *int     `json:"salary_pay_day"`
	BranchID       uint     `json:"branch_id"`
	UserID         *uint    `json:"user_id,omitempty"`
	RoleID         *uint    `json:"role_id,omitempty"`
	RoleTitle      string   `json:"role_title,omitempty"`
}

type UpdateProfessionalRequest struct {
	Name           *string  `json:"name"`
	Role           *string  `json:"role"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	BaseSalary     *float64 `json:"base_salary" validate:"omitempty,gte=0"`
	SalaryPayDay   *int     `json:"salary_pay_day" validate:"omitempty,min=1,max=31"`
	RoleID         *uint    `json:"role_id"`
}

// apply copia para o profissional somente os campos enviados no corpo;
// role_id = 0 desvincula o cargo personalizado.
func (r UpdateProfessionalRequest) apply(prof *models.Professional) {
	if r.Name != nil && *r.Name != "" {
		prof.Name = *r.Name
	}
	if r.Role != nil {
		prof.Role = *r.Role
	}
	if r.CommissionRate != nil {
		prof.CommissionRate = *r.CommissionRate
	}
	if r.BaseSalary != nil {
		prof.BaseSalary = r.BaseSalary
	}
	if r.SalaryPayDay != nil {
		prof.SalaryPayDay = r.SalaryPayDay
	}
	if r.RoleID != nil {
		if *r.RoleID == 0 {
			prof.RoleID = nil
		} else {
			prof.RoleID = r.RoleID
		}
	}
}

type SalaryCommissionResponse struct {
	ProfessionalID  uint     `json:"professional_id"`
	Name            string   `json:"name"`
	BaseSalary      *float64 `json:"base_salary"`
	SalaryPayDay    *int     `json:"salary_pay_day"`
	CommissionRate  float64  `json:"commission_rate"`
	MonthCommission float64  `json:"month_commission"`
	MonthTotal      float64  `json:"month_total"`
}

func newResolver() *branch.Resolver {
	return branch.NewResolver(branch.NewGormStore(database.DB))
}

func scopedBranchIDs(c *fiber.Ctx) ([]uint, error) {
	caller := branch.CallerFromCtx(c)
	resolver := newResolver()

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

func CreateProfessionalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProfessionalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		var explicit uint
		if body.BranchID != nil {
			explicit = *body.BranchID
		}
		branchID, err := newResolver().Resolve(branch.CallerFromCtx(c), explicit)
		if err != nil {
			return branch.HandlerError(err)
		}

		prof := models.Professional{
			Name:           body.Name,
			Role:           body.Role,
			CommissionRate: body.CommissionRate,
			BaseSalary:     body.BaseSalary,
			SalaryPayDay:   body.SalaryPayDay,
			RoleID:         body.RoleID,
			BranchID:       branchID,
		}
		if err := database.DB.Create(&prof).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o profissional")
		}

		database.DB.Preload("CustomRole").First(&prof, prof.ID)
		if err := SyncSalaryExpense(database.DB, &prof); err != nil {
			log.Printf("Aviso: falha ao sincronizar salário do profissional %d: %v", prof.ID, err)
		}

		return c.Status(fiber.StatusCreated).JSON(toProfessionalResponse(prof))
	}
}

func ListProfessionalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		var professionals []models.Professional
		if err := database.DB.Preload("CustomRole").
			Where("branch_id IN ?", ids).
			Order("name asc").
			Find(&professionals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os profissionais")
		}

		res := make([]ProfessionalResponse, 0, len(professionals))
		for _, prof := range professionals {
			res = append(res, toProfessionalResponse(prof))
		}
		return c.JSON(res)
	}
}

func GetProfessionalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var prof models.Professional
		if err := database.DB.Preload("CustomRole").First(&prof, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Profissional não encontrado")
		}
		return c.JSON(toProfessionalResponse(prof))
	}
}

func UpdateProfessionalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var prof models.Professional
		if err := database.DB.First(&prof, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Profissional não encontrado")
		}

		var body UpdateProfessionalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		body.apply(&prof)

		if err := database.DB.Save(&prof).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o profissional")
		}

		database.DB.Preload("CustomRole").First(&prof, prof.ID)
		if err := SyncSalaryExpense(database.DB, &prof); err != nil {
			log.Printf("Aviso: falha ao sincronizar salário do profissional %d: %v", prof.ID, err)
		}

		return c.JSON(toProfessionalResponse(prof))
	}
}

// DeleteProfessionalHandler remove o profissional e tudo que depende
// dele numa única transação. Atendimentos agendados bloqueiam a
// exclusão; o histórico concluído é preservado com professional_id nulo.
func DeleteProfessionalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var prof models.Professional
		if err := database.DB.First(&prof, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Profissional não encontrado")
		}

		var scheduled int64
		database.DB.Model(&models.Appointment{}).
			Where("professional_id = ? AND status = ?", prof.ID, models.AppointmentScheduled).
			Count(&scheduled)
		if scheduled > 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				"Não é possível excluir profissional com atendimentos agendados")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.RecurringExpense{}).
				Where("professional_id = ?", prof.ID).
				Update("is_active", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Appointment{}).
				Where("professional_id = ?", prof.ID).
				Update("professional_id", nil).Error; err != nil {
				return err
			}
			if prof.UserID != nil {
				if err := tx.Delete(&models.User{}, *prof.UserID).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&prof).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o profissional")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func CommissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		calc := NewCalculator(NewGormStore(database.DB))
		report, err := calc.Report(uint(id),
			c.Query("startDate", c.Query("start_date")),
			c.Query("endDate", c.Query("end_date")))
		if err == ErrProfessionalNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Profissional não encontrado")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Período inválido, use o formato AAAA-MM-DD")
		}
		return c.JSON(report)
	}
}

// SalaryCommissionHandler devolve a estimativa de folha do profissional:
// salário base vigente e comissão acumulada no mês corrente.
func SalaryCommissionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		store := NewGormStore(database.DB)
		prof, err := store.ProfessionalByID(uint(id))
		if err != nil || prof == nil {
			return fiber.NewError(fiber.StatusNotFound, "Profissional não encontrado")
		}

		report, err := NewCalculator(store).Report(prof.ID, "", "")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular a comissão")
		}

		salary, payDay := prof.EffectiveSalary()
		res := SalaryCommissionResponse{
			ProfessionalID:  prof.ID,
			Name:            prof.Name,
			BaseSalary:      salary,
			SalaryPayDay:    payDay,
			CommissionRate:  report.Professional.CommissionRate,
			MonthCommission: report.Summary.TotalCommission,
			MonthTotal:      report.Summary.TotalCommission,
		}
		if salary != nil {
			res.MonthTotal += *salary
		}
		return c.JSON(res)
	}
}

// SyncSalaryExpensesHandler refaz as despesas fixas de salário de todas
// as filiais do chamador.
func SyncSalaryExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		synced, err := SyncAllSalaryExpenses(database.DB, ids)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar as despesas de salário")
		}
		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("%d despesas de salário sincronizadas", synced),
			"synced":  synced,
		})
	}
}

func toProfessionalResponse(prof models.Professional) ProfessionalResponse {
	res := ProfessionalResponse{
		ID:             prof.ID,
		Name:           prof.Name,
		Role:           prof.Role,
		CommissionRate: prof.CommissionRate,
		BaseSalary:     prof.BaseSalary,
		SalaryPayDay:   prof.SalaryPayDay,
		BranchID:       prof.BranchID,
		UserID:         prof.UserID,
		RoleID:         prof.RoleID,
	}
	if prof.CustomRole != nil {
		res.RoleTitle = prof.CustomRole.Title
	}
	return res
}
