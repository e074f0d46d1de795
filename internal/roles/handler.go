package roles

import (
	"strconv"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateRoleRequest struct {
	Title          string   `json:"title" validate:"required"`
	CommissionRate float64  `json:"commission_rate" validate:"gte=0,lte=100"`
	BaseSalary     *float64 `json:"base_salary" validate:"omitempty,gte=0"`
	SalaryPayDay   *int     `json:"salary_pay_day" validate:"omitempty,min=1,max=31"`
	BranchID       *uint    `json:"branch_id"`
}

type UpdateRoleRequest struct {
	Title          *string  `json:"title"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	BaseSalary     *float64 `json:"base_salary" validate:"omitempty,gte=0"`
	SalaryPayDay   *int     `json:"salary_pay_day" validate:"omitempty,min=1,max=31"`
}

// apply copia para o cargo somente os campos enviados no corpo.
func (r UpdateRoleRequest) apply(role *models.CustomRole) {
	if r.Title != nil && *r.Title != "" {
		role.Title = *r.Title
	}
	if r.CommissionRate != nil {
		role.CommissionRate = *r.CommissionRate
	}
	if r.BaseSalary != nil {
		role.BaseSalary = r.BaseSalary
	}
	if r.SalaryPayDay != nil {
		role.SalaryPayDay = r.SalaryPayDay
	}
}

type RoleResponse struct {
	ID             uint     `json:"id"`
	BranchID       uint     `json:"branch_id"`
	Title          string   `json:"title"`
	CommissionRate float64  `json:"commission_rate"`
	BaseSalary     *float64 `json:"base_salary"`
	SalaryPayDay   *int     `json:"salary_pay_day"`
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

func CreateRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRoleRequest
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

		role := models.CustomRole{
			BranchID:       branchID,
			Title:          body.Title,
			CommissionRate: body.CommissionRate,
			BaseSalary:     body.BaseSalary,
			SalaryPayDay:   body.SalaryPayDay,
		}
		if err := database.DB.Create(&role).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o cargo")
		}
		return c.Status(fiber.StatusCreated).JSON(toRoleResponse(role))
	}
}

func ListRolesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		var roles []models.CustomRole
		if err := database.DB.Where("branch_id IN ?", ids).
			Order("title asc").
			Find(&roles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os cargos")
		}

		res := make([]RoleResponse, 0, len(roles))
		for _, role := range roles {
			res = append(res, toRoleResponse(role))
		}
		return c.JSON(res)
	}
}

func UpdateRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var role models.CustomRole
		if err := database.DB.First(&role, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cargo não encontrado")
		}

		var body UpdateRoleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		body.apply(&role)

		if err := database.DB.Save(&role).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cargo")
		}
		return c.JSON(toRoleResponse(role))
	}
}

func DeleteRoleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var role models.CustomRole
		if err := database.DB.First(&role, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cargo não encontrado")
		}

		var count int64
		database.DB.Model(&models.Professional{}).Where("role_id = ?", role.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Não é possível excluir cargo em uso por profissionais")
		}

		if err := database.DB.Delete(&role).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o cargo")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toRoleResponse(role models.CustomRole) RoleResponse {
	return RoleResponse{
		ID:             role.ID,
		BranchID:       role.BranchID,
		Title:          role.Title,
		CommissionRate: role.CommissionRate,
		BaseSalary:     role.BaseSalary,
		SalaryPayDay:   role.SalaryPayDay,
	}
}
