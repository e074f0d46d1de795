package catalog

import (
	"strconv"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"omitempty,min=5"`
	BranchID        *uint   `json:"branch_id"`
}

type ServiceResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	BranchID        *uint   `json:"branch_id"`
	OwnerID         uint    `json:"owner_id"`
}

func newResolver() *branch.Resolver {
	return branch.NewResolver(branch.NewGormStore(database.DB))
}

// CreateServiceHandler cadastra um serviço. Administradores criam
// serviços globais (visíveis em todas as suas filiais) a menos que
// informem branch_id; profissionais sempre criam na própria filial.
func CreateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := branch.CallerFromCtx(c)
		if caller == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var body CreateServiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}
		if body.DurationMinutes == 0 {
			body.DurationMinutes = 30
		}

		svc := models.Service{
			Name:            body.Name,
			Price:           body.Price,
			DurationMinutes: body.DurationMinutes,
			OwnerID:         caller.UserID,
		}

		isAdmin := caller.Role == models.RoleAdmin || caller.Role == models.RoleSuperAdmin
		if !isAdmin || body.BranchID != nil {
			var explicit uint
			if body.BranchID != nil {
				explicit = *body.BranchID
			}
			branchID, err := newResolver().Resolve(caller, explicit)
			if err != nil {
				return branch.HandlerError(err)
			}
			svc.BranchID = &branchID

			var b models.Branch
			if err := database.DB.First(&b, branchID).Error; err == nil {
				svc.OwnerID = b.OwnerID
			}
		}

		if err := database.DB.Create(&svc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o serviço")
		}
		return c.Status(fiber.StatusCreated).JSON(toServiceResponse(svc))
	}
}

// ListServicesHandler devolve o catálogo visível pelo chamador: serviços
// das filiais do escopo mais os globais dos respectivos donos.
func ListServicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := branch.CallerFromCtx(c)
		resolver := newResolver()

		var branchIDs []uint
		if q := c.Query("branch_id"); q != "" && q != "all" {
			v, err := strconv.ParseUint(q, 10, 64)
			if err != nil || v == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id inválido")
			}
			id, err := resolver.Resolve(caller, uint(v))
			if err != nil {
				return branch.HandlerError(err)
			}
			branchIDs = []uint{id}
		} else {
			ids, err := resolver.ScopeBranchIDs(caller)
			if err != nil {
				return branch.HandlerError(err)
			}
			branchIDs = ids
		}

		var ownerIDs []uint
		if err := database.DB.Model(&models.Branch{}).
			Where("id IN ?", branchIDs).
			Distinct().
			Pluck("owner_id", &ownerIDs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os serviços")
		}

		var services []models.Service
		if err := database.DB.
			Where("branch_id IN ?", branchIDs).
			Or("branch_id IS NULL AND owner_id IN ?", ownerIDs).
			Order("name asc").
			Find(&services).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os serviços")
		}

		res := make([]ServiceResponse, 0, len(services))
		for _, svc := range services {
			res = append(res, toServiceResponse(svc))
		}
		return c.JSON(res)
	}
}

func UpdateServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var svc models.Service
		if err := database.DB.First(&svc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Serviço não encontrado")
		}

		var body CreateServiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != "" {
			svc.Name = body.Name
		}
		if body.Price > 0 {
			svc.Price = body.Price
		}
		if body.DurationMinutes > 0 {
			svc.DurationMinutes = body.DurationMinutes
		}

		if err := database.DB.Save(&svc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o serviço")
		}
		return c.JSON(toServiceResponse(svc))
	}
}

func DeleteServiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var svc models.Service
		if err := database.DB.First(&svc, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Serviço não encontrado")
		}

		var count int64
		database.DB.Model(&models.AppointmentService{}).Where("service_id = ?", svc.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Não é possível excluir serviço usado em atendimentos")
		}

		if err := database.DB.Delete(&svc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o serviço")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toServiceResponse(svc models.Service) ServiceResponse {
	return ServiceResponse{
		ID:              svc.ID,
		Name:            svc.Name,
		Price:           svc.Price,
		DurationMinutes: svc.DurationMinutes,
		BranchID:        svc.BranchID,
		OwnerID:         svc.OwnerID,
	}
}
