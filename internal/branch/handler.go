package branch

import (
	"errors"
	"strings"

	"salao-backend/internal/auth"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BranchResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// CallerFromCtx monta a identidade do chamador a partir dos claims que o
// middleware de autenticação coloca no contexto.
func CallerFromCtx(c *fiber.Ctx) *Caller {
	userID, okID := c.Locals(auth.CtxUserIDKey).(uint)
	role, okRole := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if !okID || !okRole {
		return nil
	}
	return &Caller{UserID: userID, Role: role}
}

// HandlerError traduz os erros tipados do resolvedor para erros HTTP.
func HandlerError(err error) error {
	switch {
	case errors.Is(err, ErrBranchNotFound), errors.Is(err, ErrNoBranchExists), errors.Is(err, ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoBranchConfigured), errors.Is(err, ErrProfessionalNotLinked):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrBranchAccessDenied):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Erro interno ao resolver filial")
	}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		resolver := NewResolver(NewGormStore(database.DB))

		ids, err := resolver.ScopeBranchIDs(caller)
		if err != nil {
			return HandlerError(err)
		}

		var branches []models.Branch
		if err := database.DB.Where("id IN ?", ids).Order("id asc").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as filiais")
		}

		res := make([]BranchResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, toResponse(b))
		}
		return c.JSON(res)
	}
}

func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		if caller == nil {
			return fiber.NewError(fiber.StatusForbidden, "Não foi possível identificar o usuário")
		}

		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome da filial é obrigatório")
		}

		b := models.Branch{
			Name:    body.Name,
			Address: strings.TrimSpace(body.Address),
			Phone:   strings.TrimSpace(body.Phone),
			OwnerID: caller.UserID,
		}
		if err := database.DB.Create(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a filial")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(b))
	}
}

func GetBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		id := c.Params("id")

		var b models.Branch
		if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Filial não encontrada")
		}
		if caller != nil && caller.Role == models.RoleAdmin && b.OwnerID != caller.UserID {
			return fiber.NewError(fiber.StatusForbidden, ErrBranchAccessDenied.Error())
		}
		return c.JSON(toResponse(b))
	}
}

func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		id := c.Params("id")

		var b models.Branch
		if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Filial não encontrada")
		}
		if caller != nil && caller.Role == models.RoleAdmin && b.OwnerID != caller.UserID {
			return fiber.NewError(fiber.StatusForbidden, ErrBranchAccessDenied.Error())
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome da filial não pode ser vazio")
			}
			b.Name = name
		}
		if body.Address != nil {
			b.Address = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			b.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a filial")
		}
		return c.JSON(toResponse(b))
	}
}

func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromCtx(c)
		id := c.Params("id")

		var b models.Branch
		if err := database.DB.First(&b, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Filial não encontrada")
		}
		if caller != nil && caller.Role == models.RoleAdmin && b.OwnerID != caller.UserID {
			return fiber.NewError(fiber.StatusForbidden, ErrBranchAccessDenied.Error())
		}

		// Filial nunca é removida enquanto houver histórico apontando para ela.
		var apptCount, txCount int64
		database.DB.Model(&models.Appointment{}).Where("branch_id = ?", b.ID).Count(&apptCount)
		database.DB.Model(&models.FinancialTransaction{}).Where("branch_id = ?", b.ID).Count(&txCount)
		if apptCount > 0 || txCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Não é possível excluir filial com atendimentos ou lançamentos financeiros")
		}

		if err := database.DB.Delete(&b).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a filial")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toResponse(b models.Branch) BranchResponse {
	return BranchResponse{
		ID:      b.ID,
		Name:    b.Name,
		Address: b.Address,
		Phone:   b.Phone,
	}
}
