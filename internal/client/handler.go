package client

import (
	"strconv"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	BranchID *uint  `json:"branch_id"`
}

type ClientResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	BranchID uint   `json:"branch_id"`
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

func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
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

		client := models.Client{
			Name:     body.Name,
			Phone:    body.Phone,
			Email:    body.Email,
			BranchID: branchID,
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o cliente")
		}
		return c.Status(fiber.StatusCreated).JSON(toClientResponse(client))
	}
}

func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("branch_id IN ?", ids)
		if search := c.Query("search"); search != "" {
			q = q.Where("name ILIKE ?", "%"+search+"%")
		}

		var clients []models.Client
		if err := q.Order("name asc").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os clientes")
		}

		res := make([]ClientResponse, 0, len(clients))
		for _, client := range clients {
			res = append(res, toClientResponse(client))
		}
		return c.JSON(res)
	}
}

func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}
		return c.JSON(toClientResponse(client))
	}
}

func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != "" {
			client.Name = body.Name
		}
		if body.Phone != "" {
			client.Phone = body.Phone
		}
		if body.Email != "" {
			client.Email = body.Email
		}

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o cliente")
		}
		return c.JSON(toClientResponse(client))
	}
}

func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var client models.Client
		if err := database.DB.First(&client, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var count int64
		database.DB.Model(&models.Appointment{}).Where("client_id = ?", client.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Não é possível excluir cliente com atendimentos registrados")
		}

		if err := database.DB.Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o cliente")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toClientResponse(client models.Client) ClientResponse {
	return ClientResponse{
		ID:       client.ID,
		Name:     client.Name,
		Phone:    client.Phone,
		Email:    client.Email,
		BranchID: client.BranchID,
	}
}
