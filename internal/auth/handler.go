package auth

import (
	"strings"

	"salao-backend/internal/config"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateEmployeeRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	Phone          string  `json:"phone"`
	Role           string  `json:"role"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=100"`
	BranchID       *uint   `json:"branch_id"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Password     string `json:"password" validate:"omitempty,min=6"`
}

type UserResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name,omitempty"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

type MeResponse struct {
	UserResponse
	ProfessionalID *uint  `json:"professional_id,omitempty"`
	BranchID       *uint  `json:"branch_id,omitempty"`
	BranchName     string `json:"branch_name,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterHandler cria a conta ADMIN do dono do negócio junto com a
// filial inicial "Matriz".
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Já existe uma conta com este e-mail")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
		}

		user := models.User{
			Name:         body.Name,
			BusinessName: body.BusinessName,
			Email:        email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			branchName := "Matriz"
			if body.BusinessName != "" {
				branchName = body.BusinessName
			}
			return tx.Create(&models.Branch{
				Name:    branchName,
				OwnerID: user.ID,
			}).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a conta")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.Status(fiber.StatusCreated).JSON(AuthResponse{
			Token: token,
			User:  toUserResponse(user),
		})
	}
}

func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Informe e-mail e senha")
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		if err := database.DB.First(&user, "email = ?", email).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "E-mail ou senha incorretos")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "E-mail ou senha incorretos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(AuthResponse{
			Token: token,
			User:  toUserResponse(user),
		})
	}
}

// MeHandler devolve o perfil do usuário autenticado. Para profissionais
// a resposta inclui o vínculo com a filial de trabalho.
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		res := MeResponse{UserResponse: toUserResponse(user)}

		if user.Role == models.RoleProfessional {
			var prof models.Professional
			err := database.DB.Preload("Branch").
				Where("user_id = ?", user.ID).
				Or("user_id IS NULL AND name = ?", user.Name).
				First(&prof).Error
			if err == nil {
				res.ProfessionalID = &prof.ID
				res.BranchID = &prof.BranchID
				res.BranchName = prof.Branch.Name
			}
		}
		return c.JSON(res)
	}
}

// UpdateProfileHandler altera os dados da conta. Profissionais só podem
// mudar o próprio telefone e a senha.
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if user.Role != models.RoleProfessional {
			if body.Name != "" {
				user.Name = body.Name
			}
			if body.BusinessName != "" {
				user.BusinessName = body.BusinessName
			}
		}
		if body.Phone != "" {
			user.Phone = body.Phone
		}
		if body.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
			}
			user.PasswordHash = string(hash)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o perfil")
		}
		return c.JSON(toUserResponse(user))
	}
}

// CreateEmployeeHandler cria a conta PROFESSIONAL e o registro de
// profissional já vinculados entre si.
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Já existe uma conta com este e-mail")
		}

		branchID := uint(0)
		if body.BranchID != nil {
			var b models.Branch
			if err := database.DB.First(&b, *body.BranchID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Filial não encontrada")
			}
			branchID = b.ID
		} else {
			var b models.Branch
			if err := database.DB.Where("owner_id = ?", adminID).Order("id asc").First(&b).Error; err != nil {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "Nenhuma filial cadastrada para vincular o funcionário")
			}
			branchID = b.ID
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
		}

		user := models.User{
			Name:         body.Name,
			Email:        email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         models.RoleProfessional,
		}
		var prof models.Professional

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			prof = models.Professional{
				Name:           body.Name,
				Role:           body.Role,
				CommissionRate: body.CommissionRate,
				BranchID:       branchID,
				UserID:         &user.ID,
			}
			return tx.Create(&prof).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o funcionário")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":            toUserResponse(user),
			"professional_id": prof.ID,
		})
	}
}

func toUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		BusinessName: user.BusinessName,
		Email:        user.Email,
		Phone:        user.Phone,
		Role:         string(user.Role),
		IsSuperAdmin: user.IsSuperAdmin,
	}
}
