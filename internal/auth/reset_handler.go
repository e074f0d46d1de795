package auth

import (
	"log"
	"strings"
	"time"

	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmResetRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// RequestPasswordResetHandler emite um token de redefinição com validade
// de 1 hora. A resposta é a mesma exista ou não a conta, para não
// revelar e-mails cadastrados.
func RequestPasswordResetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RequestResetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Informe um e-mail válido")
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		if err := database.DB.First(&user, "email = ?", email).Error; err == nil {
			token := models.PasswordResetToken{
				UserID:    user.ID,
				Token:     uuid.NewString(),
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}
			if err := database.DB.Create(&token).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
			}
			// Sem serviço de e-mail configurado o token sai no log do servidor.
			log.Printf("Token de redefinição para %s: %s", email, token.Token)
		}

		return c.JSON(fiber.Map{
			"message": "Se o e-mail estiver cadastrado, você receberá as instruções de redefinição",
		})
	}
}

func ConfirmPasswordResetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ConfirmResetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Informe o token e a nova senha")
		}

		var token models.PasswordResetToken
		if err := database.DB.First(&token, "token = ?", body.Token).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Token inválido")
		}
		if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
			return fiber.NewError(fiber.StatusBadRequest, "Token expirado ou já utilizado")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.User{}).
				Where("id = ?", token.UserID).
				Update("password_hash", string(hash)).Error; err != nil {
				return err
			}
			now := time.Now()
			return tx.Model(&token).Update("used_at", &now).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível redefinir a senha")
		}

		return c.JSON(fiber.Map{"message": "Senha redefinida com sucesso"})
	}
}
