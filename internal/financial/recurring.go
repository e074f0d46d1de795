package financial

import (
	"fmt"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRecurringExpenseRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	CategoryID  uint     `json:"category_id" validate:"required"`
	FixedAmount *float64 `json:"fixed_amount" validate:"omitempty,gte=0"`
	ReceiptDay  int      `json:"receipt_day" validate:"required,min=1,max=31"`
	DueDay      int      `json:"due_day" validate:"required,min=1,max=31,gtefield=ReceiptDay"`
	IsActive    *bool    `json:"is_active"`
	BranchID    *uint    `json:"branch_id"`
}

type PayRecurringExpenseRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=CASH CARD PIX TRANSFER OTHER"`
}

type RecurringExpenseResponse struct {
	ID             uint     `json:"id"`
	BranchID       uint     `json:"branch_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	CategoryID     uint     `json:"category_id"`
	Category       string   `json:"category"`
	FixedAmount    *float64 `json:"fixed_amount"`
	ReceiptDay     int      `json:"receipt_day"`
	DueDay         int      `json:"due_day"`
	IsActive       bool     `json:"is_active"`
	ProfessionalID *uint    `json:"professional_id,omitempty"`
}

// RecurringExpenseReference correlaciona o pagamento de uma despesa fixa
// com o mês de competência, garantindo um pagamento por mês.
func RecurringExpenseReference(expenseID uint, month time.Time) string {
	return fmt.Sprintf("DespesaFixa-%d-%s", expenseID, month.UTC().Format("2006-01"))
}

func CreateRecurringExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecurringExpenseRequest
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

		exp := models.RecurringExpense{
			Name:        body.Name,
			Description: body.Description,
			CategoryID:  body.CategoryID,
			FixedAmount: body.FixedAmount,
			ReceiptDay:  body.ReceiptDay,
			DueDay:      body.DueDay,
			IsActive:    true,
			BranchID:    branchID,
		}
		if body.IsActive != nil {
			exp.IsActive = *body.IsActive
		}
		if err := database.DB.Create(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a despesa fixa")
		}

		database.DB.Preload("Category").First(&exp, exp.ID)
		return c.Status(fiber.StatusCreated).JSON(toRecurringResponse(exp))
	}
}

func ListRecurringExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		var expenses []models.RecurringExpense
		if err := database.DB.Preload("Category").
			Where("branch_id IN ?", ids).
			Order("name asc").
			Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas fixas")
		}

		res := make([]RecurringExpenseResponse, 0, len(expenses))
		for _, exp := range expenses {
			res = append(res, toRecurringResponse(exp))
		}
		return c.JSON(res)
	}
}

func UpdateRecurringExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.RecurringExpense
		if err := database.DB.First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa fixa não encontrada")
		}

		var body CreateRecurringExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != "" {
			exp.Name = body.Name
		}
		if body.Description != "" {
			exp.Description = body.Description
		}
		if body.CategoryID != 0 {
			exp.CategoryID = body.CategoryID
		}
		if body.FixedAmount != nil {
			exp.FixedAmount = body.FixedAmount
		}
		if body.ReceiptDay != 0 {
			exp.ReceiptDay = body.ReceiptDay
		}
		if body.DueDay != 0 {
			exp.DueDay = body.DueDay
		}
		if body.IsActive != nil {
			exp.IsActive = *body.IsActive
		}
		if exp.DueDay < exp.ReceiptDay {
			return fiber.NewError(fiber.StatusBadRequest, "due_day deve ser maior ou igual a receipt_day")
		}

		if err := database.DB.Save(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a despesa fixa")
		}
		database.DB.Preload("Category").First(&exp, exp.ID)
		return c.JSON(toRecurringResponse(exp))
	}
}

func DeleteRecurringExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.RecurringExpense
		if err := database.DB.First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa fixa não encontrada")
		}
		if err := database.DB.Delete(&exp).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a despesa fixa")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PayRecurringExpenseHandler lança a despesa do mês corrente. O reference
// por mês de competência torna o pagamento idempotente.
func PayRecurringExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var exp models.RecurringExpense
		if err := database.DB.Preload("Category").First(&exp, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Despesa fixa não encontrada")
		}

		var body PayRecurringExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		now := time.Now().UTC()
		ref := RecurringExpenseReference(exp.ID, now)

		store := NewGormStore(database.DB)
		existing, err := store.TransactionByReference(ref)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível verificar pagamentos anteriores")
		}
		if existing != nil {
			return fiber.NewError(fiber.StatusConflict, "Despesa fixa já paga neste mês")
		}

		method := models.PaymentCash
		if body.PaymentMethod != "" {
			method = models.PaymentMethod(body.PaymentMethod)
		}

		tx := models.FinancialTransaction{
			Description:   fmt.Sprintf("Pagamento: %s", exp.Name),
			Amount:        body.Amount,
			Type:          models.TransactionExpense,
			CategoryID:    exp.CategoryID,
			PaymentMethod: method,
			Reference:     ref,
			Date:          now,
			BranchID:      exp.BranchID,
		}
		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível registrar o pagamento")
		}

		database.DB.Preload("Category").First(&tx, tx.ID)
		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
	}
}

// PendingRecurringExpensesHandler lista as despesas fixas ativas ainda não
// pagas no mês corrente.
func PendingRecurringExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		var expenses []models.RecurringExpense
		if err := database.DB.Preload("Category").
			Where("branch_id IN ? AND is_active = ?", ids, true).
			Order("due_day asc").
			Find(&expenses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas pendentes")
		}

		now := time.Now().UTC()
		store := NewGormStore(database.DB)

		pending := make([]RecurringExpenseResponse, 0, len(expenses))
		for _, exp := range expenses {
			paid, err := store.TransactionByReference(RecurringExpenseReference(exp.ID, now))
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível verificar pagamentos")
			}
			if paid == nil {
				pending = append(pending, toRecurringResponse(exp))
			}
		}
		return c.JSON(pending)
	}
}

func toRecurringResponse(exp models.RecurringExpense) RecurringExpenseResponse {
	return RecurringExpenseResponse{
		ID:             exp.ID,
		BranchID:       exp.BranchID,
		Name:           exp.Name,
		Description:    exp.Description,
		CategoryID:     exp.CategoryID,
		Category:       exp.Category.Name,
		FixedAmount:    exp.FixedAmount,
		ReceiptDay:     exp.ReceiptDay,
		DueDay:         exp.DueDay,
		IsActive:       exp.IsActive,
		ProfessionalID: exp.ProfessionalID,
	}
}
