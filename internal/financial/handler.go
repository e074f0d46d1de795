package financial

import (
	"strconv"
	"strings"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type CategoryResponse struct {
	ID          uint   `json:"id"`
	BranchID    uint   `json:"branch_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=INCOME EXPENSE INVESTMENT"`
	Color       string `json:"color"`
	Description string `json:"description"`
	BranchID    *uint  `json:"branch_id"`
}

type CreateTransactionRequest struct {
	Description   string  `json:"description" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Type          string  `json:"type" validate:"required,oneof=INCOME EXPENSE INVESTMENT"`
	CategoryID    uint    `json:"category_id" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,oneof=CASH CARD PIX TRANSFER OTHER"`
	Reference     string  `json:"reference"`
	Date          string  `json:"date"` // "2025-03-10", padrão = hoje
	BranchID      *uint   `json:"branch_id"`
}

type TransactionResponse struct {
	ID            uint      `json:"id"`
	BranchID      uint      `json:"branch_id"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Type          string    `json:"type"`
	CategoryID    uint      `json:"category_id"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	Reference     string    `json:"reference"`
	AppointmentID *uint     `json:"appointment_id,omitempty"`
	Date          time.Time `json:"date"`
}

type SummaryResponse struct {
	TotalIncome        float64 `json:"total_income"`
	TotalExpenses      float64 `json:"total_expenses"`
	TotalInvestments   float64 `json:"total_investments"`
	AppointmentRevenue float64 `json:"appointment_revenue"`
	NetProfit          float64 `json:"net_profit"`
}

func newResolver() *branch.Resolver {
	return branch.NewResolver(branch.NewGormStore(database.DB))
}

// scopedBranchIDs resolve o conjunto de filiais consultável: filial
// explícita (com verificação de acesso) ou todo o escopo do chamador.
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

// ---------------------------------------
// Categorias
// ---------------------------------------

func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
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

		if body.Color == "" {
			body.Color = "#6B7280"
		}
		cat := models.ExpenseCategory{
			BranchID:    branchID,
			Name:        strings.TrimSpace(body.Name),
			Type:        models.TransactionType(body.Type),
			Color:       body.Color,
			Description: body.Description,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a categoria")
		}
		return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(cat))
	}
}

func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("branch_id IN ?", ids)
		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}

		var cats []models.ExpenseCategory
		if err := q.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as categorias")
		}

		res := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			res = append(res, toCategoryResponse(cat))
		}
		return c.JSON(res)
	}
}

func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if body.Name != "" {
			cat.Name = strings.TrimSpace(body.Name)
		}
		if body.Type != "" {
			cat.Type = models.TransactionType(body.Type)
		}
		if body.Color != "" {
			cat.Color = body.Color
		}
		if body.Description != "" {
			cat.Description = body.Description
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a categoria")
		}
		return c.JSON(toCategoryResponse(cat))
	}
}

func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.ExpenseCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		var txCount int64
		database.DB.Model(&models.FinancialTransaction{}).Where("category_id = ?", cat.ID).Count(&txCount)
		if txCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Não é possível excluir categoria com lançamentos")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a categoria")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---------------------------------------
// Transações
// ---------------------------------------

func CreateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTransactionRequest
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

		date := time.Now()
		if body.Date != "" {
			date, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use o formato AAAA-MM-DD")
			}
		}

		method := models.PaymentCash
		if body.PaymentMethod != "" {
			method = models.PaymentMethod(body.PaymentMethod)
		}

		tx := models.FinancialTransaction{
			Description:   body.Description,
			Amount:        body.Amount,
			Type:          models.TransactionType(body.Type),
			CategoryID:    body.CategoryID,
			PaymentMethod: method,
			Reference:     body.Reference,
			Date:          date,
			BranchID:      branchID,
		}
		if err := database.DB.Create(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o lançamento")
		}

		database.DB.Preload("Category").First(&tx, tx.ID)
		return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
	}
}

func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("Category").Where("branch_id IN ?", ids)
		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}
		if catID := c.Query("category_id"); catID != "" {
			q = q.Where("category_id = ?", catID)
		}
		if start := c.Query("start_date"); start != "" {
			from, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date inválida")
			}
			q = q.Where("date >= ?", from)
		}
		if end := c.Query("end_date"); end != "" {
			to, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date inválida")
			}
			q = q.Where("date <= ?", to.Add(24*time.Hour-time.Second))
		}

		var txs []models.FinancialTransaction
		if err := q.Order("date desc").Find(&txs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os lançamentos")
		}

		res := make([]TransactionResponse, 0, len(txs))
		for _, tx := range txs {
			res = append(res, toTransactionResponse(tx))
		}
		return c.JSON(res)
	}
}

func UpdateTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var tx models.FinancialTransaction
		if err := database.DB.First(&tx, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transação não encontrada")
		}

		var body CreateTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Description != "" {
			tx.Description = body.Description
		}
		if body.Amount > 0 {
			tx.Amount = body.Amount
		}
		if body.Type != "" {
			tx.Type = models.TransactionType(body.Type)
		}
		if body.CategoryID != 0 {
			tx.CategoryID = body.CategoryID
		}
		if body.PaymentMethod != "" {
			tx.PaymentMethod = models.PaymentMethod(body.PaymentMethod)
		}
		if body.Date != "" {
			date, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use o formato AAAA-MM-DD")
			}
			tx.Date = date
		}

		if err := database.DB.Save(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o lançamento")
		}
		database.DB.Preload("Category").First(&tx, tx.ID)
		return c.JSON(toTransactionResponse(tx))
	}
}

func DeleteTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		var tx models.FinancialTransaction
		if err := database.DB.Where("id = ? AND branch_id IN ?", id, ids).First(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transação não encontrada")
		}

		if err := database.DB.Delete(&tx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o lançamento")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---------------------------------------
// Resumo financeiro
// ---------------------------------------

func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		txQuery := database.DB.Model(&models.FinancialTransaction{}).Where("branch_id IN ?", ids)
		apptQuery := database.DB.Model(&models.Appointment{}).
			Where("branch_id IN ? AND status = ?", ids, models.AppointmentCompleted)

		if start := c.Query("start_date"); start != "" {
			from, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date inválida")
			}
			txQuery = txQuery.Where("date >= ?", from)
			apptQuery = apptQuery.Where("scheduled_at >= ?", from)
		}
		if end := c.Query("end_date"); end != "" {
			to, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date inválida")
			}
			to = to.Add(24*time.Hour - time.Second)
			txQuery = txQuery.Where("date <= ?", to)
			apptQuery = apptQuery.Where("scheduled_at <= ?", to)
		}

		var txs []models.FinancialTransaction
		if err := txQuery.Find(&txs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		var appointmentRevenue float64
		if err := apptQuery.Select("COALESCE(SUM(total), 0)").Scan(&appointmentRevenue).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular o resumo")
		}

		summary := SummaryResponse{AppointmentRevenue: appointmentRevenue}
		for _, tx := range txs {
			switch tx.Type {
			case models.TransactionIncome:
				summary.TotalIncome += tx.Amount
			case models.TransactionExpense:
				summary.TotalExpenses += tx.Amount
			case models.TransactionInvestment:
				summary.TotalInvestments += tx.Amount
			}
		}
		summary.TotalIncome += appointmentRevenue
		summary.NetProfit = summary.TotalIncome - summary.TotalExpenses - summary.TotalInvestments

		return c.JSON(summary)
	}
}

func toCategoryResponse(cat models.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		ID:          cat.ID,
		BranchID:    cat.BranchID,
		Name:        cat.Name,
		Type:        string(cat.Type),
		Color:       cat.Color,
		Description: cat.Description,
	}
}

func toTransactionResponse(tx models.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		BranchID:      tx.BranchID,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		CategoryID:    tx.CategoryID,
		Category:      tx.Category.Name,
		PaymentMethod: string(tx.PaymentMethod),
		Reference:     tx.Reference,
		AppointmentID: tx.AppointmentID,
		Date:          tx.Date,
	}
}
