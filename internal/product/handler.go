package product

import (
	"fmt"
	"strconv"
	"time"

	"salao-backend/internal/branch"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	Unit         string  `json:"unit"`
	CostPrice    float64 `json:"cost_price" validate:"gte=0"`
	SalePrice    float64 `json:"sale_price" validate:"gte=0"`
	CurrentStock int     `json:"current_stock" validate:"gte=0"`
	MinStock     int     `json:"min_stock" validate:"gte=0"`
	BranchID     *uint   `json:"branch_id"`
}

type AdjustStockRequest struct {
	Type     string `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
	IsSale   bool   `json:"is_sale"`
}

type ProductResponse struct {
	ID           uint    `json:"id"`
	BranchID     uint    `json:"branch_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Brand        string  `json:"brand"`
	Unit         string  `json:"unit"`
	CostPrice    float64 `json:"cost_price"`
	SalePrice    float64 `json:"sale_price"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	LowStock     bool    `json:"low_stock"`
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

func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
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

		if body.Unit == "" {
			body.Unit = "un"
		}
		product := models.Product{
			BranchID:     branchID,
			Name:         body.Name,
			Category:     body.Category,
			Brand:        body.Brand,
			Unit:         body.Unit,
			CostPrice:    body.CostPrice,
			SalePrice:    body.SalePrice,
			CurrentStock: body.CurrentStock,
			MinStock:     body.MinStock,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o produto")
		}
		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := scopedBranchIDs(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("branch_id IN ?", ids)
		if c.Query("low_stock") == "true" {
			q = q.Where("current_stock <= min_stock")
		}

		var products []models.Product
		if err := q.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, product := range products {
			res = append(res, toProductResponse(product))
		}
		return c.JSON(res)
	}
}

func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != "" {
			product.Name = body.Name
		}
		if body.Category != "" {
			product.Category = body.Category
		}
		if body.Brand != "" {
			product.Brand = body.Brand
		}
		if body.Unit != "" {
			product.Unit = body.Unit
		}
		if body.CostPrice > 0 {
			product.CostPrice = body.CostPrice
		}
		if body.SalePrice > 0 {
			product.SalePrice = body.SalePrice
		}
		if body.MinStock > 0 {
			product.MinStock = body.MinStock
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}
		return c.JSON(toProductResponse(product))
	}
}

func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).
				Delete(&models.StockMovement{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AdjustStockHandler movimenta o estoque. Saídas marcadas como venda
// geram o lançamento de receita correspondente no financeiro.
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos")
		}

		movementType := models.StockMovementType(body.Type)
		newStock := product.CurrentStock
		switch movementType {
		case models.StockIn:
			newStock += body.Quantity
		case models.StockOut:
			newStock -= body.Quantity
		case models.StockAdjustment:
			newStock = body.Quantity
		}
		if newStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Estoque insuficiente para a saída informada")
		}

		isSale := body.IsSale && movementType == models.StockOut

		movement := models.StockMovement{
			ProductID: product.ID,
			Type:      movementType,
			Quantity:  body.Quantity,
			Reason:    body.Reason,
			IsSale:    isSale,
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
			if err := tx.Model(&product).Update("current_stock", newStock).Error; err != nil {
				return err
			}
			if isSale {
				return createSaleTransaction(tx, &product, &movement, body.Quantity)
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível movimentar o estoque")
		}

		product.CurrentStock = newStock
		return c.JSON(toProductResponse(product))
	}
}

// createSaleTransaction lança a receita da venda na categoria
// "Vendas de Produtos" da filial, criando-a se necessário.
func createSaleTransaction(tx *gorm.DB, product *models.Product, movement *models.StockMovement, quantity int) error {
	var category models.ExpenseCategory
	err := tx.Where("branch_id = ? AND name = ? AND type = ?",
		product.BranchID, "Vendas de Produtos", models.TransactionIncome).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		category = models.ExpenseCategory{
			BranchID:    product.BranchID,
			Name:        "Vendas de Produtos",
			Type:        models.TransactionIncome,
			Color:       "#3B82F6",
			Description: "Receitas de venda de produtos",
		}
		err = tx.Create(&category).Error
	}
	if err != nil {
		return err
	}

	return tx.Create(&models.FinancialTransaction{
		Description:   fmt.Sprintf("Venda: %dx %s", quantity, product.Name),
		Amount:        float64(quantity) * product.SalePrice,
		Type:          models.TransactionIncome,
		CategoryID:    category.ID,
		PaymentMethod: models.PaymentCash,
		Reference:     fmt.Sprintf("Estoque-%d", movement.ID),
		Date:          time.Now(),
		BranchID:      product.BranchID,
	}).Error
}

func toProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		BranchID:     product.BranchID,
		Name:         product.Name,
		Category:     product.Category,
		Brand:        product.Brand,
		Unit:         product.Unit,
		CostPrice:    product.CostPrice,
		SalePrice:    product.SalePrice,
		CurrentStock: product.CurrentStock,
		MinStock:     product.MinStock,
		LowStock:     product.CurrentStock <= product.MinStock,
	}
}
