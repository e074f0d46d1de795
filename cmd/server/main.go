package main

import (
	"log"
	"strings"

	"salao-backend/internal/appointment"
	"salao-backend/internal/auth"
	"salao-backend/internal/branch"
	"salao-backend/internal/catalog"
	"salao-backend/internal/client"
	"salao-backend/internal/config"
	"salao-backend/internal/dashboard"
	"salao-backend/internal/database"
	"salao-backend/internal/financial"
	"salao-backend/internal/models"
	"salao-backend/internal/product"
	"salao-backend/internal/professional"
	"salao-backend/internal/roles"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro interno do servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Autenticação pública
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/forgot-password", auth.RequestPasswordResetHandler())
	api.Post("/auth/reset-password", auth.ConfirmPasswordResetHandler())

	// Rotas autenticadas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/profile", auth.UpdateProfileHandler())

	// Gestão (donos do negócio)
	management := protected.Group("")
	management.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

	// Filiais
	management.Post("/branches", branch.CreateBranchHandler())
	management.Get("/branches", branch.ListBranchesHandler())
	management.Get("/branches/:id", branch.GetBranchHandler())
	management.Put("/branches/:id", branch.UpdateBranchHandler())
	management.Delete("/branches/:id", branch.DeleteBranchHandler())

	// Funcionários
	management.Post("/auth/employees", auth.CreateEmployeeHandler())
	management.Post("/professionals", professional.CreateProfessionalHandler())
	management.Put("/professionals/:id", professional.UpdateProfessionalHandler())
	management.Delete("/professionals/:id", professional.DeleteProfessionalHandler())
	management.Get("/professionals/:id/salary-commission", professional.SalaryCommissionHandler())

	// Cargos
	management.Post("/roles", roles.CreateRoleHandler())
	management.Put("/roles/:id", roles.UpdateRoleHandler())
	management.Delete("/roles/:id", roles.DeleteRoleHandler())

	// Financeiro
	management.Post("/financial/categories", financial.CreateCategoryHandler())
	management.Get("/financial/categories", financial.ListCategoriesHandler())
	management.Put("/financial/categories/:id", financial.UpdateCategoryHandler())
	management.Delete("/financial/categories/:id", financial.DeleteCategoryHandler())
	management.Post("/financial/transactions", financial.CreateTransactionHandler())
	management.Get("/financial/transactions", financial.ListTransactionsHandler())
	management.Put("/financial/transactions/:id", financial.UpdateTransactionHandler())
	management.Delete("/financial/transactions/:id", financial.DeleteTransactionHandler())
	management.Get("/financial/summary", financial.SummaryHandler())
	management.Post("/financial/recurring-expenses", financial.CreateRecurringExpenseHandler())
	management.Get("/financial/recurring-expenses", financial.ListRecurringExpensesHandler())
	management.Get("/financial/recurring-expenses/pending", financial.PendingRecurringExpensesHandler())
	management.Put("/financial/recurring-expenses/:id", financial.UpdateRecurringExpenseHandler())
	management.Delete("/financial/recurring-expenses/:id", financial.DeleteRecurringExpenseHandler())
	management.Post("/financial/recurring-expenses/:id/pay", financial.PayRecurringExpenseHandler())
	management.Post("/financial/generate-salary-expenses", professional.SyncSalaryExpensesHandler())

	// Produtos e estoque
	management.Post("/products", product.CreateProductHandler())
	management.Put("/products/:id", product.UpdateProductHandler())
	management.Delete("/products/:id", product.DeleteProductHandler())
	management.Post("/products/:id/adjust-stock", product.AdjustStockHandler())

	// Rotas comuns (qualquer usuário autenticado)

	// Profissionais e cargos (leitura)
	protected.Get("/professionals", professional.ListProfessionalsHandler())
	protected.Get("/professionals/:id", professional.GetProfessionalHandler())
	protected.Get("/professionals/:id/commission", professional.CommissionHandler())
	protected.Get("/roles", roles.ListRolesHandler())

	// Clientes
	protected.Post("/clients", client.CreateClientHandler())
	protected.Get("/clients", client.ListClientsHandler())
	protected.Get("/clients/:id", client.GetClientHandler())
	protected.Put("/clients/:id", client.UpdateClientHandler())
	protected.Delete("/clients/:id", client.DeleteClientHandler())

	// Catálogo de serviços
	protected.Post("/services", catalog.CreateServiceHandler())
	protected.Get("/services", catalog.ListServicesHandler())
	protected.Put("/services/:id", catalog.UpdateServiceHandler())
	protected.Delete("/services/:id", catalog.DeleteServiceHandler())

	// Atendimentos
	protected.Post("/appointments", appointment.CreateAppointmentHandler())
	protected.Get("/appointments", appointment.ListAppointmentsHandler())
	protected.Get("/appointments/available-slots/:professionalId/:date", appointment.AvailableSlotsHandler())
	protected.Get("/appointments/by-date/:date", appointment.ByDateHandler())
	protected.Get("/appointments/:id", appointment.GetAppointmentHandler())
	protected.Post("/appointments/:id/confirm", appointment.ConfirmAppointmentHandler())
	protected.Post("/appointments/:id/cancel", appointment.CancelAppointmentHandler())
	protected.Delete("/appointments/:id", appointment.CancelAppointmentHandler())

	// Estoque (leitura)
	protected.Get("/products", product.ListProductsHandler())

	// Dashboard
	protected.Get("/dashboard/today", dashboard.TodayHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
