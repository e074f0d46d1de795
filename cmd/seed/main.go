package main

import (
	"log"

	"salao-backend/internal/config"
	"salao-backend/internal/database"
	"salao-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type seedCategory struct {
	Name        string
	Type        models.TransactionType
	Color       string
	Description string
}

// Paleta padrão de categorias criada para cada filial nova.
var defaultCategories = []seedCategory{
	{"Atendimentos", models.TransactionIncome, "#10B981", "Receita de serviços prestados"},
	{"Vendas de Produtos", models.TransactionIncome, "#059669", "Vendas de produtos do estoque"},
	{"Outras Receitas", models.TransactionIncome, "#047857", "Receitas diversas"},
	{"Aluguel", models.TransactionExpense, "#EF4444", "Aluguel do estabelecimento"},
	{"Energia Elétrica", models.TransactionExpense, "#DC2626", "Conta de luz"},
	{"Água", models.TransactionExpense, "#B91C1C", "Conta de água"},
	{"Internet/Telefone", models.TransactionExpense, "#991B1B", "Telecomunicações"},
	{"Salários", models.TransactionExpense, "#F97316", "Salários dos funcionários"},
	{"Comissões", models.TransactionExpense, "#EA580C", "Comissões pagas"},
	{"Benefícios", models.TransactionExpense, "#C2410C", "Vale transporte, alimentação, etc."},
	{"Compra de Produtos", models.TransactionExpense, "#7C2D12", "Reposição de estoque"},
	{"Equipamentos", models.TransactionInvestment, "#6366F1", "Máquinas, cadeiras e ferramentas"},
	{"Reforma", models.TransactionInvestment, "#4F46E5", "Melhorias no espaço"},
}

func main() {
	cfg := config.Load()
	database.Init(cfg)

	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", "admin@salao.dev").Count(&count)
	if count > 0 {
		log.Println("Dados de demonstração já existem, nada a fazer")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	admin := models.User{
		Name:         "Administrador",
		BusinessName: "Barbearia Exemplo",
		Email:        "admin@salao.dev",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Não foi possível criar o administrador:", err)
	}

	branch := models.Branch{Name: "Matriz", OwnerID: admin.ID}
	if err := database.DB.Create(&branch).Error; err != nil {
		log.Fatal("Não foi possível criar a filial:", err)
	}

	for _, c := range defaultCategories {
		cat := models.ExpenseCategory{
			BranchID:    branch.ID,
			Name:        c.Name,
			Type:        c.Type,
			Color:       c.Color,
			Description: c.Description,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			log.Fatal("Não foi possível criar a categoria:", err)
		}
	}

	professionals := []models.Professional{
		{Name: "Carlos Silva", Role: "Barbeiro", CommissionRate: 40, BranchID: branch.ID},
		{Name: "Ana Souza", Role: "Cabeleireira", CommissionRate: 45, BranchID: branch.ID},
	}
	for i := range professionals {
		if err := database.DB.Create(&professionals[i]).Error; err != nil {
			log.Fatal("Não foi possível criar o profissional:", err)
		}
	}

	services := []models.Service{
		{Name: "Corte Masculino", Price: 45, DurationMinutes: 30, OwnerID: admin.ID},
		{Name: "Barba", Price: 30, DurationMinutes: 30, OwnerID: admin.ID},
		{Name: "Corte + Barba", Price: 65, DurationMinutes: 60, OwnerID: admin.ID},
		{Name: "Coloração", Price: 120, DurationMinutes: 90, OwnerID: admin.ID},
	}
	for i := range services {
		if err := database.DB.Create(&services[i]).Error; err != nil {
			log.Fatal("Não foi possível criar o serviço:", err)
		}
	}

	clients := []models.Client{
		{Name: "João Pereira", Phone: "(11) 99999-1111", BranchID: branch.ID},
		{Name: "Maria Oliveira", Phone: "(11) 99999-2222", BranchID: branch.ID},
		{Name: "Pedro Santos", Phone: "(11) 99999-3333", BranchID: branch.ID},
	}
	for i := range clients {
		if err := database.DB.Create(&clients[i]).Error; err != nil {
			log.Fatal("Não foi possível criar o cliente:", err)
		}
	}

	log.Println("Dados de demonstração criados")
	log.Println("Login: admin@salao.dev / admin123")
}
