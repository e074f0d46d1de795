package roles

import (
	"testing"

	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(v string) *string { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int { return &v }

func TestUpdateCargoPreservaSalarioQuandoOmitido(t *testing.T) {
	role := models.CustomRole{
		ID:             1,
		BranchID:       1,
		Title:          "Barbeiro Sênior",
		CommissionRate: 50,
		BaseSalary:     ptrFloat(3000),
		SalaryPayDay:   ptrInt(10),
	}

	UpdateRoleRequest{Title: ptrStr("Barbeiro Master")}.apply(&role)

	assert.Equal(t, "Barbeiro Master", role.Title)
	assert.Equal(t, 50.0, role.CommissionRate)
	require.NotNil(t, role.BaseSalary)
	assert.Equal(t, 3000.0, *role.BaseSalary)
	require.NotNil(t, role.SalaryPayDay)
	assert.Equal(t, 10, *role.SalaryPayDay)
}

func TestUpdateCargoAplicaSomenteCamposEnviados(t *testing.T) {
	role := models.CustomRole{
		ID:           1,
		Title:        "Barbeiro Sênior",
		BaseSalary:   ptrFloat(3000),
		SalaryPayDay: ptrInt(10),
	}

	UpdateRoleRequest{
		CommissionRate: ptrFloat(45),
		SalaryPayDay:   ptrInt(15),
	}.apply(&role)

	assert.Equal(t, "Barbeiro Sênior", role.Title)
	assert.Equal(t, 45.0, role.CommissionRate)
	require.NotNil(t, role.BaseSalary)
	assert.Equal(t, 3000.0, *role.BaseSalary)
	require.NotNil(t, role.SalaryPayDay)
	assert.Equal(t, 15, *role.SalaryPayDay)
}
