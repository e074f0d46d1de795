package professional

import (
	"testing"

	"salao-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(v string) *string { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int { return &v }

func TestUpdatePreservaSalarioQuandoOmitido(t *testing.T) {
	prof := models.Professional{
		ID:             1,
		Name:           "Carlos",
		CommissionRate: 40,
		BaseSalary:     ptrFloat(2000),
		SalaryPayDay:   ptrInt(5),
		RoleID:         ptrUint(3),
	}

	UpdateProfessionalRequest{Name: ptrStr("Carlos Silva")}.apply(&prof)

	assert.Equal(t, "Carlos Silva", prof.Name)
	require.NotNil(t, prof.BaseSalary)
	assert.Equal(t, 2000.0, *prof.BaseSalary)
	require.NotNil(t, prof.SalaryPayDay)
	assert.Equal(t, 5, *prof.SalaryPayDay)
	require.NotNil(t, prof.RoleID)
	assert.Equal(t, uint(3), *prof.RoleID)
	assert.Equal(t, 40.0, prof.CommissionRate)
}

func TestUpdateAplicaSomenteCamposEnviados(t *testing.T) {
	prof := models.Professional{
		ID:           1,
		Name:         "Carlos",
		Role:         "Barbeiro",
		BaseSalary:   ptrFloat(2000),
		SalaryPayDay: ptrInt(5),
	}

	UpdateProfessionalRequest{
		CommissionRate: ptrFloat(35),
		BaseSalary:     ptrFloat(2500),
	}.apply(&prof)

	assert.Equal(t, "Carlos", prof.Name)
	assert.Equal(t, "Barbeiro", prof.Role)
	assert.Equal(t, 35.0, prof.CommissionRate)
	require.NotNil(t, prof.BaseSalary)
	assert.Equal(t, 2500.0, *prof.BaseSalary)
	require.NotNil(t, prof.SalaryPayDay)
	assert.Equal(t, 5, *prof.SalaryPayDay)
}

func TestUpdateRoleIDZeroDesvinculaCargo(t *testing.T) {
	prof := models.Professional{ID: 1, Name: "Carlos", RoleID: ptrUint(3)}

	UpdateProfessionalRequest{RoleID: ptrUint(0)}.apply(&prof)

	assert.Nil(t, prof.RoleID)
}

func TestUpdatePermiteZerarComissao(t *testing.T) {
	prof := models.Professional{ID: 1, Name: "Carlos", CommissionRate: 40}

	UpdateProfessionalRequest{CommissionRate: ptrFloat(0)}.apply(&prof)

	assert.Equal(t, 0.0, prof.CommissionRate)
}
