package branch

import (
	"errors"

	"salao-backend/internal/models"
)

var (
	ErrBranchNotFound        = errors.New("filial não encontrada")
	ErrNoBranchExists        = errors.New("nenhuma filial cadastrada")
	ErrNoBranchConfigured    = errors.New("nenhuma filial encontrada para este usuário")
	ErrProfessionalNotLinked = errors.New("profissional não encontrado no sistema")
	ErrUserNotFound          = errors.New("usuário não encontrado")
	ErrBranchAccessDenied    = errors.New("acesso negado à filial especificada")
)

// Caller é a identidade já autenticada de quem executa a operação.
type Caller struct {
	UserID uint
	Role   models.UserRole
}

// Store é a superfície de persistência do resolvedor.
type Store interface {
	BranchByID(id uint) (*models.Branch, error)
	BranchesByOwner(ownerID uint) ([]models.Branch, error)
	AllBranches() ([]models.Branch, error)
	FirstBranch() (*models.Branch, error)
	UserByID(id uint) (*models.User, error)
	// ProfessionalForUser resolve o registro de profissional de um usuário:
	// primeiro pela FK user_id, depois pelo casamento legado de nome.
	ProfessionalForUser(user *models.User) (*models.Professional, error)
}

// Resolver aplica a política de resolução de filial em três níveis:
// filial explícita, contexto do chamador, primeira filial do sistema.
// Toda operação com escopo de filial passa por aqui para que o
// comportamento seja uniforme entre os recursos.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve devolve a única filial alvo da operação.
func (r *Resolver) Resolve(caller *Caller, explicitID uint) (uint, error) {
	if explicitID != 0 {
		b, err := r.store.BranchByID(explicitID)
		if err != nil {
			return 0, err
		}
		if b == nil {
			return 0, ErrBranchNotFound
		}
		if caller != nil {
			allowed, err := r.ScopeBranchIDs(caller)
			if err != nil {
				return 0, err
			}
			if !containsID(allowed, explicitID) {
				return 0, ErrBranchAccessDenied
			}
		}
		return b.ID, nil
	}

	if caller != nil && caller.UserID != 0 {
		user, err := r.store.UserByID(caller.UserID)
		if err != nil {
			return 0, err
		}
		if user == nil {
			return 0, ErrUserNotFound
		}

		switch user.Role {
		case models.RoleAdmin:
			branches, err := r.store.BranchesByOwner(user.ID)
			if err != nil {
				return 0, err
			}
			if len(branches) == 0 {
				return 0, ErrNoBranchConfigured
			}
			// desempate determinístico: primeira filial por ordem de criação
			return branches[0].ID, nil
		case models.RoleSuperAdmin:
			first, err := r.store.FirstBranch()
			if err != nil {
				return 0, err
			}
			if first == nil {
				return 0, ErrNoBranchExists
			}
			return first.ID, nil
		default:
			prof, err := r.store.ProfessionalForUser(user)
			if err != nil {
				return 0, err
			}
			if prof == nil {
				return 0, ErrProfessionalNotLinked
			}
			return prof.BranchID, nil
		}
	}

	// caminho sem autenticação (seed/manutenção)
	first, err := r.store.FirstBranch()
	if err != nil {
		return 0, err
	}
	if first == nil {
		return 0, ErrNoBranchExists
	}
	return first.ID, nil
}

// ScopeBranchIDs lista as filiais que o chamador pode ler: ADMIN enxerga
// as suas, SUPERADMIN todas, PROFESSIONAL apenas a da sua lotação.
func (r *Resolver) ScopeBranchIDs(caller *Caller) ([]uint, error) {
	if caller == nil || caller.UserID == 0 {
		return nil, nil
	}

	user, err := r.store.UserByID(caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	switch user.Role {
	case models.RoleAdmin:
		branches, err := r.store.BranchesByOwner(user.ID)
		if err != nil {
			return nil, err
		}
		return branchIDs(branches), nil
	case models.RoleSuperAdmin:
		branches, err := r.store.AllBranches()
		if err != nil {
			return nil, err
		}
		return branchIDs(branches), nil
	default:
		prof, err := r.store.ProfessionalForUser(user)
		if err != nil {
			return nil, err
		}
		if prof == nil {
			return nil, ErrProfessionalNotLinked
		}
		return []uint{prof.BranchID}, nil
	}
}

func branchIDs(branches []models.Branch) []uint {
	ids := make([]uint, 0, len(branches))
	for _, b := range branches {
		ids = append(ids, b.ID)
	}
	return ids
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
