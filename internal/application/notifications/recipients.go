package notifications

import (
	"context"
	"sort"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// Authorizer decide a quién puede enviar notificaciones directas cada usuario.
// CanSend y AvailableRecipients comparten allowRecipient para no divergir.
type Authorizer struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) *Authorizer {
	return &Authorizer{userRepo: userRepo, companyRepo: companyRepo}
}

// allowRecipient es la política completa. managed = empresas cuyo gestor es el remitente.
func allowRecipient(senderID string, sender entity.RoleClass, recipient *entity.User, managed map[string]struct{}) bool {
	if recipient == nil || !recipient.IsActive || recipient.ID == senderID {
		return false
	}
	switch sender {
	case entity.RoleClassSuperAdmin, entity.RoleClassAdmin:
		return true
	case entity.RoleClassAccountManager:
		switch entity.ClassifyRole(recipient.Role) {
		case entity.RoleClassAccountManager, entity.RoleClassAdmin, entity.RoleClassSuperAdmin:
			return true
		case entity.RoleClassCompany:
			if recipient.CompanyID == nil {
				return false
			}
			_, ok := managed[*recipient.CompanyID]
			return ok
		case entity.RoleClassOther:
			return false
		}
		return false
	case entity.RoleClassCompany, entity.RoleClassOther:
		return false
	}
	return false
}

// managedCompanies solo se consulta para gestores de cuenta.
func (a *Authorizer) managedCompanies(ctx context.Context, senderID string, class entity.RoleClass) (map[string]struct{}, error) {
	managed := map[string]struct{}{}
	if class != entity.RoleClassAccountManager {
		return managed, nil
	}
	companies, err := a.companyRepo.ListByAccountManager(ctx, senderID)
	if err != nil {
		return nil, err
	}
	for _, c := range companies {
		managed[c.ID] = struct{}{}
	}
	return managed, nil
}

// CanSend informa si senderID (con senderRole) puede notificar a recipientID.
func (a *Authorizer) CanSend(ctx context.Context, senderID string, senderRole entity.Role, recipientID string) (bool, error) {
	class := entity.ClassifyRole(senderRole)
	if senderID == "" || recipientID == "" || senderID == recipientID {
		return false, nil
	}
	if class == entity.RoleClassCompany || class == entity.RoleClassOther {
		return false, nil
	}
	recipient, err := a.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return false, err
	}
	managed, err := a.managedCompanies(ctx, senderID, class)
	if err != nil {
		return false, err
	}
	return allowRecipient(senderID, class, recipient, managed), nil
}

// AvailableRecipients devuelve exactamente los usuarios para los que CanSend es true,
// ordenados por rol canónico y luego email.
func (a *Authorizer) AvailableRecipients(ctx context.Context, senderID string, senderRole entity.Role) ([]*entity.User, error) {
	class := entity.ClassifyRole(senderRole)
	if class == entity.RoleClassCompany || class == entity.RoleClassOther {
		return []*entity.User{}, nil
	}
	users, err := a.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	managed, err := a.managedCompanies(ctx, senderID, class)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if allowRecipient(senderID, class, u, managed) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := roleRank(out[i].Role), roleRank(out[j].Role)
		if ri != rj {
			return ri < rj
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

// roleRank orden de listado por rol canónico: los alias caen en el mismo grupo.
func roleRank(r entity.Role) int {
	switch entity.ClassifyRole(r) {
	case entity.RoleClassSuperAdmin:
		return 0
	case entity.RoleClassAdmin:
		return 1
	case entity.RoleClassAccountManager:
		return 2
	case entity.RoleClassCompany:
		return 3
	default:
		return 4
	}
}
