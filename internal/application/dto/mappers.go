package dto

import "github.com/jhoicas/Prospectos-api/internal/domain/entity"

// LeadToResponse mapea entidad a respuesta sin relaciones embebidas.
func LeadToResponse(l *entity.Lead) LeadResponse {
	return LeadResponse{
		ID:                   l.ID,
		CompanyName:          l.CompanyName,
		TaxID:                l.TaxID,
		Sector:               l.Sector,
		Website:              l.Website,
		EmployeeCount:        l.EmployeeCount,
		Source:               string(l.Source),
		Priority:             string(l.Priority),
		Status:               string(l.Status),
		EstimatedValue:       l.EstimatedValue,
		AssignedToID:         l.AssignedToID,
		Notes:                l.Notes,
		ConvertedToCompanyID: l.ConvertedToCompanyID,
		ConvertedAt:          l.ConvertedAt,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

func ContactToResponse(c *entity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		LeadID:    c.LeadID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Position:  c.Position,
		Phone:     c.Phone,
		Email:     c.Email,
		IsPrimary: c.IsPrimary,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}

func InteractionToResponse(i *entity.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:                  i.ID,
		LeadID:              i.LeadID,
		CompanyID:           i.CompanyID,
		ContactID:           i.ContactID,
		Type:                string(i.Type),
		Title:               i.Title,
		Description:         i.Description,
		Outcome:             i.Outcome,
		NextAction:          i.NextAction,
		NextActionDate:      i.NextActionDate,
		NextActionCompleted: i.NextActionCompleted,
		CreatedByID:         i.CreatedByID,
		CreatedAt:           i.CreatedAt,
	}
}

// InteractionDetailToResponse incluye contacto y autor cuando existen.
func InteractionDetailToResponse(d *entity.InteractionDetail) InteractionResponse {
	out := InteractionToResponse(&d.Interaction)
	if d.Contact != nil {
		c := ContactToResponse(d.Contact)
		out.Contact = &c
	}
	if d.Author != nil {
		out.Author = UserSummaryToResponse(d.Author)
	}
	return out
}

func UserSummaryToResponse(u *entity.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func CompanyToResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		TaxID:            c.TaxID,
		Sector:           c.Sector,
		Website:          c.Website,
		Size:             c.Size,
		AccountManagerID: c.AccountManagerID,
		OwnerUserID:      c.OwnerUserID,
		IsVerified:       c.IsVerified,
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
	}
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       string(n.Type),
		Priority:   string(n.Priority),
		Title:      n.Title,
		Message:    n.Message,
		ActionType: n.ActionType,
		ActionURL:  n.ActionURL,
		LeadID:     n.LeadID,
		CompanyID:  n.CompanyID,
		DueDate:    n.DueDate,
		Metadata:   n.Metadata,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

func RecipientToResponse(u *entity.User) RecipientResponse {
	return RecipientResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role)}
}
