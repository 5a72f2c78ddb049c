package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

// Filtros aceptados por List.
const (
	FilterUnread = "unread"
	FilterHigh   = "high"
)

// UseCase operaciones de la bandeja de notificaciones.
type UseCase struct {
	repo       repository.NotificationRepository
	authorizer *Authorizer
	generator  *Generator
	throttle   SweepThrottle
	publisher  Publisher
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. throttle y publisher pueden ser nil.
func NewUseCase(
	repo repository.NotificationRepository,
	authorizer *Authorizer,
	generator *Generator,
	throttle SweepThrottle,
	publisher Publisher,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		repo:       repo,
		authorizer: authorizer,
		generator:  generator,
		throttle:   throttle,
		publisher:  publisher,
		log:        log.With().Str("component", "notifications").Logger(),
		now:        time.Now,
	}
}

// Send crea una notificación directa. La autorización se verifica siempre en el servidor.
func (uc *UseCase) Send(ctx context.Context, actor entity.Actor, in dto.SendNotificationRequest) (*dto.NotificationResponse, error) {
	recipientID := strings.TrimSpace(in.RecipientID)
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient_id es obligatorio", domain.ErrInvalidInput)
	}
	title, msg := strings.TrimSpace(in.Title), strings.TrimSpace(in.Message)
	if title == "" || msg == "" {
		return nil, fmt.Errorf("%w: title y message son obligatorios", domain.ErrInvalidInput)
	}
	typ := entity.NotificationInfo
	if in.Type != "" {
		t, ok := entity.ParseNotificationType(in.Type)
		if !ok {
			return nil, fmt.Errorf("%w: type inválido %q", domain.ErrInvalidInput, in.Type)
		}
		typ = t
	}
	priority := entity.NotificationMedium
	if in.Priority != "" {
		p, ok := entity.ParseNotificationPriority(in.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: priority inválida %q", domain.ErrInvalidInput, in.Priority)
		}
		priority = p
	}

	allowed, err := uc.authorizer.CanSend(ctx, actor.UserID, actor.Role, recipientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrUnauthorized
	}

	n := &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     recipientID,
		Type:       typ,
		Priority:   priority,
		Title:      title,
		Message:    msg,
		ActionType: strings.TrimSpace(in.ActionType),
		ActionURL:  strings.TrimSpace(in.ActionURL),
		LeadID:     in.LeadID,
		CompanyID:  in.CompanyID,
		DueDate:    in.DueDate,
		Metadata:   withSender(in.Metadata, actor.UserID),
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.RecordNotification(string(n.Type), "direct")
	uc.publish(ctx, n)
	out := dto.NotificationToResponse(n)
	return &out, nil
}

// List bandeja del usuario con el conteo de no leídas. filter: "", "unread" o "high".
func (uc *UseCase) List(ctx context.Context, userID, filter string, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage(dto.DefaultPageLimit)
	var f entity.NotificationFilter
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "":
	case FilterUnread:
		f.UnreadOnly = true
	case FilterHigh:
		f.HighPriority = true
	default:
		return nil, fmt.Errorf("%w: filter debe ser unread o high", domain.ErrInvalidInput)
	}
	list, err := uc.repo.ListByUser(ctx, userID, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, dto.NotificationToResponse(n))
	}
	return &dto.NotificationListResponse{
		Items:       items,
		UnreadCount: unread,
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// MarkRead marca como leída. Ajena o inexistente responden igual: ErrNotFound.
func (uc *UseCase) MarkRead(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrNotFound
	}
	return uc.repo.MarkRead(ctx, id, userID, uc.now())
}

// MarkAllRead marca todas las no leídas del usuario.
func (uc *UseCase) MarkAllRead(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error) {
	n, err := uc.repo.MarkAllRead(ctx, userID, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

// GenerateAutomatic ejecuta el barrido para el usuario, sujeto al throttle si está configurado.
func (uc *UseCase) GenerateAutomatic(ctx context.Context, userID string) (*dto.GenerateNotificationsResponse, error) {
	if uc.throttle != nil {
		ok, err := uc.throttle.Acquire(ctx, userID)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("throttle no disponible; se ejecuta el barrido")
		} else if !ok {
			return &dto.GenerateNotificationsResponse{Created: []dto.NotificationResponse{}, Throttled: true}, nil
		}
	}
	created, err := uc.generator.Generate(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.GenerateNotificationsResponse{Created: make([]dto.NotificationResponse, 0, len(created)), Count: len(created)}
	for _, n := range created {
		out.Created = append(out.Created, dto.NotificationToResponse(n))
	}
	return out, nil
}

// AvailableRecipients destinatarios permitidos para el actor.
func (uc *UseCase) AvailableRecipients(ctx context.Context, actor entity.Actor) ([]dto.RecipientResponse, error) {
	users, err := uc.authorizer.AvailableRecipients(ctx, actor.UserID, actor.Role)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipientResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.RecipientToResponse(u))
	}
	return out, nil
}

// CanSend expone el predicado de autorización.
func (uc *UseCase) CanSend(ctx context.Context, actor entity.Actor, recipientID string) (*dto.CanSendResponse, error) {
	ok, err := uc.authorizer.CanSend(ctx, actor.UserID, actor.Role, recipientID)
	if err != nil {
		return nil, err
	}
	return &dto.CanSendResponse{RecipientID: recipientID, Allowed: ok}, nil
}

// NotifyConversion crea el aviso SUCCESS para el gestor del lead convertido.
func (uc *UseCase) NotifyConversion(ctx context.Context, lead *entity.Lead, company *entity.Company) error {
	if lead.AssignedToID == nil || *lead.AssignedToID == "" {
		return nil
	}
	leadID, companyID := lead.ID, company.ID
	n := &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     *lead.AssignedToID,
		Type:       entity.NotificationSuccess,
		Priority:   entity.NotificationMedium,
		Title:      "Lead convertido: " + lead.CompanyName,
		Message:    fmt.Sprintf("%s ya es cliente. La cuenta queda pendiente de activación.", lead.CompanyName),
		ActionType: entity.ActionViewCompany,
		ActionURL:  "/companies/" + company.ID,
		LeadID:     &leadID,
		CompanyID:  &companyID,
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return err
	}
	metrics.RecordNotification(string(n.Type), "conversion")
	uc.publish(ctx, n)
	return nil
}

func (uc *UseCase) publish(ctx context.Context, n *entity.Notification) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishNotification(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("notification_id", n.ID).Msg("no se pudo publicar la notificación")
	}
}

func withSender(meta map[string]string, senderID string) map[string]string {
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out["senderId"] = senderID
	return out
}
