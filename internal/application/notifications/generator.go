package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

// Umbrales del barrido, en días completos sin actividad.
const (
	StaleAfterDays         = 3
	StaleHighAfterDays     = 7
	EscalateHighAfterDays  = 2
	DedupWindow            = 24 * time.Hour
	recentInteractionCount = 5
)

const day = 24 * time.Hour

// Generator sintetiza recordatorios y alertas a partir de los leads de un gestor.
type Generator struct {
	leadRepo         repository.LeadRepository
	interactionRepo  repository.InteractionRepository
	notificationRepo repository.NotificationRepository
	publisher        Publisher
	log              zerolog.Logger
	now              func() time.Time
	printer          *message.Printer
}

// NewGenerator construye el generador. publisher puede ser nil.
func NewGenerator(
	leadRepo repository.LeadRepository,
	interactionRepo repository.InteractionRepository,
	notificationRepo repository.NotificationRepository,
	publisher Publisher,
	log zerolog.Logger,
) *Generator {
	return &Generator{
		leadRepo:         leadRepo,
		interactionRepo:  interactionRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		log:              log.With().Str("component", "notification_generator").Logger(),
		now:              time.Now,
		printer:          message.NewPrinter(language.Spanish),
	}
}

// WithClock reemplaza el reloj (tests y re-procesos).
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

type dedupKey struct {
	leadID string
	typ    entity.NotificationType
	title  string
}

// Generate ejecuta el barrido para userID y devuelve solo las notificaciones creadas.
// Un error en un lead se registra y el barrido continúa con el siguiente.
func (g *Generator) Generate(ctx context.Context, userID string) ([]*entity.Notification, error) {
	start := time.Now()
	defer func() { metrics.ObserveSweep(time.Since(start)) }()

	leads, err := g.leadRepo.ListAssignedWithRecent(ctx, userID, recentInteractionCount)
	if err != nil {
		return nil, err
	}
	now := g.now()
	since := now.Add(-DedupWindow)
	seen := make(map[dedupKey]struct{})
	created := make([]*entity.Notification, 0)

	for _, lead := range leads {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		candidates, err := g.candidates(ctx, userID, lead, now)
		if err != nil {
			metrics.RecordSweepLeadError()
			g.log.Error().Err(err).Str("user_id", userID).Str("lead_id", lead.ID).Msg("barrido: lead omitido")
			continue
		}
		for _, n := range candidates {
			key := dedupKey{leadID: lead.ID, typ: n.Type, title: n.Title}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			ok, err := g.notificationRepo.CreateIfAbsent(ctx, n, since)
			if err != nil {
				metrics.RecordSweepLeadError()
				g.log.Error().Err(err).Str("user_id", userID).Str("lead_id", lead.ID).Msg("barrido: no se pudo persistir")
				continue
			}
			if !ok {
				continue
			}
			metrics.RecordNotification(string(n.Type), "sweep")
			created = append(created, n)
			g.publish(ctx, n)
		}
	}
	g.log.Debug().Str("user_id", userID).Int("leads", len(leads)).Int("created", len(created)).Msg("barrido completado")
	return created, nil
}

// DaysSinceActivity días completos entre now y la última actividad (nunca negativo).
func DaysSinceActivity(lastActivity, now time.Time) int {
	d := now.Sub(lastActivity)
	if d < 0 {
		return 0
	}
	return int(d / day)
}

// candidates aplica las tres reglas sobre un lead.
func (g *Generator) candidates(ctx context.Context, userID string, lead *entity.LeadWithActivity, now time.Time) ([]*entity.Notification, error) {
	days := DaysSinceActivity(lead.LastActivity(lead.RecentInteractions), now)
	var out []*entity.Notification

	// Regla A: estancamiento.
	if !lead.Status.IsTerminal() && days >= StaleAfterDays {
		priority := entity.NotificationMedium
		if days >= StaleHighAfterDays {
			priority = entity.NotificationHigh
		}
		n := g.newForLead(userID, &lead.Lead, now)
		n.Type = entity.NotificationReminder
		n.Priority = priority
		n.Title = "Lead sin actividad: " + lead.CompanyName
		n.Message = g.printer.Sprintf("%s lleva %d días sin actividad. Valor estimado: $%.2f.",
			lead.CompanyName, days, lead.EstimatedValue.InexactFloat64())
		out = append(out, n)
	}

	// Regla B: escalamiento por prioridad.
	if lead.Priority == entity.PriorityHigh && lead.Status != entity.LeadStatusWon && days >= EscalateHighAfterDays {
		n := g.newForLead(userID, &lead.Lead, now)
		n.Type = entity.NotificationAlert
		n.Priority = entity.NotificationHigh
		n.Title = "Lead prioritario sin atención: " + lead.CompanyName
		n.Message = g.printer.Sprintf("El lead de prioridad alta %s no registra actividad hace %d días.",
			lead.CompanyName, days)
		out = append(out, n)
	}

	// Regla C: próximas acciones vencidas, sobre todo el historial del lead.
	pending, err := g.interactionRepo.ListPendingActions(ctx, lead.ID, now)
	if err != nil {
		return nil, err
	}
	for _, it := range pending {
		if !it.IsOverdue(now) {
			continue
		}
		due := *it.NextActionDate
		n := g.newForLead(userID, &lead.Lead, now)
		n.Type = entity.NotificationAlert
		n.Priority = entity.NotificationHigh
		n.Title = "Acción vencida: " + it.NextAction + " (" + due.Format("02/01/2006") + ")"
		n.Message = g.printer.Sprintf("La acción \"%s\" sobre %s venció hace %d días.",
			it.NextAction, lead.CompanyName, DaysSinceActivity(due, now))
		n.DueDate = &due
		n.Metadata = map[string]string{"interactionId": it.ID}
		out = append(out, n)
	}
	return out, nil
}

func (g *Generator) newForLead(userID string, lead *entity.Lead, now time.Time) *entity.Notification {
	leadID := lead.ID
	return &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     userID,
		ActionType: entity.ActionViewLead,
		ActionURL:  "/leads/" + lead.ID,
		LeadID:     &leadID,
		CreatedAt:  now,
	}
}

func (g *Generator) publish(ctx context.Context, n *entity.Notification) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.PublishNotification(ctx, n); err != nil {
		g.log.Warn().Err(err).Str("notification_id", n.ID).Msg("no se pudo publicar la notificación")
	}
}
