package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/testutil/memstore"
)

var sweepNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

type fakePublisher struct {
	mu   sync.Mutex
	sent []*entity.Notification
	err  error
}

func (p *fakePublisher) PublishNotification(_ context.Context, n *entity.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return p.err
}

func newGenerator(store *memstore.Store, pub Publisher, now time.Time) *Generator {
	leadRepo, interactionRepo, _, _, _, notificationRepo := store.Repos()
	return NewGenerator(leadRepo, interactionRepo, notificationRepo, pub, zerolog.Nop()).
		WithClock(func() time.Time { return now })
}

func addLead(store *memstore.Store, id string, priority entity.LeadPriority, status entity.LeadStatus, age time.Duration) {
	store.AddLead(&entity.Lead{
		ID:             id,
		CompanyName:    "Empresa " + id,
		Source:         entity.SourceWebsite,
		Priority:       priority,
		Status:         status,
		EstimatedValue: decimal.NewFromInt(15000),
		AssignedToID:   strPtr("u-am1"),
		CreatedAt:      sweepNow.Add(-age),
	})
}

func byType(list []*entity.Notification, typ entity.NotificationType) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range list {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func TestGenerate_LeadPrioritarioEstancado(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-1", entity.PriorityHigh, entity.LeadStatusNew, 10*24*time.Hour)
	pub := &fakePublisher{}

	created, err := newGenerator(store, pub, sweepNow).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	require.Len(t, created, 2)

	reminders := byType(created, entity.NotificationReminder)
	require.Len(t, reminders, 1)
	assert.Equal(t, entity.NotificationHigh, reminders[0].Priority)
	assert.Equal(t, "Lead sin actividad: Empresa lead-1", reminders[0].Title)
	assert.Contains(t, reminders[0].Message, "10")
	assert.Equal(t, entity.ActionViewLead, reminders[0].ActionType)
	assert.Equal(t, "/leads/lead-1", reminders[0].ActionURL)

	alerts := byType(created, entity.NotificationAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.NotificationHigh, alerts[0].Priority)
	assert.Equal(t, "Lead prioritario sin atención: Empresa lead-1", alerts[0].Title)

	assert.Len(t, pub.sent, 2)

	again, err := newGenerator(store, pub, sweepNow.Add(time.Hour)).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	assert.Empty(t, again, "la ventana de 24h suprime duplicados")
	assert.Len(t, store.Notifications("u-am1"), 2)

	later, err := newGenerator(store, pub, sweepNow.Add(25*time.Hour)).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	assert.Len(t, later, 2, "fuera de la ventana se vuelve a avisar")
}

func TestGenerate_Umbrales(t *testing.T) {
	cases := []struct {
		name      string
		priority  entity.LeadPriority
		status    entity.LeadStatus
		age       time.Duration
		reminder  entity.NotificationPriority // "" = sin recordatorio
		alertHigh bool
	}{
		{"2 días prioridad media", entity.PriorityMedium, entity.LeadStatusNew, 2 * 24 * time.Hour, "", false},
		{"2 días prioridad alta", entity.PriorityHigh, entity.LeadStatusContacted, 2 * 24 * time.Hour, "", true},
		{"casi 2 días prioridad alta", entity.PriorityHigh, entity.LeadStatusNew, 47 * time.Hour, "", false},
		{"3 días", entity.PriorityLow, entity.LeadStatusNew, 3 * 24 * time.Hour, entity.NotificationMedium, false},
		{"6 días", entity.PriorityLow, entity.LeadStatusNegotiation, 6 * 24 * time.Hour, entity.NotificationMedium, false},
		{"7 días", entity.PriorityLow, entity.LeadStatusNew, 7 * 24 * time.Hour, entity.NotificationHigh, false},
		{"LOST no recuerda pero escala", entity.PriorityHigh, entity.LeadStatusLost, 10 * 24 * time.Hour, "", true},
		{"WON nada", entity.PriorityHigh, entity.LeadStatusWon, 10 * 24 * time.Hour, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			addLead(store, "lead-1", tc.priority, tc.status, tc.age)
			created, err := newGenerator(store, nil, sweepNow).Generate(context.Background(), "u-am1")
			require.NoError(t, err)

			reminders := byType(created, entity.NotificationReminder)
			if tc.reminder == "" {
				assert.Empty(t, reminders)
			} else {
				require.Len(t, reminders, 1)
				assert.Equal(t, tc.reminder, reminders[0].Priority)
			}
			assert.Equal(t, tc.alertHigh, len(byType(created, entity.NotificationAlert)) == 1)
		})
	}
}

func TestGenerate_ActividadRecienteReiniciaElConteo(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-1", entity.PriorityHigh, entity.LeadStatusNew, 20*24*time.Hour)
	store.AddInteraction(&entity.Interaction{
		ID: "it-1", LeadID: strPtr("lead-1"), Type: entity.InteractionCall, CreatedByID: "u-am1",
		CreatedAt: sweepNow.Add(-24 * time.Hour),
	})

	created, err := newGenerator(store, nil, sweepNow).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestGenerate_AccionVencida(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-1", entity.PriorityLow, entity.LeadStatusContacted, 30*24*time.Hour)
	due := time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC)
	store.AddInteraction(&entity.Interaction{
		ID: "it-due", LeadID: strPtr("lead-1"), Type: entity.InteractionEmail, CreatedByID: "u-am1",
		NextAction: "Enviar propuesta", NextActionDate: &due, CreatedAt: sweepNow.Add(-time.Hour),
	})
	future := sweepNow.Add(48 * time.Hour)
	store.AddInteraction(&entity.Interaction{
		ID: "it-future", LeadID: strPtr("lead-1"), Type: entity.InteractionEmail, CreatedByID: "u-am1",
		NextAction: "Seguimiento", NextActionDate: &future, CreatedAt: sweepNow.Add(-2 * time.Hour),
	})
	store.AddInteraction(&entity.Interaction{
		ID: "it-done", LeadID: strPtr("lead-1"), Type: entity.InteractionEmail, CreatedByID: "u-am1",
		NextAction: "Hecha", NextActionDate: &due, NextActionCompleted: true, CreatedAt: sweepNow.Add(-3 * time.Hour),
	})

	created, err := newGenerator(store, nil, sweepNow).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, entity.NotificationAlert, n.Type)
	assert.Equal(t, entity.NotificationHigh, n.Priority)
	assert.Equal(t, "Acción vencida: Enviar propuesta (08/03/2026)", n.Title)
	assert.Equal(t, map[string]string{"interactionId": "it-due"}, n.Metadata)
	require.NotNil(t, n.DueDate)
	assert.True(t, due.Equal(*n.DueDate))
}

func TestGenerate_FalloEnUnLeadNoDetieneElBarrido(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-bad", entity.PriorityHigh, entity.LeadStatusNew, 10*24*time.Hour)
	addLead(store, "lead-ok", entity.PriorityLow, entity.LeadStatusNew, 4*24*time.Hour)
	store.Fail("interaction.pending:lead-bad", nil)

	created, err := newGenerator(store, nil, sweepNow).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "lead-ok", *created[0].LeadID)
}

func TestGenerate_FalloAlPublicarNoPierdeLaNotificacion(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-1", entity.PriorityLow, entity.LeadStatusNew, 4*24*time.Hour)
	pub := &fakePublisher{err: errors.New("broker caído")}

	created, err := newGenerator(store, pub, sweepNow).Generate(context.Background(), "u-am1")
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Len(t, store.Notifications("u-am1"), 1)
}

func TestGenerate_ErrorAlListarLeads(t *testing.T) {
	store := memstore.New()
	store.Fail("lead.list_assigned", nil)
	_, err := newGenerator(store, nil, sweepNow).Generate(context.Background(), "u-am1")
	assert.ErrorIs(t, err, memstore.ErrInjected)
}

func TestDaysSinceActivity(t *testing.T) {
	assert.Equal(t, 0, DaysSinceActivity(sweepNow.Add(time.Hour), sweepNow))
	assert.Equal(t, 0, DaysSinceActivity(sweepNow.Add(-23*time.Hour), sweepNow))
	assert.Equal(t, 1, DaysSinceActivity(sweepNow.Add(-24*time.Hour), sweepNow))
	assert.Equal(t, 6, DaysSinceActivity(sweepNow.Add(-(7*24-1)*time.Hour), sweepNow))
}

func TestGenerate_BarridosConcurrentesNoDuplican(t *testing.T) {
	store := memstore.New()
	addLead(store, "lead-1", entity.PriorityHigh, entity.LeadStatusNew, 10*24*time.Hour)
	gen := newGenerator(store, &fakePublisher{}, sweepNow)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gen.Generate(context.Background(), "u-am1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all := store.Notifications("u-am1")
	assert.Len(t, byType(all, entity.NotificationReminder), 1)
	assert.Len(t, byType(all, entity.NotificationAlert), 1)
}
