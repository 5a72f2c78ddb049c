package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/queue"
)

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type fakeUsers struct {
	users map[string]*entity.User
}

func (f *fakeUsers) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}
func (f *fakeUsers) GetByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (f *fakeUsers) SetCompany(context.Context, string, string) error         { return nil }
func (f *fakeUsers) ListAll(context.Context) ([]*entity.User, error)          { return nil, nil }

func newMailer(d *fakeDialer) *NotificationMailer {
	users := &fakeUsers{users: map[string]*entity.User{
		"u1": {ID: "u1", Email: "gestor@example.com", Name: "Gestor", IsActive: true},
		"u2": {ID: "u2", Email: "inactivo@example.com", Name: "Inactivo", IsActive: false},
	}}
	sender := &EmailSender{From: "no-reply@example.com", dialer: d}
	return NewNotificationMailer(sender, users, "https://app.example.com")
}

func TestDeliver_HighPrioritySendsEmail(t *testing.T) {
	d := &fakeDialer{}
	err := newMailer(d).Deliver(context.Background(), queue.NotificationPayload{
		UserID: "u1", Priority: "HIGH", Title: "Acción vencida", Message: "Llamar", ActionURL: "/leads/l1",
	})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"gestor@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Acción vencida"}, d.sent[0].GetHeader("Subject"))
}

func TestDeliver_SkipsLowerPriorityAndInactive(t *testing.T) {
	d := &fakeDialer{}
	m := newMailer(d)
	require.NoError(t, m.Deliver(context.Background(), queue.NotificationPayload{UserID: "u1", Priority: "MEDIUM"}))
	require.NoError(t, m.Deliver(context.Background(), queue.NotificationPayload{UserID: "u2", Priority: "HIGH"}))
	require.NoError(t, m.Deliver(context.Background(), queue.NotificationPayload{UserID: "missing", Priority: "HIGH"}))
	assert.Empty(t, d.sent)
}

func TestDeliver_PropagatesSMTPError(t *testing.T) {
	d := &fakeDialer{err: errors.New("smtp down")}
	err := newMailer(d).Deliver(context.Background(), queue.NotificationPayload{UserID: "u1", Priority: "HIGH", Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}
