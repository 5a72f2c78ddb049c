// Package mail entrega notificaciones por correo SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/queue"
)

var _ queue.DeliveryHandler = (*NotificationMailer)(nil)

// dialer lo implementa *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// NotificationEmailData datos de la plantilla.
type NotificationEmailData struct {
	Name      string
	Title     string
	Message   string
	ActionURL string
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<html><body>
<p>Hola {{.Name}},</p>
<h3>{{.Title}}</h3>
<p>{{.Message}}</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Ver en la plataforma</a></p>{{end}}
</body></html>`))

// EmailSender envía correos por SMTP.
type EmailSender struct {
	From   string
	dialer dialer
}

// NewEmailSender construye el remitente SMTP.
func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendNotification envía un correo HTML con el contenido de la notificación.
func (s *EmailSender) SendNotification(to, name string, data NotificationEmailData) error {
	data.Name = name
	var body bytes.Buffer
	if err := notificationTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("procesar plantilla: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", data.Title)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar email SMTP: %w", err)
	}
	return nil
}

// NotificationMailer entrega por correo solo las notificaciones de prioridad alta.
type NotificationMailer struct {
	sender  *EmailSender
	users   repository.UserRepository
	baseURL string
}

// NewNotificationMailer baseURL se antepone a la ruta de acción relativa.
func NewNotificationMailer(sender *EmailSender, users repository.UserRepository, baseURL string) *NotificationMailer {
	return &NotificationMailer{sender: sender, users: users, baseURL: baseURL}
}

// Deliver omite prioridades distintas de HIGH y destinatarios inactivos o sin email.
func (m *NotificationMailer) Deliver(ctx context.Context, p queue.NotificationPayload) error {
	if entity.NotificationPriority(p.Priority) != entity.NotificationHigh {
		return nil
	}
	u, err := m.users.GetByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("buscar destinatario: %w", err)
	}
	if u == nil || !u.IsActive || u.Email == "" {
		return nil
	}
	action := ""
	if p.ActionURL != "" {
		action = m.baseURL + p.ActionURL
	}
	return m.sender.SendNotification(u.Email, u.Name, NotificationEmailData{
		Title:     p.Title,
		Message:   p.Message,
		ActionURL: action,
	})
}
