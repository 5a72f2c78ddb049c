package entity

import (
	"strings"
	"time"
)

// NotificationType tipo de notificación.
type NotificationType string

const (
	NotificationReminder NotificationType = "REMINDER"
	NotificationAlert    NotificationType = "ALERT"
	NotificationSuccess  NotificationType = "SUCCESS"
	NotificationInfo     NotificationType = "INFO"
)

// ParseNotificationType normaliza y valida.
func ParseNotificationType(s string) (NotificationType, bool) {
	t := NotificationType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case NotificationReminder, NotificationAlert, NotificationSuccess, NotificationInfo:
		return t, true
	}
	return "", false
}

// NotificationPriority prioridad de la notificación.
type NotificationPriority string

const (
	NotificationHigh   NotificationPriority = "HIGH"
	NotificationMedium NotificationPriority = "MEDIUM"
	NotificationLow    NotificationPriority = "LOW"
)

// ParseNotificationPriority normaliza y valida.
func ParseNotificationPriority(s string) (NotificationPriority, bool) {
	p := NotificationPriority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case NotificationHigh, NotificationMedium, NotificationLow:
		return p, true
	}
	return "", false
}

// Acciones sugeridas en la UI.
const (
	ActionViewLead    = "VIEW_LEAD"
	ActionViewCompany = "VIEW_COMPANY"
)

// Notification pertenece a un único destinatario. Solo cambia su estado de lectura.
type Notification struct {
	ID         string
	UserID     string
	Type       NotificationType
	Priority   NotificationPriority
	Title      string
	Message    string
	ActionType string
	ActionURL  string
	LeadID     *string
	CompanyID  *string
	DueDate    *time.Time
	Metadata   map[string]string
	IsRead     bool
	ReadAt     *time.Time
	CreatedAt  time.Time
}

// NotificationFilter filtros de la bandeja.
type NotificationFilter struct {
	UnreadOnly   bool
	HighPriority bool
}
