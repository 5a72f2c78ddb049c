package dto

import "time"

// SendNotificationRequest body para POST /api/notifications (envío directo entre usuarios).
type SendNotificationRequest struct {
	RecipientID string            `json:"recipient_id"`
	Type        string            `json:"type,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	ActionType  string            `json:"action_type,omitempty"`
	ActionURL   string            `json:"action_url,omitempty"`
	LeadID      *string           `json:"lead_id,omitempty"`
	CompanyID   *string           `json:"company_id,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NotificationResponse notificación en respuestas.
type NotificationResponse struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Type       string            `json:"type"`
	Priority   string            `json:"priority"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	ActionType string            `json:"action_type,omitempty"`
	ActionURL  string            `json:"action_url,omitempty"`
	LeadID     *string           `json:"lead_id,omitempty"`
	CompanyID  *string           `json:"company_id,omitempty"`
	DueDate    *time.Time        `json:"due_date,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	IsRead     bool              `json:"is_read"`
	ReadAt     *time.Time        `json:"read_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NotificationListResponse bandeja paginada con el conteo de no leídas.
type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int                    `json:"unread_count"`
	Page        PageResponse           `json:"page"`
}

// GenerateNotificationsResponse resultado de un barrido.
type GenerateNotificationsResponse struct {
	Created   []NotificationResponse `json:"created"`
	Count     int                    `json:"count"`
	Throttled bool                   `json:"throttled,omitempty"`
}

// MarkAllReadResponse resultado de POST /api/notifications/read-all.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// RecipientResponse destinatario disponible para el selector de la UI.
type RecipientResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// CanSendResponse resultado del predicado de autorización.
type CanSendResponse struct {
	RecipientID string `json:"recipient_id"`
	Allowed     bool   `json:"allowed"`
}
