package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, user_id, type, priority, title, message, action_type, action_url,
	lead_id, company_id, due_date, metadata, is_read, read_at, created_at`

// NotificationRepo implementación de NotificationRepository.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var n entity.Notification
	var typ, priority string
	var meta []byte
	if err := row.Scan(&n.ID, &n.UserID, &typ, &priority, &n.Title, &n.Message, &n.ActionType, &n.ActionURL,
		&n.LeadID, &n.CompanyID, &n.DueDate, &meta, &n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = entity.NotificationType(typ)
	n.Priority = entity.NotificationPriority(priority)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &n.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &n, nil
}

func encodeMetadata(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Create persiste una notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	meta, err := encodeMetadata(n.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		n.ID, n.UserID, string(n.Type), string(n.Priority), n.Title, n.Message, n.ActionType, n.ActionURL,
		n.LeadID, n.CompanyID, n.DueDate, meta, n.IsRead, n.ReadAt, n.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: destinatario inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// dedupKey clave del advisory lock: misma tupla que compara CreateIfAbsent.
func dedupKey(n *entity.Notification) string {
	lead := ""
	if n.LeadID != nil {
		lead = *n.LeadID
	}
	return strings.Join([]string{n.UserID, lead, string(n.Type), n.Title}, "|")
}

// CreateIfAbsent inserta solo si no hay otra igual desde `since`.
// El advisory lock serializa barridos concurrentes sobre la misma tupla; el INSERT corre
// en una sentencia posterior al lock y por eso ve lo que confirmó el barrido anterior.
func (r *NotificationRepo) CreateIfAbsent(ctx context.Context, n *entity.Notification, since time.Time) (bool, error) {
	meta, err := encodeMetadata(n.Metadata)
	if err != nil {
		return false, fmt.Errorf("encode metadata: %w", err)
	}
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text,
			$9::uuid, $10::uuid, $11::timestamptz, $12::jsonb, FALSE, NULL, $13::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $2::uuid
			  AND lead_id IS NOT DISTINCT FROM $9::uuid
			  AND type = $3::text
			  AND title = $5::text
			  AND created_at >= $14::timestamptz
		)`
	var created bool
	err = pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, dedupKey(n)); err != nil {
			return fmt.Errorf("dedup lock: %w", err)
		}
		tag, err := tx.Exec(ctx, query,
			n.ID, n.UserID, string(n.Type), string(n.Priority), n.Title, n.Message, n.ActionType, n.ActionURL,
			n.LeadID, n.CompanyID, n.DueDate, meta, n.CreatedAt, since,
		)
		if err != nil {
			return fmt.Errorf("insert notification if absent: %w", err)
		}
		created = tag.RowsAffected() == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ListByUser bandeja del usuario, más reciente primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, f entity.NotificationFilter, limit, offset int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if f.UnreadOnly {
		query += ` AND is_read = FALSE`
	}
	if f.HighPriority {
		query += ` AND priority = 'HIGH'`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// CountUnread cuenta las no leídas del usuario.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead marca como leída una notificación propia; read_at conserva la primera lectura.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2`, id, userID, at)
	if err != nil {
		if isInvalidID(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las no leídas del usuario y devuelve cuántas cambió.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = $2
		WHERE user_id = $1 AND is_read = FALSE`, userID, at)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}
