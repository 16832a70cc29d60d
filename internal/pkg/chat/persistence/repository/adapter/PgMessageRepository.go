package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Save(ctx context.Context, d chat.Draft) (string, time.Time, error) {
	if r == nil || r.pool == nil {
		return "", time.Time{}, errors.New("PgMessageRepository: nil pool")
	}
	var (
		id        string
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (bus_id, sender_id, recipient_id, text, is_system, message_type)
		VALUES ($1::uuid, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, $5, $6)
		RETURNING id::text, created_at
	`, d.BusID, d.SenderID, d.RecipientID, d.Text, d.IsSystem, d.MessageType).Scan(&id, &createdAt)
	return id, createdAt, err
}

func (r *PgMessageRepository) ListForBus(ctx context.Context, busID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.bus_id::text,
		       m.sender_id::text, su.name, su.role,
		       m.recipient_id::text, ru.name, ru.role,
		       m.text, m.is_system, m.is_read, m.message_type, m.created_at
		FROM messages m
		LEFT JOIN users su ON su.id = m.sender_id
		LEFT JOIN users ru ON ru.id = m.recipient_id
		WHERE m.bus_id = $1::uuid
		ORDER BY m.created_at ASC, m.id ASC
	`, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg           chat.Message
			senderID      *string
			senderName    *string
			senderRole    *string
			recipientID   *string
			recipientName *string
			recipientRole *string
		)
		if err := rows.Scan(
			&msg.ID, &msg.BusID,
			&senderID, &senderName, &senderRole,
			&recipientID, &recipientName, &recipientRole,
			&msg.Text, &msg.IsSystem, &msg.IsRead, &msg.MessageType, &msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		if senderID != nil {
			msg.Sender = &chat.UserRef{ID: *senderID, Name: deref(senderName), Role: deref(senderRole)}
		} else if msg.IsSystem {
			msg.Sender = &chat.UserRef{Name: "System", Role: "system"}
		}
		if recipientID != nil {
			msg.Recipient = &chat.UserRef{ID: *recipientID, Name: deref(recipientName), Role: deref(recipientRole)}
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgMessageRepository) MarkRead(ctx context.Context, busID, viewerID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET is_read = true
		WHERE bus_id = $1::uuid AND recipient_id = $2::uuid AND is_read = false
	`, busID, viewerID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
