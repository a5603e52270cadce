package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"dmchat/internal/app/chat"
	"dmchat/internal/pkg/randx"
)

// SaveMessage persists a direct message and returns the stored copy with its
// assigned id and creation time. Implements chat.HistoryStore.
func (s *Store) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	m.ID = randx.MessageID()
	m.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, sender_id, recipient_id, body, attachment_name, attachment_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SenderID, m.RecipientID,
		nullText(m.Text), nullText(m.AttachmentName), nullText(m.AttachmentKey),
		m.CreatedAt,
	)
	if err != nil {
		return chat.Message{}, err
	}

	return m, nil
}

// ConversationBetween returns every message exchanged between the two user
// ids, in either direction, ordered by creation time.
func (s *Store) ConversationBetween(ctx context.Context, userA, userB string) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, sender_id, recipient_id, body, attachment_name, attachment_key, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND recipient_id = $2)
		    OR (sender_id = $2 AND recipient_id = $1)
		 ORDER BY created_at`,
		userA, userB,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var (
			m              chat.Message
			body           pgtype.Text
			attachmentName pgtype.Text
			attachmentKey  pgtype.Text
		)

		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &body, &attachmentName, &attachmentKey, &m.CreatedAt); err != nil {
			return nil, err
		}

		m.Text = body.String
		m.AttachmentName = attachmentName.String
		m.AttachmentKey = attachmentKey.String

		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// nullText maps an empty string to SQL NULL.
func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
