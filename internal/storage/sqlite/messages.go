package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/groupswipe/internal/models"
	"github.com/mmynk/groupswipe/internal/storage"
)

const messageProjection = `
	SELECT msg.id, msg.match_id, msg.sender_id, msg.content, COALESCE(msg.client_id, ''), msg.sent_at,
	       COALESCE(u.id, ''), COALESCE(u.username, ''), COALESCE(u.avatar_url, '')
	FROM messages msg LEFT JOIN users u ON u.id = msg.sender_id`

func scanMessage(row rowScanner) (*models.Message, error) {
	msg := &models.Message{}
	err := row.Scan(&msg.ID, &msg.MatchID, &msg.SenderID, &msg.Content, &msg.ClientID, &msg.SentAt,
		&msg.Sender.ID, &msg.Sender.Username, &msg.Sender.AvatarURL)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateMessage appends a message to a match and fills in ID, SentAt and Sender.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg.SentAt == 0 {
		msg.SentAt = s.nowMillis()
	}

	var clientID any
	if msg.ClientID != "" {
		clientID = msg.ClientID
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (match_id, sender_id, content, client_id, sent_at) VALUES (?, ?, ?, ?, ?)",
		msg.MatchID, msg.SenderID, msg.Content, clientID, msg.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if msg.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}

	stored, err := s.GetMessage(ctx, msg.ID)
	if err != nil {
		return err
	}
	msg.Sender = stored.Sender
	return nil
}

// GetMessage retrieves a single message with its sender profile.
func (s *SQLiteStore) GetMessage(ctx context.Context, messageID int64) (*models.Message, error) {
	msg, err := scanMessage(s.db.QueryRowContext(ctx, messageProjection+" WHERE msg.id = ?", messageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %d: %w", messageID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListMessages retrieves one page of a match's messages, newest first.
func (s *SQLiteStore) ListMessages(ctx context.Context, matchID int64, offset, limit int) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		messageProjection+` WHERE msg.match_id = ?
		 ORDER BY msg.sent_at DESC, msg.id DESC
		 LIMIT ? OFFSET ?`,
		matchID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}
