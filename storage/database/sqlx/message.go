package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/message"
)

type messageRow struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	Text        string    `db:"text"`
	IsDeleted   bool      `db:"is_deleted"`
	CreatedAt   null.Time `db:"created_at"`
	UpdatedAt   null.Time `db:"updated_at"`
}

func (row messageRow) unmarshal() message.Message {
	return message.Message{
		ID:          row.ID,
		SenderID:    row.SenderID,
		RecipientID: row.RecipientID,
		Text:        row.Text,
		IsDeleted:   row.IsDeleted,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

type contactRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

type messageRepository struct {
	exec core.DBExecutor
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(exec core.DBExecutor) *messageRepository {
	return &messageRepository{exec: exec}
}

func (repo messageRepository) CreateMessage(ctx context.Context, m message.Message) (message.Message, error) {
	m.ID = uuid.New().String()
	query := `
		INSERT INTO message (id, sender_id, recipient_id, text, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.exec.ExecContext(ctx, query, m.ID, m.SenderID, m.RecipientID, m.Text, m.IsDeleted, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "inserting message")
	}
	return repo.GetMessage(ctx, m.ID)
}

func (repo messageRepository) QueryConversation(ctx context.Context, userID, otherID string) ([]message.Message, error) {
	var rows []messageRow
	query := `
		SELECT m.* FROM message m
		WHERE NOT m.is_deleted
		  AND ((m.sender_id = $1 AND m.recipient_id = $2) OR (m.sender_id = $2 AND m.recipient_id = $1))
		ORDER BY m.created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query, userID, otherID); err != nil {
		return nil, errors.Wrap(err, "querying conversation")
	}
	msgs := make([]message.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.unmarshal())
	}
	return msgs, nil
}

func (repo messageRepository) QueryContacts(ctx context.Context, userID string) ([]message.Contact, error) {
	var rows []contactRow
	query := `
		SELECT u.id, u.name, u.email
		FROM "user" u
		JOIN (
			SELECT CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS user_id,
			       MAX(m.created_at) AS last_message_at
			FROM message m
			WHERE NOT m.is_deleted AND (m.sender_id = $1 OR m.recipient_id = $1)
			GROUP BY 1
		) c ON c.user_id = u.id
		ORDER BY c.last_message_at DESC`
	if err := repo.exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying message contacts")
	}
	contacts := make([]message.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, message.Contact{ID: row.ID, Name: row.Name, Email: row.Email})
	}
	return contacts, nil
}

func (repo messageRepository) GetMessage(ctx context.Context, id string) (message.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return message.Message{}, message.ErrNotFound
	}
	var row messageRow
	query := `SELECT m.* FROM message m WHERE m.id = $1 AND NOT m.is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return message.Message{}, message.ErrNotFound
		}
		return message.Message{}, errors.Wrap(err, "finding message")
	}
	return row.unmarshal(), nil
}

func (repo messageRepository) UpdateMessage(ctx context.Context, m message.Message) (message.Message, error) {
	query := `
		UPDATE message
		SET text = $2, is_deleted = $3, updated_at = $4
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query, m.ID, m.Text, m.IsDeleted, m.UpdatedAt)
	if err != nil {
		return message.Message{}, errors.Wrap(err, "updating message")
	}
	return m, nil
}
