package message

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = errors.New("message not found")
	ErrSelfMessage = errors.New("you cannot send a message to yourself")
	ErrNotSender   = errors.New("you can only delete your own messages")
)

type (
	Repository interface {
		CreateMessage(ctx context.Context, m Message) (Message, error)
		QueryConversation(ctx context.Context, userID, otherID string) ([]Message, error)
		QueryContacts(ctx context.Context, userID string) ([]Contact, error)
		GetMessage(ctx context.Context, id string) (Message, error)
		UpdateMessage(ctx context.Context, m Message) (Message, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Send records a message from the sender to the recipient. Checking that the
// two are parties to a common lease is the caller's concern.
func (svc *Service) Send(ctx context.Context, senderID, recipientID string, nm NewMessage) (Message, error) {
	if senderID == recipientID {
		return Message{}, ErrSelfMessage
	}
	now := NowFunc().UTC()
	return svc.repo.CreateMessage(ctx, Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        nm.Text,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Conversation returns the messages exchanged between the two users, oldest
// first, paged per the filter.
func (svc *Service) Conversation(ctx context.Context, userID, otherID string, filter ConversationFilter) ([]Message, error) {
	filter.Clean()
	msgs, err := svc.repo.QueryConversation(ctx, userID, otherID)
	if err != nil {
		return nil, errors.Wrap(err, "querying conversation")
	}
	if filter.From != "" {
		end := -1
		for i, m := range msgs {
			if m.ID == filter.From {
				end = i
				break
			}
		}
		if end < 0 {
			return nil, ErrNotFound
		}
		msgs = msgs[:end]
	}
	if len(msgs) > filter.Max {
		msgs = msgs[len(msgs)-filter.Max:]
	}
	return msgs, nil
}

// Contacts returns the users the caller has exchanged messages with, most
// recently messaged first.
func (svc *Service) Contacts(ctx context.Context, userID string) ([]Contact, error) {
	return svc.repo.QueryContacts(ctx, userID)
}

// Delete soft-deletes a message. Only its sender may delete it.
func (svc *Service) Delete(ctx context.Context, id, userID string) error {
	m, err := svc.repo.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if m.SenderID != userID {
		return ErrNotSender
	}
	m.IsDeleted = true
	m.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdateMessage(ctx, m)
	return err
}
