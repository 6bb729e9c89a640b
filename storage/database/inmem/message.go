package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/message"
)

type messageRepository struct {
	db *DB
}

var _ message.Repository = (*messageRepository)(nil)

func NewMessageRepository(db *DB) *messageRepository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) CreateMessage(ctx context.Context, m message.Message) (message.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	m.ID = newPK()
	repo.db.messages[m.ID] = &m
	return m, nil
}

func (repo *messageRepository) QueryConversation(ctx context.Context, userID, otherID string) ([]message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var msgs []message.Message
	for _, m := range repo.db.messages {
		if m.IsDeleted {
			continue
		}
		if (m.SenderID == userID && m.RecipientID == otherID) || (m.SenderID == otherID && m.RecipientID == userID) {
			msgs = append(msgs, *m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (repo *messageRepository) QueryContacts(ctx context.Context, userID string) ([]message.Contact, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var msgs []message.Message
	for _, m := range repo.db.messages {
		if !m.IsDeleted && (m.SenderID == userID || m.RecipientID == userID) {
			msgs = append(msgs, *m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })

	seen := make(map[string]bool)
	var contacts []message.Contact
	for _, m := range msgs {
		other := m.SenderID
		if other == userID {
			other = m.RecipientID
		}
		if seen[other] {
			continue
		}
		seen[other] = true
		if usr, ok := repo.db.users[other]; ok {
			contacts = append(contacts, message.Contact{ID: usr.ID, Name: usr.Name, Email: usr.Email})
		}
	}
	return contacts, nil
}

func (repo *messageRepository) GetMessage(ctx context.Context, id string) (message.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.messages[id]; ok && !m.IsDeleted {
		return *m, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) UpdateMessage(ctx context.Context, m message.Message) (message.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.messages[m.ID]; !ok {
		return message.Message{}, message.ErrNotFound
	}
	repo.db.messages[m.ID] = &m
	return m, nil
}
