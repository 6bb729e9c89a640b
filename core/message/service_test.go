package message

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

type fakeRepo struct {
	messages []Message
	nextID   int
}

var _ Repository = (*fakeRepo)(nil)

func (r *fakeRepo) genID() string {
	r.nextID++
	return fmt.Sprintf("msg-%03d", r.nextID)
}

func (r *fakeRepo) CreateMessage(ctx context.Context, m Message) (Message, error) {
	m.ID = r.genID()
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *fakeRepo) QueryConversation(ctx context.Context, userID, otherID string) ([]Message, error) {
	var res []Message
	for _, m := range r.messages {
		if m.IsDeleted {
			continue
		}
		if (m.SenderID == userID && m.RecipientID == otherID) || (m.SenderID == otherID && m.RecipientID == userID) {
			res = append(res, m)
		}
	}
	return res, nil
}

func (r *fakeRepo) QueryContacts(ctx context.Context, userID string) ([]Contact, error) {
	seen := make(map[string]bool)
	var res []Contact
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		if m.IsDeleted || (m.SenderID != userID && m.RecipientID != userID) {
			continue
		}
		other := m.SenderID
		if other == userID {
			other = m.RecipientID
		}
		if !seen[other] {
			seen[other] = true
			res = append(res, Contact{ID: other})
		}
	}
	return res, nil
}

func (r *fakeRepo) GetMessage(ctx context.Context, id string) (Message, error) {
	for _, m := range r.messages {
		if m.ID == id && !m.IsDeleted {
			return m, nil
		}
	}
	return Message{}, ErrNotFound
}

func (r *fakeRepo) UpdateMessage(ctx context.Context, m Message) (Message, error) {
	for i := range r.messages {
		if r.messages[i].ID == m.ID {
			r.messages[i] = m
			return m, nil
		}
	}
	return Message{}, ErrNotFound
}

func seedConversation(t *testing.T, svc *Service, a, b string, n int) []Message {
	t.Helper()
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		sender, recipient := a, b
		if i%2 == 1 {
			sender, recipient = b, a
		}
		m, err := svc.Send(context.Background(), sender, recipient, NewMessage{Text: fmt.Sprintf("hello %d", i)})
		if err != nil {
			t.Fatalf("Send(): %v", err)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func TestSend(t *testing.T) {
	svc := NewService(&fakeRepo{})

	m, err := svc.Send(context.Background(), "usr-1", "usr-2", NewMessage{Text: "hi"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if m.SenderID != "usr-1" || m.RecipientID != "usr-2" || m.Text != "hi" {
		t.Errorf("unexpected message %+v", m)
	}

	if _, err = svc.Send(context.Background(), "usr-1", "usr-1", NewMessage{Text: "me"}); errors.Cause(err) != ErrSelfMessage {
		t.Errorf("Send() to self error = %v, want %v", err, ErrSelfMessage)
	}
}

func TestConversation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})
	msgs := seedConversation(t, svc, "usr-1", "usr-2", 30)

	t.Run("defaults to the latest twenty", func(t *testing.T) {
		got, err := svc.Conversation(ctx, "usr-1", "usr-2", ConversationFilter{})
		if err != nil {
			t.Fatalf("Conversation() error = %v", err)
		}
		if len(got) != 20 {
			t.Fatalf("len = %d, want 20", len(got))
		}
		if got[0].ID != msgs[10].ID || got[19].ID != msgs[29].ID {
			t.Errorf("unexpected page %v .. %v", got[0].ID, got[19].ID)
		}
	})

	t.Run("cursor pages backwards", func(t *testing.T) {
		got, err := svc.Conversation(ctx, "usr-1", "usr-2", ConversationFilter{From: msgs[10].ID, Max: 5})
		if err != nil {
			t.Fatalf("Conversation() error = %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		// the five messages immediately before the cursor, cursor excluded
		if got[0].ID != msgs[5].ID || got[4].ID != msgs[9].ID {
			t.Errorf("unexpected page %v .. %v", got[0].ID, got[4].ID)
		}
	})

	t.Run("unknown cursor", func(t *testing.T) {
		if _, err := svc.Conversation(ctx, "usr-1", "usr-2", ConversationFilter{From: "nope"}); errors.Cause(err) != ErrNotFound {
			t.Errorf("Conversation() error = %v, want %v", err, ErrNotFound)
		}
	})

	t.Run("strangers have an empty conversation", func(t *testing.T) {
		got, err := svc.Conversation(ctx, "usr-1", "usr-9", ConversationFilter{})
		if err != nil {
			t.Fatalf("Conversation() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("unexpected messages %+v", got)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeRepo{})
	msgs := seedConversation(t, svc, "usr-1", "usr-2", 2)

	// msgs[1] was sent by usr-2
	if err := svc.Delete(ctx, msgs[1].ID, "usr-1"); errors.Cause(err) != ErrNotSender {
		t.Errorf("Delete() by recipient error = %v, want %v", err, ErrNotSender)
	}

	if err := svc.Delete(ctx, msgs[0].ID, "usr-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := svc.Conversation(ctx, "usr-1", "usr-2", ConversationFilter{})
	if err != nil {
		t.Fatalf("Conversation() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != msgs[1].ID {
		t.Errorf("unexpected messages after delete %+v", got)
	}

	if err := svc.Delete(ctx, msgs[0].ID, "usr-1"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Delete() twice error = %v, want %v", err, ErrNotFound)
	}
}
