package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

// Message is a direct message between a landlord and one of their tenants.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Text        string    `json:"text"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Contact is a user the caller has exchanged messages with.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewMessage contains information needed to create a new Message.
type NewMessage struct {
	Text string `json:"text" validate:"required,max=250"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Text = core.CleanString(nm.Text)
	return validate.Struct(nm)
}

// ConversationFilter pages through a conversation backwards: the last Max
// messages before the From cursor, or the latest Max without a cursor.
type ConversationFilter struct {
	From string `query:"from"`
	Max  int    `query:"max"`
}

func (cf *ConversationFilter) Clean() {
	cf.From = core.CleanString(cf.From)
	if cf.Max <= 0 {
		cf.Max = 20
	} else if cf.Max > 100 {
		cf.Max = 100
	}
}
