package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

// Announcement is a message from a landlord to the tenants of a lease.
type Announcement struct {
	ID        string    `json:"id"`
	LeaseID   string    `json:"lease_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsDeleted bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC

	// joined from the owning lease's property
	LandlordID string `json:"-"`
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Title   string `json:"title" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=1000"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Message = core.CleanString(na.Message)
	return validate.Struct(na)
}
