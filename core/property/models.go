package property

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

type Property struct {
	ID          string    `json:"id"`
	LandlordID  string    `json:"landlord_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewProperty contains information needed to create a new Property.
type NewProperty struct {
	Name        string `json:"name" validate:"required,max=50"`
	Address     string `json:"address" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (np *NewProperty) Validate(validate *validator.Validate) error {
	np.Name = core.CleanString(np.Name)
	np.Address = core.CleanString(np.Address)
	np.Description = core.CleanString(np.Description)
	return validate.Struct(np)
}

// UpdateProperty defines what information may be provided to modify an existing Property.
type UpdateProperty struct {
	Name        string `json:"name" validate:"omitempty,max=50"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (up *UpdateProperty) Validate(orig Property, validate *validator.Validate) error {
	if name := core.CleanString(up.Name); name != "" {
		up.Name = name
	} else {
		up.Name = orig.Name
	}
	if addr := core.CleanString(up.Address); addr != "" {
		up.Address = addr
	} else {
		up.Address = orig.Address
	}
	if desc := core.CleanString(up.Description); desc != "" {
		up.Description = desc
	} else {
		up.Description = orig.Description
	}
	return validate.Struct(up)
}
