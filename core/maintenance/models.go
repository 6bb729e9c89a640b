package maintenance

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

// Request statuses
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

var AllStatuses = []string{StatusPending, StatusInProgress, StatusCompleted}

type (
	// RequestType is a lookup category for maintenance requests (plumbing,
	// electrical, ...). Seeded by migration, managed by admins.
	RequestType struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// Request is a tenant's maintenance request on their lease.
	Request struct {
		ID            string    `json:"id"`
		LeaseID       string    `json:"lease_id"`
		RequestTypeID string    `json:"request_type_id"`
		TenantID      string    `json:"tenant_id"`
		Description   string    `json:"description"`
		Status        string    `json:"status"`
		IsDeleted     bool      `json:"-"`
		CreatedAt     time.Time `json:"created_at"` // UTC
		UpdatedAt     time.Time `json:"updated_at"` // UTC

		// joined
		LandlordID      string `json:"-"`
		RequestTypeName string `json:"request_type_name,omitempty"`
	}
)

// NewRequest contains information needed to open a maintenance request.
type NewRequest struct {
	RequestTypeID string `json:"request_type_id" validate:"required"`
	Description   string `json:"description" validate:"required,max=1000"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.RequestTypeID = core.CleanString(nr.RequestTypeID)
	nr.Description = core.CleanString(nr.Description)
	return validate.Struct(nr)
}

// UpdateRequest defines what information may be provided to modify an
// existing request; the landlord moves it through its statuses.
type UpdateRequest struct {
	Status string `json:"status" validate:"required,requeststatus"`
}

func (ur *UpdateRequest) Validate(validate *validator.Validate) error {
	ur.Status = strings.ToUpper(core.CleanString(ur.Status))
	return validate.Struct(ur)
}
