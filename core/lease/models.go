package lease

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lanten/lanten/core"
)

type (
	Lease struct {
		ID         string    `json:"id"`
		PropertyID string    `json:"property_id"`
		StartDate  time.Time `json:"start_date"` // UTC
		EndDate    time.Time `json:"end_date"`   // UTC
		TotalRent  float64   `json:"total_rent"`
		InviteCode string    `json:"invite_code,omitempty"` // blanked for tenants at the API boundary
		IsDeleted  bool      `json:"-"`
		CreatedAt  time.Time `json:"created_at"` // UTC
		UpdatedAt  time.Time `json:"updated_at"` // UTC

		// joined from the owning property
		LandlordID      string `json:"-"`
		PropertyName    string `json:"property_name,omitempty"`
		PropertyAddress string `json:"property_address,omitempty"`
	}

	// Tenant is a user's membership of a lease.
	Tenant struct {
		ID             string    `json:"id"`
		LeaseID        string    `json:"lease_id"`
		TenantID       string    `json:"tenant_id"`
		IndividualRent float64   `json:"individual_rent"`
		IsDeleted      bool      `json:"-"`
		CreatedAt      time.Time `json:"created_at"` // UTC
		UpdatedAt      time.Time `json:"updated_at"` // UTC

		// joined from the user
		TenantName  string `json:"tenant_name,omitempty"`
		TenantEmail string `json:"tenant_email,omitempty"`
	}

	// Invite is a single-use, expiring invitation for an email address to
	// join a lease as a tenant.
	Invite struct {
		ID         string    `json:"id"`
		LeaseID    string    `json:"lease_id"`
		Email      string    `json:"email"`
		InviteCode string    `json:"invite_code"`
		ExpiresAt  time.Time `json:"expires_at"` // UTC
		IsUsed     bool      `json:"is_used"`
		IsDeleted  bool      `json:"-"`
		CreatedAt  time.Time `json:"created_at"` // UTC
		UpdatedAt  time.Time `json:"updated_at"` // UTC
	}
)

// NewLease contains information needed to create a new Lease.
type NewLease struct {
	PropertyID string    `json:"property_id" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	TotalRent  float64   `json:"total_rent" validate:"gte=0"`
}

func (nl *NewLease) Validate(validate *validator.Validate) error {
	nl.PropertyID = core.CleanString(nl.PropertyID)
	return validate.Struct(nl)
}

// UpdateLease defines what information may be provided to modify an existing Lease.
type UpdateLease struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	TotalRent float64   `json:"total_rent" validate:"gte=0"`
}

func (ul *UpdateLease) Validate(validate *validator.Validate) error {
	return validate.Struct(ul)
}

// InviteTenant is a landlord's request to invite an email address to a lease.
type InviteTenant struct {
	Email string `json:"email" validate:"required,email"`
}

func (it *InviteTenant) Validate(validate *validator.Validate) error {
	it.Email = core.CleanString(it.Email, true /* lower */)
	return validate.Struct(it)
}

// AcceptInvite is a tenant's request to join a lease with an invite code.
type AcceptInvite struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

func (ai *AcceptInvite) Validate(validate *validator.Validate) error {
	ai.InviteCode = core.CleanString(ai.InviteCode)
	return validate.Struct(ai)
}
