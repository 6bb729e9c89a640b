package lease

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound        = errors.New("lease not found")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteExpired   = errors.New("invite has expired")
	ErrInviteUsed      = errors.New("invite has already been used")
	ErrAlreadyTenant   = errors.New("tenant already in lease")
	ErrTenantsOnly     = errors.New("only tenants can accept lease invites")
	ErrNotActiveTenant = errors.New("user is not an active tenant of this lease")
)

type (
	Repository interface {
		CreateLease(ctx context.Context, l Lease) (Lease, error)
		QueryLeasesByUser(ctx context.Context, userID string) ([]Lease, error)
		GetLease(ctx context.Context, id string) (Lease, error)
		UpdateLease(ctx context.Context, l Lease) (Lease, error)

		QueryTenants(ctx context.Context, leaseID string, activeOnly bool) ([]Tenant, error)
		GetActiveTenant(ctx context.Context, leaseID, tenantID string) (Tenant, error)
		CreateTenant(ctx context.Context, t Tenant) (Tenant, error)
		RemoveTenant(ctx context.Context, leaseID, tenantID string) (int, error)

		CreateInvite(ctx context.Context, inv Invite) (Invite, error)
		GetInviteByCode(ctx context.Context, code string) (Invite, error)
		UpdateInvite(ctx context.Context, inv Invite) (Invite, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) Create(ctx context.Context, nl NewLease) (Lease, error) {
	now := NowFunc().UTC()
	l := Lease{
		PropertyID: nl.PropertyID,
		StartDate:  nl.StartDate.UTC(),
		EndDate:    nl.EndDate.UTC(),
		TotalRent:  nl.TotalRent,
		InviteCode: newCode(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateLease(ctx, l)
}

// QueryByUser returns all leases the user is a party to, either as the
// landlord of the owning property or as an active tenant.
func (svc *Service) QueryByUser(ctx context.Context, userID string) ([]Lease, error) {
	return svc.repo.QueryLeasesByUser(ctx, userID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Lease, error) {
	return svc.repo.GetLease(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ul UpdateLease) (Lease, error) {
	l, err := svc.repo.GetLease(ctx, id)
	if err != nil {
		return Lease{}, err
	}
	l.StartDate = ul.StartDate.UTC()
	l.EndDate = ul.EndDate.UTC()
	l.TotalRent = ul.TotalRent
	l.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateLease(ctx, l)
}

// Delete soft-deletes a lease.
func (svc *Service) Delete(ctx context.Context, id string) error {
	l, err := svc.repo.GetLease(ctx, id)
	if err != nil {
		return err
	}
	l.IsDeleted = true
	l.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdateLease(ctx, l)
	return err
}

// Tenants returns the active tenant memberships of a lease.
func (svc *Service) Tenants(ctx context.Context, leaseID string) ([]Tenant, error) {
	return svc.repo.QueryTenants(ctx, leaseID, true /* activeOnly */)
}

// IsActiveTenant reports whether the user has an active membership of the lease.
func (svc *Service) IsActiveTenant(ctx context.Context, leaseID, tenantID string) (bool, error) {
	if _, err := svc.repo.GetActiveTenant(ctx, leaseID, tenantID); err != nil {
		if errors.Cause(err) == ErrNotActiveTenant {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Invite creates a single-use, expiring invite for an email address and
// emails the invite code to the invitee.
func (svc *Service) Invite(ctx context.Context, l Lease, it InviteTenant) (Invite, error) {
	// reject emails of current active tenants
	tenants, err := svc.repo.QueryTenants(ctx, l.ID, true /* activeOnly */)
	if err != nil {
		return Invite{}, errors.Wrap(err, "querying lease tenants")
	}
	for _, t := range tenants {
		if t.TenantEmail == it.Email {
			return Invite{}, core.NewValidationError(ErrAlreadyTenant, core.FieldError{Field: "email", Error: ErrAlreadyTenant.Error()})
		}
	}

	now := NowFunc().UTC()
	inv := Invite{
		LeaseID:    l.ID,
		Email:      it.Email,
		InviteCode: newCode(),
		ExpiresAt:  now.Add(svc.conf.InviteExpirationDelta),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	inv, err = svc.repo.CreateInvite(ctx, inv)
	if err != nil {
		return Invite{}, errors.Wrap(err, "creating invite")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: inv.Email}},
		Subject:      "You have been invited to a lease",
		TemplateName: "lease-invite",
		TemplateData: struct {
			Lease      Lease
			InviteCode string
			ExpiresAt  time.Time
		}{l, inv.InviteCode, inv.ExpiresAt},
	})
	return inv, nil
}

// AcceptInvite redeems an invite code for the given user and joins them to
// the lease. Joining is idempotent: a user who is already an active tenant
// of the lease gets their existing membership back, whatever the state of
// the invite.
func (svc *Service) AcceptInvite(ctx context.Context, usr user.User, ai AcceptInvite) (Tenant, error) {
	if !usr.IsTenant() {
		return Tenant{}, ErrTenantsOnly
	}

	inv, err := svc.repo.GetInviteByCode(ctx, ai.InviteCode)
	if err != nil {
		return Tenant{}, err
	}

	// idempotent join: an existing active membership wins over invite state
	if t, err := svc.repo.GetActiveTenant(ctx, inv.LeaseID, usr.ID); err == nil {
		return t, nil
	} else if errors.Cause(err) != ErrNotActiveTenant {
		return Tenant{}, err
	}

	if inv.IsUsed {
		return Tenant{}, ErrInviteUsed
	}
	if NowFunc().UTC().After(inv.ExpiresAt) {
		return Tenant{}, ErrInviteExpired
	}

	now := NowFunc().UTC()
	t, err := svc.repo.CreateTenant(ctx, Tenant{
		LeaseID:   inv.LeaseID,
		TenantID:  usr.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Tenant{}, errors.Wrap(err, "creating lease tenant")
	}

	inv.IsUsed = true
	inv.UpdatedAt = now
	if _, err = svc.repo.UpdateInvite(ctx, inv); err != nil {
		return Tenant{}, errors.Wrap(err, "marking invite used")
	}
	return t, nil
}

// Leave soft-deletes the user's memberships of the lease. Leaving a lease
// the user is not a member of is a no-op.
func (svc *Service) Leave(ctx context.Context, leaseID, tenantID string) error {
	_, err := svc.repo.RemoveTenant(ctx, leaseID, tenantID)
	return err
}

func newCode() string {
	return uuid.New().String()
}
