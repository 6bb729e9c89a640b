package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/lease"
)

type leaseRow struct {
	ID         string    `db:"id"`
	PropertyID string    `db:"property_id"`
	StartDate  null.Time `db:"start_date"`
	EndDate    null.Time `db:"end_date"`
	TotalRent  float64   `db:"total_rent"`
	InviteCode string    `db:"invite_code"`
	IsDeleted  bool      `db:"is_deleted"`
	CreatedAt  null.Time `db:"created_at"`
	UpdatedAt  null.Time `db:"updated_at"`

	LandlordID      null.String `db:"landlord_id"`
	PropertyName    null.String `db:"property_name"`
	PropertyAddress null.String `db:"property_address"`
}

func (row leaseRow) unmarshal() lease.Lease {
	return lease.Lease{
		ID:              row.ID,
		PropertyID:      row.PropertyID,
		StartDate:       row.StartDate.Time,
		EndDate:         row.EndDate.Time,
		TotalRent:       row.TotalRent,
		InviteCode:      row.InviteCode,
		IsDeleted:       row.IsDeleted,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
		LandlordID:      row.LandlordID.String,
		PropertyName:    row.PropertyName.String,
		PropertyAddress: row.PropertyAddress.String,
	}
}

type leaseTenantRow struct {
	ID             string    `db:"id"`
	LeaseID        string    `db:"lease_id"`
	TenantID       string    `db:"tenant_id"`
	IndividualRent float64   `db:"individual_rent"`
	IsDeleted      bool      `db:"is_deleted"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`

	TenantName  null.String `db:"tenant_name"`
	TenantEmail null.String `db:"tenant_email"`
}

func (row leaseTenantRow) unmarshal() lease.Tenant {
	return lease.Tenant{
		ID:             row.ID,
		LeaseID:        row.LeaseID,
		TenantID:       row.TenantID,
		IndividualRent: row.IndividualRent,
		IsDeleted:      row.IsDeleted,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
		TenantName:     row.TenantName.String,
		TenantEmail:    row.TenantEmail.String,
	}
}

type inviteRow struct {
	ID         string    `db:"id"`
	LeaseID    string    `db:"lease_id"`
	Email      string    `db:"email"`
	InviteCode string    `db:"invite_code"`
	ExpiresAt  null.Time `db:"expires_at"`
	IsUsed     bool      `db:"is_used"`
	IsDeleted  bool      `db:"is_deleted"`
	CreatedAt  null.Time `db:"created_at"`
	UpdatedAt  null.Time `db:"updated_at"`
}

func (row inviteRow) unmarshal() lease.Invite {
	return lease.Invite{
		ID:         row.ID,
		LeaseID:    row.LeaseID,
		Email:      row.Email,
		InviteCode: row.InviteCode,
		ExpiresAt:  row.ExpiresAt.Time,
		IsUsed:     row.IsUsed,
		IsDeleted:  row.IsDeleted,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}

type leaseRepository struct {
	exec core.DBExecutor
}

var _ lease.Repository = (*leaseRepository)(nil) // interface compliance check

func NewLeaseRepository(exec core.DBExecutor) *leaseRepository {
	return &leaseRepository{exec: exec}
}

const leaseSelect = `
	SELECT l.*, p.landlord_id, p.name AS property_name, p.address AS property_address
	FROM lease l
	JOIN property p ON p.id = l.property_id`

func (repo leaseRepository) CreateLease(ctx context.Context, l lease.Lease) (lease.Lease, error) {
	l.ID = uuid.New().String()
	query := `
		INSERT INTO lease (id, property_id, start_date, end_date, total_rent, invite_code, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.exec.ExecContext(ctx, query,
		l.ID, l.PropertyID, l.StartDate, l.EndDate, l.TotalRent, l.InviteCode, l.IsDeleted, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return lease.Lease{}, errors.Wrap(err, "inserting lease")
	}
	return repo.GetLease(ctx, l.ID)
}

func (repo leaseRepository) QueryLeasesByUser(ctx context.Context, userID string) ([]lease.Lease, error) {
	var rows []leaseRow
	query := leaseSelect + `
		WHERE NOT l.is_deleted
		  AND (p.landlord_id = $1 OR l.id IN (
		      SELECT lease_id FROM lease_tenant WHERE tenant_id = $1 AND NOT is_deleted))
		ORDER BY l.created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying leases")
	}
	leases := make([]lease.Lease, 0, len(rows))
	for _, row := range rows {
		leases = append(leases, row.unmarshal())
	}
	return leases, nil
}

func (repo leaseRepository) GetLease(ctx context.Context, id string) (lease.Lease, error) {
	if _, err := uuid.Parse(id); err != nil {
		return lease.Lease{}, lease.ErrNotFound
	}
	var row leaseRow
	query := leaseSelect + ` WHERE l.id = $1 AND NOT l.is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return lease.Lease{}, lease.ErrNotFound
		}
		return lease.Lease{}, errors.Wrap(err, "finding lease")
	}
	return row.unmarshal(), nil
}

func (repo leaseRepository) UpdateLease(ctx context.Context, l lease.Lease) (lease.Lease, error) {
	query := `
		UPDATE lease
		SET start_date = $2, end_date = $3, total_rent = $4, is_deleted = $5, updated_at = $6
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query, l.ID, l.StartDate, l.EndDate, l.TotalRent, l.IsDeleted, l.UpdatedAt)
	if err != nil {
		return lease.Lease{}, errors.Wrap(err, "updating lease")
	}
	return l, nil
}

func (repo leaseRepository) QueryTenants(ctx context.Context, leaseID string, activeOnly bool) ([]lease.Tenant, error) {
	var rows []leaseTenantRow
	query := `
		SELECT lt.*, u.name AS tenant_name, u.email AS tenant_email
		FROM lease_tenant lt
		JOIN "user" u ON u.id = lt.tenant_id
		WHERE lt.lease_id = $1`
	if activeOnly {
		query += ` AND NOT lt.is_deleted AND u.is_active`
	}
	query += ` ORDER BY lt.created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query, leaseID); err != nil {
		return nil, errors.Wrap(err, "querying lease tenants")
	}
	tenants := make([]lease.Tenant, 0, len(rows))
	for _, row := range rows {
		tenants = append(tenants, row.unmarshal())
	}
	return tenants, nil
}

func (repo leaseRepository) GetActiveTenant(ctx context.Context, leaseID, tenantID string) (lease.Tenant, error) {
	var row leaseTenantRow
	query := `
		SELECT lt.*, u.name AS tenant_name, u.email AS tenant_email
		FROM lease_tenant lt
		JOIN "user" u ON u.id = lt.tenant_id
		WHERE lt.lease_id = $1 AND lt.tenant_id = $2 AND NOT lt.is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, leaseID, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return lease.Tenant{}, lease.ErrNotActiveTenant
		}
		return lease.Tenant{}, errors.Wrap(err, "finding lease tenant")
	}
	return row.unmarshal(), nil
}

func (repo leaseRepository) CreateTenant(ctx context.Context, t lease.Tenant) (lease.Tenant, error) {
	t.ID = uuid.New().String()
	query := `
		INSERT INTO lease_tenant (id, lease_id, tenant_id, individual_rent, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.exec.ExecContext(ctx, query,
		t.ID, t.LeaseID, t.TenantID, t.IndividualRent, t.IsDeleted, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return lease.Tenant{}, errors.Wrap(err, "inserting lease tenant")
	}
	return t, nil
}

func (repo leaseRepository) RemoveTenant(ctx context.Context, leaseID, tenantID string) (int, error) {
	query := `
		UPDATE lease_tenant
		SET is_deleted = TRUE, updated_at = now()
		WHERE lease_id = $1 AND tenant_id = $2 AND NOT is_deleted`
	res, err := repo.exec.ExecContext(ctx, query, leaseID, tenantID)
	if err != nil {
		return 0, errors.Wrap(err, "removing lease tenant")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "removing lease tenant")
	}
	return int(cnt), nil
}

func (repo leaseRepository) CreateInvite(ctx context.Context, inv lease.Invite) (lease.Invite, error) {
	inv.ID = uuid.New().String()
	query := `
		INSERT INTO lease_tenant_invite (id, lease_id, email, invite_code, expires_at, is_used, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.exec.ExecContext(ctx, query,
		inv.ID, inv.LeaseID, inv.Email, inv.InviteCode, inv.ExpiresAt, inv.IsUsed, inv.IsDeleted, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return lease.Invite{}, errors.Wrap(err, "inserting invite")
	}
	return inv, nil
}

func (repo leaseRepository) GetInviteByCode(ctx context.Context, code string) (lease.Invite, error) {
	var row inviteRow
	query := `SELECT * FROM lease_tenant_invite WHERE invite_code = $1 AND NOT is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, code); err != nil {
		if err == sql.ErrNoRows {
			return lease.Invite{}, lease.ErrInviteNotFound
		}
		return lease.Invite{}, errors.Wrap(err, "finding invite")
	}
	return row.unmarshal(), nil
}

func (repo leaseRepository) UpdateInvite(ctx context.Context, inv lease.Invite) (lease.Invite, error) {
	query := `
		UPDATE lease_tenant_invite
		SET is_used = $2, is_deleted = $3, updated_at = $4
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query, inv.ID, inv.IsUsed, inv.IsDeleted, inv.UpdatedAt)
	if err != nil {
		return lease.Invite{}, errors.Wrap(err, "updating invite")
	}
	return inv, nil
}
