package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/maintenance"
)

type requestRow struct {
	ID            string    `db:"id"`
	LeaseID       string    `db:"lease_id"`
	RequestTypeID string    `db:"request_type_id"`
	TenantID      string    `db:"tenant_id"`
	Description   string    `db:"description"`
	Status        string    `db:"status"`
	IsDeleted     bool      `db:"is_deleted"`
	CreatedAt     null.Time `db:"created_at"`
	UpdatedAt     null.Time `db:"updated_at"`

	LandlordID      null.String `db:"landlord_id"`
	RequestTypeName null.String `db:"request_type_name"`
}

func (row requestRow) unmarshal() maintenance.Request {
	return maintenance.Request{
		ID:              row.ID,
		LeaseID:         row.LeaseID,
		RequestTypeID:   row.RequestTypeID,
		TenantID:        row.TenantID,
		Description:     row.Description,
		Status:          row.Status,
		IsDeleted:       row.IsDeleted,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
		LandlordID:      row.LandlordID.String,
		RequestTypeName: row.RequestTypeName.String,
	}
}

type maintenanceRepository struct {
	exec core.DBExecutor
}

var _ maintenance.Repository = (*maintenanceRepository)(nil) // interface compliance check

func NewMaintenanceRepository(exec core.DBExecutor) *maintenanceRepository {
	return &maintenanceRepository{exec: exec}
}

const requestSelect = `
	SELECT mr.*, p.landlord_id, rt.name AS request_type_name
	FROM maintenance_request mr
	JOIN request_type rt ON rt.id = mr.request_type_id
	JOIN lease l ON l.id = mr.lease_id
	JOIN property p ON p.id = l.property_id`

func (repo maintenanceRepository) QueryRequestTypes(ctx context.Context) ([]maintenance.RequestType, error) {
	var types []maintenance.RequestType
	if err := repo.exec.SelectContext(ctx, &types, `SELECT * FROM request_type ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying request types")
	}
	return types, nil
}

func (repo maintenanceRepository) GetRequestType(ctx context.Context, id string) (maintenance.RequestType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return maintenance.RequestType{}, maintenance.ErrRequestTypeNotFound
	}
	var rt maintenance.RequestType
	if err := repo.exec.GetContext(ctx, &rt, `SELECT * FROM request_type WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return maintenance.RequestType{}, maintenance.ErrRequestTypeNotFound
		}
		return maintenance.RequestType{}, errors.Wrap(err, "finding request type")
	}
	return rt, nil
}

func (repo maintenanceRepository) CreateRequest(ctx context.Context, req maintenance.Request) (maintenance.Request, error) {
	req.ID = uuid.New().String()
	query := `
		INSERT INTO maintenance_request (id, lease_id, request_type_id, tenant_id, description, status, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.exec.ExecContext(ctx, query,
		req.ID, req.LeaseID, req.RequestTypeID, req.TenantID, req.Description, req.Status, req.IsDeleted, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return maintenance.Request{}, errors.Wrap(err, "inserting maintenance request")
	}
	return repo.GetRequest(ctx, req.ID)
}

func (repo maintenanceRepository) QueryRequestsByLease(ctx context.Context, leaseID string) ([]maintenance.Request, error) {
	var rows []requestRow
	query := requestSelect + ` WHERE mr.lease_id = $1 AND NOT mr.is_deleted ORDER BY mr.created_at DESC`
	if err := repo.exec.SelectContext(ctx, &rows, query, leaseID); err != nil {
		return nil, errors.Wrap(err, "querying lease maintenance requests")
	}
	reqs := make([]maintenance.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.unmarshal())
	}
	return reqs, nil
}

func (repo maintenanceRepository) GetRequest(ctx context.Context, id string) (maintenance.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	var row requestRow
	query := requestSelect + ` WHERE mr.id = $1 AND NOT mr.is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return maintenance.Request{}, maintenance.ErrNotFound
		}
		return maintenance.Request{}, errors.Wrap(err, "finding maintenance request")
	}
	return row.unmarshal(), nil
}

func (repo maintenanceRepository) UpdateRequest(ctx context.Context, req maintenance.Request) (maintenance.Request, error) {
	query := `
		UPDATE maintenance_request
		SET description = $2, status = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query, req.ID, req.Description, req.Status, req.IsDeleted, req.UpdatedAt)
	if err != nil {
		return maintenance.Request{}, errors.Wrap(err, "updating maintenance request")
	}
	return req, nil
}
