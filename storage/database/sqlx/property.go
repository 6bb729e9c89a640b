package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/property"
)

type propertyRow struct {
	ID          string      `db:"id"`
	LandlordID  string      `db:"landlord_id"`
	Name        string      `db:"name"`
	Address     string      `db:"address"`
	Description null.String `db:"description"`
	IsDeleted   bool        `db:"is_deleted"`
	CreatedAt   null.Time   `db:"created_at"`
	UpdatedAt   null.Time   `db:"updated_at"`
}

func (row propertyRow) unmarshal() property.Property {
	return property.Property{
		ID:          row.ID,
		LandlordID:  row.LandlordID,
		Name:        row.Name,
		Address:     row.Address,
		Description: row.Description.String,
		IsDeleted:   row.IsDeleted,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func marshalProperty(p property.Property) propertyRow {
	return propertyRow{
		ID:          p.ID,
		LandlordID:  p.LandlordID,
		Name:        p.Name,
		Address:     p.Address,
		Description: null.NewString(p.Description, p.Description != ""),
		IsDeleted:   p.IsDeleted,
		CreatedAt:   null.NewTime(p.CreatedAt.UTC(), !p.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(p.UpdatedAt.UTC(), !p.UpdatedAt.IsZero()),
	}
}

type propertyRepository struct {
	exec core.DBExecutor
}

var _ property.Repository = (*propertyRepository)(nil) // interface compliance check

func NewPropertyRepository(exec core.DBExecutor) *propertyRepository {
	return &propertyRepository{exec: exec}
}

func (repo propertyRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return property.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo propertyRepository) CreateProperty(ctx context.Context, p property.Property) (property.Property, error) {
	p.ID = uuid.New().String()
	query := `
		INSERT INTO property (id, landlord_id, name, address, description, is_deleted, created_at, updated_at)
		VALUES (:id, :landlord_id, :name, :address, :description, :is_deleted, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, query, marshalProperty(p)); err != nil {
		return property.Property{}, errors.Wrap(err, "inserting property")
	}
	return p, nil
}

func (repo propertyRepository) QueryPropertiesByLandlord(ctx context.Context, landlordID string) ([]property.Property, error) {
	var rows []propertyRow
	query := `SELECT * FROM property WHERE landlord_id = $1 AND NOT is_deleted ORDER BY created_at`
	if err := repo.exec.SelectContext(ctx, &rows, query, landlordID); err != nil {
		return nil, errors.Wrap(err, "querying properties")
	}
	props := make([]property.Property, 0, len(rows))
	for _, row := range rows {
		props = append(props, row.unmarshal())
	}
	return props, nil
}

func (repo propertyRepository) GetProperty(ctx context.Context, id string) (property.Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return property.Property{}, property.ErrNotFound
	}
	var row propertyRow
	query := `SELECT * FROM property WHERE id = $1 AND NOT is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		return property.Property{}, repo.trapNoRowsErr(err, "finding property")
	}
	return row.unmarshal(), nil
}

func (repo propertyRepository) UpdateProperty(ctx context.Context, p property.Property) (property.Property, error) {
	query := `
		UPDATE property
		SET name = :name, address = :address, description = :description,
		    is_deleted = :is_deleted, updated_at = :updated_at
		WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, repo.exec, query, marshalProperty(p)); err != nil {
		return property.Property{}, errors.Wrap(err, "updating property")
	}
	return p, nil
}
