package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/lanten/lanten/core"
	"github.com/lanten/lanten/core/announcement"
)

type announcementRow struct {
	ID        string    `db:"id"`
	LeaseID   string    `db:"lease_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt null.Time `db:"created_at"`
	UpdatedAt null.Time `db:"updated_at"`

	LandlordID null.String `db:"landlord_id"`
}

func (row announcementRow) unmarshal() announcement.Announcement {
	return announcement.Announcement{
		ID:         row.ID,
		LeaseID:    row.LeaseID,
		Title:      row.Title,
		Message:    row.Message,
		IsDeleted:  row.IsDeleted,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
		LandlordID: row.LandlordID.String,
	}
}

type announcementRepository struct {
	exec core.DBExecutor
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(exec core.DBExecutor) *announcementRepository {
	return &announcementRepository{exec: exec}
}

const announcementSelect = `
	SELECT a.*, p.landlord_id
	FROM announcement a
	JOIN lease l ON l.id = a.lease_id
	JOIN property p ON p.id = l.property_id`

func (repo announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	a.ID = uuid.New().String()
	query := `
		INSERT INTO announcement (id, lease_id, title, message, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.exec.ExecContext(ctx, query, a.ID, a.LeaseID, a.Title, a.Message, a.IsDeleted, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return repo.GetAnnouncement(ctx, a.ID)
}

func (repo announcementRepository) QueryAnnouncementsByLease(ctx context.Context, leaseID string) ([]announcement.Announcement, error) {
	var rows []announcementRow
	query := announcementSelect + ` WHERE a.lease_id = $1 AND NOT a.is_deleted ORDER BY a.created_at DESC`
	if err := repo.exec.SelectContext(ctx, &rows, query, leaseID); err != nil {
		return nil, errors.Wrap(err, "querying lease announcements")
	}
	anns := make([]announcement.Announcement, 0, len(rows))
	for _, row := range rows {
		anns = append(anns, row.unmarshal())
	}
	return anns, nil
}

func (repo announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	if _, err := uuid.Parse(id); err != nil {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	var row announcementRow
	query := announcementSelect + ` WHERE a.id = $1 AND NOT a.is_deleted`
	if err := repo.exec.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "finding announcement")
	}
	return row.unmarshal(), nil
}

func (repo announcementRepository) UpdateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	query := `
		UPDATE announcement
		SET title = $2, message = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`
	_, err := repo.exec.ExecContext(ctx, query, a.ID, a.Title, a.Message, a.IsDeleted, a.UpdatedAt)
	if err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return a, nil
}
