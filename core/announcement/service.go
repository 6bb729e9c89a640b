package announcement

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		QueryAnnouncementsByLease(ctx context.Context, leaseID string) ([]Announcement, error)
		GetAnnouncement(ctx context.Context, id string) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, leaseID string, na NewAnnouncement) (Announcement, error) {
	now := NowFunc().UTC()
	return svc.repo.CreateAnnouncement(ctx, Announcement{
		LeaseID:   leaseID,
		Title:     na.Title,
		Message:   na.Message,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryByLease(ctx context.Context, leaseID string) ([]Announcement, error) {
	return svc.repo.QueryAnnouncementsByLease(ctx, leaseID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncement(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, na NewAnnouncement) (Announcement, error) {
	a, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	a.Title = na.Title
	a.Message = na.Message
	a.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateAnnouncement(ctx, a)
}

// Delete soft-deletes an announcement.
func (svc *Service) Delete(ctx context.Context, id string) error {
	a, err := svc.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return err
	}
	a.IsDeleted = true
	a.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdateAnnouncement(ctx, a)
	return err
}
