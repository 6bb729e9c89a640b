package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/announcement"
)

type announcementRepository struct {
	db *DB
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *DB) *announcementRepository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) enrich(a announcement.Announcement) announcement.Announcement {
	if l, ok := repo.db.leases[a.LeaseID]; ok {
		if p, ok := repo.db.properties[l.PropertyID]; ok {
			a.LandlordID = p.LandlordID
		}
	}
	return a
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a.ID = newPK()
	repo.db.announcements[a.ID] = &a
	return repo.enrich(a), nil
}

func (repo *announcementRepository) QueryAnnouncementsByLease(ctx context.Context, leaseID string) ([]announcement.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var anns []announcement.Announcement
	for _, a := range repo.db.announcements {
		if a.LeaseID == leaseID && !a.IsDeleted {
			anns = append(anns, repo.enrich(*a))
		}
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *announcementRepository) GetAnnouncement(ctx context.Context, id string) (announcement.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.announcements[id]; ok && !a.IsDeleted {
		return repo.enrich(*a), nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.announcements[a.ID]; !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	repo.db.announcements[a.ID] = &a
	return repo.enrich(a), nil
}
