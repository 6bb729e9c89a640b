package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/property"
)

type propertyRepository struct {
	db *DB
}

var _ property.Repository = (*propertyRepository)(nil)

func NewPropertyRepository(db *DB) *propertyRepository {
	return &propertyRepository{db: db}
}

func (repo *propertyRepository) CreateProperty(ctx context.Context, p property.Property) (property.Property, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = newPK()
	repo.db.properties[p.ID] = &p
	return p, nil
}

func (repo *propertyRepository) QueryPropertiesByLandlord(ctx context.Context, landlordID string) ([]property.Property, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var props []property.Property
	for _, p := range repo.db.properties {
		if p.LandlordID == landlordID && !p.IsDeleted {
			props = append(props, *p)
		}
	}
	sort.Slice(props, func(i, j int) bool { return props[i].CreatedAt.Before(props[j].CreatedAt) })
	return props, nil
}

func (repo *propertyRepository) GetProperty(ctx context.Context, id string) (property.Property, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.properties[id]; ok && !p.IsDeleted {
		return *p, nil
	}
	return property.Property{}, property.ErrNotFound
}

func (repo *propertyRepository) UpdateProperty(ctx context.Context, p property.Property) (property.Property, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.properties[p.ID]; !ok {
		return property.Property{}, property.ErrNotFound
	}
	repo.db.properties[p.ID] = &p
	return p, nil
}
