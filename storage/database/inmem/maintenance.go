package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/maintenance"
)

type maintenanceRepository struct {
	db *DB
}

var _ maintenance.Repository = (*maintenanceRepository)(nil)

func NewMaintenanceRepository(db *DB) *maintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (repo *maintenanceRepository) enrich(req maintenance.Request) maintenance.Request {
	if rt, ok := repo.db.requestTypes[req.RequestTypeID]; ok {
		req.RequestTypeName = rt.Name
	}
	if l, ok := repo.db.leases[req.LeaseID]; ok {
		if p, ok := repo.db.properties[l.PropertyID]; ok {
			req.LandlordID = p.LandlordID
		}
	}
	return req
}

func (repo *maintenanceRepository) QueryRequestTypes(ctx context.Context) ([]maintenance.RequestType, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	types := make([]maintenance.RequestType, 0, len(repo.db.requestTypes))
	for _, rt := range repo.db.requestTypes {
		types = append(types, *rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

func (repo *maintenanceRepository) GetRequestType(ctx context.Context, id string) (maintenance.RequestType, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rt, ok := repo.db.requestTypes[id]; ok {
		return *rt, nil
	}
	return maintenance.RequestType{}, maintenance.ErrRequestTypeNotFound
}

func (repo *maintenanceRepository) CreateRequest(ctx context.Context, req maintenance.Request) (maintenance.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	req.ID = newPK()
	repo.db.requests[req.ID] = &req
	return repo.enrich(req), nil
}

func (repo *maintenanceRepository) QueryRequestsByLease(ctx context.Context, leaseID string) ([]maintenance.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var reqs []maintenance.Request
	for _, req := range repo.db.requests {
		if req.LeaseID == leaseID && !req.IsDeleted {
			reqs = append(reqs, repo.enrich(*req))
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *maintenanceRepository) GetRequest(ctx context.Context, id string) (maintenance.Request, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.requests[id]; ok && !req.IsDeleted {
		return repo.enrich(*req), nil
	}
	return maintenance.Request{}, maintenance.ErrNotFound
}

func (repo *maintenanceRepository) UpdateRequest(ctx context.Context, req maintenance.Request) (maintenance.Request, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.requests[req.ID]; !ok {
		return maintenance.Request{}, maintenance.ErrNotFound
	}
	repo.db.requests[req.ID] = &req
	return repo.enrich(req), nil
}
