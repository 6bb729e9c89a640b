package inmemdb

import (
	"context"
	"sort"

	"github.com/lanten/lanten/core/lease"
)

type leaseRepository struct {
	db *DB
}

var _ lease.Repository = (*leaseRepository)(nil)

func NewLeaseRepository(db *DB) *leaseRepository {
	return &leaseRepository{db: db}
}

// enrich populates the lease's joined property fields.
func (repo *leaseRepository) enrich(l lease.Lease) lease.Lease {
	if p, ok := repo.db.properties[l.PropertyID]; ok {
		l.LandlordID = p.LandlordID
		l.PropertyName = p.Name
		l.PropertyAddress = p.Address
	}
	return l
}

func (repo *leaseRepository) enrichTenant(t lease.Tenant) lease.Tenant {
	if u, ok := repo.db.users[t.TenantID]; ok {
		t.TenantName = u.Name
		t.TenantEmail = u.Email
	}
	return t
}

func (repo *leaseRepository) CreateLease(ctx context.Context, l lease.Lease) (lease.Lease, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	l.ID = newPK()
	repo.db.leases[l.ID] = &l
	return repo.enrich(l), nil
}

func (repo *leaseRepository) QueryLeasesByUser(ctx context.Context, userID string) ([]lease.Lease, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var leases []lease.Lease
	for _, l := range repo.db.leases {
		if l.IsDeleted {
			continue
		}
		el := repo.enrich(*l)
		if el.LandlordID == userID {
			leases = append(leases, el)
			continue
		}
		for _, t := range repo.db.leaseTenants {
			if t.LeaseID == l.ID && t.TenantID == userID && !t.IsDeleted {
				leases = append(leases, el)
				break
			}
		}
	}
	sort.Slice(leases, func(i, j int) bool { return leases[i].CreatedAt.Before(leases[j].CreatedAt) })
	return leases, nil
}

func (repo *leaseRepository) GetLease(ctx context.Context, id string) (lease.Lease, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if l, ok := repo.db.leases[id]; ok && !l.IsDeleted {
		return repo.enrich(*l), nil
	}
	return lease.Lease{}, lease.ErrNotFound
}

func (repo *leaseRepository) UpdateLease(ctx context.Context, l lease.Lease) (lease.Lease, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.leases[l.ID]; !ok {
		return lease.Lease{}, lease.ErrNotFound
	}
	repo.db.leases[l.ID] = &l
	return repo.enrich(l), nil
}

func (repo *leaseRepository) QueryTenants(ctx context.Context, leaseID string, activeOnly bool) ([]lease.Tenant, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var tenants []lease.Tenant
	for _, t := range repo.db.leaseTenants {
		if t.LeaseID != leaseID {
			continue
		}
		if activeOnly {
			if t.IsDeleted {
				continue
			}
			if u, ok := repo.db.users[t.TenantID]; !ok || !u.Active() {
				continue
			}
		}
		tenants = append(tenants, repo.enrichTenant(*t))
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].CreatedAt.Before(tenants[j].CreatedAt) })
	return tenants, nil
}

func (repo *leaseRepository) GetActiveTenant(ctx context.Context, leaseID, tenantID string) (lease.Tenant, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.leaseTenants {
		if t.LeaseID == leaseID && t.TenantID == tenantID && !t.IsDeleted {
			return repo.enrichTenant(*t), nil
		}
	}
	return lease.Tenant{}, lease.ErrNotActiveTenant
}

func (repo *leaseRepository) CreateTenant(ctx context.Context, t lease.Tenant) (lease.Tenant, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = newPK()
	repo.db.leaseTenants[t.ID] = &t
	return repo.enrichTenant(t), nil
}

func (repo *leaseRepository) RemoveTenant(ctx context.Context, leaseID, tenantID string) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var cnt int
	for _, t := range repo.db.leaseTenants {
		if t.LeaseID == leaseID && t.TenantID == tenantID && !t.IsDeleted {
			t.IsDeleted = true
			cnt++
		}
	}
	return cnt, nil
}

func (repo *leaseRepository) CreateInvite(ctx context.Context, inv lease.Invite) (lease.Invite, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	inv.ID = newPK()
	repo.db.invites[inv.ID] = &inv
	return inv, nil
}

func (repo *leaseRepository) GetInviteByCode(ctx context.Context, code string) (lease.Invite, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, inv := range repo.db.invites {
		if inv.InviteCode == code && !inv.IsDeleted {
			return *inv, nil
		}
	}
	return lease.Invite{}, lease.ErrInviteNotFound
}

func (repo *leaseRepository) UpdateInvite(ctx context.Context, inv lease.Invite) (lease.Invite, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.invites[inv.ID]; !ok {
		return lease.Invite{}, lease.ErrInviteNotFound
	}
	repo.db.invites[inv.ID] = &inv
	return inv, nil
}
