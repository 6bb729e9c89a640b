package maintenance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lanten/lanten/core"
)

var (
	NowFunc = time.Now // mockable

	ErrNotFound            = errors.New("maintenance request not found")
	ErrRequestTypeNotFound = errors.New("request type not found")
)

type (
	Repository interface {
		QueryRequestTypes(ctx context.Context) ([]RequestType, error)
		GetRequestType(ctx context.Context, id string) (RequestType, error)

		CreateRequest(ctx context.Context, req Request) (Request, error)
		QueryRequestsByLease(ctx context.Context, leaseID string) ([]Request, error)
		GetRequest(ctx context.Context, id string) (Request, error)
		UpdateRequest(ctx context.Context, req Request) (Request, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) RequestTypes(ctx context.Context) ([]RequestType, error) {
	return svc.repo.QueryRequestTypes(ctx)
}

// Create opens a new request in PENDING status on behalf of a tenant.
func (svc *Service) Create(ctx context.Context, leaseID, tenantID string, nr NewRequest) (Request, error) {
	if _, err := svc.repo.GetRequestType(ctx, nr.RequestTypeID); err != nil {
		if errors.Cause(err) == ErrRequestTypeNotFound {
			return Request{}, core.NewValidationError(err, core.FieldError{Field: "request_type_id", Error: ErrRequestTypeNotFound.Error()})
		}
		return Request{}, err
	}

	now := NowFunc().UTC()
	return svc.repo.CreateRequest(ctx, Request{
		LeaseID:       leaseID,
		RequestTypeID: nr.RequestTypeID,
		TenantID:      tenantID,
		Description:   nr.Description,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *Service) QueryByLease(ctx context.Context, leaseID string) ([]Request, error) {
	return svc.repo.QueryRequestsByLease(ctx, leaseID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequest(ctx, id)
}

// UpdateStatus moves a request through its lifecycle; only the landlord may
// call it (enforced at the API boundary).
func (svc *Service) UpdateStatus(ctx context.Context, id string, ur UpdateRequest) (Request, error) {
	req, err := svc.repo.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	req.Status = ur.Status
	req.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateRequest(ctx, req)
}

// Delete soft-deletes a request.
func (svc *Service) Delete(ctx context.Context, id string) error {
	req, err := svc.repo.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	req.IsDeleted = true
	req.UpdatedAt = NowFunc().UTC()
	_, err = svc.repo.UpdateRequest(ctx, req)
	return err
}
