package property

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("property not found")

type (
	Repository interface {
		CreateProperty(ctx context.Context, prop Property) (Property, error)
		QueryPropertiesByLandlord(ctx context.Context, landlordID string) ([]Property, error)
		GetProperty(ctx context.Context, id string) (Property, error)
		UpdateProperty(ctx context.Context, prop Property) (Property, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, landlordID string, np NewProperty) (Property, error) {
	now := time.Now().UTC()
	prop := Property{
		LandlordID:  landlordID,
		Name:        np.Name,
		Address:     np.Address,
		Description: np.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateProperty(ctx, prop)
}

// QueryByLandlord returns the landlord's non-deleted properties.
func (svc *Service) QueryByLandlord(ctx context.Context, landlordID string) ([]Property, error) {
	return svc.repo.QueryPropertiesByLandlord(ctx, landlordID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Property, error) {
	return svc.repo.GetProperty(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProperty) (Property, error) {
	prop, err := svc.repo.GetProperty(ctx, id)
	if err != nil {
		return Property{}, err
	}
	prop.Name = up.Name
	prop.Address = up.Address
	prop.Description = up.Description
	prop.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProperty(ctx, prop)
}

// Delete soft-deletes a property.
func (svc *Service) Delete(ctx context.Context, id string) error {
	prop, err := svc.repo.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	prop.IsDeleted = true
	prop.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateProperty(ctx, prop)
	return err
}
