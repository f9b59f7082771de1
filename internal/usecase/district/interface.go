package district

import "context"

// Service defines the district operations used by the transport layer.
type Service interface {
	CreateDistrict(ctx context.Context, in CreateDistrictRequest) (*District, error)
	UpdateDistrict(ctx context.Context, in UpdateDistrictRequest) (*District, error)
	DeleteDistrict(ctx context.Context, in DeleteDistrictRequest) error
	ListDistricts(ctx context.Context) ([]District, error)
}

var _ Service = (*Usecase)(nil)
