package place

import "context"

// Service defines the place operations used by the transport layer.
type Service interface {
	CreatePlace(ctx context.Context, in CreatePlaceRequest) (*Place, error)
	UpdatePlace(ctx context.Context, in UpdatePlaceRequest) (*Place, error)
	DeletePlace(ctx context.Context, in DeletePlaceRequest) error
	ListPlaces(ctx context.Context, in ListPlacesRequest) ([]PlaceView, error)
}

var _ Service = (*Usecase)(nil)
