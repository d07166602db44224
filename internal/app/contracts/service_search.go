package contracts

import (
	"context"
	"net/url"
	"prescriptions-service/internal/app/models"
)

type ServiceSearchClient interface {
	// SearchService returns the distance selling URL registered for
	// odsCode, or nil when there is none.
	SearchService(ctx context.Context, odsCode string) (*url.URL, error)
	GetStatus(ctx context.Context) models.StatusCheckResponse
}
