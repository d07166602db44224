package contracts

import (
	"context"
	"prescriptions-service/internal/app/models"
)

// ServicesCache maps lower cased ODS codes to pharmacy lookups. Get
// reports false for codes never stored.
type ServicesCache interface {
	Get(ctx context.Context, odsCode string) (models.ServiceEntry, bool, error)
	Set(ctx context.Context, odsCode string, entry models.ServiceEntry) error
}
