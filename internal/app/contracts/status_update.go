package contracts

import (
	"context"
	"prescriptions-service/internal/app/models"
)

type StatusUpdateClient interface {
	GetStatusUpdates(ctx context.Context, requests []models.StatusUpdateRequest) (*models.StatusUpdatePayload, error)
}
