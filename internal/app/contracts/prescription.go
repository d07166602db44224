package contracts

import (
	"context"
	"net/http"
	"prescriptions-service/internal/app/models"
)

type PrescriptionUsecase interface {
	GetEnrichedPrescriptions(ctx context.Context, headers http.Header) *models.PrescriptionsResult
}
