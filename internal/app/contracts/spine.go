package contracts

import (
	"context"
	"net/http"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/fhir_dto"
)

type SpineClient interface {
	// GetPrescriptions fetches the patient's searchset bundle. Inbound
	// trace headers are forwarded.
	GetPrescriptions(ctx context.Context, nhsNumber string, headers http.Header) (*fhir_dto.Bundle, error)
	IsCertificateConfigured() bool
	GetStatus(ctx context.Context) models.StatusCheckResponse
}
