package spine

import (
	"context"
	_ "embed"
	"net/http"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/exceptions"
	"prescriptions-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

//go:embed sandbox_bundle.json
var sandboxBundle []byte

type sandboxSpineClient struct{}

func NewSandboxSpineClient() contracts.SpineClient {
	return &sandboxSpineClient{}
}

// GetPrescriptions returns the same example searchset for every patient.
func (c *sandboxSpineClient) GetPrescriptions(ctx context.Context, nhsNumber string, headers http.Header) (*fhir_dto.Bundle, error) {
	var bundle fhir_dto.Bundle
	err := json.Unmarshal(sandboxBundle, &bundle)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &bundle, nil
}

func (c *sandboxSpineClient) IsCertificateConfigured() bool {
	return true
}

func (c *sandboxSpineClient) GetStatus(ctx context.Context) models.StatusCheckResponse {
	return models.StatusCheckResponse{
		Status:       constvars.StatusCheckPass,
		Timeout:      "false",
		ResponseCode: constvars.StatusOK,
	}
}
