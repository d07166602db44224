package service_search

import (
	"context"
	"net/url"
	"prescriptions-service/internal/app/contracts"
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"strings"
)

// sandboxDistanceSellers are the pharmacies the sandbox reports as online.
var sandboxDistanceSellers = map[string]string{
	"flm49": "https://www.pharmacy2u.co.uk",
	"few08": "https://www.pharmacy2u.co.uk",
}

type sandboxServiceSearchClient struct{}

func NewSandboxServiceSearchClient() contracts.ServiceSearchClient {
	return &sandboxServiceSearchClient{}
}

func (c *sandboxServiceSearchClient) SearchService(ctx context.Context, odsCode string) (*url.URL, error) {
	rawUrl, ok := sandboxDistanceSellers[strings.ToLower(odsCode)]
	if !ok {
		return nil, nil
	}
	return url.Parse(rawUrl)
}

func (c *sandboxServiceSearchClient) GetStatus(ctx context.Context) models.StatusCheckResponse {
	return models.StatusCheckResponse{
		Status:       constvars.StatusCheckPass,
		Timeout:      "false",
		ResponseCode: constvars.StatusOK,
	}
}
