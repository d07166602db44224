package contracts

import (
	"context"
	"prescriptions-service/internal/pkg/fhir_dto"
)

type DistanceSelling interface {
	// Search adds delivery URLs to the performer organisations of every
	// prescription in searchsetBundle, in place.
	Search(ctx context.Context, searchsetBundle *fhir_dto.Bundle)
	ProcessOdsCodes(ctx context.Context, organisations []*fhir_dto.Organization)
}
