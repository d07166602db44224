// Package fhir_utils walks searchset bundles returned by the registry. None
// of the functions mutate their input.
package fhir_utils

import (
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"
)

// EntryPredicate selects bundle entries.
type EntryPredicate func(entry fhir_dto.BundleEntry) bool

// ByResourceKind matches entries holding a resource of the given type.
func ByResourceKind(kind string) EntryPredicate {
	return func(entry fhir_dto.BundleEntry) bool {
		return entry.Resource != nil && entry.Resource.ResourceKind() == kind
	}
}

// FilterAndTypeEntries returns the resources of the entries matched by
// predicate as T, in entry order. Entries whose resource is not a T are
// dropped even when the predicate accepts them.
func FilterAndTypeEntries[T fhir_dto.Resource](bundle *fhir_dto.Bundle, predicate EntryPredicate) []T {
	if bundle == nil {
		return nil
	}

	var resources []T
	for _, entry := range bundle.Entry {
		if !predicate(entry) {
			continue
		}
		resource, ok := entry.Resource.(T)
		if !ok {
			continue
		}
		resources = append(resources, resource)
	}
	return resources
}

func IsolatePrescriptions(searchsetBundle *fhir_dto.Bundle) []*fhir_dto.Bundle {
	return FilterAndTypeEntries[*fhir_dto.Bundle](searchsetBundle, ByResourceKind(constvars.ResourceBundle))
}

func IsolateMedicationRequests(prescription *fhir_dto.Bundle) []*fhir_dto.MedicationRequest {
	return FilterAndTypeEntries[*fhir_dto.MedicationRequest](prescription, ByResourceKind(constvars.ResourceMedicationRequest))
}

func IsolateOperationOutcomes(searchsetBundle *fhir_dto.Bundle) []*fhir_dto.OperationOutcome {
	return FilterAndTypeEntries[*fhir_dto.OperationOutcome](searchsetBundle, ByResourceKind(constvars.ResourceOperationOutcome))
}

// IsolatePerformerReference returns the performer reference of the first
// line item that has one.
func IsolatePerformerReference(medicationRequests []*fhir_dto.MedicationRequest) (string, bool) {
	for _, medicationRequest := range medicationRequests {
		if medicationRequest == nil || medicationRequest.DispenseRequest == nil {
			continue
		}
		performer := medicationRequest.DispenseRequest.Performer
		if performer != nil && performer.Reference != "" {
			return performer.Reference, true
		}
	}
	return "", false
}

// IsolatePerformerOrganisation finds the Organization entry whose fullUrl
// equals reference.
func IsolatePerformerOrganisation(reference string, prescription *fhir_dto.Bundle) (*fhir_dto.Organization, bool) {
	organisations := FilterAndTypeEntries[*fhir_dto.Organization](prescription, func(entry fhir_dto.BundleEntry) bool {
		return entry.FullUrl == reference
	})
	if len(organisations) == 0 {
		return nil, false
	}
	return organisations[0], true
}

// IsolatePerformerOrganisations returns one organisation per prescription
// whose performer can be resolved.
func IsolatePerformerOrganisations(searchsetBundle *fhir_dto.Bundle) []*fhir_dto.Organization {
	var organisations []*fhir_dto.Organization
	for _, prescription := range IsolatePrescriptions(searchsetBundle) {
		reference, ok := IsolatePerformerReference(IsolateMedicationRequests(prescription))
		if !ok {
			continue
		}
		organisation, ok := IsolatePerformerOrganisation(reference, prescription)
		if !ok {
			continue
		}
		organisations = append(organisations, organisation)
	}
	return organisations
}

// PrescriptionID is the group identifier shared by the line items of one
// prescription, read from the first item.
func PrescriptionID(medicationRequests []*fhir_dto.MedicationRequest) string {
	if len(medicationRequests) == 0 || medicationRequests[0].GroupIdentifier == nil {
		return ""
	}
	return medicationRequests[0].GroupIdentifier.Value
}
