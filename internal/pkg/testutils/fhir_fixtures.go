// Package testutils builds registry bundles for package tests.
package testutils

import (
	"fmt"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

const (
	OdsCodeSystem          = "https://fhir.nhs.uk/Id/ods-organization-code"
	PrescriptionIDSystem   = "https://fhir.nhs.uk/Id/prescription-order-number"
	SampleAddress          = `[{"line":["17 Austhorpe Road","Crossgates"],"city":"Leeds","postalCode":"LS15 8BA"}]`
	SampleMedicationCoding = `{"coding":[{"system":"http://snomed.info/sct","code":"39720311000001101","display":"Amoxicillin 250mg capsules"}]}`
)

// PrescriptionSpec describes one prescription bundle.
type PrescriptionSpec struct {
	PrescriptionID string
	OdsCode        string
	ItemIDs        []string
	NoPerformer    bool
}

func performerFullUrl(prescriptionID string) string {
	return fmt.Sprintf("urn:uuid:organization-%s", prescriptionID)
}

func MedicationRequest(itemID, prescriptionID, performerReference string) *fhir_dto.MedicationRequest {
	medicationRequest := &fhir_dto.MedicationRequest{
		ResourceType: constvars.ResourceMedicationRequest,
		ID:           itemID,
		Status:       constvars.MedicationRequestStatusActive,
		GroupIdentifier: &fhir_dto.Identifier{
			System: PrescriptionIDSystem,
			Value:  prescriptionID,
		},
		Extra: map[string]json.RawMessage{
			"intent":                    json.RawMessage(`"order"`),
			"medicationCodeableConcept": json.RawMessage(SampleMedicationCoding),
		},
	}
	if performerReference != "" {
		medicationRequest.DispenseRequest = &fhir_dto.DispenseRequest{
			Performer: &fhir_dto.Reference{Reference: performerReference},
			Extra: map[string]json.RawMessage{
				"quantity": json.RawMessage(`{"value":20,"unit":"capsule"}`),
			},
		}
	}
	return medicationRequest
}

func Organization(odsCode string) *fhir_dto.Organization {
	return &fhir_dto.Organization{
		ResourceType: constvars.ResourceOrganization,
		ID:           "organization-" + odsCode,
		Identifier:   []fhir_dto.Identifier{{System: OdsCodeSystem, Value: odsCode}},
		Name:         "Pharmacy " + odsCode,
		Telecom:      []fhir_dto.ContactPoint{{System: "phone", Use: "work", Value: "0113 3180277"}},
		Address:      json.RawMessage(SampleAddress),
	}
}

func Prescription(spec PrescriptionSpec) *fhir_dto.Bundle {
	performerReference := performerFullUrl(spec.PrescriptionID)
	if spec.NoPerformer {
		performerReference = ""
	}

	bundle := &fhir_dto.Bundle{
		ResourceType: constvars.ResourceBundle,
		ID:           "bundle-" + spec.PrescriptionID,
		Type:         constvars.BundleTypeCollection,
	}
	for _, itemID := range spec.ItemIDs {
		bundle.Entry = append(bundle.Entry, fhir_dto.BundleEntry{
			FullUrl:  "urn:uuid:" + itemID,
			Resource: MedicationRequest(itemID, spec.PrescriptionID, performerReference),
		})
	}
	bundle.Entry = append(bundle.Entry, fhir_dto.BundleEntry{
		FullUrl: "urn:uuid:practitioner-role-" + spec.PrescriptionID,
		Resource: &fhir_dto.PractitionerRole{
			ResourceType: constvars.ResourcePractitionerRole,
			ID:           "practitioner-role-" + spec.PrescriptionID,
			Organization: &fhir_dto.Reference{Reference: "urn:uuid:prescriber-" + spec.PrescriptionID},
		},
	})
	if spec.OdsCode != "" {
		bundle.Entry = append(bundle.Entry, fhir_dto.BundleEntry{
			FullUrl:  performerFullUrl(spec.PrescriptionID),
			Resource: Organization(spec.OdsCode),
		})
	}
	return bundle
}

func OperationOutcome(prescriptionID string) *fhir_dto.OperationOutcome {
	return &fhir_dto.OperationOutcome{
		ResourceType: constvars.ResourceOperationOutcome,
		ID:           "outcome-" + prescriptionID,
		Issue: []fhir_dto.OperationOutcomeIssue{{
			Severity:    constvars.IssueSeverityWarning,
			Code:        "processing",
			Diagnostics: fmt.Sprintf("Prescription with short form ID %s has been invalidated so could not be returned.", prescriptionID),
		}},
	}
}

// SearchsetBundle wraps prescription bundles and outcomes in order.
func SearchsetBundle(resources ...fhir_dto.Resource) *fhir_dto.Bundle {
	total := 0
	bundle := &fhir_dto.Bundle{
		ResourceType: constvars.ResourceBundle,
		ID:           "searchset",
		Type:         constvars.BundleTypeSearchset,
	}
	for i, resource := range resources {
		if resource.ResourceKind() == constvars.ResourceBundle {
			total++
		}
		bundle.Entry = append(bundle.Entry, fhir_dto.BundleEntry{
			FullUrl:  fmt.Sprintf("urn:uuid:searchset-entry-%d", i),
			Resource: resource,
		})
	}
	bundle.Total = &total
	return bundle
}

// MedicationRequests returns the line items of the nth prescription.
func MedicationRequests(searchsetBundle *fhir_dto.Bundle, prescriptionIndex int) []*fhir_dto.MedicationRequest {
	var prescriptions []*fhir_dto.Bundle
	for _, entry := range searchsetBundle.Entry {
		if prescription, ok := entry.Resource.(*fhir_dto.Bundle); ok {
			prescriptions = append(prescriptions, prescription)
		}
	}
	var medicationRequests []*fhir_dto.MedicationRequest
	for _, entry := range prescriptions[prescriptionIndex].Entry {
		if medicationRequest, ok := entry.Resource.(*fhir_dto.MedicationRequest); ok {
			medicationRequests = append(medicationRequests, medicationRequest)
		}
	}
	return medicationRequests
}

// Organizations returns every Organization in the searchset, in order.
func Organizations(searchsetBundle *fhir_dto.Bundle) []*fhir_dto.Organization {
	var organizations []*fhir_dto.Organization
	for _, entry := range searchsetBundle.Entry {
		prescription, ok := entry.Resource.(*fhir_dto.Bundle)
		if !ok {
			continue
		}
		for _, inner := range prescription.Entry {
			if organization, ok := inner.Resource.(*fhir_dto.Organization); ok {
				organizations = append(organizations, organization)
			}
		}
	}
	return organizations
}
