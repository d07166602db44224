package status_updates

import (
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/fhir_utils"
)

// BuildStatusUpdateRequests lists the prescriptions worth asking the
// status service about. Prescriptions still with the prescriber, and those
// without a resolvable performer, are left out.
func BuildStatusUpdateRequests(searchsetBundle *fhir_dto.Bundle) []models.StatusUpdateRequest {
	requests := []models.StatusUpdateRequest{}
	for _, prescription := range fhir_utils.IsolatePrescriptions(searchsetBundle) {
		medicationRequests := fhir_utils.IsolateMedicationRequests(prescription)
		if len(medicationRequests) == 0 || allWithPrescriber(medicationRequests) {
			continue
		}

		reference, ok := fhir_utils.IsolatePerformerReference(medicationRequests)
		if !ok {
			continue
		}
		performer, ok := fhir_utils.IsolatePerformerOrganisation(reference, prescription)
		if !ok || performer.OdsCode() == "" {
			continue
		}

		requests = append(requests, models.StatusUpdateRequest{
			OdsCode:        performer.OdsCode(),
			PrescriptionID: fhir_utils.PrescriptionID(medicationRequests),
		})
	}
	return requests
}

func allWithPrescriber(medicationRequests []*fhir_dto.MedicationRequest) bool {
	for _, medicationRequest := range medicationRequests {
		history, ok := ReadStatusHistory(medicationRequest)
		if !ok {
			return false
		}
		if history.Status != constvars.StatusPrescriberApproved && history.Status != constvars.StatusPrescriberCancelled {
			return false
		}
	}
	return true
}
