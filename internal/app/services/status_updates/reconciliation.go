package status_updates

import (
	"prescriptions-service/internal/app/models"
	"prescriptions-service/internal/pkg/constvars"
	"prescriptions-service/internal/pkg/fhir_dto"
	"prescriptions-service/internal/pkg/fhir_utils"
	"strings"
	"time"
)

// ApplyStatusUpdates reconciles every line item of searchsetBundle against
// payload, in place. A payload that reports failure changes nothing.
func ApplyStatusUpdates(searchsetBundle *fhir_dto.Bundle, payload *models.StatusUpdatePayload, now time.Time) {
	if payload == nil || !payload.IsSuccess {
		return
	}
	timestamp := formatTimestamp(now)

	for _, prescription := range fhir_utils.IsolatePrescriptions(searchsetBundle) {
		medicationRequests := fhir_utils.IsolateMedicationRequests(prescription)
		record, found := findRecord(payload, fhir_utils.PrescriptionID(medicationRequests))

		if !found || !record.Onboarded {
			for _, medicationRequest := range medicationRequests {
				applyDefault(medicationRequest, constvars.StatusWithPharmacy, timestamp)
			}
			continue
		}

		for _, medicationRequest := range medicationRequests {
			update, ok := findItemUpdate(record, medicationRequest.ID)
			if !ok {
				applyDefault(medicationRequest, constvars.StatusWithPharmacyTrackingUnavailable, timestamp)
				continue
			}
			medicationRequest.Status = constvars.MedicationRequestStatusActive
			if strings.EqualFold(update.IsTerminalState, "true") {
				medicationRequest.Status = constvars.MedicationRequestStatusCompleted
			}
			WriteStatusHistory(medicationRequest, models.StatusHistory{
				Status:     update.LatestStatus,
				StatusDate: update.LastUpdateDateTime,
			})
		}
	}
}

// ApplyTemporaryStatusUpdates marks the items of every requested
// prescription as temporarily untracked.
func ApplyTemporaryStatusUpdates(searchsetBundle *fhir_dto.Bundle, requests []models.StatusUpdateRequest, now time.Time) {
	requested := make(map[string]struct{}, len(requests))
	for _, request := range requests {
		requested[request.PrescriptionID] = struct{}{}
	}
	timestamp := formatTimestamp(now)

	for _, prescription := range fhir_utils.IsolatePrescriptions(searchsetBundle) {
		medicationRequests := fhir_utils.IsolateMedicationRequests(prescription)
		if _, ok := requested[fhir_utils.PrescriptionID(medicationRequests)]; !ok {
			continue
		}
		for _, medicationRequest := range medicationRequests {
			applyDefault(medicationRequest, constvars.StatusTrackingTemporarilyUnavailable, timestamp)
		}
	}
}

func applyDefault(medicationRequest *fhir_dto.MedicationRequest, status, timestamp string) {
	medicationRequest.Status = constvars.MedicationRequestStatusActive
	WriteStatusHistory(medicationRequest, models.StatusHistory{Status: status, StatusDate: timestamp})
}

// findRecord returns the first record for prescriptionID.
func findRecord(payload *models.StatusUpdatePayload, prescriptionID string) (models.PrescriptionStatusRecord, bool) {
	for _, record := range payload.Prescriptions {
		if record.PrescriptionID == prescriptionID {
			return record, true
		}
	}
	return models.PrescriptionStatusRecord{}, false
}

func findItemUpdate(record models.PrescriptionStatusRecord, itemID string) (models.ItemStatusUpdate, bool) {
	for _, item := range record.Items {
		if item.ItemId == itemID {
			return item, true
		}
	}
	return models.ItemStatusUpdate{}, false
}

func formatTimestamp(now time.Time) string {
	return now.UTC().Format(constvars.FHIRInstantFormat)
}

// ReadStatusHistory reads the status history extension by sub extension
// url, so the order of the sub extensions does not matter.
func ReadStatusHistory(medicationRequest *fhir_dto.MedicationRequest) (models.StatusHistory, bool) {
	index := statusHistoryIndex(medicationRequest)
	if index < 0 {
		return models.StatusHistory{}, false
	}

	var history models.StatusHistory
	for _, sub := range medicationRequest.Extension[index].Extension {
		switch sub.Url {
		case constvars.ExtensionStatusHistoryStatus:
			if sub.ValueCoding != nil {
				history.Status = sub.ValueCoding.Code
			} else {
				history.Status = sub.ValueString
			}
		case constvars.ExtensionStatusHistoryStatusDate:
			history.StatusDate = sub.ValueDateTime
		}
	}
	return history, true
}

// WriteStatusHistory replaces the status history extension in place, or
// appends one when the item has none. Other extensions are untouched.
func WriteStatusHistory(medicationRequest *fhir_dto.MedicationRequest, history models.StatusHistory) {
	extension := fhir_dto.Extension{
		Url: constvars.ExtensionPrescriptionStatusHistory,
		Extension: []fhir_dto.Extension{
			{
				Url: constvars.ExtensionStatusHistoryStatus,
				ValueCoding: &fhir_dto.Coding{
					System: constvars.CodeSystemPrescriptionStatus,
					Code:   history.Status,
				},
			},
			{
				Url:           constvars.ExtensionStatusHistoryStatusDate,
				ValueDateTime: history.StatusDate,
			},
		},
	}

	index := statusHistoryIndex(medicationRequest)
	if index < 0 {
		medicationRequest.Extension = append(medicationRequest.Extension, extension)
		return
	}
	medicationRequest.Extension[index] = extension
}

func statusHistoryIndex(medicationRequest *fhir_dto.MedicationRequest) int {
	for i, extension := range medicationRequest.Extension {
		if extension.Url == constvars.ExtensionPrescriptionStatusHistory {
			return i
		}
	}
	return -1
}
