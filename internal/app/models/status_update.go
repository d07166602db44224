package models

// StatusUpdateRequest asks the status service about one prescription at
// the pharmacy that dispenses it.
type StatusUpdateRequest struct {
	OdsCode        string `json:"odsCode"`
	PrescriptionID string `json:"prescriptionID"`
}

type StatusUpdateRequestBody struct {
	SchemaVersion int                   `json:"schemaVersion"`
	Prescriptions []StatusUpdateRequest `json:"prescriptions"`
}

type StatusUpdatePayload struct {
	SchemaVersion int                        `json:"schemaVersion"`
	IsSuccess     bool                       `json:"isSuccess"`
	Prescriptions []PrescriptionStatusRecord `json:"prescriptions" validate:"dive"`
}

type PrescriptionStatusRecord struct {
	PrescriptionID string             `json:"prescriptionID" validate:"required"`
	Onboarded      bool               `json:"onboarded"`
	Items          []ItemStatusUpdate `json:"items" validate:"dive"`
}

// ItemStatusUpdate carries IsTerminalState as the string "true" or "false".
type ItemStatusUpdate struct {
	ItemId             string `json:"itemId" validate:"required"`
	LatestStatus       string `json:"latestStatus" validate:"required"`
	IsTerminalState    string `json:"isTerminalState" validate:"bool_string"`
	LastUpdateDateTime string `json:"lastUpdateDateTime" validate:"required"`
}

// StatusHistory is the logical value of a line item's status history
// extension.
type StatusHistory struct {
	Status     string
	StatusDate string
}
