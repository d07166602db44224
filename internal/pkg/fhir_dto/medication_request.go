package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

// MedicationRequest is a single prescription line item.
type MedicationRequest struct {
	ResourceType    string                     `json:"resourceType"`
	ID              string                     `json:"id,omitempty"`
	Status          string                     `json:"status,omitempty"`
	GroupIdentifier *Identifier                `json:"groupIdentifier,omitempty"`
	DispenseRequest *DispenseRequest           `json:"dispenseRequest,omitempty"`
	Extension       []Extension                `json:"extension,omitempty"`
	Extra           map[string]json.RawMessage `json:"-"`
}

type DispenseRequest struct {
	Performer *Reference                 `json:"performer,omitempty"`
	Extra     map[string]json.RawMessage `json:"-"`
}

var (
	medicationRequestKeys = jsonKeys(MedicationRequest{})
	dispenseRequestKeys   = jsonKeys(DispenseRequest{})
)

func (m *MedicationRequest) ResourceKind() string {
	return constvars.ResourceMedicationRequest
}

func (m *MedicationRequest) UnmarshalJSON(data []byte) error {
	type plain MedicationRequest
	extra, err := decodePreserving(data, (*plain)(m), medicationRequestKeys)
	m.Extra = extra
	return err
}

func (m MedicationRequest) MarshalJSON() ([]byte, error) {
	type plain MedicationRequest
	m.ResourceType = constvars.ResourceMedicationRequest
	return encodePreserving(plain(m), m.Extra)
}

func (d *DispenseRequest) UnmarshalJSON(data []byte) error {
	type plain DispenseRequest
	extra, err := decodePreserving(data, (*plain)(d), dispenseRequestKeys)
	d.Extra = extra
	return err
}

func (d DispenseRequest) MarshalJSON() ([]byte, error) {
	type plain DispenseRequest
	return encodePreserving(plain(d), d.Extra)
}
