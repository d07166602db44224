package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

// Resource is implemented by every decoded bundle entry resource. The kind
// is the FHIR resourceType the value was decoded from.
type Resource interface {
	ResourceKind() string
}

// RawResource holds a resource of a type this service never inspects.
type RawResource struct {
	ResourceType string
	Raw          json.RawMessage
}

func (r *RawResource) ResourceKind() string {
	return r.ResourceType
}

func (r *RawResource) MarshalJSON() ([]byte, error) {
	return r.Raw, nil
}

// DecodeResource dispatches on resourceType.
func DecodeResource(data []byte) (Resource, error) {
	var head struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var resource Resource
	switch head.ResourceType {
	case constvars.ResourceBundle:
		resource = &Bundle{}
	case constvars.ResourceMedicationRequest:
		resource = &MedicationRequest{}
	case constvars.ResourceOrganization:
		resource = &Organization{}
	case constvars.ResourcePractitionerRole:
		resource = &PractitionerRole{}
	case constvars.ResourceOperationOutcome:
		resource = &OperationOutcome{}
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return &RawResource{ResourceType: head.ResourceType, Raw: raw}, nil
	}

	if err := json.Unmarshal(data, resource); err != nil {
		return nil, err
	}
	return resource, nil
}
