package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

type PractitionerRole struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Practitioner *Reference                 `json:"practitioner,omitempty"`
	Organization *Reference                 `json:"organization,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

var practitionerRoleKeys = jsonKeys(PractitionerRole{})

func (p *PractitionerRole) ResourceKind() string {
	return constvars.ResourcePractitionerRole
}

func (p *PractitionerRole) UnmarshalJSON(data []byte) error {
	type plain PractitionerRole
	extra, err := decodePreserving(data, (*plain)(p), practitionerRoleKeys)
	p.Extra = extra
	return err
}

func (p PractitionerRole) MarshalJSON() ([]byte, error) {
	type plain PractitionerRole
	p.ResourceType = constvars.ResourcePractitionerRole
	return encodePreserving(plain(p), p.Extra)
}
