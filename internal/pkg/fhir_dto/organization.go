package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

type Organization struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Identifier   []Identifier               `json:"identifier,omitempty"`
	Name         string                     `json:"name,omitempty"`
	Telecom      []ContactPoint             `json:"telecom,omitempty"`
	Address      json.RawMessage            `json:"address,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

var organizationKeys = jsonKeys(Organization{})

func (o *Organization) ResourceKind() string {
	return constvars.ResourceOrganization
}

// OdsCode is the value of the first identifier.
func (o *Organization) OdsCode() string {
	if len(o.Identifier) == 0 {
		return ""
	}
	return o.Identifier[0].Value
}

func (o *Organization) UnmarshalJSON(data []byte) error {
	type plain Organization
	extra, err := decodePreserving(data, (*plain)(o), organizationKeys)
	o.Extra = extra
	return err
}

func (o Organization) MarshalJSON() ([]byte, error) {
	type plain Organization
	o.ResourceType = constvars.ResourceOrganization
	return encodePreserving(plain(o), o.Extra)
}
