package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

type OperationOutcome struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Issue        []OperationOutcomeIssue    `json:"issue"`
	Extra        map[string]json.RawMessage `json:"-"`
}

type OperationOutcomeIssue struct {
	Severity    string                     `json:"severity"`
	Code        string                     `json:"code"`
	Details     *CodeableConcept           `json:"details,omitempty"`
	Diagnostics string                     `json:"diagnostics,omitempty"`
	Extra       map[string]json.RawMessage `json:"-"`
}

var (
	operationOutcomeKeys      = jsonKeys(OperationOutcome{})
	operationOutcomeIssueKeys = jsonKeys(OperationOutcomeIssue{})
)

func (o *OperationOutcome) ResourceKind() string {
	return constvars.ResourceOperationOutcome
}

func (o *OperationOutcome) UnmarshalJSON(data []byte) error {
	type plain OperationOutcome
	extra, err := decodePreserving(data, (*plain)(o), operationOutcomeKeys)
	o.Extra = extra
	return err
}

func (o OperationOutcome) MarshalJSON() ([]byte, error) {
	type plain OperationOutcome
	o.ResourceType = constvars.ResourceOperationOutcome
	return encodePreserving(plain(o), o.Extra)
}

func (i *OperationOutcomeIssue) UnmarshalJSON(data []byte) error {
	type plain OperationOutcomeIssue
	extra, err := decodePreserving(data, (*plain)(i), operationOutcomeIssueKeys)
	i.Extra = extra
	return err
}

func (i OperationOutcomeIssue) MarshalJSON() ([]byte, error) {
	type plain OperationOutcomeIssue
	return encodePreserving(plain(i), i.Extra)
}
