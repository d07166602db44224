package fhir_dto

import (
	"prescriptions-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

type Bundle struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Type         string                     `json:"type,omitempty"`
	Total        *int                       `json:"total,omitempty"`
	Entry        []BundleEntry              `json:"entry,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

type BundleEntry struct {
	FullUrl  string                     `json:"fullUrl,omitempty"`
	Resource Resource                   `json:"-"`
	Extra    map[string]json.RawMessage `json:"-"`
}

var (
	bundleKeys      = jsonKeys(Bundle{})
	bundleEntryKeys = map[string]struct{}{"fullUrl": {}, "resource": {}}
)

func (b *Bundle) ResourceKind() string {
	return constvars.ResourceBundle
}

func (b *Bundle) UnmarshalJSON(data []byte) error {
	type plain Bundle
	extra, err := decodePreserving(data, (*plain)(b), bundleKeys)
	b.Extra = extra
	return err
}

func (b Bundle) MarshalJSON() ([]byte, error) {
	type plain Bundle
	b.ResourceType = constvars.ResourceBundle
	return encodePreserving(plain(b), b.Extra)
}

func (e *BundleEntry) UnmarshalJSON(data []byte) error {
	var decoded struct {
		FullUrl  string          `json:"fullUrl"`
		Resource json.RawMessage `json:"resource"`
	}
	extra, err := decodePreserving(data, &decoded, bundleEntryKeys)
	if err != nil {
		return err
	}

	e.FullUrl = decoded.FullUrl
	e.Extra = extra
	e.Resource = nil
	if len(decoded.Resource) > 0 && string(decoded.Resource) != "null" {
		resource, err := DecodeResource(decoded.Resource)
		if err != nil {
			return err
		}
		e.Resource = resource
	}
	return nil
}

func (e BundleEntry) MarshalJSON() ([]byte, error) {
	encoded := struct {
		FullUrl  string   `json:"fullUrl,omitempty"`
		Resource Resource `json:"resource,omitempty"`
	}{
		FullUrl:  e.FullUrl,
		Resource: e.Resource,
	}
	return encodePreserving(encoded, e.Extra)
}
