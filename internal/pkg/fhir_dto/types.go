package fhir_dto

import "github.com/goccy/go-json"

type Reference struct {
	Reference string                     `json:"reference,omitempty"`
	Display   string                     `json:"display,omitempty"`
	Extra     map[string]json.RawMessage `json:"-"`
}

type Identifier struct {
	System string                     `json:"system,omitempty"`
	Value  string                     `json:"value,omitempty"`
	Extra  map[string]json.RawMessage `json:"-"`
}

type CodeableConcept struct {
	Coding []Coding                   `json:"coding,omitempty"`
	Text   string                     `json:"text,omitempty"`
	Extra  map[string]json.RawMessage `json:"-"`
}

type Coding struct {
	System  string                     `json:"system,omitempty"`
	Version string                     `json:"version,omitempty"`
	Code    string                     `json:"code,omitempty"`
	Display string                     `json:"display,omitempty"`
	Extra   map[string]json.RawMessage `json:"-"`
}

type ContactPoint struct {
	System string                     `json:"system,omitempty"`
	Use    string                     `json:"use,omitempty"`
	Value  string                     `json:"value,omitempty"`
	Extra  map[string]json.RawMessage `json:"-"`
}

type Extension struct {
	Url           string                     `json:"url"`
	ValueCoding   *Coding                    `json:"valueCoding,omitempty"`
	ValueDateTime string                     `json:"valueDateTime,omitempty"`
	ValueString   string                     `json:"valueString,omitempty"`
	Extension     []Extension                `json:"extension,omitempty"`
	Extra         map[string]json.RawMessage `json:"-"`
}

var (
	referenceKeys       = jsonKeys(Reference{})
	identifierKeys      = jsonKeys(Identifier{})
	codeableConceptKeys = jsonKeys(CodeableConcept{})
	codingKeys          = jsonKeys(Coding{})
	contactPointKeys    = jsonKeys(ContactPoint{})
	extensionKeys       = jsonKeys(Extension{})
)

func (r *Reference) UnmarshalJSON(data []byte) error {
	type plain Reference
	extra, err := decodePreserving(data, (*plain)(r), referenceKeys)
	r.Extra = extra
	return err
}

func (r Reference) MarshalJSON() ([]byte, error) {
	type plain Reference
	return encodePreserving(plain(r), r.Extra)
}

func (i *Identifier) UnmarshalJSON(data []byte) error {
	type plain Identifier
	extra, err := decodePreserving(data, (*plain)(i), identifierKeys)
	i.Extra = extra
	return err
}

func (i Identifier) MarshalJSON() ([]byte, error) {
	type plain Identifier
	return encodePreserving(plain(i), i.Extra)
}

func (c *CodeableConcept) UnmarshalJSON(data []byte) error {
	type plain CodeableConcept
	extra, err := decodePreserving(data, (*plain)(c), codeableConceptKeys)
	c.Extra = extra
	return err
}

func (c CodeableConcept) MarshalJSON() ([]byte, error) {
	type plain CodeableConcept
	return encodePreserving(plain(c), c.Extra)
}

func (c *Coding) UnmarshalJSON(data []byte) error {
	type plain Coding
	extra, err := decodePreserving(data, (*plain)(c), codingKeys)
	c.Extra = extra
	return err
}

func (c Coding) MarshalJSON() ([]byte, error) {
	type plain Coding
	return encodePreserving(plain(c), c.Extra)
}

func (c *ContactPoint) UnmarshalJSON(data []byte) error {
	type plain ContactPoint
	extra, err := decodePreserving(data, (*plain)(c), contactPointKeys)
	c.Extra = extra
	return err
}

func (c ContactPoint) MarshalJSON() ([]byte, error) {
	type plain ContactPoint
	return encodePreserving(plain(c), c.Extra)
}

func (e *Extension) UnmarshalJSON(data []byte) error {
	type plain Extension
	extra, err := decodePreserving(data, (*plain)(e), extensionKeys)
	e.Extra = extra
	return err
}

func (e Extension) MarshalJSON() ([]byte, error) {
	type plain Extension
	return encodePreserving(plain(e), e.Extra)
}
