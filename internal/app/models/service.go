package models

// ServiceEntry is a cached pharmacy lookup. An empty URL records that the
// lookup found no delivery service.
type ServiceEntry struct {
	URL string `json:"url"`
}

func (e ServiceEntry) IsAbsent() bool {
	return e.URL == ""
}

type StatusCheckResponse struct {
	Status       string `json:"status"`
	Timeout      string `json:"timeout"`
	ResponseCode int    `json:"responseCode"`
	Outcome      string `json:"outcome,omitempty"`
	Links        string `json:"links,omitempty"`
}

// StatusResponse is the body of the service status endpoint.
type StatusResponse struct {
	Status   string                         `json:"status"`
	CommitID string                         `json:"commitId"`
	Checks   map[string]StatusCheckResponse `json:"checks"`
}
