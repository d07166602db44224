package models

import "net/http"

// PrescriptionsResult is the response assembled by the prescriptions
// pipeline. Body is a searchset bundle or an OperationOutcome.
type PrescriptionsResult struct {
	StatusCode           int
	Body                 interface{}
	Headers              http.Header
	StatusUpdateRequests []StatusUpdateRequest
}
