package constvars

const (
	ResourceBundle            = "Bundle"
	ResourceMedicationRequest = "MedicationRequest"
	ResourceOrganization      = "Organization"
	ResourcePractitionerRole  = "PractitionerRole"
	ResourceOperationOutcome  = "OperationOutcome"
)

const (
	BundleTypeSearchset  = "searchset"
	BundleTypeCollection = "collection"
)

const (
	MedicationRequestStatusActive    = "active"
	MedicationRequestStatusCompleted = "completed"
)

const (
	ContactPointSystemURL = "url"
	ContactPointUseWork   = "work"
)

const (
	ExtensionPrescriptionStatusHistory = "https://fhir.nhs.uk/StructureDefinition/Extension-DM-PrescriptionStatusHistory"
	ExtensionStatusHistoryStatus       = "status"
	ExtensionStatusHistoryStatusDate   = "statusDate"

	CodeSystemPrescriptionStatus = "https://fhir.nhs.uk/CodeSystem/task-businessStatus-nppt"
)

const (
	StatusWithPharmacy                    = "With Pharmacy"
	StatusWithPharmacyTrackingUnavailable = "With Pharmacy - Tracking Unavailable"
	StatusTrackingTemporarilyUnavailable  = "Tracking Temporarily Unavailable"
	StatusPrescriberApproved              = "Prescriber Approved"
	StatusPrescriberCancelled             = "Prescriber Cancelled"
)

// FHIRInstantFormat renders timestamps with millisecond precision in UTC.
const FHIRInstantFormat = "2006-01-02T15:04:05.000Z"

const (
	IssueSeverityFatal       = "fatal"
	IssueSeverityError       = "error"
	IssueSeverityWarning     = "warning"
	IssueSeverityInformation = "information"

	IssueCodeTimeout   = "timeout"
	IssueCodeException = "exception"
	IssueCodeSecurity  = "security"
	IssueCodeValue     = "value"
	IssueCodeThrottled = "throttled"
)

const (
	CodeSystemHTTPErrorCodes        = "https://fhir.nhs.uk/CodeSystem/http-error-codes"
	CodeSystemSpineErrorOrWarning   = "https://fhir.nhs.uk/CodeSystem/Spine-ErrorOrWarningCode"
	OutcomeCodeTimeout              = "TIMEOUT"
	OutcomeCodeServerError          = "SERVER_ERROR"
	OutcomeCodeInvalidResourceID    = "INVALID_RESOURCE_ID"
	OutcomeCodeTooManyRequests      = "TOO_MANY_REQUESTS"
	OutcomeDisplayTimeout           = "408: The request timed out."
	OutcomeDisplayServerError       = "500: The Server has encountered an error processing the request."
	OutcomeDisplayInvalidResourceID = "Invalid resource ID"
	OutcomeDisplayTooManyRequests   = "429: Too Many Requests."
	OutcomeDiagnosticsCertNotSet    = "Spine certificate is not configured"
)

const (
	SpinePrescriptionsPath    = "mm/patientfacingprescriptions"
	SpineHealthcheckPath      = "healthcheck"
	ServiceSearchPath         = "service-search"
	ServiceSearchAPIVersion   = "2"
	ServiceSearchFields       = "ODSCode"
	ServiceSearchFilter       = "OrganisationTypeId eq 'PHA' and OrganisationSubType eq 'DistanceSelling'"
	ServiceSearchSelect       = "URL,OrganisationSubType"
	ServiceSearchTop          = "1"
	ServiceSearchMaxRetries   = 3
	StatusUpdateSchemaVersion = 1
)
