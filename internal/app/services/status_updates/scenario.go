package status_updates

import "prescriptions-service/internal/app/models"

type Scenario string

const (
	ScenarioPresent           Scenario = "present"
	ScenarioExpectedButAbsent Scenario = "expected_but_absent"
	ScenarioNotExpected       Scenario = "not_expected"
)

// DetermineScenario decides how a searchset is reconciled. expected is
// true when status updates were requested for this response.
func DetermineScenario(payload *models.StatusUpdatePayload, expected bool) Scenario {
	if payload != nil && payload.IsSuccess {
		return ScenarioPresent
	}
	if expected {
		return ScenarioExpectedButAbsent
	}
	return ScenarioNotExpected
}
