package utils

import (
	"errors"
	"fmt"
	"net/http"
	"prescriptions-service/internal/pkg/constvars"
	"strings"
)

var (
	ErrIdentifierMissing         = errors.New("nhs login user not passed in")
	ErrIdentifierMalformed       = errors.New("NHS number failed preflight checks")
	ErrProofingLevelInsufficient = errors.New("identity proofing level is not " + constvars.RequiredProofingLevel)
	ErrChecksumInvalid           = errors.New("invalid check digit in NHS number")
)

const nhsNumberLength = 10

// ExtractNHSNumberFromHeaders reads the patient's NHS number from the NHS
// login headers. When the proofing level travels in its own header the
// login user header carries the bare number.
func ExtractNHSNumberFromHeaders(headers http.Header) (string, error) {
	nhsLoginUser := headers.Get(constvars.HeaderNHSLoginUser)
	if headers.Get(constvars.HeaderNHSLoginIdentityProofingLevel) != "" {
		if nhsLoginUser == "" {
			return "", ErrIdentifierMissing
		}
		if !isTenDigits(nhsLoginUser) {
			return "", fmt.Errorf("%w: %q", ErrIdentifierMalformed, nhsLoginUser)
		}
		return ValidateNHSNumber(nhsLoginUser)
	}
	return ExtractNHSNumber(nhsLoginUser)
}

// ExtractNHSNumber parses "<proofing level>:<nhs number>".
func ExtractNHSNumber(nhsLoginUser string) (string, error) {
	if nhsLoginUser == "" {
		return "", ErrIdentifierMissing
	}

	proofingLevel, nhsNumber, found := strings.Cut(nhsLoginUser, ":")
	if !found || !isTenDigits(nhsNumber) {
		return "", fmt.Errorf("%w: %q", ErrIdentifierMalformed, nhsLoginUser)
	}
	if proofingLevel != constvars.RequiredProofingLevel {
		return "", fmt.Errorf("%w: got %q", ErrProofingLevelInsufficient, proofingLevel)
	}
	return ValidateNHSNumber(nhsNumber)
}

// ValidateNHSNumber applies the modulus 11 check digit.
func ValidateNHSNumber(nhsNumber string) (string, error) {
	if !isTenDigits(nhsNumber) {
		return "", fmt.Errorf("%w: %q", ErrIdentifierMalformed, nhsNumber)
	}

	sum := 0
	for i := 0; i < nhsNumberLength-1; i++ {
		sum += int(nhsNumber[i]-'0') * (nhsNumberLength - i)
	}

	checkDigit := 11 - sum%11
	if checkDigit == 11 {
		checkDigit = 0
	}
	// 10 has no single digit form, so no number can carry it.
	if checkDigit == 10 || checkDigit != int(nhsNumber[nhsNumberLength-1]-'0') {
		return "", fmt.Errorf("%w %s", ErrChecksumInvalid, nhsNumber)
	}
	return nhsNumber, nil
}

func isTenDigits(value string) bool {
	if len(value) != nhsNumberLength {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
