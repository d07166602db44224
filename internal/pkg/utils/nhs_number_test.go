package utils

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNHSNumber(t *testing.T) {
	validNumbers := []string{"9912003071", "9999681778", "5623367550", "9449304130", "9449310475"}

	for _, nhsNumber := range validNumbers {
		t.Run("valid "+nhsNumber, func(t *testing.T) {
			got, err := ValidateNHSNumber(nhsNumber)
			require.NoError(t, err)
			assert.Equal(t, nhsNumber, got)
		})

		t.Run("mutated check digit of "+nhsNumber, func(t *testing.T) {
			last := nhsNumber[9]
			for digit := byte('0'); digit <= '9'; digit++ {
				if digit == last {
					continue
				}
				mutated := nhsNumber[:9] + string(digit)
				_, err := ValidateNHSNumber(mutated)
				assert.ErrorIs(t, err, ErrChecksumInvalid, mutated)
			}
		})
	}

	t.Run("check digit of ten is never valid", func(t *testing.T) {
		for digit := byte('0'); digit <= '9'; digit++ {
			_, err := ValidateNHSNumber("123456789" + string(digit))
			assert.ErrorIs(t, err, ErrChecksumInvalid)
		}
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := ValidateNHSNumber("99120030a1")
		assert.ErrorIs(t, err, ErrIdentifierMalformed)
	})
}

func TestExtractNHSNumber(t *testing.T) {
	tests := []struct {
		name         string
		nhsLoginUser string
		want         string
		wantErr      error
	}{
		{name: "valid P9 user", nhsLoginUser: "P9:9912003071", want: "9912003071"},
		{name: "missing", nhsLoginUser: "", wantErr: ErrIdentifierMissing},
		{name: "no separator", nhsLoginUser: "P99912003071", wantErr: ErrIdentifierMalformed},
		{name: "too short", nhsLoginUser: "P9:991200307", wantErr: ErrIdentifierMalformed},
		{name: "too long", nhsLoginUser: "P9:99120030711", wantErr: ErrIdentifierMalformed},
		{name: "not numeric", nhsLoginUser: "P9:A912003071", wantErr: ErrIdentifierMalformed},
		{name: "P5 proofing level", nhsLoginUser: "P5:9912003071", wantErr: ErrProofingLevelInsufficient},
		{name: "bad check digit", nhsLoginUser: "P9:9912003072", wantErr: ErrChecksumInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractNHSNumber(tt.nhsLoginUser)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsNHSNumberValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractNHSNumberFromHeaders(t *testing.T) {
	t.Run("login user with proofing level prefix", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("nhsd-nhslogin-user", "P9:9999681778")

		got, err := ExtractNHSNumberFromHeaders(headers)
		require.NoError(t, err)
		assert.Equal(t, "9999681778", got)
	})

	t.Run("proofing level in its own header", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("nhsd-nhslogin-user", "9999681778")
		headers.Set("nhs-login-identity-proofing-level", "P9")

		got, err := ExtractNHSNumberFromHeaders(headers)
		require.NoError(t, err)
		assert.Equal(t, "9999681778", got)
	})

	t.Run("proofing level header with prefixed user", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("nhsd-nhslogin-user", "P9:9999681778")
		headers.Set("nhs-login-identity-proofing-level", "P9")

		_, err := ExtractNHSNumberFromHeaders(headers)
		assert.ErrorIs(t, err, ErrIdentifierMalformed)
	})

	t.Run("no headers", func(t *testing.T) {
		_, err := ExtractNHSNumberFromHeaders(http.Header{})
		assert.ErrorIs(t, err, ErrIdentifierMissing)
	})
}
