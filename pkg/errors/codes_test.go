package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 422},
		{ErrCodeDocumentLocked, 409},
		{ErrCodeTermTooLong, 422},
		{ErrCodeGraphUnavailable, 503},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code))
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.False(t, IsServerError(ErrCodeBadRequest))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "DOC", ModuleForCode(ErrCodeDocumentNotFound))
	assert.Equal(t, "GLS", ModuleForCode(ErrCodeConceptNotFound))
	assert.Equal(t, "RO", ModuleForCode(ErrCodeObligationNotFound))
	assert.Equal(t, "NLP", ModuleForCode(ErrCodeNLPStageFailed))
	assert.Equal(t, "IDX", ModuleForCode(ErrCodeIndexUpdateFailed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeBadRequest, ErrCodeDocumentNotFound,
		ErrCodeConceptNotFound, ErrCodeObligationNotFound,
		ErrCodeNLPServiceUnavailable, ErrCodeIndexUpdateFailed,
	}
	for _, code := range allCodes {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	allCodes := []ErrorCode{
		ErrCodeInternal, ErrCodeDocumentNotFound, ErrCodeDocumentLocked,
		ErrCodeConceptNotFound, ErrCodeTermTooLong, ErrCodeAcceptanceDualOwner,
		ErrCodeObligationNotFound, ErrCodeGraphWriteFailed,
		ErrCodeNLPStageFailed, ErrCodeExtractionLeaseHeld,
		ErrCodeIndexUpdateFailed, ErrCodeIndexDocumentTooBig,
	}
	for _, code := range allCodes {
		_, hasStatus := ErrorCodeHTTPStatus[code]
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasStatus, "missing status for %s", code)
		assert.True(t, hasMessage, "missing message for %s", code)
	}
}

//Personal.AI order the ending
