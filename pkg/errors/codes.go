package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Aliases used by generic layers (routers, repositories).
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeDocumentNotFound   = ErrCodeDocumentNotFound
	CodeConceptNotFound    = ErrCodeConceptNotFound
	CodeObligationNotFound = ErrCodeObligationNotFound
	CodeWorklogNotFound    = ErrCodeWorklogNotFound
)

// Document Module Error Codes
const (
	ErrCodeDocumentNotFound      ErrorCode = "DOC_001"
	ErrCodeDocumentLocked        ErrorCode = "DOC_002"
	ErrCodeDocumentContentEmpty  ErrorCode = "DOC_003"
	ErrCodeCASNotFound           ErrorCode = "DOC_004"
	ErrCodeCASDecodeFailed       ErrorCode = "DOC_005"
	ErrCodeCASViewMissing        ErrorCode = "DOC_006"
	ErrCodeCASEncodeFailed       ErrorCode = "DOC_007"
	ErrCodeDocumentHTMLMissing   ErrorCode = "DOC_008"
	ErrCodeDocumentNotAccepted   ErrorCode = "DOC_009"
)

// Glossary Module Error Codes
const (
	ErrCodeConceptNotFound       ErrorCode = "GLS_001"
	ErrCodeConceptInvalid        ErrorCode = "GLS_002"
	ErrCodeTermTooLong           ErrorCode = "GLS_003"
	ErrCodeLemmaEmpty            ErrorCode = "GLS_004"
	ErrCodeAcceptanceOwnerless   ErrorCode = "GLS_005"
	ErrCodeAcceptanceDualOwner   ErrorCode = "GLS_006"
	ErrCodeWorklogNotFound       ErrorCode = "GLS_007"
	ErrCodeAnnotationTypeInvalid ErrorCode = "GLS_008"
	ErrCodeOccurrenceInvalid     ErrorCode = "GLS_009"
)

// Reporting Obligation Module Error Codes
const (
	ErrCodeObligationNotFound    ErrorCode = "RO_001"
	ErrCodeObligationViewInvalid ErrorCode = "RO_002"
	ErrCodeGraphUnavailable      ErrorCode = "RO_003"
	ErrCodeGraphWriteFailed      ErrorCode = "RO_004"
	ErrCodeFragmentRoleUnknown   ErrorCode = "RO_005"
	ErrCodeObligationEmpty       ErrorCode = "RO_006"
)

// NLP Pipeline Error Codes
const (
	ErrCodeNLPServiceUnavailable ErrorCode = "NLP_001"
	ErrCodeNLPStageFailed        ErrorCode = "NLP_002"
	ErrCodeNLPResponseInvalid    ErrorCode = "NLP_003"
	ErrCodeNLPRateLimited        ErrorCode = "NLP_004"
	ErrCodeExtractionLeaseHeld   ErrorCode = "NLP_005"
	ErrCodeTextViewMissing       ErrorCode = "NLP_006"
)

// Index / Search Error Codes
const (
	ErrCodeIndexUpdateFailed   ErrorCode = "IDX_001"
	ErrCodeIndexDocumentTooBig ErrorCode = "IDX_002"
	ErrCodeIndexUnavailable    ErrorCode = "IDX_003"
)

// Infrastructure aliases
const (
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeDBQueryError      = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
	CodeSearchError       = ErrCodeIndexUpdateFailed
	CodeMessageQueueError = ErrCodeInternal
	CodeStorageError      = ErrCodeInternal
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeDocumentNotFound:     http.StatusNotFound,
	ErrCodeDocumentLocked:       http.StatusConflict,
	ErrCodeDocumentContentEmpty: http.StatusUnprocessableEntity,
	ErrCodeCASNotFound:          http.StatusNotFound,
	ErrCodeCASDecodeFailed:      http.StatusUnprocessableEntity,
	ErrCodeCASViewMissing:       http.StatusUnprocessableEntity,
	ErrCodeCASEncodeFailed:      http.StatusInternalServerError,
	ErrCodeDocumentHTMLMissing:  http.StatusNotFound,
	ErrCodeDocumentNotAccepted:  http.StatusConflict,

	ErrCodeConceptNotFound:       http.StatusNotFound,
	ErrCodeConceptInvalid:        http.StatusBadRequest,
	ErrCodeTermTooLong:           http.StatusUnprocessableEntity,
	ErrCodeLemmaEmpty:            http.StatusUnprocessableEntity,
	ErrCodeAcceptanceOwnerless:   http.StatusBadRequest,
	ErrCodeAcceptanceDualOwner:   http.StatusBadRequest,
	ErrCodeWorklogNotFound:       http.StatusNotFound,
	ErrCodeAnnotationTypeInvalid: http.StatusBadRequest,
	ErrCodeOccurrenceInvalid:     http.StatusUnprocessableEntity,

	ErrCodeObligationNotFound:    http.StatusNotFound,
	ErrCodeObligationViewInvalid: http.StatusUnprocessableEntity,
	ErrCodeGraphUnavailable:      http.StatusServiceUnavailable,
	ErrCodeGraphWriteFailed:      http.StatusInternalServerError,
	ErrCodeFragmentRoleUnknown:   http.StatusInternalServerError,
	ErrCodeObligationEmpty:       http.StatusUnprocessableEntity,

	ErrCodeNLPServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNLPStageFailed:        http.StatusBadGateway,
	ErrCodeNLPResponseInvalid:    http.StatusBadGateway,
	ErrCodeNLPRateLimited:        http.StatusTooManyRequests,
	ErrCodeExtractionLeaseHeld:   http.StatusConflict,
	ErrCodeTextViewMissing:       http.StatusUnprocessableEntity,

	ErrCodeIndexUpdateFailed:   http.StatusInternalServerError,
	ErrCodeIndexDocumentTooBig: http.StatusUnprocessableEntity,
	ErrCodeIndexUnavailable:    http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeDocumentNotFound:     "document not found",
	ErrCodeDocumentLocked:       "document extraction already in progress",
	ErrCodeDocumentContentEmpty: "document has no usable content",
	ErrCodeCASNotFound:          "stored CAS not found",
	ErrCodeCASDecodeFailed:      "failed to decode CAS payload",
	ErrCodeCASViewMissing:       "required CAS view missing",
	ErrCodeCASEncodeFailed:      "failed to encode CAS payload",
	ErrCodeDocumentHTMLMissing:  "document HTML content missing",
	ErrCodeDocumentNotAccepted:  "document is not accepted for extraction",

	ErrCodeConceptNotFound:       "concept not found",
	ErrCodeConceptInvalid:        "invalid concept",
	ErrCodeTermTooLong:           "term exceeds maximum length",
	ErrCodeLemmaEmpty:            "term has empty lemma",
	ErrCodeAcceptanceOwnerless:   "acceptance state needs a user or a probability model",
	ErrCodeAcceptanceDualOwner:   "acceptance state cannot have both a user and a probability model",
	ErrCodeWorklogNotFound:       "annotation worklog not found",
	ErrCodeAnnotationTypeInvalid: "unknown annotation type",
	ErrCodeOccurrenceInvalid:     "invalid occurrence span",

	ErrCodeObligationNotFound:    "reporting obligation not found",
	ErrCodeObligationViewInvalid: "reporting obligation view is malformed",
	ErrCodeGraphUnavailable:      "obligation graph store unavailable",
	ErrCodeGraphWriteFailed:      "failed to write obligation graph",
	ErrCodeFragmentRoleUnknown:   "unknown sentence fragment role",
	ErrCodeObligationEmpty:       "reporting obligation has no text",

	ErrCodeNLPServiceUnavailable: "NLP service unavailable",
	ErrCodeNLPStageFailed:        "NLP pipeline stage failed",
	ErrCodeNLPResponseInvalid:    "invalid NLP service response",
	ErrCodeNLPRateLimited:        "NLP service rate limited",
	ErrCodeExtractionLeaseHeld:   "another worker holds the extraction lease",
	ErrCodeTextViewMissing:       "canonical text view missing",

	ErrCodeIndexUpdateFailed:   "search index update failed",
	ErrCodeIndexDocumentTooBig: "index payload exceeds size ceiling",
	ErrCodeIndexUnavailable:    "search index unavailable",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
