// Package handlers exposes the catalogue over HTTP: the annotator-store
// compatible annotation API, concept/obligation/document browsing,
// acceptance verdicts, extraction dispatch, and health probes.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/regcat-io/regcat/pkg/errors"
)

// defaultPageSize bounds listings when the client sends no limit.
const defaultPageSize = 20

// maxPageSize caps the per-page row count.
const maxPageSize = 100

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error onto an HTTP status and writes the
// standard error body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsCode(err, errors.ErrCodeValidation),
		errors.IsCode(err, errors.ErrCodeBadRequest),
		errors.IsCode(err, errors.ErrCodeAnnotationTypeInvalid):
		status = http.StatusBadRequest
	case errors.IsCode(err, errors.ErrCodeConflict):
		status = http.StatusConflict
	case errors.IsCode(err, errors.ErrCodeServiceUnavailable),
		errors.IsCode(err, errors.ErrCodeExternalService),
		errors.IsCode(err, errors.ErrCodeGraphUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    string(errors.GetCode(err)),
		Message: err.Error(),
	})
}

// badRequest writes a 400 with a plain validation message.
func badRequest(c *gin.Context, message string) {
	respondError(c, errors.New(errors.ErrCodeValidation, message))
}

// errNoDispatcher is returned by the extraction triggers when the API runs
// without a broker connection.
func errNoDispatcher() error {
	return errors.New(errors.ErrCodeServiceUnavailable, "extraction dispatch is not configured")
}

// uuidParam parses a path parameter as a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name+" identifier")
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads limit/offset query parameters with bounded defaults.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

//Personal.AI order the ending
