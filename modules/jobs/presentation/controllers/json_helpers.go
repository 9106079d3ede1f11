package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/job"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/domain/aggregates/promotionrequest"
	"github.com/hulujobs/hulujobs-sdk/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		panic(err)
	}
}

func writeAPIError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// writeDomainError maps domain errors to HTTP responses. Unrecognized errors
// are reported as opaque internal failures.
func writeDomainError(w http.ResponseWriter, err error) {
	var base *serrors.BaseError
	switch {
	case errors.Is(err, job.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, "JOB_NOT_FOUND", "job not found")
	case errors.Is(err, promotionrequest.ErrNotFound):
		writeAPIError(w, http.StatusNotFound, "REQUEST_NOT_FOUND", "promotion request not found")
	case errors.Is(err, promotionrequest.ErrAlreadyProcessed):
		writeAPIError(w, http.StatusConflict, "REQUEST_ALREADY_PROCESSED", "promotion request already processed")
	case errors.Is(err, job.ErrInvalidTransition):
		writeAPIError(w, http.StatusUnprocessableEntity, "JOB_INVALID_TRANSITION", err.Error())
	case errors.Is(err, job.ErrExtendNotAllowed):
		writeAPIError(w, http.StatusUnprocessableEntity, "JOB_EXTEND_NOT_ALLOWED", err.Error())
	case errors.Is(err, job.ErrUnknownStatus):
		writeAPIError(w, http.StatusBadRequest, "JOB_UNKNOWN_STATUS", err.Error())
	case errors.Is(err, job.ErrUnknownKind):
		writeAPIError(w, http.StatusBadRequest, "JOB_UNKNOWN_KIND", err.Error())
	case errors.As(err, &base):
		writeAPIError(w, http.StatusForbidden, base.Code, base.Message)
	default:
		writeAPIError(w, http.StatusInternalServerError, "JOBS_INTERNAL", "internal error")
	}
}
