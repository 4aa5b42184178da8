package errmsg

import "net/http"

var (
	ChangeLogInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"changelog payload could not be parsed",
	)
	ChangeLogNotExists = NewStatusError(
		http.StatusNotFound,
		"changelog does not exist",
	)
	ChangeLogEventRequired = NewStatusError(
		http.StatusBadRequest,
		"changelog must reference an event",
	)
	ChangeLogEventNotExists = NewStatusError(
		http.StatusBadRequest,
		"referenced event does not exist",
	)
	ChangeLogEventImmutable = NewStatusError(
		http.StatusBadRequest,
		"changelog event reference cannot be changed after creation",
	)
	ChangeLogInvalidUse = NewStatusError(
		http.StatusBadRequest,
		"use must be one of change, notification, need, effect, assessment, action, exposure",
	)
	ChangeLogNegativeValue = NewStatusError(
		http.StatusBadRequest,
		"value must not be negative",
	)
	ChangeLogUseMismatch = NewStatusError(
		http.StatusBadRequest,
		"payload carries fields that are not meaningful for the given use",
	)
)
