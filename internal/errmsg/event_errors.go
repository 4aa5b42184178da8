package errmsg

import "net/http"

var (
	EventInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"event payload could not be parsed",
	)
	EventNotExists = NewStatusError(
		http.StatusNotFound,
		"event does not exist",
	)
	EventInvalidStage = NewStatusError(
		http.StatusBadRequest,
		"stage must be either Alert or Event",
	)
	EventEndsBeforeStart = NewStatusError(
		http.StatusBadRequest,
		"endedAt must not be earlier than startedAt",
	)
	EventNumberTaken = NewStatusError(
		http.StatusBadRequest,
		"event number is already in use",
	)
	EventNumberImmutable = NewStatusError(
		http.StatusBadRequest,
		"event number cannot be changed after creation",
	)
)
