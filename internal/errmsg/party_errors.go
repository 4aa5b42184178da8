package errmsg

import "net/http"

var (
	PartyNotExists = NewStatusError(
		http.StatusNotFound,
		"party does not exist",
	)
	PartyWrongPassword = NewStatusError(
		http.StatusUnauthorized,
		"email or password is incorrect",
	)
	PartyInvalidPayload = NewStatusError(
		http.StatusBadRequest,
		"email and password must be provided",
	)
)
