package handlers

import "net/http"

func Health(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Xenon match accrual API is running"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
