package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"voting/internal/api/util"
	"voting/internal/core/service"
)

var errBodyTooLarge = errors.New("request body too large")

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	var maxErr *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &maxErr):
		return errBodyTooLarge
	}
	return err
}

func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		util.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	util.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
}

// writeError maps a service error onto its HTTP status. Anything that is not
// a service error is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch service.KindOf(err) {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindUnauthenticated:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "")
		return
	}
	util.ErrorResponse(w, status, err.Error())
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, err := util.GetUserClaims(r)
	if err != nil {
		util.ErrorResponse(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}
	return claims.UserID, true
}
