// Package errors provides coded domain errors with localized messages.
package errors

import "net/http"

// Code is a machine-readable error code. Codes double as message keys in the
// auth catalog namespace.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidRequest         Code = "INVALID_REQUEST"
	CodeRegisterFieldsRequired Code = "REGISTER_FIELDS_REQUIRED"
	CodeFaceDataRequired       Code = "FACE_DATA_REQUIRED"

	// User errors
	CodeUsernameTaken     Code = "USERNAME_TAKEN"
	CodeUserNotFound      Code = "USER_NOT_FOUND"
	CodeFaceNotRecognized Code = "FACE_NOT_RECOGNIZED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps the code to the HTTP status the auth API answers with.
//
// Credential outcomes are reported in the response body with 200, so only
// malformed requests and internal failures change the status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeRegisterFieldsRequired,
		CodeFaceDataRequired,
		CodeUsernameTaken,
		CodeUserNotFound,
		CodeFaceNotRecognized:
		return http.StatusOK
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
